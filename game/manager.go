package game

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"livepoker.com/server/internal/playerkeys"
	"livepoker.com/server/nats"
	"livepoker.com/server/util"
)

var managerLogger = log.With().Str("logger_name", "game::manager").Logger()

// Table command input errors, rejected before any table state is
// touched.
var (
	ErrMissingGameID   = errors.New("missing gameId")
	ErrMissingPlayerID = errors.New("missing playerHash")
)

// Manager is the process-wide table catalog. Tables are created lazily
// on first reference to their id and live for the process lifetime. The
// catalog itself only needs lookup/insert synchronization; every
// command runs under the target table's own lock.
type Manager struct {
	settings  Settings
	keys      *playerkeys.Cache
	persist   PersistTableState
	publisher nats.Publisher
	tables    cmap.ConcurrentMap
}

func NewManager(settings Settings, keys *playerkeys.Cache, persist PersistTableState, publisher nats.Publisher) *Manager {
	return &Manager{
		settings:  settings,
		keys:      keys,
		persist:   persist,
		publisher: publisher,
		tables:    cmap.New(),
	}
}

// GetTable returns the table for the id, creating it on first
// reference.
func (m *Manager) GetTable(gameID string) (*Table, error) {
	id := strings.TrimSpace(gameID)
	if id == "" {
		return nil, ErrMissingGameID
	}
	if v, ok := m.tables.Get(id); ok {
		return v.(*Table), nil
	}
	table := NewTable(id, m.settings, m.keys)
	if !m.tables.SetIfAbsent(id, table) {
		v, _ := m.tables.Get(id)
		return v.(*Table), nil
	}
	util.Metrics.SetActiveTableCount(m.tables.Count())
	managerLogger.Info().Str("tableID", id).Msg("Table created")
	return table, nil
}

// TableIDs lists every table known to the process.
func (m *Manager) TableIDs() []string {
	return m.tables.Keys()
}

func (m *Manager) Join(gameID string, playerHash string) (*TableView, error) {
	if playerHash == "" {
		return nil, ErrMissingPlayerID
	}
	table, err := m.GetTable(gameID)
	if err != nil {
		return nil, err
	}
	view, err := table.Join(playerHash)
	if err != nil {
		return nil, err
	}
	m.afterCommand(table.ID(), "player-joined", view)
	return view, nil
}

func (m *Manager) Status(gameID string) (*TableView, error) {
	table, err := m.GetTable(gameID)
	if err != nil {
		return nil, err
	}
	return table.Status(), nil
}

func (m *Manager) Act(gameID string, playerHash string, action Action) (*TableView, error) {
	if playerHash == "" {
		return nil, ErrMissingPlayerID
	}
	table, err := m.GetTable(gameID)
	if err != nil {
		return nil, err
	}
	view, err := table.Act(playerHash, action)
	if err != nil {
		return nil, err
	}
	m.afterCommand(table.ID(), "action-applied", view)
	return view, nil
}

func (m *Manager) AddBots(gameID string, count int) (*TableView, error) {
	table, err := m.GetTable(gameID)
	if err != nil {
		return nil, err
	}
	view, err := table.AddBots(count)
	if err != nil {
		return nil, err
	}
	m.afterCommand(table.ID(), "bots-added", view)
	return view, nil
}

func (m *Manager) RemoveBots(gameID string, count int) (*TableView, error) {
	table, err := m.GetTable(gameID)
	if err != nil {
		return nil, err
	}
	view, err := table.RemoveBots(count)
	if err != nil {
		return nil, err
	}
	m.afterCommand(table.ID(), "bots-removed", view)
	return view, nil
}

func (m *Manager) Hand(gameID string, playerHash string) (*HandBundle, error) {
	if playerHash == "" {
		return nil, ErrMissingPlayerID
	}
	table, err := m.GetTable(gameID)
	if err != nil {
		return nil, err
	}
	bundle, err := table.Hand(playerHash)
	if err != nil {
		return nil, err
	}
	m.afterCommand(table.ID(), "hand-requested", table.Status())
	return bundle, nil
}

// afterCommand records the post-command snapshot and fans the event
// out. Neither failure affects the already-applied command.
func (m *Manager) afterCommand(tableID string, eventType string, view *TableView) {
	if err := m.persist.Save(tableID, view); err != nil {
		managerLogger.Warn().Str("tableID", tableID).Msgf("Unable to persist table state: %v", err)
	}
	data, err := jsoniter.Marshal(view)
	if err != nil {
		managerLogger.Warn().Str("tableID", tableID).Msgf("Unable to marshal table event: %v", err)
		return
	}
	if err := m.publisher.PublishTableEvent(tableID, eventType, data); err != nil {
		managerLogger.Warn().Str("tableID", tableID).Msgf("Unable to publish table event: %v", err)
	}
}
