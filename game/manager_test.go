package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livepoker.com/server/internal/playerkeys"
	"livepoker.com/server/nats"
)

func newTestManager(t *testing.T) (*Manager, *MemoryTableStateTracker) {
	t.Helper()
	keys, err := playerkeys.NewCache()
	require.NoError(t, err)
	tracker := NewMemoryTableStateTracker()
	return NewManager(DefaultSettings(), keys, tracker, nats.NewNoopPublisher()), tracker
}

func TestGetTableCreatesLazily(t *testing.T) {
	manager, _ := newTestManager(t)

	table, err := manager.GetTable("  t1 ")
	require.NoError(t, err)
	assert.Equal(t, "t1", table.ID())

	// Same id resolves to the same table.
	again, err := manager.GetTable("t1")
	require.NoError(t, err)
	assert.Same(t, table, again)

	assert.ElementsMatch(t, []string{"t1"}, manager.TableIDs())
}

func TestGetTableRejectsMissingID(t *testing.T) {
	manager, _ := newTestManager(t)
	_, err := manager.GetTable("   ")
	assert.Equal(t, ErrMissingGameID, err)
	_, err = manager.Join("", "p1")
	assert.Equal(t, ErrMissingGameID, err)
}

func TestCommandsRejectMissingPlayer(t *testing.T) {
	manager, _ := newTestManager(t)
	_, err := manager.Join("t1", "")
	assert.Equal(t, ErrMissingPlayerID, err)
	_, err = manager.Act("t1", "", Action{Type: ActionFold})
	assert.Equal(t, ErrMissingPlayerID, err)
	_, err = manager.Hand("t1", "")
	assert.Equal(t, ErrMissingPlayerID, err)
}

func TestJoinPersistsSnapshot(t *testing.T) {
	manager, tracker := newTestManager(t)

	view, err := manager.Join("t1", "p1")
	require.NoError(t, err)
	assert.Equal(t, string(PhaseWaiting), view.Phase)

	stored, err := tracker.Load("t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", stored.ID)
	require.Len(t, stored.Players, 1)
	assert.Equal(t, "p1", stored.Players[0].Hash)

	// The snapshot follows the table through the hand start.
	_, err = manager.Join("t1", "p2")
	require.NoError(t, err)
	stored, err = tracker.Load("t1")
	require.NoError(t, err)
	assert.Equal(t, string(PhasePreflop), stored.Phase)
	assert.Equal(t, 15, stored.Pot)
}

func TestManagerActFlow(t *testing.T) {
	manager, _ := newTestManager(t)
	manager.Join("t1", "p1")
	manager.Join("t1", "p2")

	view, err := manager.Act("t1", "p2", Action{Type: ActionCall})
	require.NoError(t, err)
	assert.Equal(t, 20, view.Pot)

	_, err = manager.Act("t1", "p2", Action{Type: ActionCheck})
	require.Error(t, err)
	assert.Equal(t, "not your turn", err.Error())

	// Tables are independent: a second table starts fresh.
	view, err = manager.Join("t2", "p1")
	require.NoError(t, err)
	assert.Equal(t, string(PhaseWaiting), view.Phase)
	assert.ElementsMatch(t, []string{"t1", "t2"}, manager.TableIDs())
}
