package game

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"livepoker.com/server/internal/playerkeys"
	"livepoker.com/server/logging"
	"livepoker.com/server/poker"
	"livepoker.com/server/util"
	"livepoker.com/server/zk"
)

var tableLogger = log.With().Str("logger_name", "game::table").Logger()

// Phase is the table's position in the hand lifecycle. Phases only move
// forward; a new hand starts the cycle over.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePreflop  Phase = "preflop"
	PhaseFlop     Phase = "flop"
	PhaseTurn     Phase = "turn"
	PhaseRiver    Phase = "river"
	PhaseShowdown Phase = "showdown"
)

// Table owns one table's full lifecycle: seating, dealing, blinds, turn
// order, betting legality, phase progression and showdown resolution.
//
// Every exported method runs as one atomic unit under the table lock, so
// commands against the same table never interleave. currentTurnIndex is
// the single source of truth for whose turn it is; pendingActors is an
// ordered queue consulted for round completion and raise reopening, and
// both are only ever updated together inside the lock.
type Table struct {
	lock sync.Mutex

	id       string
	settings Settings
	keys     *playerkeys.Cache

	players          []*Player
	pot              int
	phase            Phase
	dealerIndex      int
	currentTurnIndex int
	handNumber       int
	lastAction       *LastAction
	actionCount      int

	currentBet    int
	roundBets     map[string]int
	roundActions  map[string]bool
	pendingActors []string

	deck           []poker.Card
	community      []poker.Card
	revealedCount  int
	hands          map[string][]poker.Card
	encryptedHands map[string][]string
	deckCommitment string
	winner         string

	createdAt time.Time
	updatedAt time.Time
}

func NewTable(id string, settings Settings, keys *playerkeys.Cache) *Table {
	now := time.Now()
	return &Table{
		id:             id,
		settings:       settings,
		keys:           keys,
		phase:          PhaseWaiting,
		roundBets:      make(map[string]int),
		roundActions:   make(map[string]bool),
		pendingActors:  []string{},
		hands:          make(map[string][]poker.Card),
		encryptedHands: make(map[string][]string),
		createdAt:      now,
		updatedAt:      now,
	}
}

func (t *Table) ID() string {
	return t.id
}

// Join seats a player. Joining is idempotent for an already-seated
// identity. New seats are rejected once dealing has started. Reaching
// two seats while still waiting auto-initializes the first hand.
func (t *Table) Join(playerHash string) (*TableView, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.findPlayer(playerHash) == nil {
		if t.phase != PhaseWaiting {
			return nil, GameStartedError{}
		}
		if len(t.players) >= t.settings.MaxSeats {
			return nil, IllegalActionError{Msg: "table is full"}
		}
		t.players = append(t.players, newPlayer(playerHash, t.settings.StartingStack))
		tableLogger.Info().
			Str(logging.TableIDKey, t.id).
			Str(logging.PlayerIDKey, playerHash).
			Msgf("Player took seat %d", len(t.players)-1)
	}
	t.maybeStartHand()
	t.touch()
	return t.view(), nil
}

// Status returns the current table view.
func (t *Table) Status() *TableView {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.view()
}

// Act applies one betting action for the given player and then lets any
// bot seats whose turn comes up play themselves.
func (t *Table) Act(playerHash string, action Action) (*TableView, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.handleAction(playerHash, action); err != nil {
		util.Metrics.ActionRejected()
		return nil, err
	}
	util.Metrics.ActionApplied()
	t.runBotTurns()
	t.touch()
	return t.view(), nil
}

// AddBots seats count bot players (clamped to 1..MaxBotsPerAdd and the
// free seats), auto-starting the hand at two seats.
func (t *Table) AddBots(count int) (*TableView, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	addCount := clamp(count, 1, t.settings.MaxBotsPerAdd)
	for i := 0; i < addCount; i++ {
		if len(t.players) >= t.settings.MaxSeats {
			break
		}
		bot := newBotPlayer(t.settings.StartingStack)
		t.players = append(t.players, bot)
		tableLogger.Info().
			Str(logging.TableIDKey, t.id).
			Str(logging.PlayerIDKey, bot.Hash).
			Msg("Bot took a seat")
	}
	t.maybeStartHand()
	t.runBotTurns()
	t.touch()
	return t.view(), nil
}

// RemoveBots removes up to count bot seats, last-seated first. A bot
// removed mid-hand is purged from the pending queue, its round bets and
// its hole cards.
func (t *Table) RemoveBots(count int) (*TableView, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	removeCount := clamp(count, 1, t.settings.MaxBotsPerAdd)
	for i := 0; i < removeCount; i++ {
		idx := -1
		for j := len(t.players) - 1; j >= 0; j-- {
			if t.players[j].IsBot {
				idx = j
				break
			}
		}
		if idx == -1 {
			break
		}
		removed := t.players[idx]
		t.players = append(t.players[:idx], t.players[idx+1:]...)
		t.removePending(removed.Hash)
		delete(t.roundBets, removed.Hash)
		delete(t.hands, removed.Hash)
		delete(t.encryptedHands, removed.Hash)
	}
	t.touch()
	return t.view(), nil
}

// Hand returns the viewer's two encrypted hole cards with the deck
// commitment and a proof token. It lazily deals the first hand when two
// or more players are seated and no hand has been dealt yet.
func (t *Table) Hand(playerHash string) (*HandBundle, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.deckCommitment == "" {
		if len(t.players) < 2 {
			return nil, NotReadyError{Msg: "waiting for players"}
		}
		t.initializeHand()
	}
	cards, ok := t.ensureEncryptedHand(playerHash)
	if !ok {
		return nil, HandNotReadyError{}
	}
	encrypted := EncryptedHand{PlayerHash: playerHash, Cards: cards}
	proof := zk.CreateProof(handProofPayload{
		EncryptedHand:  encrypted,
		DeckCommitment: t.deckCommitment,
	})
	t.touch()
	return &HandBundle{
		DeckCommitment: t.deckCommitment,
		EncryptedHand:  encrypted,
		Proof:          proof,
	}, nil
}

func (t *Table) findPlayer(playerHash string) *Player {
	for _, p := range t.players {
		if p.Hash == playerHash {
			return p
		}
	}
	return nil
}

func (t *Table) playerIndex(playerHash string) int {
	for i, p := range t.players {
		if p.Hash == playerHash {
			return i
		}
	}
	return -1
}

func (t *Table) maybeStartHand() {
	if len(t.players) >= 2 && t.phase == PhaseWaiting {
		t.initializeHand()
	}
}

// initializeHand replaces all per-hand state: rotates the dealer, deals
// a freshly shuffled committed deck and posts the blinds. The first
// actor is the seat after the big blind.
func (t *Table) initializeHand() {
	t.handNumber++
	t.pot = 0
	t.winner = ""
	for _, p := range t.players {
		p.Folded = false
		p.LastAction = ""
	}
	if t.handNumber == 1 {
		t.dealerIndex = 0
	} else {
		t.dealerIndex = t.nextActiveIndex(t.dealerIndex)
	}

	deck := poker.NewDeck()
	t.deck = deck.Cards()
	t.deckCommitment = zk.PoseidonHash(deck.Serialize())
	t.hands = make(map[string][]poker.Card)
	t.encryptedHands = make(map[string][]string)
	for i, p := range t.players {
		t.hands[p.Hash] = []poker.Card{t.deck[i*2], t.deck[i*2+1]}
		t.ensureEncryptedHand(p.Hash)
	}
	numHole := len(t.players) * 2
	t.community = t.deck[numHole : numHole+5]
	t.revealedCount = 0

	t.phase = PhasePreflop
	t.actionCount = 0
	t.currentBet = t.settings.BigBlind
	t.roundBets = make(map[string]int)
	t.roundActions = make(map[string]bool)

	sbIndex := t.nextActiveIndex(t.dealerIndex)
	bbIndex := t.nextActiveIndex(sbIndex)
	t.postBlind(sbIndex, t.settings.SmallBlind)
	t.postBlind(bbIndex, t.settings.BigBlind)

	t.setPendingActors(t.nextActiveIndex(bbIndex))

	util.Metrics.HandDealt()
	tableLogger.Info().
		Str(logging.TableIDKey, t.id).
		Int(logging.HandNumKey, t.handNumber).
		Int("dealerIndex", t.dealerIndex).
		Msgf("Hand initialized with %d players", len(t.players))
}

func (t *Table) postBlind(seatIndex int, blind int) {
	if seatIndex < 0 || seatIndex >= len(t.players) {
		return
	}
	p := t.players[seatIndex]
	t.pot += blind
	t.roundBets[p.Hash] = blind
	p.Stack = maxInt(p.Stack-blind, 0)
	p.LastAction = fmt.Sprintf("blind %d", blind)
}

// ensureEncryptedHand returns the viewer's encrypted hole cards,
// materializing them on first request once a viewer key is registered.
func (t *Table) ensureEncryptedHand(playerHash string) ([]string, bool) {
	if cards, ok := t.encryptedHands[playerHash]; ok {
		return cards, true
	}
	hand, ok := t.hands[playerHash]
	if !ok || len(hand) < 2 {
		return nil, false
	}
	key, ok := t.keys.Get(playerHash)
	if !ok {
		return nil, false
	}
	card1, err1 := zk.EncryptCard(hand[0].String(), key)
	card2, err2 := zk.EncryptCard(hand[1].String(), key)
	if err1 != nil || err2 != nil {
		tableLogger.Error().
			Str(logging.TableIDKey, t.id).
			Str(logging.PlayerIDKey, playerHash).
			Msg("Unable to encrypt hole cards")
		return nil, false
	}
	cards := []string{card1, card2}
	t.encryptedHands[playerHash] = cards
	return cards, true
}

// handleAction validates and applies one betting action. Rejections
// leave the table untouched.
func (t *Table) handleAction(playerHash string, action Action) error {
	playerIdx := t.playerIndex(playerHash)
	if playerIdx == -1 {
		return IllegalActionError{Msg: "player not in game"}
	}
	if t.phase == PhaseWaiting || t.phase == PhaseShowdown {
		return IllegalActionError{Msg: "no hand in progress"}
	}
	if t.currentTurnIndex >= len(t.players) || t.players[t.currentTurnIndex].Hash != playerHash {
		return IllegalActionError{Msg: "not your turn"}
	}

	player := t.players[playerIdx]
	prev := t.roundBets[playerHash]
	required := maxInt(t.currentBet-prev, 0)

	switch action.Type {
	case ActionFold:
		player.Folded = true
		player.LastAction = "fold"
		t.removePending(playerHash)

	case ActionCheck:
		if required > 0 {
			return IllegalActionError{Msg: "cannot check"}
		}
		player.LastAction = "check"
		t.removePending(playerHash)

	case ActionCall:
		if t.settings.StrictCalls {
			if action.Amount != required {
				return IllegalActionError{Msg: "call amount must match bet"}
			}
		} else {
			// Clamped variant: amount 0 means "call whatever is owed";
			// anything below the owed amount is rejected.
			callAmount := action.Amount
			if callAmount == 0 {
				callAmount = required
			}
			if callAmount < required {
				return IllegalActionError{Msg: "call amount must match bet"}
			}
		}
		if required == 0 {
			player.LastAction = "check"
		} else {
			t.pot += required
			t.roundBets[playerHash] = prev + required
			player.Stack = maxInt(player.Stack-required, 0)
			player.LastAction = fmt.Sprintf("call %d", required)
		}
		t.removePending(playerHash)

	case ActionRaise:
		if action.Amount <= t.currentBet {
			return IllegalActionError{Msg: "raise too small"}
		}
		delta := action.Amount - prev
		if delta <= required {
			return IllegalActionError{Msg: "raise too small"}
		}
		t.pot += delta
		t.currentBet = action.Amount
		t.roundBets[playerHash] = action.Amount
		player.Stack = maxInt(player.Stack-delta, 0)
		player.LastAction = fmt.Sprintf("raise %d", action.Amount)
		// A raise reopens the round for everyone else.
		reopened := make([]string, 0, len(t.players))
		for _, p := range t.players {
			if !p.Folded && p.Hash != playerHash {
				reopened = append(reopened, p.Hash)
			}
		}
		t.pendingActors = reopened
		t.roundActions = map[string]bool{playerHash: true}

	default:
		return IllegalActionError{Msg: "invalid action"}
	}

	t.roundActions[playerHash] = true
	t.lastAction = &LastAction{Player: playerHash, Action: string(action.Type), Amount: action.Amount}
	t.actionCount++

	tableLogger.Debug().
		Str(logging.TableIDKey, t.id).
		Str(logging.PlayerIDKey, playerHash).
		Str(logging.ActionKey, string(action.Type)).
		Int("amount", action.Amount).
		Int("pot", t.pot).
		Msg("Action applied")

	active := t.activePlayers()
	if len(active) <= 1 {
		t.phase = PhaseShowdown
		t.revealedCount = 5
		if len(active) == 1 {
			t.winner = active[0].Hash
		}
		t.logShowdown()
		return nil
	}

	t.currentTurnIndex = t.nextActiveIndex(t.currentTurnIndex)
	if t.isBettingRoundComplete() {
		t.advancePhase()
		if t.phase == PhaseShowdown {
			t.revealedCount = 5
			winners := t.determineWinners()
			if len(winners) > 0 {
				t.winner = strings.Join(winners, ", ")
			} else {
				t.winner = active[0].Hash
			}
			t.logShowdown()
		} else {
			t.startRound(t.nextActiveIndex(t.dealerIndex))
		}
	}
	return nil
}

func (t *Table) logShowdown() {
	tableLogger.Info().
		Str(logging.TableIDKey, t.id).
		Int(logging.HandNumKey, t.handNumber).
		Str("winner", t.winner).
		Int("pot", t.pot).
		Msg("Hand reached showdown")
}

func (t *Table) activePlayers() []*Player {
	active := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if !p.Folded {
			active = append(active, p)
		}
	}
	return active
}

// nextActiveIndex finds the next non-folded seat after startIndex,
// wrapping around. Falls back to startIndex when no other seat is live.
func (t *Table) nextActiveIndex(startIndex int) int {
	n := len(t.players)
	if n == 0 {
		return 0
	}
	for i := 1; i <= n; i++ {
		idx := (startIndex + i) % n
		if !t.players[idx].Folded {
			return idx
		}
	}
	return startIndex
}

// setPendingActors rebuilds the pending queue as every non-folded seat
// in table order starting from startIndex, and points the turn at the
// first of them. This is the only place the two are seeded, which keeps
// the queue and the turn index from drifting apart.
func (t *Table) setPendingActors(startIndex int) {
	pending := []string{}
	n := len(t.players)
	for i := 0; i < n; i++ {
		idx := (startIndex + i) % n
		p := t.players[idx]
		if !p.Folded {
			pending = append(pending, p.Hash)
		}
	}
	t.pendingActors = pending
	if len(pending) > 0 {
		t.currentTurnIndex = t.playerIndex(pending[0])
	}
}

func (t *Table) startRound(startIndex int) {
	t.currentBet = 0
	t.roundBets = make(map[string]int)
	t.roundActions = make(map[string]bool)
	t.setPendingActors(startIndex)
}

// isBettingRoundComplete reports whether every non-folded seat has acted
// this round and, when there is a live bet, matched it.
func (t *Table) isBettingRoundComplete() bool {
	active := t.activePlayers()
	if len(active) == 0 {
		return true
	}
	for _, p := range active {
		if !t.roundActions[p.Hash] {
			return false
		}
	}
	if t.currentBet == 0 {
		return true
	}
	for _, p := range active {
		if t.roundBets[p.Hash] < t.currentBet {
			return false
		}
	}
	return true
}

func (t *Table) removePending(playerHash string) {
	pending := t.pendingActors[:0]
	for _, hash := range t.pendingActors {
		if hash != playerHash {
			pending = append(pending, hash)
		}
	}
	t.pendingActors = pending
}

func (t *Table) isPending(playerHash string) bool {
	for _, hash := range t.pendingActors {
		if hash == playerHash {
			return true
		}
	}
	return false
}

// advancePhase reveals the next street: 0→3 (flop), 3→4 (turn),
// 4→5 (river), and showdown once all five are out.
func (t *Table) advancePhase() {
	switch {
	case t.revealedCount == 0:
		t.revealedCount = 3
		t.phase = PhaseFlop
	case t.revealedCount == 3:
		t.revealedCount = 4
		t.phase = PhaseTurn
	case t.revealedCount == 4:
		t.revealedCount = 5
		t.phase = PhaseRiver
	default:
		t.phase = PhaseShowdown
	}
}

// determineWinners evaluates best-of-seven for every contending seat and
// returns every seat tying the maximum.
func (t *Table) determineWinners() []string {
	if len(t.community) < 5 {
		return nil
	}
	var best poker.Evaluation
	found := false
	winners := []string{}
	for _, p := range t.activePlayers() {
		hand, ok := t.hands[p.Hash]
		if !ok || len(hand) < 2 {
			continue
		}
		seven := make([]poker.Card, 0, 7)
		seven = append(seven, hand...)
		seven = append(seven, t.community[:5]...)
		evaluation := poker.BestHandFromSeven(seven)
		if !found || poker.CompareHands(evaluation, best) > 0 {
			best = evaluation
			found = true
			winners = []string{p.Hash}
		} else if poker.CompareHands(evaluation, best) == 0 {
			winners = append(winners, p.Hash)
		}
	}
	return winners
}

func (t *Table) touch() {
	t.updatedAt = time.Now()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
