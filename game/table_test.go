package game

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livepoker.com/server/internal/playerkeys"
	"livepoker.com/server/poker"
	"livepoker.com/server/zk"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	keys, err := playerkeys.NewCache()
	require.NoError(t, err)
	return NewTable("t1", DefaultSettings(), keys)
}

// seatPlayers appends seats without triggering the auto-start so tests
// can set up tables with more than two players before the first deal.
func seatPlayers(table *Table, hashes ...string) {
	for _, h := range hashes {
		table.players = append(table.players, newPlayer(h, table.settings.StartingStack))
	}
}

func act(t *testing.T, table *Table, player string, actionType ActionType, amount int) *TableView {
	t.Helper()
	view, err := table.Act(player, Action{Type: actionType, Amount: amount})
	require.NoError(t, err)
	return view
}

// assertBettingInvariant checks that every non-folded seat is either
// still pending or has matched the table's active bet.
func assertBettingInvariant(t *testing.T, table *Table) {
	t.Helper()
	for _, p := range table.activePlayers() {
		if table.isPending(p.Hash) {
			continue
		}
		assert.GreaterOrEqual(t, table.roundBets[p.Hash], table.currentBet,
			"seat %s is not pending but has not matched the bet", p.Hash)
	}
}

func TestTableStaysWaitingWithOnePlayer(t *testing.T) {
	table := newTestTable(t)
	view, err := table.Join("p1")
	require.NoError(t, err)
	assert.Equal(t, string(PhaseWaiting), view.Phase)
	assert.Equal(t, 0, view.HandNumber)
	assert.Empty(t, view.DeckCommitment)
}

func TestSecondJoinAutoInitializesHand(t *testing.T) {
	table := newTestTable(t)
	_, err := table.Join("p1")
	require.NoError(t, err)
	view, err := table.Join("p2")
	require.NoError(t, err)

	assert.Equal(t, string(PhasePreflop), view.Phase)
	assert.Equal(t, 1, view.HandNumber)
	assert.NotEmpty(t, view.DeckCommitment)
	assert.Equal(t, 15, view.Pot)
	assert.Equal(t, 10, view.CurrentBet)
	// Dealer is seat 0; seat 1 posts the small blind, seat 0 the big
	// blind, and the seat after the big blind acts first.
	assert.Equal(t, 95, view.Players[1].Stack)
	assert.Equal(t, 90, view.Players[0].Stack)
	assert.Equal(t, "blind 5", view.Players[1].LastAction)
	assert.Equal(t, "blind 10", view.Players[0].LastAction)
	assert.Equal(t, 1, view.CurrentTurnIndex)
	assert.Equal(t, []string{"p2", "p1"}, view.PendingActors)
	assert.Empty(t, view.Community)
	assert.Nil(t, view.RevealedHands)
	assert.Len(t, table.hands["p1"], 2)
	assert.Len(t, table.hands["p2"], 2)
}

func TestJoinIsIdempotentForSeatedPlayer(t *testing.T) {
	table := newTestTable(t)
	table.Join("p1")
	table.Join("p2")
	view, err := table.Join("p1")
	require.NoError(t, err)
	assert.Len(t, view.Players, 2)
	assert.Equal(t, 1, view.HandNumber)
}

func TestJoinRejectedOnceHandStarted(t *testing.T) {
	table := newTestTable(t)
	table.Join("p1")
	table.Join("p2")
	_, err := table.Join("p3")
	require.Error(t, err)
	assert.Equal(t, "game already started", err.Error())
	assert.IsType(t, GameStartedError{}, err)
}

func TestJoinRejectedWhenTableFull(t *testing.T) {
	table := newTestTable(t)
	table.settings.MaxSeats = 3
	seatPlayers(table, "p1", "p2", "p3")
	_, err := table.Join("p4")
	require.Error(t, err)
	assert.Equal(t, "table is full", err.Error())
}

func TestThreePlayerPreflopWalk(t *testing.T) {
	table := newTestTable(t)
	seatPlayers(table, "p1", "p2", "p3")
	table.initializeHand()

	// Dealer p1, small blind p2 posts 5, big blind p3 posts 10.
	require.Equal(t, 0, table.dealerIndex)
	assert.Equal(t, 15, table.pot)
	assert.Equal(t, 10, table.currentBet)
	assert.Equal(t, 95, table.players[1].Stack)
	assert.Equal(t, 90, table.players[2].Stack)
	// First to act is the seat after the big blind: p1.
	require.Equal(t, 0, table.currentTurnIndex)
	require.Equal(t, []string{"p1", "p2", "p3"}, table.pendingActors)

	view := act(t, table, "p1", ActionCall, 10)
	assert.Equal(t, 25, view.Pot)
	assertBettingInvariant(t, table)

	// p2 already has 5 in; amount 0 means "call whatever is owed".
	view = act(t, table, "p2", ActionCall, 0)
	assert.Equal(t, 30, view.Pot)
	assert.Equal(t, "call 5", table.players[1].LastAction)
	assertBettingInvariant(t, table)

	// p3 is already at the bet and checks; the round completes.
	view = act(t, table, "p3", ActionCheck, 0)
	assert.Equal(t, string(PhaseFlop), view.Phase)
	assert.Equal(t, 0, view.CurrentBet)
	assert.Len(t, view.Community, 3)
	// The fresh round starts at the seat after the dealer.
	assert.Equal(t, 1, view.CurrentTurnIndex)
	assert.Equal(t, []string{"p2", "p3", "p1"}, view.PendingActors)
	assertBettingInvariant(t, table)
}

func TestActRejections(t *testing.T) {
	table := newTestTable(t)
	seatPlayers(table, "p1", "p2", "p3")
	table.initializeHand()

	_, err := table.Act("stranger", Action{Type: ActionFold})
	assert.Equal(t, "player not in game", err.Error())

	_, err = table.Act("p2", Action{Type: ActionFold})
	assert.Equal(t, "not your turn", err.Error())

	_, err = table.Act("p1", Action{Type: ActionCheck})
	assert.Equal(t, "cannot check", err.Error())

	_, err = table.Act("p1", Action{Type: ActionCall, Amount: 3})
	assert.Equal(t, "call amount must match bet", err.Error())

	// A raise must exceed the table's active bet.
	_, err = table.Act("p1", Action{Type: ActionRaise, Amount: 10})
	assert.Equal(t, "raise too small", err.Error())

	// Rejections leave the table untouched.
	assert.Equal(t, 15, table.pot)
	assert.Equal(t, 0, table.currentTurnIndex)
	assert.Equal(t, []string{"p1", "p2", "p3"}, table.pendingActors)
}

func TestStrictCallRequiresExactAmount(t *testing.T) {
	table := newTestTable(t)
	table.settings.StrictCalls = true
	seatPlayers(table, "p1", "p2")
	table.initializeHand()

	// Heads-up: seat 1 owes 5 on top of the small blind.
	_, err := table.Act("p2", Action{Type: ActionCall, Amount: 0})
	require.Error(t, err)
	assert.Equal(t, "call amount must match bet", err.Error())

	view := act(t, table, "p2", ActionCall, 5)
	assert.Equal(t, 20, view.Pot)
}

func TestActWithoutHandInProgressRejected(t *testing.T) {
	table := newTestTable(t)
	table.Join("p1")
	_, err := table.Act("p1", Action{Type: ActionFold})
	require.Error(t, err)
	assert.Equal(t, "no hand in progress", err.Error())
}

func TestRaiseReopensAction(t *testing.T) {
	table := newTestTable(t)
	seatPlayers(table, "p1", "p2", "p3")
	table.initializeHand()

	act(t, table, "p1", ActionCall, 10)
	assert.Equal(t, []string{"p2", "p3"}, table.pendingActors)

	// p2 raises; p1 and p3 both owe action again.
	view := act(t, table, "p2", ActionRaise, 25)
	assert.Equal(t, 25, view.CurrentBet)
	assert.Equal(t, 45, view.Pot) // 15 blinds + 10 call + 20 raise delta
	assert.Equal(t, 75, table.players[1].Stack)
	assert.ElementsMatch(t, []string{"p1", "p3"}, view.PendingActors)
	assertBettingInvariant(t, table)

	// A raise that adds no more than a call is rejected.
	_, err := table.Act("p3", Action{Type: ActionRaise, Amount: 25})
	assert.Equal(t, "raise too small", err.Error())

	act(t, table, "p3", ActionCall, 0)
	view = act(t, table, "p1", ActionCall, 0)
	assert.Equal(t, string(PhaseFlop), view.Phase)
	assert.Equal(t, 75, view.Pot)
	assertBettingInvariant(t, table)
}

func TestFoldToOneEndsHandImmediately(t *testing.T) {
	table := newTestTable(t)
	seatPlayers(table, "p1", "p2", "p3")
	table.initializeHand()

	act(t, table, "p1", ActionFold, 0)
	view := act(t, table, "p2", ActionFold, 0)

	assert.Equal(t, string(PhaseShowdown), view.Phase)
	assert.Equal(t, "p3", view.Winner)
	assert.Len(t, view.Community, 5)
	assert.NotNil(t, view.RevealedHands)
}

func TestFullHandReachesShowdown(t *testing.T) {
	table := newTestTable(t)
	seatPlayers(table, "p1", "p2")
	table.initializeHand()

	// Preflop: small blind completes, big blind checks.
	act(t, table, "p2", ActionCall, 0)
	view := act(t, table, "p1", ActionCheck, 0)
	require.Equal(t, string(PhaseFlop), view.Phase)
	require.Len(t, view.Community, 3)

	// Three streets of checks.
	act(t, table, "p2", ActionCheck, 0)
	view = act(t, table, "p1", ActionCheck, 0)
	require.Equal(t, string(PhaseTurn), view.Phase)
	require.Len(t, view.Community, 4)

	act(t, table, "p2", ActionCheck, 0)
	view = act(t, table, "p1", ActionCheck, 0)
	require.Equal(t, string(PhaseRiver), view.Phase)
	require.Len(t, view.Community, 5)

	act(t, table, "p2", ActionCheck, 0)
	view = act(t, table, "p1", ActionCheck, 0)
	require.Equal(t, string(PhaseShowdown), view.Phase)

	assert.Equal(t, 20, view.Pot)
	require.NotEmpty(t, view.Winner)
	for _, winner := range strings.Split(view.Winner, ", ") {
		assert.NotNil(t, table.findPlayer(winner), "winner %s is not seated", winner)
	}
	require.NotNil(t, view.RevealedHands)
	assert.Len(t, view.RevealedHands["p1"], 2)
	assert.Len(t, view.RevealedHands["p2"], 2)
}

func TestDetermineWinnersSplitsTies(t *testing.T) {
	table := newTestTable(t)
	seatPlayers(table, "p1", "p2", "p3")
	// The board plays for everyone: a royal flush on the table.
	table.community = poker.ParseCards([]string{"10♠", "J♠", "Q♠", "K♠", "A♠"})
	table.hands = map[string][]poker.Card{
		"p1": poker.ParseCards([]string{"2♥", "3♦"}),
		"p2": poker.ParseCards([]string{"4♣", "5♥"}),
		"p3": poker.ParseCards([]string{"6♦", "7♣"}),
	}
	winners := table.determineWinners()
	assert.Equal(t, []string{"p1", "p2", "p3"}, winners)
}

func TestDetermineWinnersPicksStrongestHand(t *testing.T) {
	table := newTestTable(t)
	seatPlayers(table, "p1", "p2")
	table.community = poker.ParseCards([]string{"2♣", "7♦", "9♠", "J♥", "K♦"})
	table.hands = map[string][]poker.Card{
		"p1": poker.ParseCards([]string{"A♠", "A♥"}),
		"p2": poker.ParseCards([]string{"K♠", "Q♥"}),
	}
	winners := table.determineWinners()
	assert.Equal(t, []string{"p1"}, winners)

	// Folded seats never contend.
	table.players[0].Folded = true
	winners = table.determineWinners()
	assert.Equal(t, []string{"p2"}, winners)
}

func TestHandRotatesDealerAndResetsState(t *testing.T) {
	table := newTestTable(t)
	seatPlayers(table, "p1", "p2", "p3")
	table.initializeHand()
	act(t, table, "p1", ActionFold, 0)
	act(t, table, "p2", ActionFold, 0)
	require.Equal(t, string(PhaseShowdown), string(table.phase))
	firstCommitment := table.deckCommitment

	table.initializeHand()
	assert.Equal(t, 2, table.handNumber)
	assert.Equal(t, 1, table.dealerIndex)
	assert.Equal(t, 0, table.revealedCount)
	assert.Equal(t, "", table.winner)
	assert.NotEqual(t, firstCommitment, table.deckCommitment)
	for _, p := range table.players {
		assert.False(t, p.Folded)
	}
	// Small blind p3, big blind p1, first to act p2.
	assert.Equal(t, 15, table.pot)
	assert.Equal(t, []string{"p2", "p3", "p1"}, table.pendingActors)
}

func TestBotsAutoPlay(t *testing.T) {
	table := newTestTable(t)
	_, err := table.Join("p1")
	require.NoError(t, err)
	view, err := table.AddBots(1)
	require.NoError(t, err)

	require.Len(t, view.Players, 2)
	require.Equal(t, string(PhasePreflop), view.Phase)
	bot := table.players[1]
	require.True(t, bot.IsBot)

	// The bot was first to act (small blind) and called on its own.
	assert.Equal(t, "call 5", bot.LastAction)
	assert.Equal(t, 20, view.Pot)
	assert.Equal(t, 0, view.CurrentTurnIndex)

	// The human checks; the round completes and the bot checks through
	// the flop on its own turn.
	view = act(t, table, "p1", ActionCheck, 0)
	assert.Equal(t, string(PhaseFlop), view.Phase)
	assert.Equal(t, "check", bot.LastAction)
	assert.Equal(t, []string{"p1"}, view.PendingActors)
}

func TestBotsPlayThroughToShowdown(t *testing.T) {
	table := newTestTable(t)
	table.Join("p1")
	table.AddBots(1)

	view := act(t, table, "p1", ActionCheck, 0)
	for view.Phase != string(PhaseShowdown) {
		view = act(t, table, "p1", ActionCheck, 0)
	}
	assert.NotEmpty(t, view.Winner)
	assert.Equal(t, 20, view.Pot)
}

func TestAddBotsClampsCount(t *testing.T) {
	table := newTestTable(t)
	view, err := table.AddBots(99)
	require.NoError(t, err)
	assert.Len(t, view.Players, table.settings.MaxBotsPerAdd)
}

func TestRemoveBotsPreservesHumanSeats(t *testing.T) {
	table := newTestTable(t)
	table.Join("p1")
	table.AddBots(2)
	require.Len(t, table.players, 3)

	// The bots posted the blinds; the human seat is untouched.
	view, err := table.RemoveBots(2)
	require.NoError(t, err)
	require.Len(t, view.Players, 1)
	assert.Equal(t, "p1", view.Players[0].Hash)
	assert.Equal(t, 100, view.Players[0].Stack)

	view, err = table.AddBots(2)
	require.NoError(t, err)
	assert.Equal(t, "p1", view.Players[0].Hash)
	assert.Equal(t, 100, view.Players[0].Stack)
}

func TestRemoveBotsPurgesHandState(t *testing.T) {
	table := newTestTable(t)
	table.Join("p1")
	table.AddBots(1)
	bot := table.players[1]
	require.Contains(t, table.hands, bot.Hash)

	_, err := table.RemoveBots(1)
	require.NoError(t, err)
	assert.NotContains(t, table.hands, bot.Hash)
	assert.NotContains(t, table.roundBets, bot.Hash)
	assert.False(t, table.isPending(bot.Hash))
}

func TestHandRequiresTwoPlayers(t *testing.T) {
	table := newTestTable(t)
	_, err := table.Hand("p1")
	require.Error(t, err)
	assert.Equal(t, "waiting for players", err.Error())
	assert.IsType(t, NotReadyError{}, err)

	table.Join("p1")
	_, err = table.Hand("p1")
	require.Error(t, err)
	assert.Equal(t, "waiting for players", err.Error())
}

func TestHandReturnsEncryptedCardsWithProof(t *testing.T) {
	table := newTestTable(t)
	key := uuid.New()
	require.NoError(t, table.keys.Register("p1", key.String()))
	table.Join("p1")
	table.Join("p2")

	bundle, err := table.Hand("p1")
	require.NoError(t, err)
	assert.Equal(t, table.deckCommitment, bundle.DeckCommitment)
	require.Len(t, bundle.EncryptedHand.Cards, 2)

	// The proof is recomputable over the same payload.
	assert.True(t, zk.VerifyProof(handProofPayload{
		EncryptedHand:  bundle.EncryptedHand,
		DeckCommitment: bundle.DeckCommitment,
	}, bundle.Proof))

	// The tokens decrypt (client side) to the dealt hole cards.
	for i, token := range bundle.EncryptedHand.Cards {
		card, err := zk.DecryptCard(token, key)
		require.NoError(t, err)
		assert.Equal(t, table.hands["p1"][i].String(), card)
	}

	// A viewer with no registered key has no hand to fetch.
	_, err = table.Hand("p2")
	require.Error(t, err)
	assert.Equal(t, "hand not ready", err.Error())
}

func TestHandTriggersLazyDeal(t *testing.T) {
	table := newTestTable(t)
	seatPlayers(table, "p1", "p2")
	require.Empty(t, table.deckCommitment)

	key := uuid.New()
	require.NoError(t, table.keys.Register("p1", key.String()))
	bundle, err := table.Hand("p1")
	require.NoError(t, err)
	assert.NotEmpty(t, bundle.DeckCommitment)
	assert.Equal(t, PhasePreflop, table.phase)
	assert.Equal(t, 1, table.handNumber)
}
