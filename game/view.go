package game

import (
	"time"

	"livepoker.com/server/poker"
	"livepoker.com/server/zk"
)

// TableView is the serialized projection of a table handed to the
// transport layer. Hole cards appear in plaintext only once the hand
// has reached showdown.
type TableView struct {
	ID               string              `json:"id"`
	Players          []Player            `json:"players"`
	Pot              int                 `json:"pot"`
	Phase            string              `json:"phase"`
	HandNumber       int                 `json:"handNumber"`
	CurrentTurnIndex int                 `json:"currentTurnIndex"`
	LastAction       *LastAction         `json:"lastAction"`
	Winner           string              `json:"winner"`
	Community        []string            `json:"community"`
	DeckCommitment   string              `json:"deckCommitment"`
	CurrentBet       int                 `json:"currentBet"`
	PendingActors    []string            `json:"pendingActors"`
	RevealedHands    map[string][]string `json:"revealedHands"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// EncryptedHand is a viewer's two hole cards as opaque per-viewer
// tokens.
type EncryptedHand struct {
	PlayerHash string   `json:"playerHash"`
	Cards      []string `json:"cards"`
}

// HandBundle is the response to a hand request: the encrypted hole
// cards anchored to the deck commitment by a proof token.
type HandBundle struct {
	DeckCommitment string        `json:"deckCommitment"`
	EncryptedHand  EncryptedHand `json:"encryptedHand"`
	Proof          zk.Proof      `json:"proof"`
}

type handProofPayload struct {
	EncryptedHand  EncryptedHand `json:"encryptedHand"`
	DeckCommitment string        `json:"deckCommitment"`
}

// view builds the projection. Caller must hold the table lock.
func (t *Table) view() *TableView {
	players := make([]Player, len(t.players))
	for i, p := range t.players {
		players[i] = *p
	}
	pending := make([]string, len(t.pendingActors))
	copy(pending, t.pendingActors)

	var revealedHands map[string][]string
	if t.phase == PhaseShowdown {
		revealedHands = make(map[string][]string, len(t.hands))
		for hash, hand := range t.hands {
			revealedHands[hash] = poker.CardsToString(hand)
		}
	}

	return &TableView{
		ID:               t.id,
		Players:          players,
		Pot:              t.pot,
		Phase:            string(t.phase),
		HandNumber:       t.handNumber,
		CurrentTurnIndex: t.currentTurnIndex,
		LastAction:       t.lastAction,
		Winner:           t.winner,
		Community:        poker.CardsToString(t.community[:t.revealedCount]),
		DeckCommitment:   t.deckCommitment,
		CurrentBet:       t.currentBet,
		PendingActors:    pending,
		RevealedHands:    revealedHands,
		UpdatedAt:        t.updatedAt,
	}
}
