package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Player is a seat at the table. The identity hash is opaque: for a
// human it comes from the identity-verification service, for a bot it
// is synthesized here. Identity and stack persist across hands within a
// table session; Folded and LastAction reset at each hand start.
type Player struct {
	Hash       string `json:"hash"`
	Folded     bool   `json:"folded"`
	Stack      int    `json:"stack"`
	LastAction string `json:"lastAction"`
	IsBot      bool   `json:"isBot"`
}

func newPlayer(hash string, stack int) *Player {
	return &Player{
		Hash:  hash,
		Stack: stack,
	}
}

func newBotPlayer(stack int) *Player {
	// A uuid fragment instead of a running counter so that a removed
	// and re-added bot can never collide with a live seat.
	p := newPlayer(fmt.Sprintf("bot-%s", uuid.New().String()[:8]), stack)
	p.IsBot = true
	return p
}
