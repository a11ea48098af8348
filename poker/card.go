package poker

import "strings"

const (
	SuitSpade   = "♠"
	SuitHeart   = "♥"
	SuitDiamond = "♦"
	SuitClub    = "♣"
)

var suits = []string{SuitSpade, SuitHeart, SuitDiamond, SuitClub}

var ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// rankValues maps the printable rank to its comparison value. Aces are
// high (14); straight detection separately treats them as 1 for the wheel.
var rankValues = map[string]int{
	"2":  2,
	"3":  3,
	"4":  4,
	"5":  5,
	"6":  6,
	"7":  7,
	"8":  8,
	"9":  9,
	"10": 10,
	"J":  11,
	"Q":  12,
	"K":  13,
	"A":  14,
}

// Card is an immutable rank/suit pair. Hand strength compares ranks only;
// suits matter only for flush detection.
type Card struct {
	Rank string
	Suit string
}

func (c Card) String() string {
	return c.Rank + c.Suit
}

// RankValue returns the comparison value of the card's rank. Unknown
// ranks map to 0, which loses every comparison.
func (c Card) RankValue() int {
	return rankValues[c.Rank]
}

// ParseCard parses a card string such as "10♠" or "A♥". The suit is the
// final rune; everything before it is the rank.
func ParseCard(s string) Card {
	trimmed := strings.TrimSpace(s)
	runes := []rune(trimmed)
	if len(runes) < 2 {
		return Card{Rank: trimmed}
	}
	return Card{
		Rank: string(runes[:len(runes)-1]),
		Suit: string(runes[len(runes)-1]),
	}
}

func ParseCards(strs []string) []Card {
	cards := make([]Card, len(strs))
	for i, s := range strs {
		cards[i] = ParseCard(s)
	}
	return cards
}

func CardsToString(cards []Card) []string {
	strs := make([]string, len(cards))
	for i, c := range cards {
		strs[i] = c.String()
	}
	return strs
}
