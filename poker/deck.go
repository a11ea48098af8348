package poker

import (
	crypto_rand "crypto/rand"
	"math/big"
	"strings"
)

var fullDeck *Deck

func init() {
	fullDeck = &Deck{cards: initializeFullCards()}
}

// Deck is an ordered sequence of the 52 unique cards. A fresh shuffled
// deck is created per hand and consumed by index: the first 2×numPlayers
// cards are hole cards, the next 5 the community sequence.
type Deck struct {
	cards []Card
}

func initializeFullCards() []Card {
	cards := make([]Card, 0, 52)
	for _, suit := range suits {
		for _, rank := range ranks {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return cards
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)
	return deck
}

func NewDeck() *Deck {
	deck := NewDeckNoShuffle()
	deck.cards = ShuffleCards(deck.cards)
	return deck
}

// ShuffleCards returns a uniformly random permutation of cards using a
// Fisher-Yates walk with every swap index drawn from crypto/rand.
func ShuffleCards(cards []Card) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	for i := len(shuffled) - 1; i > 0; i-- {
		nBig, err := crypto_rand.Int(crypto_rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			panic("cannot draw a shuffle index from the cryptographically secure random source")
		}
		j := int(nBig.Int64())
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

func (deck *Deck) Cards() []Card {
	return deck.cards
}

// Serialize renders the full deck order as a comma-joined string. The
// deck commitment is a digest of this exact serialization.
func (deck *Deck) Serialize() string {
	return strings.Join(CardsToString(deck.cards), ",")
}
