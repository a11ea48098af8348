package poker

import "sort"

// HandRank is the discrete hand category, ordered weakest to strongest.
type HandRank int

const (
	HighCard HandRank = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handRankToString = map[HandRank]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (r HandRank) String() string {
	return handRankToString[r]
}

// Evaluation is the result of ranking a 5-card hand: the hand category
// plus a tiebreak vector of rank values compared element-wise within the
// same category.
type Evaluation struct {
	Rank     HandRank
	Tiebreak []int
}

// straightHigh returns the highest top-of-run value of any 5+ run of
// consecutive ranks, or 0 when there is none. An ace also plays low
// (as rank 1) to complete the wheel.
func straightHigh(rankVals []int) int {
	seen := make(map[int]bool)
	unique := make([]int, 0, len(rankVals))
	for _, r := range rankVals {
		if !seen[r] {
			seen[r] = true
			unique = append(unique, r)
		}
	}
	sort.Ints(unique)
	if seen[14] {
		unique = append([]int{1}, unique...)
	}
	streak := 1
	bestHigh := 0
	for i := 1; i < len(unique); i++ {
		if unique[i] == unique[i-1]+1 {
			streak++
		} else {
			streak = 1
		}
		if streak >= 5 {
			bestHigh = unique[i]
		}
	}
	return bestHigh
}

type rankGroup struct {
	rank  int
	count int
}

// EvaluateFive ranks exactly 5 cards. Detection short-circuits on the
// strongest matching category.
func EvaluateFive(cards []Card) Evaluation {
	rankVals := make([]int, len(cards))
	for i, c := range cards {
		rankVals[i] = c.RankValue()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rankVals)))

	isFlush := true
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			isFlush = false
			break
		}
	}
	high := straightHigh(rankVals)

	counts := make(map[int]int)
	for _, r := range rankVals {
		counts[r]++
	}
	groups := make([]rankGroup, 0, len(counts))
	for r, c := range counts {
		groups = append(groups, rankGroup{rank: r, count: c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	var triples, pairs []int
	for _, g := range groups {
		switch g.count {
		case 3:
			triples = append(triples, g.rank)
		case 2:
			pairs = append(pairs, g.rank)
		}
	}

	if isFlush && high > 0 {
		if high == 14 {
			return Evaluation{Rank: RoyalFlush, Tiebreak: []int{14}}
		}
		return Evaluation{Rank: StraightFlush, Tiebreak: []int{high}}
	}
	if len(groups) > 0 && groups[0].count == 4 {
		quad := groups[0].rank
		kicker := 0
		for _, r := range rankVals {
			if r != quad {
				kicker = r
				break
			}
		}
		return Evaluation{Rank: FourOfAKind, Tiebreak: []int{quad, kicker}}
	}
	if len(triples) >= 1 && (len(pairs) >= 1 || len(triples) >= 2) {
		triple := triples[0]
		pair := 0
		if len(pairs) >= 1 {
			pair = pairs[0]
		} else {
			pair = triples[1]
		}
		return Evaluation{Rank: FullHouse, Tiebreak: []int{triple, pair}}
	}
	if isFlush {
		return Evaluation{Rank: Flush, Tiebreak: rankVals}
	}
	if high > 0 {
		return Evaluation{Rank: Straight, Tiebreak: []int{high}}
	}
	if len(triples) >= 1 {
		triple := triples[0]
		tiebreak := []int{triple}
		for _, r := range rankVals {
			if r != triple && len(tiebreak) < 3 {
				tiebreak = append(tiebreak, r)
			}
		}
		return Evaluation{Rank: ThreeOfAKind, Tiebreak: tiebreak}
	}
	if len(pairs) >= 2 {
		highPair, lowPair := pairs[0], pairs[1]
		kicker := 0
		for _, r := range rankVals {
			if r != highPair && r != lowPair {
				kicker = r
				break
			}
		}
		return Evaluation{Rank: TwoPair, Tiebreak: []int{highPair, lowPair, kicker}}
	}
	if len(pairs) == 1 {
		pair := pairs[0]
		tiebreak := []int{pair}
		for _, r := range rankVals {
			if r != pair && len(tiebreak) < 4 {
				tiebreak = append(tiebreak, r)
			}
		}
		return Evaluation{Rank: OnePair, Tiebreak: tiebreak}
	}
	return Evaluation{Rank: HighCard, Tiebreak: rankVals}
}

// CompareHands orders two evaluations: positive when a is stronger,
// negative when b is stronger, zero on an exact tie. Categories compare
// first; tiebreak vectors compare element-wise with missing elements
// treated as 0.
func CompareHands(a, b Evaluation) int {
	if a.Rank != b.Rank {
		return int(a.Rank) - int(b.Rank)
	}
	n := len(a.Tiebreak)
	if len(b.Tiebreak) > n {
		n = len(b.Tiebreak)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a.Tiebreak) {
			av = a.Tiebreak[i]
		}
		if i < len(b.Tiebreak) {
			bv = b.Tiebreak[i]
		}
		if av != bv {
			return av - bv
		}
	}
	return 0
}

// BestHandFromSeven exhaustively evaluates every 5-card subset of the
// given cards (C(7,5)=21 for a full board) and keeps the strictly
// greatest, retaining the first seen on exact ties.
func BestHandFromSeven(cards []Card) Evaluation {
	var best Evaluation
	found := false
	for a := 0; a < len(cards)-4; a++ {
		for b := a + 1; b < len(cards)-3; b++ {
			for c := b + 1; c < len(cards)-2; c++ {
				for d := c + 1; d < len(cards)-1; d++ {
					for e := d + 1; e < len(cards); e++ {
						hand := EvaluateFive([]Card{cards[a], cards[b], cards[c], cards[d], cards[e]})
						if !found || CompareHands(hand, best) > 0 {
							best = hand
							found = true
						}
					}
				}
			}
		}
	}
	return best
}
