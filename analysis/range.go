// Package analysis provides weighted range containers, range construction
// charts, and range-versus-board strength summaries.
package analysis

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/handsight/poker"
)

// Range represents a collection of two-card poker hands with associated
// weights. Each entry is keyed by the bit-packed union of its two hole cards,
// so the full 1326-combo space stays compact and lookups are a single map hit.
type Range struct {
	hands map[poker.Hand]float64
}

// NewRange creates a new empty range.
func NewRange() *Range {
	return &Range{
		hands: make(map[poker.Hand]float64),
	}
}

// ParseRange creates a range from standard poker notation with weight 1.0.
// Examples: "AA,KK", "AKs,AKo", "TT+", "A5s-A2s", "22-66"
func ParseRange(notation string) (*Range, error) {
	r := NewRange()

	parts := strings.SplitSeq(notation, ",")
	for part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if err := r.addRangePart(part, 1.0); err != nil {
			return nil, fmt.Errorf("invalid range part %q: %w", part, err)
		}
	}

	return r, nil
}

// MustParseRange parses a range and panics on error (for tests and charts).
func MustParseRange(notation string) *Range {
	r, err := ParseRange(notation)
	if err != nil {
		panic(fmt.Sprintf("failed to parse range %q: %v", notation, err))
	}
	return r
}

// addRangePart adds a single range notation part to the range.
func (r *Range) addRangePart(part string, weight float64) error {
	if strings.Contains(part, "+") {
		return r.addPlusRange(part, weight)
	}
	if strings.Contains(part, "-") {
		return r.addDashRange(part, weight)
	}
	return r.addSingleHand(part, weight)
}

// addSingleHand adds all combinations of a single hand notation.
func (r *Range) addSingleHand(notation string, weight float64) error {
	if len(notation) < 2 || len(notation) > 3 {
		return fmt.Errorf("invalid notation length: %s", notation)
	}

	rank1 := parseRank(notation[0])
	rank2 := parseRank(notation[1])
	if rank1 == 0 || rank2 == 0 {
		return fmt.Errorf("invalid rank in: %s", notation)
	}

	if rank1 == rank2 {
		if len(notation) == 3 {
			return fmt.Errorf("pocket pairs cannot have suited/offsuit modifier: %s", notation)
		}
		r.addPocketPair(rank1, weight)
		return nil
	}

	if len(notation) == 2 {
		r.addSuitedCombos(rank1, rank2, weight)
		r.addOffsuitCombos(rank1, rank2, weight)
		return nil
	}

	switch notation[2] {
	case 's':
		r.addSuitedCombos(rank1, rank2, weight)
	case 'o':
		r.addOffsuitCombos(rank1, rank2, weight)
	default:
		return fmt.Errorf("invalid modifier: %c", notation[2])
	}
	return nil
}

// addPlusRange handles notations like "TT+" (all pairs TT and higher)
// and "ATs+" (AT suited through AK suited).
func (r *Range) addPlusRange(notation string, weight float64) error {
	plusIdx := strings.Index(notation, "+")
	base := notation[:plusIdx]
	if len(base) < 2 || len(base) > 3 {
		return fmt.Errorf("invalid base notation: %s", base)
	}

	rank1 := parseRank(base[0])
	rank2 := parseRank(base[1])
	if rank1 == 0 || rank2 == 0 {
		return fmt.Errorf("invalid rank")
	}

	if rank1 == rank2 {
		for rank := rank1; rank <= 14; rank++ {
			r.addPocketPair(rank, weight)
		}
		return nil
	}

	suited := false
	offsuit := false
	switch {
	case len(base) == 2:
		suited = true
		offsuit = true
	case base[2] == 's':
		suited = true
	case base[2] == 'o':
		offsuit = true
	default:
		return fmt.Errorf("invalid modifier")
	}

	for rank := rank2; rank < rank1; rank++ {
		if suited {
			r.addSuitedCombos(rank1, rank, weight)
		}
		if offsuit {
			r.addOffsuitCombos(rank1, rank, weight)
		}
	}

	return nil
}

// addDashRange handles notations like "22-66" or "A5s-A2s"
func (r *Range) addDashRange(notation string, weight float64) error {
	parts := strings.Split(notation, "-")
	if len(parts) != 2 {
		return fmt.Errorf("invalid dash range format")
	}

	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])
	if len(start) < 2 || len(end) < 2 {
		return fmt.Errorf("invalid notation in range")
	}

	startRank1 := parseRank(start[0])
	startRank2 := parseRank(start[1])
	endRank1 := parseRank(end[0])
	endRank2 := parseRank(end[1])
	if startRank1 == 0 || startRank2 == 0 || endRank1 == 0 || endRank2 == 0 {
		return fmt.Errorf("invalid ranks in range")
	}

	// Pocket pair spans like "22-66"
	if startRank1 == startRank2 && endRank1 == endRank2 {
		lower := min(startRank1, endRank1)
		upper := max(startRank1, endRank1)
		for rank := lower; rank <= upper; rank++ {
			r.addPocketPair(rank, weight)
		}
		return nil
	}

	// Same high card, kicker span like "A5s-A2s"
	if startRank1 == endRank1 {
		suited := len(start) == 3 && start[2] == 's'
		offsuit := len(start) == 3 && start[2] == 'o'
		if len(start) == 2 {
			suited = true
			offsuit = true
		}

		lower := min(startRank2, endRank2)
		upper := max(startRank2, endRank2)
		for rank := lower; rank <= upper; rank++ {
			if suited {
				r.addSuitedCombos(startRank1, rank, weight)
			}
			if offsuit {
				r.addOffsuitCombos(startRank1, rank, weight)
			}
		}
		return nil
	}

	return fmt.Errorf("unsupported range format: %s", notation)
}

// addPocketPair adds all 6 combinations of a pocket pair.
func (r *Range) addPocketPair(rank int, weight float64) {
	pRank := uint8(rank - 2)
	for suit1 := range uint8(4) {
		for suit2 := suit1 + 1; suit2 < 4; suit2++ {
			r.Set(poker.NewHand(poker.NewCard(pRank, suit1), poker.NewCard(pRank, suit2)), weight)
		}
	}
}

// addSuitedCombos adds all 4 suited combinations.
func (r *Range) addSuitedCombos(rank1, rank2 int, weight float64) {
	pRank1 := uint8(rank1 - 2)
	pRank2 := uint8(rank2 - 2)
	for suit := range uint8(4) {
		r.Set(poker.NewHand(poker.NewCard(pRank1, suit), poker.NewCard(pRank2, suit)), weight)
	}
}

// addOffsuitCombos adds all 12 offsuit combinations.
func (r *Range) addOffsuitCombos(rank1, rank2 int, weight float64) {
	pRank1 := uint8(rank1 - 2)
	pRank2 := uint8(rank2 - 2)
	for suit1 := range uint8(4) {
		for suit2 := range uint8(4) {
			if suit1 != suit2 {
				r.Set(poker.NewHand(poker.NewCard(pRank1, suit1), poker.NewCard(pRank2, suit2)), weight)
			}
		}
	}
}

// Set assigns a weight to a combo; zero or negative weight removes it.
func (r *Range) Set(hand poker.Hand, weight float64) {
	if weight <= 0 {
		delete(r.hands, hand)
		return
	}
	if weight > 1 {
		weight = 1
	}
	r.hands[hand] = weight
}

// Weight returns the weight of a specific combo (0 when absent).
func (r *Range) Weight(hand poker.Hand) float64 {
	return r.hands[hand]
}

// Contains reports whether a combo is in the range.
func (r *Range) Contains(hand poker.Hand) bool {
	_, ok := r.hands[hand]
	return ok
}

// Size returns the number of combos in the range.
func (r *Range) Size() int {
	return len(r.hands)
}

// TotalWeight returns the summed weight across all combos.
func (r *Range) TotalWeight() float64 {
	var total float64
	for _, w := range r.hands {
		total += w
	}
	return total
}

// Hands returns all combos in the range sorted by numeric value, so any
// iteration over a range is deterministic.
func (r *Range) Hands() []poker.Hand {
	hands := make([]poker.Hand, 0, len(r.hands))
	for hand := range r.hands {
		hands = append(hands, hand)
	}
	slices.Sort(hands)
	return hands
}

// Clone returns a deep copy of the range.
func (r *Range) Clone() *Range {
	out := &Range{hands: make(map[poker.Hand]float64, len(r.hands))}
	for hand, w := range r.hands {
		out.hands[hand] = w
	}
	return out
}

// WithoutCards returns a copy of the range with every combo that shares a
// card with blocked removed. Used to discount combos blocked by the board.
func (r *Range) WithoutCards(blocked poker.Hand) *Range {
	out := NewRange()
	for hand, w := range r.hands {
		if !hand.Overlaps(blocked) {
			out.hands[hand] = w
		}
	}
	return out
}

// ClassKey returns the canonical hand-class key for a two-card combo:
// pair "AA", suited "AKs", offsuit "AKo" with the higher rank first.
func ClassKey(hand poker.Hand) string {
	cards := hand.Cards()
	if len(cards) != 2 {
		return ""
	}

	c1, c2 := cards[0], cards[1]
	if c1.Rank() < c2.Rank() {
		c1, c2 = c2, c1
	}

	const ranks = "23456789TJQKA"
	high := ranks[c1.Rank()]
	low := ranks[c2.Rank()]

	if c1.Rank() == c2.Rank() {
		return string(high) + string(low)
	}
	if c1.Suit() == c2.Suit() {
		return string(high) + string(low) + "s"
	}
	return string(high) + string(low) + "o"
}

// ClassWeights aggregates combo weights into canonical hand classes.
func (r *Range) ClassWeights() map[string]float64 {
	out := make(map[string]float64)
	for _, hand := range r.Hands() {
		out[ClassKey(hand)] += r.hands[hand]
	}
	return out
}

// parseRank converts a rank character to its numeric value (2-14).
func parseRank(c byte) int {
	switch c {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		return int(c - '0')
	case 'T':
		return 10
	case 'J':
		return 11
	case 'Q':
		return 12
	case 'K':
		return 13
	case 'A':
		return 14
	default:
		return 0
	}
}
