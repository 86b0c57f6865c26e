package analysis

import (
	"github.com/lox/handsight/poker"
)

// ComboStrength scores a two-card combo against the current board on [0,1].
// Postflop the score is the evaluator rank of the best five-card hand the
// combo makes; before a flop exists it falls back to the preflop formula.
// Combos that share a card with the board score 0 (they are impossible).
func ComboStrength(combo, board poker.Hand) float64 {
	if combo.CountCards() != 2 {
		return 0
	}
	if combo.Overlaps(board) {
		return 0
	}
	if board.CountCards() < 3 {
		cards := combo.Cards()
		return poker.PreflopStrength(cards[0], cards[1])
	}

	rank, ok := poker.Evaluate(combo | board)
	if !ok {
		return 0
	}
	return rank.Strength()
}

// StrengthDistribution describes a weighted range's strength profile against
// one board. Percentages are weight-weighted shares of the whole range.
type StrengthDistribution struct {
	AverageStrength float64
	StrongShare     float64
	MediumShare     float64
	WeakShare       float64
	DrawingShare    float64
	ComboCount      int
	TotalWeight     float64
	PolarityScore   float64 // share of mass at both extremes relative to the middle
}

// Strength distribution thresholds
const (
	StrongThreshold = 0.7
	WeakThreshold   = 0.3
	DrawingOuts     = 8
)

// DistributeStrength summarizes a range against a board. A drawProber, when
// non-nil, reports whether a combo holds a draw with DrawingOuts or more
// effective outs; it is injected so this package stays independent of the
// classification package.
func DistributeStrength(r *Range, board poker.Hand, drawProber func(combo poker.Hand) bool) StrengthDistribution {
	if r == nil || r.Size() == 0 {
		return StrengthDistribution{}
	}

	var dist StrengthDistribution
	var weightedSum float64

	for _, combo := range r.Hands() {
		w := r.Weight(combo)
		strength := ComboStrength(combo, board)

		dist.ComboCount++
		dist.TotalWeight += w
		weightedSum += strength * w

		switch {
		case strength >= StrongThreshold:
			dist.StrongShare += w
		case strength <= WeakThreshold:
			dist.WeakShare += w
		default:
			dist.MediumShare += w
		}

		if drawProber != nil && drawProber(combo) {
			dist.DrawingShare += w
		}
	}

	if dist.TotalWeight > 0 {
		dist.AverageStrength = weightedSum / dist.TotalWeight
		dist.StrongShare /= dist.TotalWeight
		dist.MediumShare /= dist.TotalWeight
		dist.WeakShare /= dist.TotalWeight
		dist.DrawingShare /= dist.TotalWeight
	}

	// Polarized ranges carry their mass at both ends with little in between
	extremes := dist.StrongShare + dist.WeakShare
	if extremes > 0 {
		dist.PolarityScore = extremes - dist.MediumShare
		if dist.PolarityScore < 0 {
			dist.PolarityScore = 0
		}
	}

	return dist
}

// StrengthCategory buckets an average strength the way reporting expects.
type StrengthCategory string

const (
	VeryStrong StrengthCategory = "very_strong"
	Strong     StrengthCategory = "strong"
	MediumCat  StrengthCategory = "medium"
	Weak       StrengthCategory = "weak"
	VeryWeak   StrengthCategory = "very_weak"
)

// Category maps the average strength onto a named bucket.
func (d StrengthDistribution) Category() StrengthCategory {
	switch {
	case d.AverageStrength >= 0.8:
		return VeryStrong
	case d.AverageStrength >= StrongThreshold:
		return Strong
	case d.AverageStrength > WeakThreshold:
		return MediumCat
	case d.AverageStrength > 0.15:
		return Weak
	default:
		return VeryWeak
	}
}

// IsPolarized reports whether the range holds meaningfully more mass at the
// extremes than in the middle.
func (d StrengthDistribution) IsPolarized() bool {
	return d.PolarityScore >= 0.25
}
