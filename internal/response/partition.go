package response

import (
	"sort"

	"github.com/lox/handsight/analysis"
	"github.com/lox/handsight/poker"
)

// RangeSplit is the partition of the villain range across the three
// responses. Sub-ranges are disjoint on combo identity and their weights sum
// to the input range's total weight.
type RangeSplit struct {
	Fold  *analysis.Range
	Call  *analysis.Range
	Raise *analysis.Range
}

// TotalWeight sums the three sub-range weights.
func (s RangeSplit) TotalWeight() float64 {
	var total float64
	if s.Fold != nil {
		total += s.Fold.TotalWeight()
	}
	if s.Call != nil {
		total += s.Call.TotalWeight()
	}
	if s.Raise != nil {
		total += s.Raise.TotalWeight()
	}
	return total
}

// Range partitioner. Combos are ordered by strength against the
// board; the weakest fill the fold bucket up to its weight quota, the
// strongest fill the raise bucket, and the middle calls. Whole combos are
// never split across buckets, so bucket weights match their quotas as
// closely as combo granularity allows.
func stagePartition(bb *Blackboard) {
	bb.Split = PartitionRange(bb.VillainRange, bb.Board, bb.Final)
}

// PartitionRange splits a range by the final frequencies.
func PartitionRange(r *analysis.Range, board poker.Hand, freq Frequencies) RangeSplit {
	split := RangeSplit{
		Fold:  analysis.NewRange(),
		Call:  analysis.NewRange(),
		Raise: analysis.NewRange(),
	}
	if r == nil || r.Size() == 0 {
		return split
	}

	type scored struct {
		combo    poker.Hand
		weight   float64
		strength float64
	}

	combos := make([]scored, 0, r.Size())
	var total float64
	for _, combo := range r.Hands() {
		w := r.Weight(combo)
		combos = append(combos, scored{
			combo:    combo,
			weight:   w,
			strength: analysis.ComboStrength(combo, board),
		})
		total += w
	}

	// Weakest first; ties break on the combo's numeric value so the
	// partition is deterministic.
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].strength != combos[j].strength {
			return combos[i].strength < combos[j].strength
		}
		return combos[i].combo < combos[j].combo
	})

	foldQuota := freq.Fold * total
	raiseQuota := freq.Raise * total

	// Fill fold from the bottom: take a combo while its midpoint still sits
	// inside the quota.
	lo := 0
	var foldWeight float64
	for lo < len(combos) && foldWeight+combos[lo].weight/2 <= foldQuota {
		split.Fold.Set(combos[lo].combo, combos[lo].weight)
		foldWeight += combos[lo].weight
		lo++
	}

	// Fill raise from the top with the same midpoint rule.
	hi := len(combos)
	var raiseWeight float64
	for hi > lo && raiseWeight+combos[hi-1].weight/2 <= raiseQuota {
		split.Raise.Set(combos[hi-1].combo, combos[hi-1].weight)
		raiseWeight += combos[hi-1].weight
		hi--
	}

	// Everything between calls.
	for i := lo; i < hi; i++ {
		split.Call.Set(combos[i].combo, combos[i].weight)
	}

	return split
}
