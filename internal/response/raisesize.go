package response

import "fmt"

// Raise-size catalogue names.
const (
	SizeMin     = "min"
	SizeHalfPot = "halfPot"
	SizePot     = "pot"
	SizeTwoPot  = "twoPot"
	SizeAllIn   = "allIn"
)

// Bucket aliases into the catalogue used by the weighter.
const (
	WeightSmall  = "small"
	WeightMedium = "medium"
	WeightLarge  = "large"
	WeightAllIn  = "all_in"
)

// Raise-size catalogue: candidate villain raise amounts derived
// from the hero bet and pre-action pot, every one clamped to the effective
// stack so the catalogue is monotone by construction.
func stageRaiseCatalogue(bb *Blackboard) {
	bet := bb.Class.BetBB
	pot := bb.Class.PotBeforeBB
	stack := bb.Odds.EffectiveStack

	clampStack := func(v float64) float64 {
		return clamp(v, 0, stack)
	}

	bb.Sizing.Catalogue = []RaiseSizeOption{
		{Name: SizeMin, Amount: clampStack(2 * bet)},
		{Name: SizeHalfPot, Amount: clampStack(pot/2 + 2*bet)},
		{Name: SizePot, Amount: clampStack(pot + 2*bet)},
		{Name: SizeTwoPot, Amount: clampStack(2 * (pot + bet))},
		{Name: SizeAllIn, Amount: clampStack(stack)},
	}
}

// Base raise-size weights per SPR band, small/medium/large/all-in.
var sprSizeWeights = []struct {
	maxSPR  float64
	weights [4]float64
}{
	{2, [4]float64{0.45, 0.25, 0.10, 0.20}},
	{4, [4]float64{0.40, 0.35, 0.20, 0.05}},
	{8, [4]float64{0.35, 0.40, 0.20, 0.05}},
	{-1, [4]float64{0.30, 0.40, 0.25, 0.05}},
}

// Raise-size weighter: picks the SPR band's base weights over the
// bucket aliases (small=min, medium=pot, large=twoPot, all_in=allIn) and
// renormalizes. Facing an all-in the only possible raise is the shove
// itself, so all mass sits on all_in.
func stageRaiseWeights(bb *Blackboard) {
	amounts := make(map[string]float64, len(bb.Sizing.Catalogue))
	for _, opt := range bb.Sizing.Catalogue {
		amounts[opt.Name] = opt.Amount
	}

	if bb.Class.IsAllIn {
		bb.Sizing.Weighted = map[string]WeightedRaiseSize{
			WeightAllIn: {Amount: amounts[SizeAllIn], Weight: 1},
		}
		bb.note("raise_sizing", KindPhysicalConstrain, "facing all-in, only the shove remains")
		return
	}

	weights := sprSizeWeights[len(sprSizeWeights)-1].weights
	for _, band := range sprSizeWeights {
		if band.maxSPR > 0 && bb.Odds.StackToPot <= band.maxSPR {
			weights = band.weights
			break
		}
	}

	var total float64
	for _, w := range weights {
		total += w
	}

	bb.Sizing.Weighted = map[string]WeightedRaiseSize{
		WeightSmall:  {Amount: amounts[SizeMin], Weight: weights[0] / total},
		WeightMedium: {Amount: amounts[SizePot], Weight: weights[1] / total},
		WeightLarge:  {Amount: amounts[SizeTwoPot], Weight: weights[2] / total},
		WeightAllIn:  {Amount: amounts[SizeAllIn], Weight: weights[3] / total},
	}
	bb.note("raise_sizing", KindAdjustment,
		fmt.Sprintf("spr=%.1f band weights applied", bb.Odds.StackToPot))
}
