package response

import "fmt"

// Combiner. The additive deltas have already been folded into the
// working triple in stage order; this stage applies the accumulated
// multiplicative raise modifiers (mass-compensated out of call, then fold),
// clamps, and renormalizes. wasAdjusted records whether normalization moved
// any component by 1e-3 or more.
func stageCombine(bb *Blackboard) {
	w := bb.Working

	if bb.Class.IsAllIn {
		// Physically constrained: no raise exists over an all-in
		w.Call += w.Raise
		w.Raise = 0
	} else if bb.RaiseMult != 1 {
		// The multiplier respects the same floor the additive stages do,
		// so a shrinking raise never drops out of bounds.
		floor := min(w.Raise, componentFloor)
		newRaise := clamp(w.Raise*bb.RaiseMult, floor, componentCeil)
		diff := newRaise - w.Raise
		w.Raise = newRaise

		// Take the mass difference out of call first, spilling into fold,
		// so the triple keeps summing to one.
		w.Call -= diff
		if w.Call < 0 {
			w.Fold += w.Call
			w.Call = 0
		}
	}

	w.Fold = clamp01(w.Fold)
	w.Call = clamp01(w.Call)
	w.Raise = clamp01(w.Raise)

	normalized := w
	if w.Sum() <= 0 {
		if bb.Class.IsAllIn {
			normalized = Frequencies{Fold: 0.5, Call: 0.5}
		} else {
			normalized = w.Normalized() // equal thirds
		}
		bb.note("combiner", KindNormalization, "degenerate zero triple, reset to uniform")
	} else {
		normalized = w.Normalized()
	}

	const changeThreshold = 1e-3
	bb.WasAdjusted = absDiff(normalized.Fold, w.Fold) >= changeThreshold ||
		absDiff(normalized.Call, w.Call) >= changeThreshold ||
		absDiff(normalized.Raise, w.Raise) >= changeThreshold
	if bb.WasAdjusted {
		bb.note("combiner", KindNormalization,
			fmt.Sprintf("renormalized from sum %.4f", w.Sum()))
	}

	bb.Final = normalized
}

// Validator. Components are forced into [0.01, 0.99] and the
// mass balance is restored by distributing the difference across whatever
// headroom remains, so no component escapes its bounds; a physically
// constrained raise (all-in) is exempt and pinned at zero. The resulting
// triple is locked; later stages only read it.
func stageValidate(bb *Blackboard) {
	f := bb.Final

	const lo, hi = componentFloor, componentCeil

	// Sub-epsilon clipping is float residue from the zero-sum arithmetic,
	// not a correction worth flagging.
	const correctionEpsilon = 1e-9

	if bb.Class.IsAllIn {
		// Residual raise mass joins call through the exact complement
		fold := clamp(f.Fold, lo, hi)
		corrected := absDiff(fold, f.Fold) > correctionEpsilon || f.Raise != 0
		f = Frequencies{Fold: fold, Call: 1 - fold}
		if corrected {
			bb.note("validator", KindPhysicalConstrain, "pinned raise at zero against all-in")
			bb.WasAdjusted = true
		}
	} else {
		clipped := [3]float64{
			clamp(f.Fold, lo, hi),
			clamp(f.Call, lo, hi),
			clamp(f.Raise, lo, hi),
		}
		changed := absDiff(clipped[0], f.Fold) > correctionEpsilon ||
			absDiff(clipped[1], f.Call) > correctionEpsilon ||
			absDiff(clipped[2], f.Raise) > correctionEpsilon

		// Restore the mass balance inside the bounds: a deficit fills
		// headroom below the ceiling, a surplus drains room above the floor.
		diff := 1 - (clipped[0] + clipped[1] + clipped[2])
		if absDiff(diff, 0) > 1e-12 {
			var room [3]float64
			var total float64
			for i, v := range clipped {
				if diff > 0 {
					room[i] = hi - v
				} else {
					room[i] = v - lo
				}
				total += room[i]
			}
			if total > 0 {
				for i := range clipped {
					clipped[i] += diff * room[i] / total
				}
			}
			changed = true
		}

		f = Frequencies{Fold: clipped[0], Call: clipped[1], Raise: clipped[2]}
		if changed {
			bb.note("validator", KindNormalization, "clipped components and rebalanced mass")
			bb.WasAdjusted = true
		}
	}

	bb.Final = f

	// Validator confidence degrades with the amount of correction applied
	confidence := 1.0
	if bb.WasAdjusted {
		confidence -= 0.1
	}
	if !bb.Class.Valid {
		confidence -= 0.2
	}
	if bb.Summary.ComboCount == 0 {
		confidence -= 0.2
	}
	bb.ValidatorConfidence = clamp(confidence, 0.3, 1)
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
