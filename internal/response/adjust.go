package response

import (
	"fmt"

	"github.com/lox/handsight/analysis"
	"github.com/lox/handsight/classification"
	"github.com/lox/handsight/internal/handstore"
)

// Delta is a zero-sum shift of probability mass between the three responses.
// Stages move mass rather than add it so the working triple keeps summing to
// one and the combiner's renormalization stays a no-op unless clamping hits.
type Delta struct {
	Fold  float64
	Call  float64
	Raise float64
}

// Per-stage delta bounds.
const (
	maxRangeStrengthShift = 0.20
	maxPositionShift      = 0.20
	maxStackDepthShift    = 0.10
	maxMultiwayShift      = 0.20
	maxCallShift          = 0.20
	maxRaiseShift         = 0.15
	maxTextureShift       = 0.15
)

// apply adds a zero-sum delta to the working triple. A shift never takes a
// component below the floor it started above: the overflow drains from the
// components that still have room, so the triple keeps its sum and stays
// inside the validator's bounds without correction.
func (f *Frequencies) apply(d Delta) {
	before := [3]float64{f.Fold, f.Call, f.Raise}
	after := [3]float64{f.Fold + d.Fold, f.Call + d.Call, f.Raise + d.Raise}

	var floors [3]float64
	var deficit float64
	for i := range after {
		floors[i] = min(before[i], componentFloor)
		if after[i] < floors[i] {
			deficit += floors[i] - after[i]
			after[i] = floors[i]
		}
	}

	if deficit > 0 {
		var room [3]float64
		var total float64
		for i := range after {
			room[i] = after[i] - floors[i]
			total += room[i]
		}
		if total > 0 {
			for i := range after {
				after[i] -= deficit * room[i] / total
			}
		}
	}

	f.Fold, f.Call, f.Raise = after[0], after[1], after[2]
}

// boundShift clamps the magnitude of a shift to a stage bound, preserving
// its sign.
func boundShift(v, bound float64) float64 {
	return clamp(v, -bound, bound)
}

// Base anchor: the street-pattern base becomes the working triple.
func stageBaseAnchor(bb *Blackboard) {
	base, exact := BaseFrequencies(bb.Class.Street, bb.Class.Bucket)
	bb.Base = base
	bb.Working = base
	bb.RaiseMult = 1

	if !exact {
		bb.note("base_anchor", KindDefaultApplied,
			fmt.Sprintf("no base row for street=%s bucket=%s, used fallback", bb.Class.Street, bb.Class.Bucket))
	} else {
		bb.note("base_anchor", KindAdjustment,
			fmt.Sprintf("street-pattern base %s/%s", bb.Class.Street, bb.Class.Bucket))
	}
}

// Range strength: strong ranges defend more, weak ranges fold
// more, and drawing-heavy ranges chase small bets but give up to big ones.
func stageRangeStrength(bb *Blackboard) {
	var d Delta
	switch bb.Summary.Category {
	case analysis.VeryStrong:
		d = Delta{Fold: -0.15, Call: 0.07, Raise: 0.08}
	case analysis.Strong:
		d = Delta{Fold: -0.10, Call: 0.05, Raise: 0.05}
	case analysis.Weak:
		d = Delta{Fold: 0.10, Call: -0.07, Raise: -0.03}
	case analysis.VeryWeak:
		d = Delta{Fold: 0.18, Call: -0.12, Raise: -0.06}
	}

	if bb.Summary.DrawingPct > 0.25 {
		switch bb.Class.Bucket {
		case BucketSmall:
			d.Fold -= 0.05
			d.Call += 0.05
		case BucketLarge, BucketVeryLarge:
			d.Fold += 0.05
			d.Call -= 0.05
		}
	}

	d = boundDelta(d, maxRangeStrengthShift)
	d = bb.guardRaise(d)
	bb.Working.apply(d)
	bb.note("range_strength", KindAdjustment,
		fmt.Sprintf("category=%s drawing=%.2f", bb.Summary.Category, bb.Summary.DrawingPct))
}

// Position: an in-position villain peels more, an out-of-position
// villain folds more, and blind-vs-blind pots play more aggressively.
func stagePosition(bb *Blackboard) {
	villain := bb.Hand.PlayerByID(bb.VillainID)
	if villain == nil || bb.Class.Position == "" {
		bb.note("position", KindInputMissing, "villain or actor position unknown, no positional shift")
		return
	}

	heroPos := bb.Class.Position
	villainPos := villain.Position
	bvb := (heroPos == "SB" || heroPos == "BB") && (villainPos == "SB" || villainPos == "BB")

	var d Delta
	switch {
	case bvb:
		df := boundShift(0.10*bb.Working.Fold, maxPositionShift)
		dr := boundShift(0.10*bb.Working.Raise, maxPositionShift)
		d = Delta{Fold: -df, Call: df - dr, Raise: dr}
		bb.note("position", KindAdjustment, "blind-vs-blind aggression boost")
	case positionAfter(villainPos, heroPos):
		df := boundShift(0.15*bb.Working.Fold, maxPositionShift)
		d = Delta{Fold: -df, Call: df}
		bb.note("position", KindAdjustment, "villain in position, calls more")
	default:
		df := boundShift(0.20*bb.Working.Fold, maxPositionShift)
		d = Delta{Fold: df, Call: -df}
		bb.note("position", KindAdjustment, "villain out of position, folds more")
	}

	d = bb.guardRaise(d)
	bb.Working.apply(d)
}

// Stack depth: deep stacks call on implied odds, short
// stacks call committed, sub-pot stacks are binary fold-or-call.
func stageStackDepth(bb *Blackboard) {
	spr := bb.Odds.StackToPot
	var d Delta
	var band string

	switch {
	case spr >= 10:
		band = "deep"
		d = Delta{Fold: -0.05, Call: 0.07, Raise: -0.02}
	case spr >= 3:
		band = "medium"
	case spr >= 1:
		band = "short"
		d = Delta{Fold: -0.05, Call: 0.08, Raise: -0.03}
	default:
		band = "all_in"
		// Binary decision: whatever raise mass is left becomes calls
		d = Delta{Call: bb.Working.Raise, Raise: -bb.Working.Raise}
	}

	d = boundDelta(d, maxStackDepthShift)
	d = bb.guardRaise(d)
	bb.Working.apply(d)
	bb.note("stack_depth", KindAdjustment, fmt.Sprintf("spr=%.1f band=%s", spr, band))
}

// Multiway: additional live players worsen the effective price and
// push mass from call to fold.
func stageMultiway(bb *Blackboard) {
	mult := multiwayMultiplier(bb.ActivePlayers)
	if mult == 1 {
		bb.note("multiway", KindAdjustment, "heads-up, no multiway shift")
		return
	}

	shift := boundShift((mult-1)*0.25, maxMultiwayShift)
	d := Delta{Fold: shift, Call: -shift}
	bb.Working.apply(d)
	bb.note("multiway", KindAdjustment,
		fmt.Sprintf("players=%d pot-odds multiplier=%.1f", bb.ActivePlayers, mult))
}

// multiwayMultiplier maps live player count onto the pot-odds multiplier.
func multiwayMultiplier(players int) float64 {
	switch {
	case players <= 2:
		return 1.0
	case players == 3:
		return 1.2
	case players == 4:
		return 1.4
	default:
		return 1.6
	}
}

// Call frequency: blend the working call halfway toward the price
// implied by pot odds and implied odds, bounded to [0.05, 0.95].
func stageCallFrequency(bb *Blackboard) {
	const callBase = 0.55

	target := (1 - bb.Odds.PotOdds) * callBase * bb.Odds.ImpliedOdds
	target = clamp(target, 0.05, 0.95)

	dc := boundShift((target-bb.Working.Call)*0.5, maxCallShift)

	var d Delta
	if bb.Class.IsAllIn {
		// No raise component exists against a shove
		d = Delta{Fold: -dc, Call: dc}
	} else {
		d = Delta{Fold: -dc * 0.7, Call: dc, Raise: -dc * 0.3}
	}
	d = bb.guardRaise(d)
	bb.Working.apply(d)
	bb.note("call_frequency", KindAdjustment,
		fmt.Sprintf("pot-odds=%.2f implied=%.2f target=%.2f", bb.Odds.PotOdds, bb.Odds.ImpliedOdds, target))
}

// Raise frequency: anchored on the strong share of the range and
// hard-capped at 0.8*strong%+0.1.
func stageRaiseFrequency(bb *Blackboard) {
	if bb.Class.IsAllIn {
		bb.note("raise_frequency", KindPhysicalConstrain, "facing all-in, raise fixed at zero")
		return
	}

	cap := 0.8*bb.Summary.StrongPct + 0.1
	target := clamp(bb.Summary.StrongPct*0.4, 0, cap)

	dr := boundShift((target-bb.Working.Raise)*0.5, maxRaiseShift)
	if bb.Working.Raise+dr > cap {
		dr = cap - bb.Working.Raise
	}

	d := Delta{Fold: -dr, Raise: dr}
	bb.Working.apply(d)
	bb.note("raise_frequency", KindAdjustment,
		fmt.Sprintf("strong=%.2f cap=%.2f", bb.Summary.StrongPct, cap))
}

// Sizing multiplier: small bets invite raises, big bets
// shut them down, polarized and draw-heavy ranges bluff-raise more.
func stageSizingMultiplier(bb *Blackboard) {
	var mult float64
	switch bb.Class.Bucket {
	case BucketSmall:
		mult = 1.4
	case BucketMedium:
		mult = 1.0
	case BucketLarge:
		mult = 0.6
	case BucketVeryLarge:
		mult = 0.4
	case BucketAllIn:
		mult = 0
	default:
		mult = 1.0
	}

	if bb.Summary.Polarized {
		mult *= 1.1
	}
	if bb.Summary.DrawingPct > 0.2 {
		mult *= 1.05
	}

	bb.RaiseMult *= mult
	bb.note("sizing_multiplier", KindAdjustment,
		fmt.Sprintf("bucket=%s multiplier=%.2f", bb.Class.Bucket, mult))
}

// Previous pattern: the villain's own history this hand
// modulates the raise estimate; weak ranges get a hard override on top.
func stagePreviousPattern(bb *Blackboard) {
	profile := villainProfile(bb.Hand, bb.VillainID, bb.Index)

	mult := 1.0
	switch profile {
	case "aggressive":
		mult = 0.8
	case "passive":
		mult = 1.2
	case "folding":
		mult = 1.15
	}

	if bb.Summary.Category == analysis.Weak || bb.Summary.Category == analysis.VeryWeak {
		mult *= 0.9
		bb.note("previous_pattern", KindOverride, "weak range raise override x0.9")
	}

	bb.RaiseMult *= mult
	bb.note("previous_pattern", KindAdjustment,
		fmt.Sprintf("profile=%s multiplier=%.2f", profile, mult))
}

// villainProfile buckets the villain's prior voluntary actions in this hand.
func villainProfile(hand *handstore.Hand, villainID string, index int) string {
	var aggressive, passive, folds, total int
	for i := 0; i < index && i < len(hand.BettingActions); i++ {
		a := hand.BettingActions[i]
		if a.PlayerID != villainID || a.Action == handstore.ActionPost {
			continue
		}
		total++
		switch a.Action {
		case handstore.ActionBet, handstore.ActionRaise, handstore.ActionAllIn:
			aggressive++
		case handstore.ActionCall:
			passive++
		case handstore.ActionFold:
			folds++
		}
	}

	if total == 0 {
		return "unknown"
	}
	switch {
	case float64(folds)/float64(total) >= 0.5:
		return "folding"
	case float64(aggressive)/float64(total) >= 0.4:
		return "aggressive"
	case float64(passive)/float64(total) >= 0.5:
		return "passive"
	default:
		return "balanced"
	}
}

// Board texture: wet and connected boards keep ranges attached,
// dry boards release them, paired and trips boards choke raises. Effects
// grow on later streets.
func stageBoardTexture(bb *Blackboard) {
	streetFactor := 1.0
	switch bb.Class.Street {
	case handstore.StreetTurn:
		streetFactor = 1.25
	case handstore.StreetRiver:
		streetFactor = 1.5
	}

	var d Delta
	texture := bb.Summary.BoardTexture
	switch texture {
	case classification.Dry:
		shift := 0.03 * streetFactor
		d = Delta{Fold: shift, Call: -shift}
	case classification.SemiConnected:
		shift := 0.01 * streetFactor
		d = Delta{Fold: -shift, Call: shift}
	case classification.Connected:
		shift := 0.02 * streetFactor
		d = Delta{Fold: -shift, Call: shift}
	case classification.Wet:
		shift := 0.04 * streetFactor
		d = Delta{Fold: -shift, Call: shift}
	case classification.Paired:
		dr := 0.15 * bb.Working.Raise
		d = Delta{Fold: dr * 0.5, Call: dr * 0.5, Raise: -dr}
	case classification.Trips:
		dr := 0.25 * bb.Working.Raise
		d = Delta{Fold: dr*0.5 + 0.05, Call: dr*0.5 - 0.05, Raise: -dr}
	}

	d = boundDelta(d, maxTextureShift)
	d = bb.guardRaise(d)
	bb.Working.apply(d)
	bb.note("board_texture", KindAdjustment,
		fmt.Sprintf("texture=%s street-factor=%.2f", texture, streetFactor))
}

// boundDelta clamps each component of a delta to a stage bound. Zero-sum
// deltas stay zero-sum when unclamped; a clamped delta is later rebalanced
// by the combiner.
func boundDelta(d Delta, bound float64) Delta {
	return Delta{
		Fold:  boundShift(d.Fold, bound),
		Call:  boundShift(d.Call, bound),
		Raise: boundShift(d.Raise, bound),
	}
}
