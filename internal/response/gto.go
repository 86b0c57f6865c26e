package response

import (
	"fmt"

	"github.com/lox/handsight/internal/handstore"
)

// Analytical GTO reference. This is deliberately not a solver: it
// derives a Nash-like baseline from minimum defense frequency and a
// size-dependent bluff ratio, and a blend knob telling consumers how much to
// prefer it over the heuristic output.
//
// MDF here is bet/(pot+bet), computed from the pre-action pot: the share of
// the time the defender may fold before pure bluffs become profitable. The
// defender therefore continues with 1-MDF of their range.
func stageGTOReference(bb *Blackboard) {
	bet := bb.Class.BetBB
	pot := bb.Class.PotBeforeBB

	if bet <= 0 || pot <= 0 {
		bb.GTO = GTOReference{
			Frequencies:      Frequencies{Fold: 1.0 / 3.0, Call: 1.0 / 3.0, Raise: 1.0 / 3.0},
			OverrideStrength: 0,
			Confidence:       0.3,
		}
		bb.note("gto_reference", KindInputMissing, "no bet faced, uniform reference")
		return
	}

	mdf := bet / (pot + bet)
	betRatio := bet / pot

	foldGTO := mdf

	// Optimal bluff-to-value ratio for the bet size, shrinking raise room as
	// the bet grows.
	bluffRatio := betRatio / (1 + 2*betRatio)
	sizeFactor := 1 / (1 + betRatio)

	raiseGTO := bluffRatio * (1 - mdf) * sizeFactor
	if bb.Class.IsAllIn {
		raiseGTO = 0
	}

	callGTO := 1 - foldGTO - raiseGTO
	if callGTO < 0 {
		callGTO = 0
	}
	ref := Frequencies{Fold: foldGTO, Call: callGTO, Raise: raiseGTO}.Normalized()

	confidence := gtoConfidence(bb.Class.Street, bb.ActivePlayers)

	// Disagreement with the heuristic output halves into [0,1]
	disagreement := (absDiff(ref.Fold, bb.Final.Fold) +
		absDiff(ref.Call, bb.Final.Call) +
		absDiff(ref.Raise, bb.Final.Raise)) / 2

	bb.GTO = GTOReference{
		Frequencies:      ref,
		OverrideStrength: clamp01(confidence * (1 - disagreement)),
		Confidence:       confidence,
	}
	bb.note("gto_reference", KindAdjustment,
		fmt.Sprintf("mdf=%.2f bluff-ratio=%.2f disagreement=%.2f", mdf, bluffRatio, disagreement))
}

// gtoConfidence: the analytical model fits best heads-up on late streets.
func gtoConfidence(street string, players int) float64 {
	conf := 0.7 + 0.1*float64(handstore.StreetIndex(street))
	if players > 2 {
		conf -= 0.1 * float64(players-2)
	}
	return clamp(conf, 0.3, 0.95)
}
