package response

import (
	"github.com/lox/handsight/analysis"
	"github.com/lox/handsight/internal/handstore"
)

// Implied-odds constants: each remaining street adds a slice of the clipped
// stack-to-pot ratio to the caller's effective price.
const (
	impliedOddsPerStreet = 0.10
	reverseOddsPerStreet = 0.05
	sprClipCeiling       = 10.0
)

// PotOdds describes the price and stack geometry the villain faces.
type PotOdds struct {
	CallAmount         float64
	PotOdds            float64
	ImpliedOdds        float64
	ReverseImpliedOdds float64
	EffectiveStack     float64
	StackToPot         float64
	RemainingStreets   int
}

// AnalyzePotOdds computes the villain's calling price, implied-odds
// multipliers and effective stack for a classified action. Missing stack
// data degrades to zero-stack geometry rather than failing.
func AnalyzePotOdds(hand *handstore.Hand, class ActionClass, villainID string) PotOdds {
	odds := PotOdds{
		CallAmount:         class.BetBB,
		ImpliedOdds:        1,
		ReverseImpliedOdds: 1,
	}
	if hand == nil {
		return odds
	}

	if class.BetBB > 0 {
		odds.PotOdds = class.BetBB / (class.PotBeforeBB + class.BetBB)
	}

	actorStack := stackBefore(hand, class.ActorID, class.Index)
	villainStack := stackBefore(hand, villainID, class.Index)
	odds.EffectiveStack = min(actorStack, villainStack)
	if odds.EffectiveStack < 0 {
		odds.EffectiveStack = 0
	}

	if class.PotBeforeBB > 0 {
		odds.StackToPot = odds.EffectiveStack / class.PotBeforeBB
	}

	odds.RemainingStreets = 3 - handstore.StreetIndex(class.Street)
	if odds.RemainingStreets < 0 {
		odds.RemainingStreets = 0
	}

	sprClipped := clamp(odds.StackToPot, 0, sprClipCeiling)
	odds.ImpliedOdds = 1 + impliedOddsPerStreet*float64(odds.RemainingStreets)*sprClipped/sprClipCeiling
	odds.ReverseImpliedOdds = 1 + reverseOddsPerStreet*float64(odds.RemainingStreets)*sprClipped/sprClipCeiling

	return odds
}

// stackBefore returns a player's stack at the moment of index: starting
// stack minus everything contributed by prior actions.
func stackBefore(hand *handstore.Hand, playerID string, index int) float64 {
	stack := hand.StackOf(playerID)
	for i := 0; i < index && i < len(hand.BettingActions); i++ {
		a := hand.BettingActions[i]
		if a.PlayerID != playerID {
			continue
		}
		switch a.Action {
		case handstore.ActionFold, handstore.ActionCheck:
		default:
			stack -= a.Amount
		}
	}
	if stack < 0 {
		stack = 0
	}
	return stack
}

// activePlayersAt counts players still in the hand at index: everyone seated
// who has not folded in a prior action.
func activePlayersAt(hand *handstore.Hand, index int) int {
	if hand == nil {
		return 2
	}
	folded := make(map[string]bool)
	for i := 0; i < index && i < len(hand.BettingActions); i++ {
		a := hand.BettingActions[i]
		if a.Action == handstore.ActionFold {
			folded[a.PlayerID] = true
		}
	}
	active := 0
	for _, p := range hand.Players {
		if !folded[p.ID] {
			active++
		}
	}
	if active < 2 {
		active = 2
	}
	return active
}

// positionAfter reports whether position a acts after position b post-flop.
func positionAfter(a, b string) bool {
	return analysis.InPosition(a, b)
}
