package response

import (
	"github.com/lox/handsight/internal/handstore"
)

// SizingBucket buckets a bet by its pot ratio. All-in is its own bucket and
// never routes through the very_large path.
type SizingBucket string

const (
	BucketSmall     SizingBucket = "small"
	BucketMedium    SizingBucket = "medium"
	BucketLarge     SizingBucket = "large"
	BucketVeryLarge SizingBucket = "very_large"
	BucketAllIn     SizingBucket = "all_in"
)

// bucketForRatio buckets a non-all-in bet by bet/pot ratio.
func bucketForRatio(ratio float64) SizingBucket {
	switch {
	case ratio <= 0.33:
		return BucketSmall
	case ratio <= 1.0:
		return BucketMedium
	case ratio <= 2.0:
		return BucketLarge
	default:
		return BucketVeryLarge
	}
}

// ActionClass is the structural classification of a single betting action.
type ActionClass struct {
	Verb         string
	ActorID      string
	Index        int
	BetBB        float64
	PotBeforeBB  float64
	Bucket       SizingBucket
	IsAllIn      bool
	IsCBet       bool
	IsCheckRaise bool
	IsDonkBet    bool
	Is3Bet       bool
	IsValueBet   bool
	Street       string
	Position     string
	Valid        bool
}

// ClassifyAction classifies the betting action at index. On missing or
// malformed input it returns a defaulted classification with Valid=false
// rather than failing, so downstream stages always have something to read.
func ClassifyAction(hand *handstore.Hand, index int) ActionClass {
	if hand == nil || index < 0 || index >= len(hand.BettingActions) {
		return ActionClass{
			Verb:   handstore.ActionCheck,
			Street: handstore.StreetPreflop,
			Bucket: BucketMedium,
			Index:  index,
		}
	}

	action := hand.BettingActions[index]
	potBefore := hand.PotBefore(index)

	class := ActionClass{
		Verb:        action.Action,
		ActorID:     action.PlayerID,
		Index:       index,
		BetBB:       action.Amount,
		PotBeforeBB: potBefore,
		Street:      action.Street,
		IsAllIn:     action.IsAllIn || action.Action == handstore.ActionAllIn,
		Valid:       true,
	}

	if p := hand.PlayerByID(action.PlayerID); p != nil {
		class.Position = p.Position
	}

	if class.IsAllIn {
		class.Bucket = BucketAllIn
	} else {
		class.Bucket = bucketForRatio(action.Amount / potBefore)
	}

	class.IsCheckRaise = isCheckRaise(hand, index)
	class.IsDonkBet = isDonkBet(hand, index)
	class.IsCBet = isContinuationBet(hand, index)
	class.Is3Bet = isThreeBet(hand, index)
	class.IsValueBet = isValueBet(hand, index, class)

	return class
}

// isCheckRaise: the same actor checked earlier on this street, an opponent
// bet or raised after that, and this action is a raise.
func isCheckRaise(hand *handstore.Hand, index int) bool {
	action := hand.BettingActions[index]
	if action.Action != handstore.ActionRaise {
		return false
	}

	checkedAt := -1
	for i := index - 1; i >= 0; i-- {
		prior := hand.BettingActions[i]
		if prior.Street != action.Street {
			break
		}
		if prior.PlayerID == action.PlayerID && prior.Action == handstore.ActionCheck {
			checkedAt = i
			break
		}
	}
	if checkedAt < 0 {
		return false
	}

	for i := checkedAt + 1; i < index; i++ {
		between := hand.BettingActions[i]
		if between.PlayerID == action.PlayerID {
			continue
		}
		if between.Action == handstore.ActionBet || between.Action == handstore.ActionRaise {
			return true
		}
	}
	return false
}

// isDonkBet: the first post-flop action on its street, made by a player who
// was not the previous street's last aggressor, from out of position against
// that aggressor.
func isDonkBet(hand *handstore.Hand, index int) bool {
	action := hand.BettingActions[index]
	if action.Action != handstore.ActionBet {
		return false
	}
	if handstore.StreetIndex(action.Street) < 1 {
		return false
	}

	// Must be the street's first action
	for i := index - 1; i >= 0; i-- {
		if hand.BettingActions[i].Street == action.Street {
			return false
		}
	}

	aggressor := lastAggressorBefore(hand, index, previousStreet(action.Street))
	if aggressor == "" || aggressor == action.PlayerID {
		return false
	}

	actor := hand.PlayerByID(action.PlayerID)
	agg := hand.PlayerByID(aggressor)
	if actor == nil || agg == nil {
		return false
	}
	return !positionAfter(actor.Position, agg.Position)
}

// isContinuationBet: the first bet on the flop, by the preflop last aggressor.
func isContinuationBet(hand *handstore.Hand, index int) bool {
	action := hand.BettingActions[index]
	if action.Action != handstore.ActionBet || action.Street != handstore.StreetFlop {
		return false
	}

	for i := index - 1; i >= 0; i-- {
		prior := hand.BettingActions[i]
		if prior.Street != handstore.StreetFlop {
			break
		}
		if prior.Action == handstore.ActionBet || prior.Action == handstore.ActionRaise {
			return false
		}
	}

	return lastAggressorBefore(hand, index, handstore.StreetPreflop) == action.PlayerID
}

// isThreeBet: a raise with at least one prior raise on the same street.
func isThreeBet(hand *handstore.Hand, index int) bool {
	action := hand.BettingActions[index]
	if action.Action != handstore.ActionRaise {
		return false
	}
	for i := index - 1; i >= 0; i-- {
		prior := hand.BettingActions[i]
		if prior.Street != action.Street {
			break
		}
		if prior.Action == handstore.ActionRaise {
			return true
		}
	}
	return false
}

// isValueBet: a turn or river bet of at most pot size by the previous
// street's last aggressor. This is the one heuristic classification; the
// rest are purely structural.
func isValueBet(hand *handstore.Hand, index int, class ActionClass) bool {
	if class.Verb != handstore.ActionBet || class.IsAllIn {
		return false
	}
	if handstore.StreetIndex(class.Street) < 2 {
		return false
	}
	if class.Bucket != BucketSmall && class.Bucket != BucketMedium {
		return false
	}
	return lastAggressorBefore(hand, index, previousStreet(class.Street)) == class.ActorID
}

// lastAggressorBefore returns the player id of the last bet or raise on the
// given street prior to index, or "" when that street had no aggressor.
func lastAggressorBefore(hand *handstore.Hand, index int, street string) string {
	aggressor := ""
	for i := 0; i < index && i < len(hand.BettingActions); i++ {
		a := hand.BettingActions[i]
		if a.Street != street {
			continue
		}
		if a.Action == handstore.ActionBet || a.Action == handstore.ActionRaise || a.Action == handstore.ActionAllIn {
			aggressor = a.PlayerID
		}
	}
	return aggressor
}

func previousStreet(street string) string {
	switch street {
	case handstore.StreetFlop:
		return handstore.StreetPreflop
	case handstore.StreetTurn:
		return handstore.StreetFlop
	case handstore.StreetRiver:
		return handstore.StreetTurn
	default:
		return ""
	}
}
