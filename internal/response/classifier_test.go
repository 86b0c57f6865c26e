package response

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/handsight/internal/handstore"
)

func twoPlayerHand(actions ...handstore.BettingAction) *handstore.Hand {
	return &handstore.Hand{
		ID:         "h1",
		BlindLevel: handstore.BlindLevel{SmallBlind: 0.5, BigBlind: 1},
		Players: []handstore.Player{
			{ID: "hero", Position: "BTN", Stack: 100},
			{ID: "villain", Position: "BB", Stack: 100},
		},
		Board:          []string{"Ah", "7d", "2c", "Kd", "9s"},
		BettingActions: actions,
	}
}

func TestSizingBuckets(t *testing.T) {
	tests := []struct {
		ratio    float64
		expected SizingBucket
	}{
		{0.25, BucketSmall},
		{0.33, BucketSmall},
		{0.5, BucketMedium},
		{1.0, BucketMedium},
		{1.5, BucketLarge},
		{2.0, BucketLarge},
		{3.0, BucketVeryLarge},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, bucketForRatio(tt.ratio), "ratio %.2f", tt.ratio)
	}
}

func TestClassifyActionBasics(t *testing.T) {
	hand := twoPlayerHand(
		handstore.BettingAction{ActionID: "a1", PlayerID: "hero", Action: handstore.ActionRaise, Amount: 2.5, Street: handstore.StreetPreflop},
		handstore.BettingAction{ActionID: "a2", PlayerID: "villain", Action: handstore.ActionCall, Amount: 1.5, Street: handstore.StreetPreflop},
		handstore.BettingAction{ActionID: "a3", PlayerID: "hero", Action: handstore.ActionBet, Amount: 2.75, Street: handstore.StreetFlop},
	)

	class := ClassifyAction(hand, 2)
	assert.True(t, class.Valid)
	assert.Equal(t, handstore.ActionBet, class.Verb)
	assert.Equal(t, "hero", class.ActorID)
	assert.Equal(t, handstore.StreetFlop, class.Street)
	assert.Equal(t, "BTN", class.Position)
	assert.InDelta(t, 5.5, class.PotBeforeBB, 1e-9)
	// Half-pot bet
	assert.Equal(t, BucketMedium, class.Bucket)
	assert.False(t, class.IsAllIn)
}

func TestClassifyActionDefaultsOnBadInput(t *testing.T) {
	class := ClassifyAction(nil, 0)
	assert.False(t, class.Valid)
	assert.Equal(t, handstore.ActionCheck, class.Verb)
	assert.Equal(t, handstore.StreetPreflop, class.Street)
	assert.Equal(t, BucketMedium, class.Bucket)

	hand := twoPlayerHand()
	assert.False(t, ClassifyAction(hand, 5).Valid)
	assert.False(t, ClassifyAction(hand, -1).Valid)
}

func TestClassifyAllIn(t *testing.T) {
	hand := twoPlayerHand(
		handstore.BettingAction{ActionID: "a1", PlayerID: "hero", Action: handstore.ActionAllIn, Amount: 100, Street: handstore.StreetFlop},
	)

	class := ClassifyAction(hand, 0)
	assert.True(t, class.IsAllIn)
	assert.Equal(t, BucketAllIn, class.Bucket)

	// The flag form is equivalent
	hand.BettingActions[0].Action = handstore.ActionBet
	hand.BettingActions[0].IsAllIn = true
	class = ClassifyAction(hand, 0)
	assert.True(t, class.IsAllIn)
	assert.Equal(t, BucketAllIn, class.Bucket)
}

func TestContinuationBet(t *testing.T) {
	hand := twoPlayerHand(
		handstore.BettingAction{ActionID: "a1", PlayerID: "hero", Action: handstore.ActionRaise, Amount: 2.5, Street: handstore.StreetPreflop},
		handstore.BettingAction{ActionID: "a2", PlayerID: "villain", Action: handstore.ActionCall, Amount: 1.5, Street: handstore.StreetPreflop},
		handstore.BettingAction{ActionID: "a3", PlayerID: "villain", Action: handstore.ActionCheck, Amount: 0, Street: handstore.StreetFlop},
		handstore.BettingAction{ActionID: "a4", PlayerID: "hero", Action: handstore.ActionBet, Amount: 3, Street: handstore.StreetFlop},
	)

	assert.True(t, ClassifyAction(hand, 3).IsCBet)

	// A bet by the caller is not a continuation bet
	hand.BettingActions[3].PlayerID = "villain"
	assert.False(t, ClassifyAction(hand, 3).IsCBet)
}

func TestCheckRaise(t *testing.T) {
	hand := twoPlayerHand(
		handstore.BettingAction{ActionID: "a1", PlayerID: "villain", Action: handstore.ActionCheck, Amount: 0, Street: handstore.StreetFlop},
		handstore.BettingAction{ActionID: "a2", PlayerID: "hero", Action: handstore.ActionBet, Amount: 3, Street: handstore.StreetFlop},
		handstore.BettingAction{ActionID: "a3", PlayerID: "villain", Action: handstore.ActionRaise, Amount: 9, Street: handstore.StreetFlop},
	)

	assert.True(t, ClassifyAction(hand, 2).IsCheckRaise)
	assert.False(t, ClassifyAction(hand, 1).IsCheckRaise)
}

func TestDonkBet(t *testing.T) {
	hand := &handstore.Hand{
		ID: "h1",
		Players: []handstore.Player{
			{ID: "hero", Position: "BTN", Stack: 100},
			{ID: "villain", Position: "BB", Stack: 100},
		},
		BettingActions: []handstore.BettingAction{
			{ActionID: "a1", PlayerID: "hero", Action: handstore.ActionRaise, Amount: 2.5, Street: handstore.StreetPreflop},
			{ActionID: "a2", PlayerID: "villain", Action: handstore.ActionCall, Amount: 1.5, Street: handstore.StreetPreflop},
			// Out-of-position caller leads into the preflop aggressor
			{ActionID: "a3", PlayerID: "villain", Action: handstore.ActionBet, Amount: 3, Street: handstore.StreetFlop},
		},
	}

	assert.True(t, ClassifyAction(hand, 2).IsDonkBet)

	// The aggressor betting is not a donk
	hand.BettingActions[2].PlayerID = "hero"
	assert.False(t, ClassifyAction(hand, 2).IsDonkBet)
}

func TestThreeBet(t *testing.T) {
	hand := twoPlayerHand(
		handstore.BettingAction{ActionID: "a1", PlayerID: "hero", Action: handstore.ActionRaise, Amount: 2.5, Street: handstore.StreetPreflop},
		handstore.BettingAction{ActionID: "a2", PlayerID: "villain", Action: handstore.ActionRaise, Amount: 9, Street: handstore.StreetPreflop},
	)

	assert.True(t, ClassifyAction(hand, 1).Is3Bet)
	assert.False(t, ClassifyAction(hand, 0).Is3Bet)
}

func TestValueBet(t *testing.T) {
	hand := twoPlayerHand(
		handstore.BettingAction{ActionID: "a1", PlayerID: "hero", Action: handstore.ActionBet, Amount: 3, Street: handstore.StreetFlop},
		handstore.BettingAction{ActionID: "a2", PlayerID: "villain", Action: handstore.ActionCall, Amount: 3, Street: handstore.StreetFlop},
		handstore.BettingAction{ActionID: "a3", PlayerID: "hero", Action: handstore.ActionBet, Amount: 4, Street: handstore.StreetTurn},
	)

	assert.True(t, ClassifyAction(hand, 2).IsValueBet)

	// Flop bets never qualify
	assert.False(t, ClassifyAction(hand, 0).IsValueBet)
}

func TestVillainProfile(t *testing.T) {
	hand := twoPlayerHand(
		handstore.BettingAction{ActionID: "a1", PlayerID: "villain", Action: handstore.ActionRaise, Amount: 3, Street: handstore.StreetPreflop},
		handstore.BettingAction{ActionID: "a2", PlayerID: "villain", Action: handstore.ActionBet, Amount: 4, Street: handstore.StreetFlop},
		handstore.BettingAction{ActionID: "a3", PlayerID: "hero", Action: handstore.ActionCall, Amount: 4, Street: handstore.StreetFlop},
	)

	assert.Equal(t, "aggressive", villainProfile(hand, "villain", 3))
	assert.Equal(t, "unknown", villainProfile(hand, "ghost", 3))
}
