package response

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handsight/analysis"
	"github.com/lox/handsight/classification"
	"github.com/lox/handsight/internal/handstore"
	"github.com/lox/handsight/poker"
)

// riverBetHand builds a heads-up hand where hero bets amount into a 10 BB
// pot on the river.
func riverBetHand(amount float64) *handstore.Hand {
	return &handstore.Hand{
		ID:         "h1",
		Username:   "alice",
		BlindLevel: handstore.BlindLevel{SmallBlind: 0.5, BigBlind: 1},
		Players: []handstore.Player{
			{ID: "hero", Position: "BTN", Stack: 100},
			{ID: "villain", Position: "BB", Stack: 100},
		},
		Board: []string{"Ah", "7d", "2c", "Kd", "9s"},
		BettingActions: []handstore.BettingAction{
			{ActionID: "p1", PlayerID: "hero", Action: handstore.ActionPost, Amount: 0.5, Street: handstore.StreetPreflop},
			{ActionID: "p2", PlayerID: "villain", Action: handstore.ActionPost, Amount: 1, Street: handstore.StreetPreflop},
			{ActionID: "a1", PlayerID: "hero", Action: handstore.ActionRaise, Amount: 3, Street: handstore.StreetPreflop},
			{ActionID: "a2", PlayerID: "villain", Action: handstore.ActionCall, Amount: 2, Street: handstore.StreetPreflop},
			{ActionID: "a3", PlayerID: "villain", Action: handstore.ActionCheck, Amount: 0, Street: handstore.StreetFlop},
			{ActionID: "a4", PlayerID: "hero", Action: handstore.ActionBet, Amount: 1.75, Street: handstore.StreetFlop},
			{ActionID: "a5", PlayerID: "villain", Action: handstore.ActionCall, Amount: 1.75, Street: handstore.StreetFlop},
			{ActionID: "a6", PlayerID: "villain", Action: handstore.ActionCheck, Amount: 0, Street: handstore.StreetTurn},
			{ActionID: "a7", PlayerID: "hero", Action: handstore.ActionCheck, Amount: 0, Street: handstore.StreetTurn},
			{ActionID: "a8", PlayerID: "villain", Action: handstore.ActionCheck, Amount: 0, Street: handstore.StreetRiver},
			{ActionID: "a9", PlayerID: "hero", Action: handstore.ActionBet, Amount: amount, Street: handstore.StreetRiver},
		},
		HeroActions: []handstore.HeroAction{{ActionID: "a9"}},
	}
}

const riverBetIndex = 10

// smallFlopCBetHand: villain raised the button blind, hero defended, and
// leads 1 BB into the 4 BB flop pot with 60 BB behind.
func smallFlopCBetHand() *handstore.Hand {
	return &handstore.Hand{
		ID:         "h2",
		Username:   "alice",
		BlindLevel: handstore.BlindLevel{SmallBlind: 0.5, BigBlind: 1},
		Players: []handstore.Player{
			{ID: "hero", Position: "BB", Stack: 62},
			{ID: "villain", Position: "SB", Stack: 62},
		},
		Board: []string{"Kh", "7d", "2c"},
		BettingActions: []handstore.BettingAction{
			{ActionID: "p1", PlayerID: "villain", Action: handstore.ActionPost, Amount: 0.5, Street: handstore.StreetPreflop},
			{ActionID: "p2", PlayerID: "hero", Action: handstore.ActionPost, Amount: 1, Street: handstore.StreetPreflop},
			{ActionID: "a1", PlayerID: "villain", Action: handstore.ActionRaise, Amount: 1.5, Street: handstore.StreetPreflop},
			{ActionID: "a2", PlayerID: "hero", Action: handstore.ActionCall, Amount: 1, Street: handstore.StreetPreflop},
			{ActionID: "a3", PlayerID: "hero", Action: handstore.ActionBet, Amount: 1, Street: handstore.StreetFlop},
		},
		HeroActions: []handstore.HeroAction{{ActionID: "a3"}},
	}
}

// turnOverbetHand: hero barrels 25 BB into the 10 BB turn pot on a dry,
// rainbow runout.
func turnOverbetHand() *handstore.Hand {
	return &handstore.Hand{
		ID:         "h3",
		Username:   "alice",
		BlindLevel: handstore.BlindLevel{SmallBlind: 0.5, BigBlind: 1},
		Players: []handstore.Player{
			{ID: "hero", Position: "BTN", Stack: 100},
			{ID: "villain", Position: "BB", Stack: 100},
		},
		Board: []string{"Kh", "9d", "5c", "2s"},
		BettingActions: []handstore.BettingAction{
			{ActionID: "p1", PlayerID: "hero", Action: handstore.ActionPost, Amount: 0.5, Street: handstore.StreetPreflop},
			{ActionID: "p2", PlayerID: "villain", Action: handstore.ActionPost, Amount: 1, Street: handstore.StreetPreflop},
			{ActionID: "a1", PlayerID: "hero", Action: handstore.ActionRaise, Amount: 3, Street: handstore.StreetPreflop},
			{ActionID: "a2", PlayerID: "villain", Action: handstore.ActionCall, Amount: 2, Street: handstore.StreetPreflop},
			{ActionID: "a3", PlayerID: "villain", Action: handstore.ActionCheck, Amount: 0, Street: handstore.StreetFlop},
			{ActionID: "a4", PlayerID: "hero", Action: handstore.ActionBet, Amount: 1.75, Street: handstore.StreetFlop},
			{ActionID: "a5", PlayerID: "villain", Action: handstore.ActionCall, Amount: 1.75, Street: handstore.StreetFlop},
			{ActionID: "a6", PlayerID: "villain", Action: handstore.ActionCheck, Amount: 0, Street: handstore.StreetTurn},
			{ActionID: "a7", PlayerID: "hero", Action: handstore.ActionBet, Amount: 25, Street: handstore.StreetTurn},
		},
		HeroActions: []handstore.HeroAction{{ActionID: "a7"}},
	}
}

// blindBattleHand: small blind against big blind, half-pot lead on a
// paired flop.
func blindBattleHand() *handstore.Hand {
	return &handstore.Hand{
		ID:         "h4",
		Username:   "alice",
		BlindLevel: handstore.BlindLevel{SmallBlind: 0.5, BigBlind: 1},
		Players: []handstore.Player{
			{ID: "hero", Position: "SB", Stack: 100},
			{ID: "villain", Position: "BB", Stack: 100},
		},
		Board: []string{"Qh", "Qd", "7c"},
		BettingActions: []handstore.BettingAction{
			{ActionID: "p1", PlayerID: "hero", Action: handstore.ActionPost, Amount: 0.5, Street: handstore.StreetPreflop},
			{ActionID: "p2", PlayerID: "villain", Action: handstore.ActionPost, Amount: 1, Street: handstore.StreetPreflop},
			{ActionID: "a1", PlayerID: "hero", Action: handstore.ActionRaise, Amount: 2.5, Street: handstore.StreetPreflop},
			{ActionID: "a2", PlayerID: "villain", Action: handstore.ActionCall, Amount: 2, Street: handstore.StreetPreflop},
			{ActionID: "a3", PlayerID: "hero", Action: handstore.ActionBet, Amount: 3, Street: handstore.StreetFlop},
		},
		HeroActions: []handstore.HeroAction{{ActionID: "a3"}},
	}
}

// fixedRangeProvider serves one notation regardless of the action.
type fixedRangeProvider struct {
	notation string
}

func (p fixedRangeProvider) RangeAt(*handstore.Hand, int, string) *analysis.Range {
	return analysis.MustParseRange(p.notation)
}

func runPipeline(t *testing.T, hand *handstore.Hand, index int) *ResponseModel {
	t.Helper()
	model, err := New(ChartProvider{}).Run(hand, index, "villain")
	require.NoError(t, err)
	require.NotNil(t, model)
	return model
}

func TestPipelineProducesNormalizedFrequencies(t *testing.T) {
	model := runPipeline(t, riverBetHand(5), riverBetIndex)

	f := model.Frequencies
	assert.True(t, f.IsNormalized(), "frequencies sum to %.4f", f.Sum())
	for name, v := range map[string]float64{"fold": f.Fold, "call": f.Call, "raise": f.Raise} {
		assert.GreaterOrEqual(t, v, 0.01, "%s below floor", name)
		assert.LessOrEqual(t, v, 0.99, "%s above ceiling", name)
	}

	assert.Greater(t, model.Confidence, 0.0)
	assert.LessOrEqual(t, model.Confidence, 1.0)
	assert.Equal(t, SourceVersion, model.Metadata.SourceVersion)
	assert.NotEmpty(t, model.Metadata.Assumptions)
}

func TestPipelineGTOReferenceMDF(t *testing.T) {
	// 2.5 into 10: MDF = 2.5 / 12.5 = 0.20
	model := runPipeline(t, riverBetHand(2.5), riverBetIndex)

	assert.InDelta(t, 0.20, model.GTOReference.Frequencies.Fold, 1e-9)
	assert.True(t, model.GTOReference.Frequencies.IsNormalized())
	assert.GreaterOrEqual(t, model.GTOReference.OverrideStrength, 0.0)
	assert.LessOrEqual(t, model.GTOReference.OverrideStrength, 1.0)
}

func TestPipelineFoldRisesWithBetSize(t *testing.T) {
	small := runPipeline(t, riverBetHand(2), riverBetIndex)
	large := runPipeline(t, riverBetHand(15), riverBetIndex)

	assert.Greater(t, large.Frequencies.Fold, small.Frequencies.Fold,
		"overbet fold %.3f should exceed small-bet fold %.3f",
		large.Frequencies.Fold, small.Frequencies.Fold)
}

func TestPipelineAllInPhysicalConstraint(t *testing.T) {
	hand := riverBetHand(90)
	hand.BettingActions[riverBetIndex].Action = handstore.ActionAllIn
	hand.BettingActions[riverBetIndex].IsAllIn = true

	model := runPipeline(t, hand, riverBetIndex)

	assert.Zero(t, model.Frequencies.Raise, "no raise exists over an all-in")
	assert.InDelta(t, 1.0, model.Frequencies.Fold+model.Frequencies.Call, 1e-9)
	assert.Zero(t, model.GTOReference.Frequencies.Raise)

	// Sizing collapses onto the shove
	require.Len(t, model.RaiseSizing.Weighted, 1)
	assert.InDelta(t, 1.0, model.RaiseSizing.Weighted[WeightAllIn].Weight, 1e-9)
	assert.Empty(t, model.Ranges.Raise, "no combos should be assigned to raise")
}

func TestPipelineRaiseSizingInvariants(t *testing.T) {
	model := runPipeline(t, riverBetHand(5), riverBetIndex)

	catalogue := model.RaiseSizing.Catalogue
	require.Len(t, catalogue, 5)

	prev := 0.0
	for _, opt := range catalogue {
		assert.GreaterOrEqual(t, opt.Amount, prev, "catalogue not monotone at %s", opt.Name)
		prev = opt.Amount
	}

	effectiveStack := catalogue[len(catalogue)-1].Amount
	for _, opt := range catalogue {
		assert.LessOrEqual(t, opt.Amount, effectiveStack, "%s exceeds the effective stack", opt.Name)
	}

	var totalWeight float64
	for _, w := range model.RaiseSizing.Weighted {
		totalWeight += w.Weight
	}
	assert.InDelta(t, 1.0, totalWeight, 1e-9)
}

func TestPipelineSmallFlopCBet(t *testing.T) {
	model := runPipeline(t, smallFlopCBetHand(), 4)

	f := model.Frequencies
	assert.True(t, f.IsNormalized(), "frequencies sum to %.4f", f.Sum())
	assert.InDelta(t, 0.20, model.GTOReference.Frequencies.Fold, 1e-9, "MDF for 1 into 4")
	assert.GreaterOrEqual(t, f.Fold, 0.30, "small bet should keep folds moderate")
	assert.LessOrEqual(t, f.Fold, 0.50)
	assert.LessOrEqual(t, f.Raise, 0.20)
}

func TestPipelineTurnOverbetWeakRange(t *testing.T) {
	provider := fixedRangeProvider{notation: "32o,42o,52o,62o,72o,82o"}
	model, err := New(provider).Run(turnOverbetHand(), 8, "villain")
	require.NoError(t, err)

	f := model.Frequencies
	assert.True(t, f.IsNormalized(), "frequencies sum to %.4f", f.Sum())
	assert.GreaterOrEqual(t, f.Fold, 0.75, "weak range facing an overbet mostly folds")
	assert.LessOrEqual(t, f.Raise, 0.07)
	assert.False(t, model.Metadata.WasAdjusted,
		"stage shifts stay inside the bounds, no validator correction")
}

func TestPipelineBlindVsBlindPairedBoard(t *testing.T) {
	model := runPipeline(t, blindBattleHand(), 4)

	assert.True(t, model.Frequencies.IsNormalized())

	var bvbNoted, pairedNoted bool
	for _, a := range model.Metadata.Assumptions {
		if a.Stage == "position" && strings.Contains(a.Note, "blind-vs-blind") {
			bvbNoted = true
		}
		if a.Stage == "board_texture" && strings.Contains(a.Note, "paired") {
			pairedNoted = true
		}
	}
	assert.True(t, bvbNoted, "blind battle should trigger the positional boost")
	assert.True(t, pairedNoted, "paired flop should shape the texture shift")
}

func TestStagePositionBlindVsBlind(t *testing.T) {
	hand := &handstore.Hand{
		Players: []handstore.Player{
			{ID: "hero", Position: "SB"},
			{ID: "villain", Position: "BB"},
		},
	}
	bb := &Blackboard{
		Hand:      hand,
		VillainID: "villain",
		Class:     ActionClass{Position: "SB", Valid: true},
		Working:   Frequencies{Fold: 0.5, Call: 0.4, Raise: 0.1},
	}

	stagePosition(bb)

	assert.InDelta(t, 0.45, bb.Working.Fold, 1e-9, "fold drops a tenth blind-vs-blind")
	assert.InDelta(t, 0.11, bb.Working.Raise, 1e-9, "raise rises a tenth blind-vs-blind")
	assert.InDelta(t, 1.0, bb.Working.Sum(), 1e-9)
}

func TestStageBoardTexturePairedReducesRaise(t *testing.T) {
	bb := &Blackboard{
		Class:   ActionClass{Street: handstore.StreetFlop, Valid: true},
		Working: Frequencies{Fold: 0.5, Call: 0.4, Raise: 0.1},
	}
	bb.Summary.BoardTexture = classification.Paired

	stageBoardTexture(bb)

	assert.InDelta(t, 0.085, bb.Working.Raise, 1e-9, "paired board chokes raises by 15%")
	assert.InDelta(t, 0.5075, bb.Working.Fold, 1e-9)
	assert.InDelta(t, 1.0, bb.Working.Sum(), 1e-9)
}

func TestApplyDeltaKeepsComponentsInBounds(t *testing.T) {
	f := Frequencies{Fold: 0.85, Call: 0.12, Raise: 0.03}
	f.apply(Delta{Fold: 0.18, Call: -0.12, Raise: -0.06})

	assert.InDelta(t, 0.98, f.Fold, 1e-9)
	assert.InDelta(t, 0.01, f.Call, 1e-9)
	assert.InDelta(t, 0.01, f.Raise, 1e-9)
	assert.InDelta(t, 1.0, f.Sum(), 1e-9)

	// A component already below the floor is left where it is
	f = Frequencies{Fold: 0.6, Call: 0.4, Raise: 0}
	f.apply(Delta{Fold: 0.05, Call: -0.05})
	assert.Zero(t, f.Raise)
	assert.InDelta(t, 0.65, f.Fold, 1e-9)
}

func TestPipelineMultiwayRaisesFold(t *testing.T) {
	headsUp := runPipeline(t, riverBetHand(5), riverBetIndex)

	fourWay := riverBetHand(5)
	fourWay.Players = append(fourWay.Players,
		handstore.Player{ID: "p3", Position: "CO", Stack: 100},
		handstore.Player{ID: "p4", Position: "HJ", Stack: 100},
	)
	multi := runPipeline(t, fourWay, riverBetIndex)

	assert.Greater(t, multi.Frequencies.Fold, headsUp.Frequencies.Fold,
		"four-way fold %.3f should exceed heads-up fold %.3f",
		multi.Frequencies.Fold, headsUp.Frequencies.Fold)
}

func TestPipelineDeterministic(t *testing.T) {
	first := runPipeline(t, riverBetHand(5), riverBetIndex)
	second := runPipeline(t, riverBetHand(5), riverBetIndex)

	slotsA, err := MarshalSlots(first)
	require.NoError(t, err)
	slotsB, err := MarshalSlots(second)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(slotsA.ResponseModel, slotsB.ResponseModel), "model serialization differs between runs")
	assert.True(t, bytes.Equal(slotsA.ResponseFrequencies, slotsB.ResponseFrequencies))
	assert.True(t, bytes.Equal(slotsA.GTOFrequencies, slotsB.GTOFrequencies))
	assert.True(t, bytes.Equal(slotsA.ResponseRanges, slotsB.ResponseRanges))
}

func TestPipelineNilHand(t *testing.T) {
	_, err := New(ChartProvider{}).Run(nil, 0, "villain")
	assert.ErrorIs(t, err, ErrNoHand)
}

func TestPipelineDegradedInputs(t *testing.T) {
	// Out-of-range index still yields a defaulted, normalized model
	model := runPipeline(t, riverBetHand(5), 99)

	assert.True(t, model.Frequencies.IsNormalized())

	found := false
	for _, a := range model.Metadata.Assumptions {
		if a.Kind == KindInputMissing {
			found = true
		}
	}
	assert.True(t, found, "degraded run should note missing input")
}

func TestMarshalSlotsPopulated(t *testing.T) {
	model := runPipeline(t, riverBetHand(5), riverBetIndex)

	slots, err := MarshalSlots(model)
	require.NoError(t, err)
	assert.NotEmpty(t, slots.ResponseModel)
	assert.NotEmpty(t, slots.ResponseFrequencies)
	assert.NotEmpty(t, slots.GTOFrequencies)
	assert.NotEmpty(t, slots.ResponseRanges)
}

func TestPartitionConservesWeight(t *testing.T) {
	board, err := poker.ParseHand("Ah7d2c")
	require.NoError(t, err)

	r := analysis.MustParseRange("22+,ATs+,KQs,AJo+").WithoutCards(board)
	freq := Frequencies{Fold: 0.5, Call: 0.3, Raise: 0.2}

	split := PartitionRange(r, board, freq)

	assert.InDelta(t, r.TotalWeight(), split.TotalWeight(), 1e-9, "partition must conserve total weight")

	// Sub-ranges are combo-disjoint
	for _, combo := range split.Fold.Hands() {
		assert.False(t, split.Call.Contains(combo), "combo %s in both fold and call", combo)
		assert.False(t, split.Raise.Contains(combo), "combo %s in both fold and raise", combo)
	}
	for _, combo := range split.Call.Hands() {
		assert.False(t, split.Raise.Contains(combo), "combo %s in both call and raise", combo)
	}

	// Raised combos are at least as strong as folded ones
	maxFold, minRaise := 0.0, 1.0
	for _, combo := range split.Fold.Hands() {
		if s := analysis.ComboStrength(combo, board); s > maxFold {
			maxFold = s
		}
	}
	for _, combo := range split.Raise.Hands() {
		if s := analysis.ComboStrength(combo, board); s < minRaise {
			minRaise = s
		}
	}
	if split.Fold.Size() > 0 && split.Raise.Size() > 0 {
		assert.GreaterOrEqual(t, minRaise, maxFold, "raise bucket should hold the stronger combos")
	}
}

func TestPartitionEmptyRange(t *testing.T) {
	split := PartitionRange(analysis.NewRange(), 0, Frequencies{Fold: 1})
	assert.Zero(t, split.TotalWeight())
	assert.Zero(t, split.Fold.Size())
}

func TestStageValidateClipsAndLocks(t *testing.T) {
	bb := &Blackboard{
		Final: Frequencies{Fold: 1.2, Call: -0.1, Raise: 0.1},
		Class: ActionClass{Valid: true},
	}
	bb.Summary.ComboCount = 10

	stageValidate(bb)

	f := bb.Final
	assert.GreaterOrEqual(t, f.Fold, 0.01)
	assert.LessOrEqual(t, f.Fold, 0.99)
	assert.GreaterOrEqual(t, f.Call, 0.01)
	assert.GreaterOrEqual(t, f.Raise, 0.01)
	assert.True(t, bb.WasAdjusted)
	assert.GreaterOrEqual(t, bb.ValidatorConfidence, 0.3)
	assert.LessOrEqual(t, bb.ValidatorConfidence, 1.0)
}

func TestStageValidateAllInComplement(t *testing.T) {
	bb := &Blackboard{
		Final: Frequencies{Fold: 0.55, Call: 0.40, Raise: 0.05},
		Class: ActionClass{Valid: true, IsAllIn: true},
	}
	bb.Summary.ComboCount = 10

	stageValidate(bb)

	assert.Zero(t, bb.Final.Raise)
	assert.Equal(t, 1-bb.Final.Fold, bb.Final.Call, "call must be the exact complement")
}

func TestGuardRaiseRedirectsMass(t *testing.T) {
	bb := &Blackboard{Class: ActionClass{IsAllIn: true}}

	d := bb.guardRaise(Delta{Fold: -0.1, Call: 0.05, Raise: 0.05})
	assert.Zero(t, d.Raise)
	assert.InDelta(t, 0.1, d.Call, 1e-9)

	// Not all-in: delta passes through
	bb.Class.IsAllIn = false
	d = bb.guardRaise(Delta{Raise: 0.05})
	assert.InDelta(t, 0.05, d.Raise, 1e-9)
}
