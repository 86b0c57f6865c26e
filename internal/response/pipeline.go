package response

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lox/handsight/analysis"
	"github.com/lox/handsight/internal/handstore"
	"github.com/lox/handsight/poker"
)

// RangeProvider supplies the villain's range at an action index. The
// pipeline never constructs ranges itself.
type RangeProvider interface {
	RangeAt(hand *handstore.Hand, actionIndex int, playerID string) *analysis.Range
}

// Blackboard is the typed record the stage cascade reads and writes. Every
// stage consumes fields written by earlier stages only; there is no
// back-edge. Stages in isolation can be tested by populating the prefix a
// stage declares as input.
type Blackboard struct {
	// Inputs
	Hand      *handstore.Hand
	Index     int
	VillainID string

	// Classifier output
	Class ActionClass

	// Setup (board, range, live players)
	Board         poker.Hand
	VillainRange  *analysis.Range
	ActivePlayers int

	// Pot odds and stack geometry
	Odds PotOdds

	// Range strength summary
	Summary RangeSummary

	// Anchor and accumulated adjustments
	Base      Frequencies
	Working   Frequencies
	RaiseMult float64

	// Combined and validated triple
	Final               Frequencies
	WasAdjusted         bool
	ValidatorConfidence float64

	// Analytical reference
	GTO GTOReference

	// Range partition
	Split RangeSplit

	// Raise sizing
	Sizing RaiseSizing

	// Finalized model
	Model *ResponseModel

	Assumptions []Assumption

	provider RangeProvider
}

// note appends a structured audit entry for a stage.
func (bb *Blackboard) note(stage, kind, text string) {
	bb.Assumptions = append(bb.Assumptions, Assumption{Stage: stage, Kind: kind, Note: text})
}

// guardRaise strips raise mass from a delta when the action is an all-in,
// where no raise response physically exists; the mass moves to call so the
// delta stays zero-sum.
func (bb *Blackboard) guardRaise(d Delta) Delta {
	if !bb.Class.IsAllIn {
		return d
	}
	d.Call += d.Raise
	d.Raise = 0
	return d
}

// Stage is one named step of the cascade.
type Stage struct {
	Name string
	Run  func(*Blackboard)
}

// Stages is the fixed cascade order. Correctness depends on it: each stage
// consumes a prefix of prior outputs.
var Stages = []Stage{
	{"classify", stageClassify},
	{"setup", stageSetup},
	{"pot_odds", stagePotOdds},
	{"range_summary", stageRangeSummary},
	{"base_anchor", stageBaseAnchor},
	{"range_strength", stageRangeStrength},
	{"position", stagePosition},
	{"stack_depth", stageStackDepth},
	{"multiway", stageMultiway},
	{"call_frequency", stageCallFrequency},
	{"raise_frequency", stageRaiseFrequency},
	{"sizing_multiplier", stageSizingMultiplier},
	{"previous_pattern", stagePreviousPattern},
	{"board_texture", stageBoardTexture},
	{"combiner", stageCombine},
	{"validator", stageValidate},
	{"gto_reference", stageGTOReference},
	{"partition", stagePartition},
	{"raise_catalogue", stageRaiseCatalogue},
	{"raise_weights", stageRaiseWeights},
	{"finalize", stageFinalize},
}

func stageClassify(bb *Blackboard) {
	bb.Class = ClassifyAction(bb.Hand, bb.Index)
	if !bb.Class.Valid {
		bb.note("classify", KindInputMissing, "action could not be classified, defaults in effect")
	}
}

// stageSetup resolves the board, the villain range and the live player
// count. A missing board or empty range degrades with a note rather than
// aborting.
func stageSetup(bb *Blackboard) {
	board, err := bb.Hand.BoardAt(bb.Class.Street)
	if err != nil {
		bb.note("setup", KindInputMissing, "board unreadable, using empty board")
		board = 0
	}
	bb.Board = board
	bb.ActivePlayers = activePlayersAt(bb.Hand, bb.Index)

	if bb.provider != nil {
		bb.VillainRange = bb.provider.RangeAt(bb.Hand, bb.Index, bb.VillainID)
	}
	if bb.VillainRange == nil || bb.VillainRange.Size() == 0 {
		bb.note("setup", KindInputMissing, "villain range unavailable, empty range in effect")
		bb.VillainRange = analysis.NewRange()
	}
}

func stagePotOdds(bb *Blackboard) {
	bb.Odds = AnalyzePotOdds(bb.Hand, bb.Class, bb.VillainID)
}

func stageRangeSummary(bb *Blackboard) {
	bb.Summary = SummarizeRange(bb.VillainRange, bb.Board)
}

// Finalizer: packages the locked frequencies, the partition as
// hand-class weights, sizing, the GTO reference and the audit trail.
func stageFinalize(bb *Blackboard) {
	bb.Model = &ResponseModel{
		Frequencies: bb.Final,
		Ranges: ResponseRanges{
			Fold:  bb.Split.Fold.ClassWeights(),
			Call:  bb.Split.Call.ClassWeights(),
			Raise: bb.Split.Raise.ClassWeights(),
		},
		RaiseSizing:  bb.Sizing,
		GTOReference: bb.GTO,
		Confidence:   min(bb.ValidatorConfidence, bb.GTO.Confidence),
		Metadata: Metadata{
			WasAdjusted:   bb.WasAdjusted,
			Assumptions:   bb.Assumptions,
			SourceVersion: SourceVersion,
		},
	}
}

// Pipeline runs the cascade for single hero actions.
type Pipeline struct {
	provider RangeProvider
}

// New creates a pipeline backed by a range provider.
func New(provider RangeProvider) *Pipeline {
	return &Pipeline{provider: provider}
}

// ErrNoHand is returned when Run is invoked without a hand document.
var ErrNoHand = errors.New("response: nil hand")

// Run executes the full cascade for one (hand, action index, villain).
// Stage-level problems degrade into defaulted outputs and assumption notes;
// the only error is a missing hand document.
func (p *Pipeline) Run(hand *handstore.Hand, index int, villainID string) (*ResponseModel, error) {
	if hand == nil {
		return nil, ErrNoHand
	}

	bb := &Blackboard{
		Hand:      hand,
		Index:     index,
		VillainID: villainID,
		provider:  p.provider,
	}

	for _, stage := range Stages {
		stage.Run(bb)
	}

	return bb.Model, nil
}

// MarshalSlots serializes a model into the four persisted hero-action
// slots. Serialization is deterministic: struct fields keep declaration
// order and map keys marshal sorted.
func MarshalSlots(model *ResponseModel) (handstore.ModelSlots, error) {
	var slots handstore.ModelSlots

	full, err := json.Marshal(model)
	if err != nil {
		return slots, fmt.Errorf("marshal response model: %w", err)
	}
	freqs, err := json.Marshal(model.Frequencies)
	if err != nil {
		return slots, fmt.Errorf("marshal frequencies: %w", err)
	}
	gto, err := json.Marshal(model.GTOReference.Frequencies)
	if err != nil {
		return slots, fmt.Errorf("marshal gto frequencies: %w", err)
	}
	ranges, err := json.Marshal(model.Ranges)
	if err != nil {
		return slots, fmt.Errorf("marshal ranges: %w", err)
	}

	slots.ResponseModel = full
	slots.ResponseFrequencies = freqs
	slots.GTOFrequencies = gto
	slots.ResponseRanges = ranges
	return slots, nil
}
