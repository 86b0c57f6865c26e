// Package response implements the villain response-model pipeline: a fixed
// cascade of estimation stages that turns (hand, action index, villain) into
// fold/call/raise frequencies, range partitions, raise sizings and a
// game-theoretic reference, evaluated over a typed blackboard.
package response

import "math"

// SourceVersion is stamped into persisted model metadata so downstream
// consumers can tell which pipeline revision produced a model.
const SourceVersion = "handsight/1"

// SumTolerance is the accepted deviation of a frequency triple from 1.0.
const SumTolerance = 1e-3

// Bounds every persisted frequency component must respect. The only
// exception is the raise component against an all-in, which is exactly zero.
const (
	componentFloor = 0.01
	componentCeil  = 0.99
)

// Frequencies is a fold/call/raise probability triple.
type Frequencies struct {
	Fold  float64 `json:"fold"`
	Call  float64 `json:"call"`
	Raise float64 `json:"raise"`
}

// Sum returns fold+call+raise.
func (f Frequencies) Sum() float64 {
	return f.Fold + f.Call + f.Raise
}

// IsNormalized reports whether the triple sums to 1 within SumTolerance.
func (f Frequencies) IsNormalized() bool {
	return math.Abs(f.Sum()-1) <= SumTolerance
}

// Normalized scales the triple so it sums to 1; a zero triple becomes
// equal thirds.
func (f Frequencies) Normalized() Frequencies {
	total := f.Sum()
	if total <= 0 {
		third := 1.0 / 3.0
		return Frequencies{Fold: third, Call: third, Raise: third}
	}
	return Frequencies{Fold: f.Fold / total, Call: f.Call / total, Raise: f.Raise / total}
}

// Assumption is one structured audit entry attached by a stage.
type Assumption struct {
	Stage string `json:"stage"`
	Kind  string `json:"kind"`
	Note  string `json:"note"`
}

// Assumption kinds. Tests assert on kinds, never on prose.
const (
	KindInputMissing      = "input_missing"
	KindDefaultApplied    = "default_applied"
	KindAdjustment        = "adjustment"
	KindOverride          = "override"
	KindNormalization     = "normalization"
	KindPhysicalConstrain = "physical_constraint"
)

// RaiseSizeOption is one named candidate raise amount in big blinds.
type RaiseSizeOption struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// WeightedRaiseSize pairs a candidate amount with its probability mass.
type WeightedRaiseSize struct {
	Amount float64 `json:"amount"`
	Weight float64 `json:"weight"`
}

// RaiseSizing is the catalogue of candidate villain raise sizes plus the
// probability weighting across the bucket aliases.
type RaiseSizing struct {
	Catalogue []RaiseSizeOption            `json:"catalogue"`
	Weighted  map[string]WeightedRaiseSize `json:"weighted"`
}

// GTOReference is the analytical Nash-like baseline: MDF-derived
// frequencies, a blend knob and a confidence score.
type GTOReference struct {
	Frequencies      Frequencies `json:"frequencies"`
	OverrideStrength float64     `json:"overrideStrength"`
	Confidence       float64     `json:"confidence"`
}

// ResponseRanges carries the three persisted sub-ranges as canonical
// hand-class weights.
type ResponseRanges struct {
	Fold  map[string]float64 `json:"fold"`
	Call  map[string]float64 `json:"call"`
	Raise map[string]float64 `json:"raise"`
}

// Metadata records whether normalization changed the triple, the audit
// trail, and the producing pipeline version.
type Metadata struct {
	WasAdjusted   bool         `json:"wasAdjusted"`
	Assumptions   []Assumption `json:"assumptions"`
	SourceVersion string       `json:"sourceVersion"`
}

// ResponseModel is the finished output for one hero action.
type ResponseModel struct {
	Frequencies  Frequencies    `json:"frequencies"`
	Ranges       ResponseRanges `json:"ranges"`
	RaiseSizing  RaiseSizing    `json:"raiseSizing"`
	GTOReference GTOReference   `json:"gtoReference"`
	Confidence   float64        `json:"confidence"`
	Metadata     Metadata       `json:"metadata"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
