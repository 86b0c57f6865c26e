package response

import (
	"github.com/lox/handsight/analysis"
	"github.com/lox/handsight/classification"
	"github.com/lox/handsight/poker"
)

// RangeSummary is the strength profile of the villain range at the action
// index. Downstream adjustment stages consume only this summary, never the
// raw range object.
type RangeSummary struct {
	AverageStrength float64
	Category        analysis.StrengthCategory
	StrongPct       float64
	MediumPct       float64
	WeakPct         float64
	DrawingPct      float64
	ComboCount      int
	TotalWeight     float64
	Polarized       bool
	BoardTexture    classification.BoardTexture
}

// SummarizeRange profiles a villain range against the visible board.
// The board-texture field here is a stub refined by the board-texture stage;
// it is computed once so both read the same classification.
func SummarizeRange(r *analysis.Range, board poker.Hand) RangeSummary {
	dist := analysis.DistributeStrength(r, board, func(combo poker.Hand) bool {
		return classification.DetectDraws(combo, board).HasStrongDraw()
	})

	return RangeSummary{
		AverageStrength: dist.AverageStrength,
		Category:        dist.Category(),
		StrongPct:       dist.StrongShare,
		MediumPct:       dist.MediumShare,
		WeakPct:         dist.WeakShare,
		DrawingPct:      dist.DrawingShare,
		ComboCount:      dist.ComboCount,
		TotalWeight:     dist.TotalWeight,
		Polarized:       dist.IsPolarized(),
		BoardTexture:    classification.ClassifyBoard(board),
	}
}
