// Package classification provides board texture analysis and draw detection
// over bit-packed poker.Hand representations.
package classification

import (
	"math/bits"

	"github.com/lox/handsight/poker"
)

// BoardTexture classifies how coordinated a community board is.
type BoardTexture int

const (
	Dry BoardTexture = iota
	SemiConnected
	Connected
	Wet
	Paired
	Trips
)

func (bt BoardTexture) String() string {
	switch bt {
	case Dry:
		return "dry"
	case SemiConnected:
		return "semi_connected"
	case Connected:
		return "connected"
	case Wet:
		return "wet"
	case Paired:
		return "paired"
	case Trips:
		return "trips"
	default:
		return "unknown"
	}
}

// FlushInfo contains information about flush potential on a board
type FlushInfo struct {
	MaxSuitCount int
	IsMonotone   bool // single suit across 3+ cards
	IsRainbow    bool // all different suits
}

// StraightInfo contains information about straight potential on a board
type StraightInfo struct {
	ConnectedCards int // longest run of consecutive ranks
	Gaps           int
	BroadwayCards  int // T through A
}

// ClassifyBoard classifies a community board. Rank repetition dominates:
// trips and paired boards take their own class regardless of suits, then
// flush/straight coordination separates wet, connected, semi-connected
// and dry boards.
func ClassifyBoard(board poker.Hand) BoardTexture {
	if board.CountCards() < 3 {
		return Dry
	}

	maxRankCount := maxRankRepeat(board)
	if maxRankCount >= 3 {
		return Trips
	}
	if maxRankCount == 2 {
		return Paired
	}

	flush := AnalyzeFlushPotential(board)
	straight := AnalyzeStraightPotential(board)

	switch {
	case flush.IsMonotone || flush.MaxSuitCount >= 4:
		return Wet
	case flush.MaxSuitCount == 3 && straight.ConnectedCards >= 2:
		return Wet
	case straight.ConnectedCards >= 3:
		return Connected
	case straight.ConnectedCards == 2 || flush.MaxSuitCount == 3:
		return SemiConnected
	default:
		return Dry
	}
}

// Wetness returns a coordination score in [0,1] used for graded frequency
// adjustments: 0 is a fully dry rainbow board, 1 a monotone connected one.
func Wetness(board poker.Hand) float64 {
	if board.CountCards() < 3 {
		return 0
	}

	var score int

	flush := AnalyzeFlushPotential(board)
	switch {
	case flush.IsMonotone || flush.MaxSuitCount >= 4:
		score += 4
	case flush.MaxSuitCount == 3:
		score += 3
	case flush.MaxSuitCount == 2:
		score += 1
	}

	straight := AnalyzeStraightPotential(board)
	switch {
	case straight.ConnectedCards >= 4:
		score += 4
	case straight.ConnectedCards == 3:
		score += 3
	case straight.ConnectedCards == 2:
		score += 1
	}

	if maxRankRepeat(board) >= 2 {
		score += 1
	}
	if straight.BroadwayCards >= 3 {
		score += 1
	}

	const maxScore = 10
	w := float64(score) / maxScore
	if w > 1 {
		w = 1
	}
	return w
}

// AnalyzeFlushPotential analyzes flush potential using per-suit bitmasks.
func AnalyzeFlushPotential(board poker.Hand) FlushInfo {
	var maxCount, nonZeroSuits int
	for suit := uint8(0); suit < 4; suit++ {
		count := bits.OnesCount16(board.GetSuitMask(suit))
		if count == 0 {
			continue
		}
		nonZeroSuits++
		if count > maxCount {
			maxCount = count
		}
	}

	cardCount := board.CountCards()
	return FlushInfo{
		MaxSuitCount: maxCount,
		IsMonotone:   nonZeroSuits == 1 && cardCount >= 3,
		IsRainbow:    nonZeroSuits == cardCount && cardCount >= 3,
	}
}

// AnalyzeStraightPotential analyzes rank connectivity, including the wheel
// (treating the ace as sitting below the deuce when low cards are present).
func AnalyzeStraightPotential(board poker.Hand) StraightInfo {
	cardCount := board.CountCards()
	if cardCount == 0 {
		return StraightInfo{}
	}

	rankMask := board.GetRankMask()
	hasAce := rankMask&(1<<poker.Ace) != 0

	broadwayCount := 0
	for rank := poker.Ten; rank <= poker.Ace; rank++ {
		if rankMask&(1<<rank) != 0 {
			broadwayCount++
		}
	}

	ranks := make([]int, 0, cardCount)
	for rank := 0; rank < 13; rank++ {
		if rankMask&(1<<rank) != 0 {
			ranks = append(ranks, rank)
		}
	}

	maxConnected := 1
	currentConnected := 1
	totalGaps := 0

	for i := 1; i < len(ranks); i++ {
		gap := ranks[i] - ranks[i-1] - 1
		if gap == 0 {
			currentConnected++
		} else {
			if currentConnected > maxConnected {
				maxConnected = currentConnected
			}
			currentConnected = 1
			totalGaps += gap
		}
	}
	if currentConnected > maxConnected {
		maxConnected = currentConnected
	}

	// Wheel connectivity: the ace plays below the deuce, but a lone ace-deuce
	// pairing does not make a board coordinated.
	if hasAce {
		wheelConnected := 1
		for rank := 0; rank < len(ranks) && ranks[rank] == rank; rank++ {
			wheelConnected++
		}
		if wheelConnected >= 3 && wheelConnected > maxConnected {
			maxConnected = wheelConnected
		}
	}

	return StraightInfo{
		ConnectedCards: maxConnected,
		Gaps:           totalGaps,
		BroadwayCards:  broadwayCount,
	}
}

// maxRankRepeat returns the highest per-rank card count on the board.
func maxRankRepeat(board poker.Hand) int {
	var best int
	for rank := uint8(0); rank < 13; rank++ {
		count := 0
		for suit := uint8(0); suit < 4; suit++ {
			if board.GetSuitMask(suit)&(1<<rank) != 0 {
				count++
			}
		}
		if count > best {
			best = count
		}
	}
	return best
}
