package classification

import (
	"math/bits"

	"github.com/lox/handsight/poker"
)

// DrawType represents the types of draws a hand can have
type DrawType int

const (
	FlushDraw DrawType = iota
	NutFlushDraw
	OpenEndedStraightDraw
	Gutshot
	ComboDraw
	Overcards
	NoDraw
)

func (dt DrawType) String() string {
	switch dt {
	case FlushDraw:
		return "flush draw"
	case NutFlushDraw:
		return "nut flush draw"
	case OpenEndedStraightDraw:
		return "open-ended straight draw"
	case Gutshot:
		return "gutshot"
	case ComboDraw:
		return "combo draw"
	case Overcards:
		return "overcards"
	case NoDraw:
		return "no draw"
	default:
		return "unknown"
	}
}

// DrawInfo contains information about draws in a hand
type DrawInfo struct {
	Draws []DrawType
	Outs  int
}

// HasStrongDraw returns true for draws with eight or more effective outs.
func (d DrawInfo) HasStrongDraw() bool {
	return d.Outs >= 8
}

// DetectDraws analyzes hole cards against a board for draws, counting outs
// through a card bitmask so overlapping draws are not double-counted.
func DetectDraws(holeCards, board poker.Hand) DrawInfo {
	if board.CountCards() < 3 || board.CountCards() >= 5 {
		// No draws before the flop; river hands are made hands only.
		return DrawInfo{Draws: []DrawType{NoDraw}}
	}

	var draws []DrawType
	var outsMask poker.Hand

	allCards := holeCards | board

	flush := detectFlushDraw(holeCards, board)
	if flush.hasDraw {
		if flush.isNut {
			draws = append(draws, NutFlushDraw)
		} else {
			draws = append(draws, FlushDraw)
		}
		outsMask |= flush.outsMask
	}

	straight := detectStraightDraws(allCards)
	if straight.hasOESD {
		draws = append(draws, OpenEndedStraightDraw)
		outsMask |= straight.oesdOutsMask
	}
	if straight.hasGutshot {
		draws = append(draws, Gutshot)
		outsMask |= straight.gutshotOutsMask
	}

	// Overcards only matter when no stronger draw is present
	if !flush.hasDraw && !straight.hasOESD {
		if overcardOuts := detectOvercards(holeCards, board, allCards); overcardOuts != 0 {
			draws = append(draws, Overcards)
			outsMask |= overcardOuts
		}
	}

	totalOuts := outsMask.CountCards()
	if len(draws) >= 2 && totalOuts >= 12 {
		draws = append(draws, ComboDraw)
	}
	if len(draws) == 0 {
		draws = []DrawType{NoDraw}
	}

	return DrawInfo{Draws: draws, Outs: totalOuts}
}

type flushDrawInfo struct {
	hasDraw  bool
	isNut    bool
	outsMask poker.Hand
}

type straightDrawInfo struct {
	hasOESD         bool
	hasGutshot      bool
	oesdOutsMask    poker.Hand
	gutshotOutsMask poker.Hand
}

func detectFlushDraw(holeCards, board poker.Hand) flushDrawInfo {
	for suit := range uint8(4) {
		holeSuitMask := holeCards.GetSuitMask(suit)
		boardSuitMask := board.GetSuitMask(suit)

		holeCount := bits.OnesCount16(holeSuitMask)
		totalCount := holeCount + bits.OnesCount16(boardSuitMask)

		// Four to a flush with at least one hole card contributing
		if totalCount == 4 && holeCount > 0 {
			usedMask := holeSuitMask | boardSuitMask
			availableMask := uint16(0x1FFF) &^ usedMask

			var outsMask poker.Hand
			for rank := uint8(0); rank < 13; rank++ {
				if availableMask&(1<<rank) != 0 {
					outsMask.AddCard(poker.NewCard(rank, suit))
				}
			}

			return flushDrawInfo{
				hasDraw:  true,
				isNut:    holeSuitMask&(1<<poker.Ace) != 0,
				outsMask: outsMask,
			}
		}
	}
	return flushDrawInfo{}
}

func detectStraightDraws(allCards poker.Hand) straightDrawInfo {
	rankMask := allCards.GetRankMask()

	var info straightDrawInfo

	// Open-ended: four consecutive ranks with both ends live
	for start := 0; start <= 9; start++ {
		consecutive := 0
		for i := range 4 {
			if rankMask&(1<<(start+i)) != 0 {
				consecutive++
			}
		}
		if consecutive != 4 {
			continue
		}

		lowRank := start - 1
		highRank := start + 4
		if lowRank < 0 || highRank > 12 {
			continue
		}
		if rankMask&(1<<lowRank) == 0 && rankMask&(1<<highRank) == 0 {
			info.hasOESD = true
			for suit := range uint8(4) {
				info.oesdOutsMask.AddCard(poker.NewCard(uint8(lowRank), suit))
				info.oesdOutsMask.AddCard(poker.NewCard(uint8(highRank), suit))
			}
		}
	}

	// Gutshot: four of five consecutive ranks with exactly one interior gap
	if !info.hasOESD {
		for start := 0; start <= 8; start++ {
			present := 0
			missing := -1
			for i := range 5 {
				if rankMask&(1<<(start+i)) != 0 {
					present++
				} else {
					missing = start + i
				}
			}
			if present == 4 && missing > start && missing < start+4 {
				info.hasGutshot = true
				for suit := range uint8(4) {
					info.gutshotOutsMask.AddCard(poker.NewCard(uint8(missing), suit))
				}
				break
			}
		}
	}

	return info
}

func detectOvercards(holeCards, board, usedCards poker.Hand) poker.Hand {
	boardRankMask := board.GetRankMask()
	var highestBoardRank uint8
	for rank := uint8(12); rank > 0; rank-- {
		if boardRankMask&(1<<rank) != 0 {
			highestBoardRank = rank
			break
		}
	}

	holeRankMask := holeCards.GetRankMask()
	var outsMask poker.Hand

	for rank := highestBoardRank + 1; rank <= 12; rank++ {
		if holeRankMask&(1<<rank) == 0 {
			continue
		}
		for suit := range uint8(4) {
			card := poker.NewCard(rank, suit)
			if !usedCards.HasCard(card) {
				outsMask |= poker.Hand(card)
			}
		}
	}

	return outsMask
}
