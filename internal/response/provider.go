package response

import (
	"github.com/lox/handsight/analysis"
	"github.com/lox/handsight/internal/handstore"
)

// ChartProvider derives villain ranges from positional opening charts. The
// chart for the villain's seat is the starting range; combos blocked by the
// visible board are removed. Villains who only called preflop keep the full
// chart, a conservative widening.
type ChartProvider struct{}

// RangeAt implements RangeProvider.
func (ChartProvider) RangeAt(hand *handstore.Hand, actionIndex int, playerID string) *analysis.Range {
	if hand == nil {
		return analysis.NewRange()
	}

	position := ""
	if p := hand.PlayerByID(playerID); p != nil {
		position = p.Position
	}

	r := analysis.ChartRange(position)

	street := handstore.StreetPreflop
	if actionIndex >= 0 && actionIndex < len(hand.BettingActions) {
		street = hand.BettingActions[actionIndex].Street
	}
	board, err := hand.BoardAt(street)
	if err != nil || board == 0 {
		return r
	}
	return r.WithoutCards(board)
}
