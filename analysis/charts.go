package analysis

import "sync"

// Position labels in preflop action order; the blinds act last before the
// flop.
var PositionOrder = []string{"UTG", "UTG+1", "LJ", "HJ", "CO", "BTN", "SB", "BB"}

// PositionIndex returns the index of a position label in PositionOrder,
// or -1 for an unknown label.
func PositionIndex(position string) int {
	for i, p := range PositionOrder {
		if p == position {
			return i
		}
	}
	return -1
}

// Post-flop the blinds act first and the button acts last.
var postflopOrder = []string{"SB", "BB", "UTG", "UTG+1", "LJ", "HJ", "CO", "BTN"}

// InPosition reports whether a acts after b on post-flop streets.
func InPosition(a, b string) bool {
	ai, bi := -1, -1
	for i, p := range postflopOrder {
		if p == a {
			ai = i
		}
		if p == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return false
	}
	return ai > bi
}

// Default opening charts by position. These are deliberately coarse: they
// exist so batches can run without an external range subsystem attached,
// and they widen from early position through the big blind defense range.
var positionCharts = map[string]string{
	"UTG":   "77+,ATs+,KQs,AJo+,KQo",
	"UTG+1": "66+,A9s+,KJs+,QJs,ATo+,KQo",
	"LJ":    "55+,A7s+,KTs+,QTs+,JTs,ATo+,KJo+",
	"HJ":    "44+,A5s+,K9s+,Q9s+,J9s+,T9s,A9o+,KTo+,QJo",
	"CO":    "33+,A2s+,K7s+,Q8s+,J8s+,T8s+,98s,A7o+,K9o+,Q9o+,JTo",
	"BTN":   "22+,A2s+,K2s+,Q5s+,J7s+,T7s+,97s+,87s,76s,A2o+,K8o+,Q8o+,J8o+,T8o+,98o",
	"SB":    "22+,A2s+,K5s+,Q7s+,J8s+,T8s+,97s+,87s,A4o+,K9o+,Q9o+,J9o+,T9o",
	"BB":    "22+,A2s+,K2s+,Q2s+,J4s+,T6s+,96s+,86s+,75s+,65s,A2o+,K5o+,Q7o+,J8o+,T8o+,98o",
}

var (
	chartOnce   sync.Once
	chartRanges map[string]*Range
)

// ChartRange returns the default chart range for a position. Unknown
// positions get the button chart as the widest sensible default. The
// returned range is a clone; callers may mutate it.
func ChartRange(position string) *Range {
	chartOnce.Do(func() {
		chartRanges = make(map[string]*Range, len(positionCharts))
		for pos, notation := range positionCharts {
			chartRanges[pos] = MustParseRange(notation)
		}
	})

	r, ok := chartRanges[position]
	if !ok {
		r = chartRanges["BTN"]
	}
	return r.Clone()
}
