package classification

import (
	"testing"

	"github.com/lox/handsight/poker"
)

// Helper to parse board cards for tests
func parseBoard(cardStrs string) poker.Hand {
	hand, err := poker.ParseHand(cardStrs)
	if err != nil {
		panic(err)
	}
	return hand
}

func TestClassifyBoard(t *testing.T) {
	tests := []struct {
		name     string
		board    string
		expected BoardTexture
	}{
		{
			name:     "dry rainbow",
			board:    "As7h2c",
			expected: Dry,
		},
		{
			name:     "two broadway with flush draw",
			board:    "KhQh7c",
			expected: SemiConnected,
		},
		{
			name:     "connected rainbow",
			board:    "9h8d7s",
			expected: Connected,
		},
		{
			name:     "monotone connected",
			board:    "Th9h8h",
			expected: Wet,
		},
		{
			name:     "paired board",
			board:    "AsAh7c",
			expected: Paired,
		},
		{
			name:     "trips board",
			board:    "7s7h7c",
			expected: Trips,
		},
		{
			name:     "paired wet still paired",
			board:    "9h9d8h",
			expected: Paired,
		},
		{
			name:     "two gapped same suit",
			board:    "Kd8d3d",
			expected: Wet,
		},
		{
			name:     "semi connected",
			board:    "JhTd4c",
			expected: SemiConnected,
		},
		{
			name:     "preflop empty board",
			board:    "",
			expected: Dry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyBoard(parseBoard(tt.board))
			if result != tt.expected {
				t.Errorf("ClassifyBoard(%s) = %v, want %v", tt.board, result, tt.expected)
			}
		})
	}
}

func TestWetnessOrdering(t *testing.T) {
	dry := Wetness(parseBoard("As7h2c"))
	connected := Wetness(parseBoard("9h8d7s"))
	monotone := Wetness(parseBoard("Th9h8h"))

	if !(dry < connected && connected < monotone) {
		t.Errorf("wetness ordering violated: dry=%.2f connected=%.2f monotone=%.2f",
			dry, connected, monotone)
	}

	for _, board := range []string{"", "As7h2c", "Th9h8h", "AsAh7c2d9s"} {
		w := Wetness(parseBoard(board))
		if w < 0 || w > 1 {
			t.Errorf("Wetness(%s) = %.2f out of [0,1]", board, w)
		}
	}
}

func TestAnalyzeFlushPotential(t *testing.T) {
	mono := AnalyzeFlushPotential(parseBoard("Th9h8h"))
	if !mono.IsMonotone || mono.MaxSuitCount != 3 {
		t.Errorf("monotone board: %+v", mono)
	}

	rainbow := AnalyzeFlushPotential(parseBoard("As7h2c"))
	if !rainbow.IsRainbow || rainbow.IsMonotone {
		t.Errorf("rainbow board: %+v", rainbow)
	}

	twoTone := AnalyzeFlushPotential(parseBoard("Ah7h2c"))
	if twoTone.MaxSuitCount != 2 || twoTone.IsRainbow {
		t.Errorf("two-tone board: %+v", twoTone)
	}
}

func TestAnalyzeStraightPotential(t *testing.T) {
	connected := AnalyzeStraightPotential(parseBoard("9h8d7s"))
	if connected.ConnectedCards != 3 {
		t.Errorf("987: ConnectedCards = %d, want 3", connected.ConnectedCards)
	}

	// The ace plays below the deuce for wheel connectivity
	wheel := AnalyzeStraightPotential(parseBoard("Ah2d3s"))
	if wheel.ConnectedCards != 3 {
		t.Errorf("A23: ConnectedCards = %d, want 3", wheel.ConnectedCards)
	}

	broadway := AnalyzeStraightPotential(parseBoard("AhKdQs"))
	if broadway.BroadwayCards != 3 {
		t.Errorf("AKQ: BroadwayCards = %d, want 3", broadway.BroadwayCards)
	}

	dry := AnalyzeStraightPotential(parseBoard("As7h2c"))
	if dry.ConnectedCards != 1 {
		t.Errorf("A72: ConnectedCards = %d, want 1", dry.ConnectedCards)
	}
}
