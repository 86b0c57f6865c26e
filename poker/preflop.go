package poker

// HoleCardCategory represents the strength category of hole cards
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// CategorizeHoleCards provides a simple preflop hand categorization.
// Categories: Premium (JJ+, AK), Strong (TT+, AQ/AJ), Medium (77+, suited broadway),
// Weak (small pairs, suited connectors), Trash (everything else).
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	r1 := card1.Rank()
	r2 := card2.Rank()
	suited := card1.Suit() == card2.Suit()

	if r1 > 12 || r2 > 12 {
		return CategoryUnknown
	}

	// Work in 2-14 space with the smaller rank first
	small, big := rankToValue(r1), rankToValue(r2)
	if small > big {
		small, big = big, small
	}
	isPair := small == big

	// Premium: JJ+, AK (any suit)
	if isPair && small >= 11 {
		return CategoryPremium
	}
	if small == 13 && big == 14 { // AK
		return CategoryPremium
	}

	// Strong: TT, AQ, AJ
	if isPair && small == 10 {
		return CategoryStrong
	}
	if big == 14 && (small == 12 || small == 11) {
		return CategoryStrong
	}

	// Medium: 77-99, suited broadway
	if isPair && small >= 7 && small <= 9 {
		return CategoryMedium
	}
	if suited && small >= 10 {
		return CategoryMedium
	}

	// Weak: small pairs, suited connectors
	if isPair {
		return CategoryWeak
	}
	if suited && big-small <= 2 {
		return CategoryWeak
	}

	return CategoryTrash
}

// PreflopStrength scores two hole cards onto [0,1] using a Chen-style
// formula: high-card base, pair multiplier, suited and connectivity bonuses,
// gap penalties. Used for range summarization before a flop exists.
func PreflopStrength(card1, card2 Card) float64 {
	high := rankToValue(card1.Rank())
	low := rankToValue(card2.Rank())
	if low > high {
		high, low = low, high
	}
	suited := card1.Suit() == card2.Suit()

	// High-card base: A=10, K=8, Q=7, J=6, others value/2
	var base float64
	switch high {
	case 14:
		base = 10
	case 13:
		base = 8
	case 12:
		base = 7
	case 11:
		base = 6
	default:
		base = float64(high) / 2
	}

	score := base

	if high == low {
		score = base * 2
		if score < 5 {
			score = 5
		}
	} else {
		gap := high - low - 1
		switch {
		case gap == 0:
			score += 1
		case gap == 1:
			score -= 1
		case gap == 2:
			score -= 2
		case gap == 3:
			score -= 4
		default:
			score -= 5
		}
		// Straight potential bonus for low connected cards
		if gap <= 1 && high < 12 {
			score += 1
		}
	}

	if suited {
		score += 2
	}

	// Chen scores run roughly -1.5 (72o) to 20 (AA)
	normalized := (score + 1.5) / 21.5
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}
	return normalized
}

// rankToValue converts the 0-12 rank system to 2-14 for comparisons
func rankToValue(rank uint8) int {
	return int(rank) + 2
}
