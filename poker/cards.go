// Package poker provides bit-packed card and hand representations along with
// a mask-based hand evaluator.
//
// A Card is a single set bit in a 52-bit space laid out as four blocks of 13
// rank bits (clubs, diamonds, hearts, spades). A Hand is the union of card
// bits, so combining cards and testing membership are single OR/AND
// operations and per-suit rank masks fall out with a shift.
package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Rank values, 0-based from deuce through ace.
const (
	Two uint8 = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suit values.
const (
	Clubs uint8 = iota
	Diamonds
	Hearts
	Spades
)

const (
	ranksPerSuit = 13
	rankMaskAll  = 0x1FFF
)

// Card is a single card encoded as one set bit: bit suit*13+rank.
type Card uint64

// Hand is a set of cards encoded as the union of their bits.
type Hand uint64

// NewCard creates a card from a rank (0-12) and suit (0-3).
func NewCard(rank, suit uint8) Card {
	return Card(1) << (uint64(suit)*ranksPerSuit + uint64(rank))
}

// NewHand combines two cards into a hand.
func NewHand(c1, c2 Card) Hand {
	return Hand(c1) | Hand(c2)
}

// Rank returns the rank of the card (0=deuce, 12=ace).
func (c Card) Rank() uint8 {
	return uint8(bits.TrailingZeros64(uint64(c)) % ranksPerSuit)
}

// Suit returns the suit of the card (0=clubs, 3=spades).
func (c Card) Suit() uint8 {
	return uint8(bits.TrailingZeros64(uint64(c)) / ranksPerSuit)
}

var rankChars = "23456789TJQKA"
var suitChars = "cdhs"

// String renders the card as rank+suit, e.g. "As" or "Td".
func (c Card) String() string {
	if c == 0 {
		return "??"
	}
	return string(rankChars[c.Rank()]) + string(suitChars[c.Suit()])
}

// ParseCard parses a two-character card like "As", "kd" or "Th".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q: must be two characters", s)
	}

	rank := strings.IndexByte(rankChars, upperByte(s[0]))
	if rank < 0 {
		return 0, fmt.Errorf("invalid rank %q in card %q", s[0], s)
	}

	suit := strings.IndexByte(suitChars, lowerByte(s[1]))
	if suit < 0 {
		return 0, fmt.Errorf("invalid suit %q in card %q", s[1], s)
	}

	return NewCard(uint8(rank), uint8(suit)), nil
}

// ParseCards parses a concatenated card string like "AsKdQh" (spaces allowed).
func ParseCards(s string) ([]Card, error) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string length %d: must be even", len(s))
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests).
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards %q: %v", s, err))
	}
	return cards
}

// HandFromCards builds a hand from a card slice.
func HandFromCards(cards []Card) Hand {
	var h Hand
	for _, c := range cards {
		h.AddCard(c)
	}
	return h
}

// ParseHand parses a concatenated card string directly into a Hand.
func ParseHand(s string) (Hand, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return 0, err
	}
	return HandFromCards(cards), nil
}

// AddCard adds a card to the hand.
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// HasCard reports whether the hand contains the card.
func (h Hand) HasCard(c Card) bool {
	return h&Hand(c) != 0
}

// Overlaps reports whether two hands share any card.
func (h Hand) Overlaps(other Hand) bool {
	return h&other != 0
}

// CountCards returns the number of cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// GetSuitMask returns the 13-bit rank mask for one suit.
func (h Hand) GetSuitMask(suit uint8) uint16 {
	return uint16((uint64(h) >> (uint64(suit) * ranksPerSuit)) & rankMaskAll)
}

// GetRankMask returns the union of all suit masks.
func (h Hand) GetRankMask() uint16 {
	var mask uint16
	for suit := uint8(0); suit < 4; suit++ {
		mask |= h.GetSuitMask(suit)
	}
	return mask
}

// Cards returns the individual cards in the hand, lowest bit first.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	remaining := uint64(h)
	for remaining != 0 {
		bit := remaining & -remaining
		cards = append(cards, Card(bit))
		remaining &^= bit
	}
	return cards
}

// String renders all cards in the hand, lowest bit first.
func (h Hand) String() string {
	var sb strings.Builder
	for _, c := range h.Cards() {
		sb.WriteString(c.String())
	}
	return sb.String()
}

func upperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}
