// Package handstore persists completed hand documents in a Badger key-value
// store and exposes the streaming cursor and hero-action write slots the
// batch driver works against.
package handstore

import (
	"encoding/json"
	"fmt"

	"github.com/lox/handsight/poker"
)

// Streets in play order.
const (
	StreetPreflop = "preflop"
	StreetFlop    = "flop"
	StreetTurn    = "turn"
	StreetRiver   = "river"
)

// StreetIndex returns the 0-based play order of a street, or -1 when unknown.
func StreetIndex(street string) int {
	switch street {
	case StreetPreflop:
		return 0
	case StreetFlop:
		return 1
	case StreetTurn:
		return 2
	case StreetRiver:
		return 3
	default:
		return -1
	}
}

// Action verbs as they appear in ingested hand histories.
const (
	ActionPost  = "post"
	ActionCheck = "check"
	ActionBet   = "bet"
	ActionCall  = "call"
	ActionRaise = "raise"
	ActionFold  = "fold"
	ActionAllIn = "all-in"
)

// BlindLevel holds the stakes of a hand in big-blind units.
type BlindLevel struct {
	SmallBlind float64 `json:"smallBlind"`
	BigBlind   float64 `json:"bigBlind"`
}

// Player is one seat in a hand: stable id, position label and starting
// stack in big blinds.
type Player struct {
	ID       string  `json:"id"`
	Position string  `json:"position"`
	Stack    float64 `json:"stack"`
}

// BettingAction is one ordered element of a hand's action list. Amounts are
// in big-blind units.
type BettingAction struct {
	ActionID string  `json:"actionId"`
	PlayerID string  `json:"playerId"`
	Action   string  `json:"action"`
	Amount   float64 `json:"amount"`
	Street   string  `json:"street"`
	IsAllIn  bool    `json:"isAllIn,omitempty"`
}

// HeroAction marks a protagonist decision, correlated to a betting action by
// actionId. The model slots are written exactly once by the batch driver and
// kept as raw JSON so rewrites can be compared byte-for-byte.
type HeroAction struct {
	ActionID            string          `json:"actionId"`
	ResponseModel       json.RawMessage `json:"responseModel,omitempty"`
	ResponseFrequencies json.RawMessage `json:"responseFrequencies,omitempty"`
	GTOFrequencies      json.RawMessage `json:"gtoFrequencies,omitempty"`
	ResponseRanges      json.RawMessage `json:"responseRanges,omitempty"`
}

// HasModel reports whether a response model has already been persisted.
func (h *HeroAction) HasModel() bool {
	return len(h.ResponseModel) > 0
}

// Hand is one completed hand document. Immutable after ingest except for the
// hero-action model slots.
type Hand struct {
	ID             string             `json:"id"`
	Username       string             `json:"username,omitempty"`
	BlindLevel     BlindLevel         `json:"blindLevel"`
	Players        []Player           `json:"players"`
	Board          []string           `json:"board,omitempty"`
	BettingActions []BettingAction    `json:"bettingActions"`
	HeroActions    []HeroAction       `json:"heroActions"`
	PotSizes       map[string]float64 `json:"potSizes,omitempty"`
	PlayerStacks   map[string]float64 `json:"playerStacks,omitempty"`
}

// PlayerByID returns the seat for a player id, or nil.
func (h *Hand) PlayerByID(id string) *Player {
	for i := range h.Players {
		if h.Players[i].ID == id {
			return &h.Players[i]
		}
	}
	return nil
}

// StackOf returns the starting stack for a player, preferring the explicit
// playerStacks map over the seat record.
func (h *Hand) StackOf(id string) float64 {
	if stack, ok := h.PlayerStacks[id]; ok {
		return stack
	}
	if p := h.PlayerByID(id); p != nil {
		return p.Stack
	}
	return 0
}

// HeroActionByID returns the hero-action slot for an action id, or nil.
func (h *Hand) HeroActionByID(actionID string) *HeroAction {
	for i := range h.HeroActions {
		if h.HeroActions[i].ActionID == actionID {
			return &h.HeroActions[i]
		}
	}
	return nil
}

// ActionIndex returns the index of a betting action by its id, or -1.
func (h *Hand) ActionIndex(actionID string) int {
	for i := range h.BettingActions {
		if h.BettingActions[i].ActionID == actionID {
			return i
		}
	}
	return -1
}

// BoardAt returns the community cards visible at a street as a packed hand:
// none preflop, three on the flop, four on the turn, all five on the river.
func (h *Hand) BoardAt(street string) (poker.Hand, error) {
	visible := 0
	switch StreetIndex(street) {
	case 0:
		visible = 0
	case 1:
		visible = 3
	case 2:
		visible = 4
	case 3:
		visible = 5
	default:
		return 0, fmt.Errorf("unknown street %q", street)
	}
	if visible > len(h.Board) {
		visible = len(h.Board)
	}

	var board poker.Hand
	for _, s := range h.Board[:visible] {
		card, err := poker.ParseCard(s)
		if err != nil {
			return 0, fmt.Errorf("hand %s: bad board card %q: %w", h.ID, s, err)
		}
		board.AddCard(card)
	}
	return board, nil
}

// PotBefore sums every amount contributed by betting actions prior to index.
// When the history carries no explicit blind posts the 1.5 BB of blinds is
// assumed; the result never drops below that floor. A stored per-street pot
// size is treated as a hint only and never overrides the computed value.
func (h *Hand) PotBefore(index int) float64 {
	const blinds = 1.5

	var pot float64
	postsSeen := false
	isPost := false
	if index >= 0 && index < len(h.BettingActions) {
		isPost = h.BettingActions[index].Action == ActionPost
	}

	for i := 0; i < index && i < len(h.BettingActions); i++ {
		a := h.BettingActions[i]
		switch a.Action {
		case ActionFold, ActionCheck:
			continue
		case ActionPost:
			postsSeen = true
		}
		pot += a.Amount
	}

	if !postsSeen && !isPost {
		pot += blinds
	}
	if pot < blinds {
		pot = blinds
	}
	return pot
}
