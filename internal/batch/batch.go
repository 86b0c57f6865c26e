// Package batch drives the response-model pipeline over every hand in the
// store: stream hands through a cursor, model each unmodeled hero action,
// and write the results back idempotently.
package batch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/handsight/internal/handstore"
	"github.com/lox/handsight/internal/response"
)

// DefaultHandBudget bounds the wall-clock time spent on a single hand.
const DefaultHandBudget = 30 * time.Second

// Options configures a batch run.
type Options struct {
	// Username restricts the run to one user's hands. Empty means all.
	Username string

	// DryRun models every action but writes nothing back.
	DryRun bool

	// Workers is the number of hands processed concurrently. Zero or one
	// keeps the run sequential, which is also the deterministic mode.
	Workers int

	// HandBudget is the wall-clock budget per hand; on overrun the hand's
	// remaining actions are skipped. Zero applies DefaultHandBudget.
	HandBudget time.Duration

	// Clock is injectable for tests; nil uses the real clock.
	Clock quartz.Clock

	Logger *log.Logger
}

// Stats accumulates counters across a run. Safe for concurrent use.
type Stats struct {
	mu sync.Mutex

	HandsSeen      int
	HandsProcessed int
	ActionsModeled int
	ActionsSkipped int
	ActionsFailed  int
	Writes         int
	NoopWrites     int
	BudgetOverruns int
	Elapsed        time.Duration
}

func (s *Stats) add(fn func(*Stats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Snapshot is a plain copy of the counters, safe to pass around.
type Snapshot struct {
	HandsSeen      int
	HandsProcessed int
	ActionsModeled int
	ActionsSkipped int
	ActionsFailed  int
	Writes         int
	NoopWrites     int
	BudgetOverruns int
	Elapsed        time.Duration
}

// Snapshot returns a copy safe to read after the run.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		HandsSeen:      s.HandsSeen,
		HandsProcessed: s.HandsProcessed,
		ActionsModeled: s.ActionsModeled,
		ActionsSkipped: s.ActionsSkipped,
		ActionsFailed:  s.ActionsFailed,
		Writes:         s.Writes,
		NoopWrites:     s.NoopWrites,
		BudgetOverruns: s.BudgetOverruns,
		Elapsed:        s.Elapsed,
	}
}

// Driver runs the pipeline over the store.
type Driver struct {
	store    *handstore.Store
	pipeline *response.Pipeline
	opts     Options
	clock    quartz.Clock
	logger   *log.Logger
}

// New creates a batch driver. Nil options fields get working defaults.
func New(store *handstore.Store, pipeline *response.Pipeline, opts Options) *Driver {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.HandBudget <= 0 {
		opts.HandBudget = DefaultHandBudget
	}
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{
		store:    store,
		pipeline: pipeline,
		opts:     opts,
		clock:    clock,
		logger:   logger,
	}
}

// Run streams every matching hand and models its hero actions. Cancellation
// is cooperative: a cancelled context stops the stream between hands, but a
// hand already being processed runs to completion so its writes stay whole.
func (d *Driver) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	started := d.clock.Now()
	defer func() {
		stats.add(func(s *Stats) { s.Elapsed = d.clock.Since(started) })
	}()

	cursor := d.store.NewCursor(d.opts.Username)
	defer cursor.Close()

	group, groupCtx := errgroup.WithContext(context.Background())
	group.SetLimit(d.opts.Workers)

	var streamErr error
	for {
		if err := ctx.Err(); err != nil {
			d.logger.Info("cancellation requested, draining in-flight hands")
			break
		}

		hand, err := cursor.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			streamErr = err
			break
		}
		if hand == nil {
			break
		}

		stats.add(func(s *Stats) { s.HandsSeen++ })
		group.Go(func() error {
			d.processHand(groupCtx, hand, stats)
			return nil
		})
	}

	if err := group.Wait(); err != nil && streamErr == nil {
		streamErr = err
	}
	return stats, streamErr
}

// processHand models every unmodeled hero action of one hand under the
// per-hand wall-clock budget.
func (d *Driver) processHand(ctx context.Context, hand *handstore.Hand, stats *Stats) {
	logger := d.logger.With("hand", hand.ID)
	deadline := d.clock.Now().Add(d.opts.HandBudget)
	touched := false

	for i := range hand.HeroActions {
		if d.clock.Now("hand_budget").After(deadline) {
			remaining := len(hand.HeroActions) - i
			logger.Warn("hand budget exceeded, skipping remaining actions",
				"budget", d.opts.HandBudget, "remaining", remaining)
			stats.add(func(s *Stats) {
				s.BudgetOverruns++
				s.ActionsSkipped += remaining
			})
			break
		}

		ha := &hand.HeroActions[i]
		if ha.HasModel() {
			stats.add(func(s *Stats) { s.ActionsSkipped++ })
			continue
		}

		if d.modelAction(ctx, hand, ha.ActionID, logger, stats) {
			touched = true
		}
	}

	if touched {
		stats.add(func(s *Stats) { s.HandsProcessed++ })
	}
}

// modelAction runs the pipeline for a single hero action and persists the
// result. Per-action failures are logged and counted; they never abort the
// hand, let alone the batch.
func (d *Driver) modelAction(ctx context.Context, hand *handstore.Hand, actionID string, logger *log.Logger, stats *Stats) bool {
	index := hand.ActionIndex(actionID)
	if index < 0 {
		logger.Warn("hero action has no matching betting action", "action", actionID)
		stats.add(func(s *Stats) { s.ActionsFailed++ })
		return false
	}

	villainID := villainFor(hand, index)
	model, err := d.pipeline.Run(hand, index, villainID)
	if err != nil {
		logger.Error("pipeline failed", "action", actionID, "err", err)
		stats.add(func(s *Stats) { s.ActionsFailed++ })
		return false
	}

	slots, err := response.MarshalSlots(model)
	if err != nil {
		logger.Error("serialize model", "action", actionID, "err", err)
		stats.add(func(s *Stats) { s.ActionsFailed++ })
		return false
	}

	stats.add(func(s *Stats) { s.ActionsModeled++ })

	if d.opts.DryRun {
		logger.Debug("dry run, skipping write", "action", actionID,
			"fold", model.Frequencies.Fold, "call", model.Frequencies.Call, "raise", model.Frequencies.Raise)
		return true
	}

	// Writes use a detached context so a cancellation arriving mid-hand
	// cannot tear a half-written document.
	written, err := d.store.WriteHeroActionModel(context.WithoutCancel(ctx), hand.ID, actionID, slots)
	switch {
	case errors.Is(err, handstore.ErrMissTarget), errors.Is(err, handstore.ErrNotFound):
		logger.Warn("write target missing", "action", actionID, "err", err)
		stats.add(func(s *Stats) { s.ActionsFailed++ })
		return false
	case err != nil:
		logger.Error("write model", "action", actionID, "err", err)
		stats.add(func(s *Stats) { s.ActionsFailed++ })
		return false
	case written:
		stats.add(func(s *Stats) { s.Writes++ })
	default:
		stats.add(func(s *Stats) { s.NoopWrites++ })
	}
	return true
}

// villainFor picks the modeled opponent for an action: the first live player
// other than the actor, in seat order. Heads-up this is simply the other
// player.
func villainFor(hand *handstore.Hand, index int) string {
	if index < 0 || index >= len(hand.BettingActions) {
		return ""
	}
	actor := hand.BettingActions[index].PlayerID

	folded := make(map[string]bool)
	for i := 0; i < index; i++ {
		if hand.BettingActions[i].Action == handstore.ActionFold {
			folded[hand.BettingActions[i].PlayerID] = true
		}
	}

	for _, p := range hand.Players {
		if p.ID != actor && !folded[p.ID] {
			return p.ID
		}
	}
	for _, p := range hand.Players {
		if p.ID != actor {
			return p.ID
		}
	}
	return ""
}
