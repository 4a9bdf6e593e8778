package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/config"
	"github.com/roach88/eldritch/internal/dice"
	"github.com/roach88/eldritch/internal/engine"
	"github.com/roach88/eldritch/internal/store"
	"github.com/roach88/eldritch/internal/victory"
)

// ErrScriptedJournal is returned when a scenario with scripted rolls is run
// against a store. A journaled run must be replayable from its seed alone.
var ErrScriptedJournal = errors.New("scenarios with scripted rolls cannot be journaled")

// Runner plays scenarios.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	seed     *int64
	maxTurns int
}

// Option configures a Runner.
type Option func(*Runner)

// WithConfig sets the rule configuration and the fallback seed.
func WithConfig(cfg *config.Config) Option {
	return func(r *Runner) {
		r.cfg = cfg
	}
}

// WithLogger sets the logger handed to the engine.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithStore journals every run into s.
func WithStore(s *store.Store) Option {
	return func(r *Runner) {
		r.store = s
	}
}

// WithSeed overrides the scenario's seed. Scripted rolls still win.
func WithSeed(seed int64) Option {
	return func(r *Runner) {
		r.seed = &seed
	}
}

// WithMaxTurns stops a run after n turns have been played, failed turns
// included. Zero means no limit.
func WithMaxTurns(n int) Option {
	return func(r *Runner) {
		r.maxTurns = n
	}
}

// NewRunner returns a runner with the default configuration and a silent
// logger.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		cfg:    config.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays a scenario from its first turn to its last, or until the
// campaign ends. Failed expectations and assertions are collected in the
// result; the returned error is reserved for a run that could not be set up
// or journaled.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Result, error) {
	c, err := r.start(s)
	if err != nil {
		return nil, err
	}

	result := NewResult(s.Name)
	var rng *dice.Roller
	if len(s.Rolls) > 0 {
		if r.store != nil {
			return nil, ErrScriptedJournal
		}
		rng = dice.NewScripted(s.Rolls...)
	} else {
		switch {
		case r.seed != nil:
			result.Seed = *r.seed
		case s.Seed != 0:
			result.Seed = s.Seed
		default:
			result.Seed = r.cfg.Seed
		}
		rng = dice.New(result.Seed)
	}
	eng := engine.New(rng, append(r.cfg.EngineOptions(), engine.WithLogger(r.logger))...)

	if r.store != nil {
		settings, err := r.cfg.Settings()
		if err != nil {
			return nil, err
		}
		run := &store.Run{Seed: result.Seed, Scenario: s.Name, Settings: settings, Initial: c.Clone()}
		if err := r.store.CreateRun(ctx, run); err != nil {
			return nil, err
		}
		result.RunID = run.ID
	}

turns:
	for i, t := range s.Turns {
		for range max(1, t.Repeat) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if c.Over() && t.ExpectError != string(engine.ErrCodeCampaignOver) {
				break turns
			}
			if r.maxTurns > 0 && len(result.Trace) >= r.maxTurns {
				break turns
			}
			if err := r.play(ctx, eng, c, i, t, result); err != nil {
				return nil, err
			}
		}
	}

	result.Final = c
	result.Score = c.Score()
	if c.Victory != nil {
		v := *c.Victory
		result.Ending = &v
		result.Perks = victory.Perks(v, result.Score.Grade)
	}
	for _, msg := range EvaluateAssertions(result, s.Assertions) {
		result.AddError(msg)
	}

	r.logger.Info("scenario finished",
		"scenario", s.Name,
		"pass", result.Pass,
		"turns", len(result.Trace),
		"turn", c.State.Turn())
	return result, nil
}

// start builds the opening campaign: config limits where the scenario sets
// none, then any legacy perks.
func (r *Runner) start(s *Scenario) (*engine.Campaign, error) {
	snap := s.Campaign
	if snap.Limits == (campaign.Limits{}) {
		snap.Limits = r.cfg.Limits
	}
	var perks []victory.Perk
	for _, id := range s.Legacy {
		p, ok := victory.PerkByID(id)
		if !ok {
			return nil, fmt.Errorf("unknown legacy perk %q", id)
		}
		perks = append(perks, p)
	}
	victory.ApplyPerks(&snap, perks)

	st, err := campaign.NewState(snap)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return engine.NewCampaign(st)
}

// play advances one turn and records it.
func (r *Runner) play(ctx context.Context, eng *engine.Engine, c *engine.Campaign, i int, t Turn, result *Result) error {
	trace := TurnTrace{Turn: c.State.Turn()}
	tr, err := eng.Advance(c, t.Orders)
	if err != nil {
		trace.Error = errorCode(err)
		result.Trace = append(result.Trace, trace)
		switch {
		case t.ExpectError == "":
			result.AddError(fmt.Sprintf("turns[%d]: turn %d failed: %v", i, trace.Turn, err))
		case t.ExpectError != trace.Error:
			result.AddError(fmt.Sprintf("turns[%d]: turn %d failed with %s, expected %s", i, trace.Turn, trace.Error, t.ExpectError))
		}
		return nil
	}

	trace.Outcomes = tr.Outcomes
	trace.Points = tr.Points
	for _, ev := range tr.Events {
		trace.Events = append(trace.Events, ev.Kind)
	}
	result.Trace = append(result.Trace, trace)
	result.Events = append(result.Events, tr.Events...)

	if t.ExpectError != "" {
		result.AddError(fmt.Sprintf("turns[%d]: turn %d succeeded, expected %s", i, trace.Turn, t.ExpectError))
	}
	for _, msg := range checkExpect(i, t.Expect, tr.Outcomes) {
		result.AddError(msg)
	}

	if r.store != nil {
		if _, err := r.store.WriteTurn(ctx, result.RunID, t.Orders, tr, c); err != nil {
			return fmt.Errorf("journal turn %d: %w", trace.Turn, err)
		}
	}
	return nil
}

func errorCode(err error) string {
	var ee *engine.EngineError
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	return err.Error()
}
