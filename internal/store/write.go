package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/canon"
	"github.com/roach88/eldritch/internal/engine"
)

// Run is one journaled campaign.
type Run struct {
	ID       string
	Seed     int64
	Scenario string

	// Settings is the engine configuration the run was played with, kept
	// opaque so the journal does not depend on the config format.
	Settings json.RawMessage

	Initial       *engine.Campaign
	InitialDigest string
}

// TurnRecord is one committed turn.
type TurnRecord struct {
	Turn          int                `json:"turn"`
	Orders        []engine.Order     `json:"orders"`
	Outcomes      []campaign.Outcome `json:"outcomes"`
	Points        float64            `json:"points"`
	Digest        string             `json:"digest"`
	ChangesDigest string             `json:"changes_digest"`
	Ending        string             `json:"ending,omitempty"`
}

// NewRunID returns a time-ordered run id.
func NewRunID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("new run id: %w", err)
	}
	return id.String(), nil
}

// CreateRun records the start of a campaign. An empty run.ID is filled in
// with NewRunID; run.InitialDigest is always recomputed.
func (s *Store) CreateRun(ctx context.Context, run *Run) error {
	if run.Initial == nil {
		return fmt.Errorf("create run: no initial campaign")
	}
	if run.ID == "" {
		id, err := NewRunID()
		if err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		run.ID = id
	}
	initial, err := canon.Marshal(run.Initial)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	digest, err := canon.Digest(canon.DomainCampaign, run.Initial)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	settings := "{}"
	if len(run.Settings) > 0 {
		settings = string(run.Settings)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, scenario, settings, initial, initial_digest)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Seed, run.Scenario, settings, string(initial), digest)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	run.InitialDigest = digest
	return nil
}

// WriteTurn journals a committed turn: its orders and outcomes, every event
// and change it produced, and the campaign as it stands afterwards. All rows
// are written in one transaction.
func (s *Store) WriteTurn(ctx context.Context, runID string, orders []engine.Order, r engine.TurnResult, after *engine.Campaign) (TurnRecord, error) {
	if orders == nil {
		orders = []engine.Order{}
	}
	outcomes := r.Outcomes
	if outcomes == nil {
		outcomes = []campaign.Outcome{}
	}
	rec := TurnRecord{Turn: r.Turn, Orders: orders, Outcomes: outcomes, Points: r.Points}
	if r.Victory != nil {
		rec.Ending = string(r.Victory.Ending)
	}

	var err error
	if rec.Digest, err = canon.Digest(canon.DomainCampaign, after); err != nil {
		return rec, fmt.Errorf("write turn %d: %w", r.Turn, err)
	}
	if rec.ChangesDigest, err = canon.ChangesDigest(r.Changes); err != nil {
		return rec, fmt.Errorf("write turn %d: %w", r.Turn, err)
	}
	ordersJSON, err := json.Marshal(orders)
	if err != nil {
		return rec, fmt.Errorf("write turn %d: marshal orders: %w", r.Turn, err)
	}
	outcomesJSON, err := json.Marshal(outcomes)
	if err != nil {
		return rec, fmt.Errorf("write turn %d: marshal outcomes: %w", r.Turn, err)
	}
	state, err := canon.Marshal(after)
	if err != nil {
		return rec, fmt.Errorf("write turn %d: %w", r.Turn, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return rec, fmt.Errorf("write turn %d: begin tx: %w", r.Turn, err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO turns (run_id, turn, orders, outcomes, points, digest, changes_digest, ending)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, rec.Turn, string(ordersJSON), string(outcomesJSON), rec.Points, rec.Digest, rec.ChangesDigest, rec.Ending); err != nil {
		return rec, fmt.Errorf("write turn %d: %w", r.Turn, err)
	}

	for _, ev := range r.Events {
		meta, err := marshalMeta(ev.Meta)
		if err != nil {
			return rec, fmt.Errorf("write turn %d: %w", r.Turn, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (run_id, seq, turn, source, kind, importance, message, meta)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, ev.Seq, ev.Turn, ev.Source, ev.Kind, string(ev.Importance), ev.Message, meta); err != nil {
			return rec, fmt.Errorf("write turn %d: event %d: %w", r.Turn, ev.Seq, err)
		}
	}

	for i, ch := range r.Changes {
		payload, err := json.Marshal(ch)
		if err != nil {
			return rec, fmt.Errorf("write turn %d: marshal change %d: %w", r.Turn, i, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO changes (run_id, turn, idx, kind, payload)
			VALUES (?, ?, ?, ?, ?)
		`, runID, r.Turn, i, string(ch.Kind), string(payload)); err != nil {
			return rec, fmt.Errorf("write turn %d: change %d: %w", r.Turn, i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (run_id, turn, state) VALUES (?, ?, ?)
	`, runID, r.Turn, string(state)); err != nil {
		return rec, fmt.Errorf("write turn %d: snapshot: %w", r.Turn, err)
	}

	if err := tx.Commit(); err != nil {
		return rec, fmt.Errorf("write turn %d: commit: %w", r.Turn, err)
	}
	return rec, nil
}

func marshalMeta(meta map[string]string) (string, error) {
	if len(meta) == 0 {
		return "{}", nil
	}
	data, err := canon.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal meta: %w", err)
	}
	return string(data), nil
}
