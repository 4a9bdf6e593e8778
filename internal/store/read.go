package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/engine"
)

var (
	// ErrRunNotFound is returned when a run id is not in the journal.
	ErrRunNotFound = errors.New("run not found")

	// ErrTurnNotFound is returned when a run has no record for a turn.
	ErrTurnNotFound = errors.New("turn not found")
)

// ReadRun returns a run by id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, scenario, settings, initial, initial_digest
		FROM runs WHERE id = ?
	`, id)
	return scanRun(row, id)
}

// LatestRun returns the most recently created run. Run ids are UUIDv7, so
// id order is creation order.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, scenario, settings, initial, initial_digest
		FROM runs ORDER BY id COLLATE BINARY DESC LIMIT 1
	`)
	return scanRun(row, "latest")
}

func scanRun(row *sql.Row, label string) (Run, error) {
	var (
		run      Run
		settings string
		initial  string
	)
	err := row.Scan(&run.ID, &run.Seed, &run.Scenario, &settings, &initial, &run.InitialDigest)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", label, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", label, err)
	}
	run.Settings = json.RawMessage(settings)
	run.Initial = &engine.Campaign{}
	if err := json.Unmarshal([]byte(initial), run.Initial); err != nil {
		return Run{}, fmt.Errorf("read run %s: decode initial campaign: %w", label, err)
	}
	return run, nil
}

// ReadTurns returns every journaled turn of a run in turn order.
// Returns an empty slice (not nil) if the run has no turns.
func (s *Store) ReadTurns(ctx context.Context, runID string) ([]TurnRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT turn, orders, outcomes, points, digest, changes_digest, ending
		FROM turns
		WHERE run_id = ?
		ORDER BY turn ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	turns := []TurnRecord{}
	for rows.Next() {
		var (
			rec      TurnRecord
			orders   string
			outcomes string
		)
		if err := rows.Scan(&rec.Turn, &orders, &outcomes, &rec.Points, &rec.Digest, &rec.ChangesDigest, &rec.Ending); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if err := json.Unmarshal([]byte(orders), &rec.Orders); err != nil {
			return nil, fmt.Errorf("turn %d: decode orders: %w", rec.Turn, err)
		}
		if err := json.Unmarshal([]byte(outcomes), &rec.Outcomes); err != nil {
			return nil, fmt.Errorf("turn %d: decode outcomes: %w", rec.Turn, err)
		}
		turns = append(turns, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}

// ReadEvents returns a run's events in sequence order. A non-empty kind
// restricts the result to that event kind.
func (s *Store) ReadEvents(ctx context.Context, runID, kind string) ([]campaign.Event, error) {
	query := `
		SELECT seq, turn, source, kind, importance, message, meta
		FROM events
		WHERE run_id = ?`
	args := []any{runID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []campaign.Event{}
	for rows.Next() {
		var (
			ev   campaign.Event
			imp  string
			meta string
		)
		if err := rows.Scan(&ev.Seq, &ev.Turn, &ev.Source, &ev.Kind, &imp, &ev.Message, &meta); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Importance = campaign.Importance(imp)
		if meta != "{}" {
			if err := json.Unmarshal([]byte(meta), &ev.Meta); err != nil {
				return nil, fmt.Errorf("event %d: decode meta: %w", ev.Seq, err)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ReadChanges returns the ledger entries of one turn in application order.
func (s *Store) ReadChanges(ctx context.Context, runID string, turn int) ([]campaign.StateChange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM changes
		WHERE run_id = ? AND turn = ?
		ORDER BY idx ASC
	`, runID, turn)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	changes := []campaign.StateChange{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		var ch campaign.StateChange
		if err := json.Unmarshal([]byte(payload), &ch); err != nil {
			return nil, fmt.Errorf("turn %d: decode change: %w", turn, err)
		}
		changes = append(changes, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}
	return changes, nil
}

// ReadSnapshot returns the campaign as it stood after the given turn.
func (s *Store) ReadSnapshot(ctx context.Context, runID string, turn int) (*engine.Campaign, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `
		SELECT state FROM snapshots WHERE run_id = ? AND turn = ?
	`, runID, turn).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read snapshot %d: %w", turn, ErrTurnNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %d: %w", turn, err)
	}
	c := &engine.Campaign{}
	if err := json.Unmarshal([]byte(state), c); err != nil {
		return nil, fmt.Errorf("read snapshot %d: decode: %w", turn, err)
	}
	return c, nil
}
