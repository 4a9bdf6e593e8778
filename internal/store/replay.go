package store

import (
	"context"
	"fmt"

	"github.com/roach88/eldritch/internal/canon"
	"github.com/roach88/eldritch/internal/engine"
)

// EngineFactory builds an engine configured the way a run was played.
// The engine must own a fresh roller seeded with run.Seed.
type EngineFactory func(run Run) (*engine.Engine, error)

// Mismatch is a turn whose replay diverged from the journal.
type Mismatch struct {
	Turn   int    `json:"turn"`
	Want   string `json:"want,omitempty"`
	Got    string `json:"got,omitempty"`
	Reason string `json:"reason"`
}

// ReplayReport is the outcome of a replay.
type ReplayReport struct {
	RunID      string           `json:"run_id"`
	Seed       int64            `json:"seed"`
	Turns      int              `json:"turns"`
	Mismatches []Mismatch       `json:"mismatches,omitempty"`
	Final      *engine.Campaign `json:"-"`
}

// OK reports whether every turn replayed to its journaled digest.
func (r ReplayReport) OK() bool {
	return len(r.Mismatches) == 0
}

// Replay re-simulates a run from its seed and initial campaign and compares
// each turn's digest with the journal. Replay stops at the first turn the
// engine rejects; digest mismatches are collected and replay continues.
func (s *Store) Replay(ctx context.Context, runID string, build EngineFactory) (ReplayReport, error) {
	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("replay: %w", err)
	}
	turns, err := s.ReadTurns(ctx, runID)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("replay: %w", err)
	}
	eng, err := build(run)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("replay: build engine: %w", err)
	}

	report := ReplayReport{RunID: run.ID, Seed: run.Seed}
	c := run.Initial.Clone()
	if got, err := canon.Digest(canon.DomainCampaign, c); err != nil {
		return report, fmt.Errorf("replay: %w", err)
	} else if got != run.InitialDigest {
		report.Mismatches = append(report.Mismatches, Mismatch{
			Want: run.InitialDigest, Got: got, Reason: "initial campaign digest",
		})
	}

	for _, rec := range turns {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("replay: %w", err)
		}
		r, err := eng.Advance(c, rec.Orders)
		if err != nil {
			report.Mismatches = append(report.Mismatches, Mismatch{Turn: rec.Turn, Reason: err.Error()})
			break
		}
		report.Turns++
		if r.Turn != rec.Turn {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Turn: rec.Turn, Reason: fmt.Sprintf("replayed turn %d", r.Turn),
			})
			continue
		}
		got, err := canon.Digest(canon.DomainCampaign, c)
		if err != nil {
			return report, fmt.Errorf("replay: %w", err)
		}
		if got != rec.Digest {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Turn: rec.Turn, Want: rec.Digest, Got: got, Reason: "campaign digest",
			})
		}
	}
	report.Final = c
	return report, nil
}
