package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
	"github.com/roach88/eldritch/internal/engine"
	"github.com/roach88/eldritch/internal/testutil"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newEngine(run Run) (*engine.Engine, error) {
	return engine.New(dice.New(run.Seed), engine.WithLogger(slog.New(slog.DiscardHandler))), nil
}

// createTestRun journals a domination campaign on turn 20 with phase 2
// within reach.
func createTestRun(t *testing.T, s *Store, seed int64) Run {
	t.Helper()
	c, err := engine.NewCampaign(testutil.NewCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineDomination),
		testutil.WithRegions(40, 50),
		testutil.WithTurn(20),
	))
	require.NoError(t, err)
	run := Run{Seed: seed, Scenario: "test", Initial: c}
	require.NoError(t, s.CreateRun(context.Background(), &run))
	return run
}

func revealOrders(n float64) []engine.Order {
	return []engine.Order{{Kind: engine.OrderRevealTruth, Reveal: n}}
}

// playTurns advances the run's campaign n turns and journals each one.
func playTurns(t *testing.T, s *Store, run Run, n int) *engine.Campaign {
	t.Helper()
	ctx := context.Background()
	eng, err := newEngine(run)
	require.NoError(t, err)
	c := run.Initial.Clone()
	for i := 0; i < n; i++ {
		orders := revealOrders(10)
		r, err := eng.Advance(c, orders)
		require.NoError(t, err)
		_, err = s.WriteTurn(ctx, run.ID, orders, r, c)
		require.NoError(t, err)
	}
	return c
}
