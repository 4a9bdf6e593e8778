package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/canon"
	"github.com/roach88/eldritch/internal/engine"
)

func TestCreateRun_AssignsIDAndDigest(t *testing.T) {
	s := createTestStore(t)
	run := createTestRun(t, s, 7)

	id, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Len(t, run.InitialDigest, 64)

	got, err := s.ReadRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Seed)
	assert.Equal(t, "test", got.Scenario)
	assert.JSONEq(t, "{}", string(got.Settings))
	assert.Equal(t, run.InitialDigest, got.InitialDigest)
	assert.Equal(t, 20, got.Initial.State.Turn())
	require.NotNil(t, got.Initial.Phase2.Doctrine)
	assert.Equal(t, campaign.DoctrineDomination, got.Initial.Phase2.Doctrine.Kind())
}

func TestCreateRun_RequiresInitialCampaign(t *testing.T) {
	s := createTestStore(t)
	err := s.CreateRun(context.Background(), &Run{Seed: 1})
	assert.Error(t, err)
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = s.LatestRun(context.Background())
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestLatestRun(t *testing.T) {
	s := createTestStore(t)
	createTestRun(t, s, 1)
	second := createTestRun(t, s, 2)

	got, err := s.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, int64(2), got.Seed)
}

func TestWriteTurn_ReadBack(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	run := createTestRun(t, s, 11)
	final := playTurns(t, s, run, 3)

	turns, err := s.ReadTurns(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	for i, rec := range turns {
		assert.Equal(t, 20+i, rec.Turn)
		require.Len(t, rec.Orders, 1)
		assert.Equal(t, engine.OrderRevealTruth, rec.Orders[0].Kind)
		assert.NotEmpty(t, rec.Outcomes)
		assert.Len(t, rec.Digest, 64)
		assert.Empty(t, rec.Ending)
	}
	assert.Equal(t, canon.MustDigest(canon.DomainCampaign, final), turns[2].Digest)

	unlocked, err := s.ReadEvents(ctx, run.ID, "phase2_unlocked")
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, 20, unlocked[0].Turn)
	assert.Equal(t, campaign.ImportanceCritical, unlocked[0].Importance)

	all, err := s.ReadEvents(ctx, run.ID, "")
	require.NoError(t, err)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Seq, all[i].Seq)
	}

	changes, err := s.ReadChanges(ctx, run.ID, 21)
	require.NoError(t, err)
	require.NotEmpty(t, changes)
	assert.Equal(t, campaign.ChangeCelestialEvents, changes[len(changes)-1].Kind)
	assert.Equal(t, turns[1].ChangesDigest, canon.MustDigest(canon.DomainChanges, changes))

	snap, err := s.ReadSnapshot(ctx, run.ID, 22)
	require.NoError(t, err)
	assert.Equal(t, 23, snap.State.Turn())
	assert.Equal(t, turns[2].Digest, canon.MustDigest(canon.DomainCampaign, snap))
}

func TestWriteTurn_RejectsDuplicateTurn(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	run := createTestRun(t, s, 3)

	eng, err := newEngine(run)
	require.NoError(t, err)
	c := run.Initial.Clone()
	r, err := eng.Advance(c, nil)
	require.NoError(t, err)

	_, err = s.WriteTurn(ctx, run.ID, nil, r, c)
	require.NoError(t, err)
	_, err = s.WriteTurn(ctx, run.ID, nil, r, c)
	assert.Error(t, err)

	changes, err := s.ReadChanges(ctx, run.ID, r.Turn)
	require.NoError(t, err)
	assert.Len(t, changes, len(r.Changes), "the failed write left no partial rows")
}

func TestReadSnapshot_NotFound(t *testing.T) {
	s := createTestStore(t)
	run := createTestRun(t, s, 1)
	_, err := s.ReadSnapshot(context.Background(), run.ID, 99)
	assert.ErrorIs(t, err, ErrTurnNotFound)
}
