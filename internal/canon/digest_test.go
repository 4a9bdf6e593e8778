package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/testutil"
)

func TestSnapshotDigest_Deterministic(t *testing.T) {
	d1, err := SnapshotDigest(testutil.BaseSnapshot())
	require.NoError(t, err)
	d2, err := SnapshotDigest(testutil.BaseSnapshot())
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)
}

func TestSnapshotDigest_ChangesWithState(t *testing.T) {
	base := testutil.BaseSnapshot()
	moved := testutil.BaseSnapshot()
	moved.Veil.Integrity = 79.5

	assert.NotEqual(t, MustDigest(DomainSnapshot, base), MustDigest(DomainSnapshot, moved))
}

func TestDigest_DomainSeparation(t *testing.T) {
	v := map[string]int{"turn": 3}
	assert.NotEqual(t, MustDigest(DomainSnapshot, v), MustDigest(DomainCampaign, v))
}

func TestChangesDigest(t *testing.T) {
	empty, err := ChangesDigest(nil)
	require.NoError(t, err)
	assert.Equal(t, MustDigest(DomainChanges, []campaign.StateChange{}), empty)

	a, err := ChangesDigest([]campaign.StateChange{
		campaign.VeilDamage(2, "test"),
		campaign.TruthRevealed(1, "test"),
	})
	require.NoError(t, err)
	b, err := ChangesDigest([]campaign.StateChange{
		campaign.TruthRevealed(1, "test"),
		campaign.VeilDamage(2, "test"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "order is part of the digest")
}
