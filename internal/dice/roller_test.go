package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoller_SameSeedSameStream(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float(), b.Float(), "draw %d diverged", i)
	}
	assert.Equal(t, int64(100), a.Draws())
}

func TestRoller_DifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)

	same := 0
	for i := 0; i < 20; i++ {
		if a.Float() == b.Float() {
			same++
		}
	}
	assert.Less(t, same, 20)
}

func TestRoller_ScriptedDrawsComeFirst(t *testing.T) {
	r := NewScripted(0.10, 0.99, 0.0)

	assert.InDelta(t, 10.0, r.Percent(), 1e-9)
	assert.False(t, r.Chance(95), "99 is not under 95")
	assert.Equal(t, 1, r.D100())
}

func TestRoller_ScriptClampsOutOfRange(t *testing.T) {
	r := NewScripted(-1, 5)

	assert.Equal(t, 0.0, r.Float())
	assert.Less(t, r.Float(), 1.0)
}

func TestRoller_BetweenBounds(t *testing.T) {
	r := New(7)
	for i := 0; i < 1000; i++ {
		v := r.Between(3, 9)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 9)
	}

	assert.Equal(t, 10, NewScripted(0.999999).D10())
	assert.Equal(t, 1, NewScripted(0).D10())
	assert.Equal(t, 4, NewScripted(0.5).Between(7, 1))
}

func TestRoller_ChanceEdges(t *testing.T) {
	assert.False(t, NewScripted(0).Chance(0))
	assert.True(t, NewScripted(0.999).Chance(100))
}

func TestRoller_NewIDDeterministic(t *testing.T) {
	a := New(99)
	b := New(99)

	idA := a.NewID("entity")
	idB := b.NewID("entity")
	assert.Equal(t, idA, idB)
	assert.Contains(t, idA, "entity-")
	assert.NotEqual(t, idA, a.NewID("entity"))
}

func TestRoller_NewIDIgnoresScript(t *testing.T) {
	scripted := NewScripted(0.5, 0.5)
	plain := New(0)

	assert.Equal(t, plain.NewID("x"), scripted.NewID("x"))
	assert.Equal(t, 50.0, scripted.Percent())
}

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
