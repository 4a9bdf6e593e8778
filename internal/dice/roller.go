package dice

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// Roller is a seeded random source. It is not safe for concurrent use; the
// engine is single-threaded and owns exactly one Roller per campaign.
type Roller struct {
	seed   int64
	rng    *rand.Rand
	script []float64
	draws  int64
}

// New creates a Roller seeded with seed.
func New(seed int64) *Roller {
	return &Roller{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)), // #nosec G404 -- game rolls, not crypto
	}
}

// NewScripted creates a Roller whose first draws are taken from script.
// Each value is a unit draw in [0,1); values outside that range are clamped.
// When the script runs out the Roller continues from seed 0.
func NewScripted(script ...float64) *Roller {
	r := New(0)
	r.script = append([]float64(nil), script...)
	return r
}

// Seed returns the seed the Roller was created with.
func (r *Roller) Seed() int64 {
	return r.seed
}

// Draws returns how many unit draws have been consumed.
func (r *Roller) Draws() int64 {
	return r.draws
}

// Float returns a unit draw in [0,1).
func (r *Roller) Float() float64 {
	r.draws++
	if len(r.script) > 0 {
		v := r.script[0]
		r.script = r.script[1:]
		return clampUnit(v)
	}
	return r.rng.Float64()
}

// Percent returns a draw in [0,100).
func (r *Roller) Percent() float64 {
	return r.Float() * 100
}

// Chance reports whether a roll succeeds against a percentage chance.
// Chances at or below 0 never succeed; chances at or above 100 always do,
// but still consume a draw so the stream stays aligned.
func (r *Roller) Chance(pct float64) bool {
	return r.Percent() < pct
}

// Between returns an integer in [lo, hi].
func (r *Roller) Between(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	span := hi - lo + 1
	v := lo + int(math.Floor(r.Float()*float64(span)))
	if v > hi {
		v = hi
	}
	return v
}

// D10 rolls a ten-sided die.
func (r *Roller) D10() int {
	return r.Between(1, 10)
}

// D100 rolls a percentile die.
func (r *Roller) D100() int {
	return r.Between(1, 100)
}

// Read fills p from the seeded stream. It never consults the script, so
// identifiers stay stable when tests script outcome rolls.
func (r *Roller) Read(p []byte) (int, error) {
	return r.rng.Read(p)
}

// NewID returns a prefixed identifier derived from the seeded stream.
//
// Format: "<prefix>-<uuid>" where the UUID is a version 4 UUID built from
// the Roller's bytes (uuid.NewRandomFromReader), so replays mint the same ids.
func (r *Roller) NewID(prefix string) string {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		// math/rand never fails to read; keep the id unique regardless.
		return fmt.Sprintf("%s-%d", prefix, r.rng.Int63())
	}
	if prefix == "" {
		return id.String()
	}
	return prefix + "-" + id.String()
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v >= 1 {
		return math.Nextafter(1, 0)
	}
	return v
}
