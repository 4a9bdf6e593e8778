package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a campaign seed using crypto/rand.
//
// Callers that want reproducible campaigns pass an explicit seed instead;
// the seed is journaled either way so a run can be replayed.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
