package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
)

// Domain prefixes. The version suffix leaves room to change the encoding
// without colliding with journals written under the old one.
const (
	DomainSnapshot = "eldritch/snapshot/v1"
	DomainCampaign = "eldritch/campaign/v1"
	DomainChanges  = "eldritch/changes/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest returns the domain-separated digest of v's canonical encoding.
func Digest(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", domain, err)
	}
	return hashWithDomain(domain, data), nil
}

// SnapshotDigest digests a campaign snapshot.
func SnapshotDigest(snap campaign.Snapshot) (string, error) {
	return Digest(DomainSnapshot, snap)
}

// ChangesDigest digests the ordered change list of one turn.
func ChangesDigest(changes []campaign.StateChange) (string, error) {
	if changes == nil {
		changes = []campaign.StateChange{}
	}
	return Digest(DomainChanges, changes)
}

// MustDigest is like Digest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDigest(domain string, v any) string {
	d, err := Digest(domain, v)
	if err != nil {
		panic(err)
	}
	return d
}
