package phase

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/convergence"
	"github.com/roach88/eldritch/internal/corruption"
	"github.com/roach88/eldritch/internal/domination"
)

// DoctrineState is the private progress of exactly one doctrine. It is
// implemented by *domination.State, *corruption.State and
// *convergence.State; a campaign only ever carries the one matching its
// doctrine.
type DoctrineState interface {
	Kind() campaign.Doctrine
}

var (
	_ DoctrineState = (*domination.State)(nil)
	_ DoctrineState = (*corruption.State)(nil)
	_ DoctrineState = (*convergence.State)(nil)
)

// NewDoctrineState returns the empty state for a doctrine.
func NewDoctrineState(d campaign.Doctrine) (DoctrineState, error) {
	switch d {
	case campaign.DoctrineDomination:
		return domination.NewState(), nil
	case campaign.DoctrineCorruption:
		return corruption.NewState(), nil
	case campaign.DoctrineConvergence:
		return convergence.NewState(), nil
	}
	return nil, fmt.Errorf("no doctrine state for %q", d)
}

// CloneDoctrineState deep-copies a doctrine state. A nil state clones to nil.
func CloneDoctrineState(ds DoctrineState) DoctrineState {
	switch s := ds.(type) {
	case *domination.State:
		return s.Clone()
	case *corruption.State:
		return s.Clone()
	case *convergence.State:
		return s.Clone()
	}
	return nil
}

// doctrineEnvelope is the JSON form of a DoctrineState: the kind
// discriminator next to the concrete payload.
type doctrineEnvelope struct {
	Kind  campaign.Doctrine `json:"kind"`
	State json.RawMessage   `json:"state"`
}

func marshalDoctrine(ds DoctrineState) ([]byte, error) {
	if ds == nil {
		return []byte("null"), nil
	}
	raw, err := json.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("marshal %s state: %w", ds.Kind(), err)
	}
	return json.Marshal(doctrineEnvelope{Kind: ds.Kind(), State: raw})
}

func unmarshalDoctrine(data []byte) (DoctrineState, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var env doctrineEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode doctrine envelope: %w", err)
	}
	ds, err := NewDoctrineState(env.Kind)
	if err != nil {
		return nil, err
	}
	if len(env.State) > 0 {
		if err := json.Unmarshal(env.State, ds); err != nil {
			return nil, fmt.Errorf("decode %s state: %w", env.Kind, err)
		}
	}
	return ds, nil
}
