package campaign

import "fmt"

// Doctrine is the campaign's top-level strategy. It is chosen once.
type Doctrine string

const (
	DoctrineNone        Doctrine = ""
	DoctrineDomination  Doctrine = "domination"
	DoctrineCorruption  Doctrine = "corruption"
	DoctrineConvergence Doctrine = "convergence"
)

// Doctrines lists the selectable doctrines in display order.
var Doctrines = []Doctrine{DoctrineDomination, DoctrineCorruption, DoctrineConvergence}

// Valid reports whether d is one of the selectable doctrines.
func (d Doctrine) Valid() bool {
	switch d {
	case DoctrineDomination, DoctrineCorruption, DoctrineConvergence:
		return true
	}
	return false
}

// ParseDoctrine converts a string into a Doctrine. The empty string parses
// to DoctrineNone.
func ParseDoctrine(s string) (Doctrine, error) {
	d := Doctrine(s)
	if d == DoctrineNone || d.Valid() {
		return d, nil
	}
	return DoctrineNone, fmt.Errorf("unknown doctrine %q", s)
}
