// Package scenario runs scripted campaigns described in YAML.
//
// A scenario fixes a starting campaign, the dice (a seed or an explicit
// script of rolls), a list of turns of orders and a set of assertions over
// the events and final state the run produced. Scenario files are checked
// twice on load: strictly against the Go types, so a misspelt key is an
// error, and against an embedded CUE schema that constrains the values.
//
// A run's trace can be compared against a golden file:
//
//	go test ./internal/scenario -update
//
// regenerates the files under testdata/golden.
package scenario
