// Package engine runs the campaign's turn pipeline.
//
// A turn is computed against a draft of the campaign and never touches the
// caller's state:
//
//  1. doctrine choice, if ordered
//  2. phase gates (a locked phase only checks whether it can unlock)
//  3. exactly one doctrine handler, chosen by the campaign's doctrine
//  4. shared systems: revelation orders, council drift and schism, the
//     world's unity against the cult
//  5. phase gates again, then the victory latch
//
// ProcessTurn returns the turn's events and state changes in emission
// order. Commit applies the changes to the campaign exactly once, as one
// atomic batch. Advance does both and moves the calendar on.
//
// Every random draw comes from the engine's seeded dice.Roller and every
// event is stamped from a logical Clock. Given the same seed, initial
// campaign and orders, a campaign replays identically.
package engine
