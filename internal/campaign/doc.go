// Package campaign holds the campaign state snapshot and the ledger that is
// the only way to change it.
//
// # Single Writer
//
// Doctrine logic never mutates State. Every computation returns StateChange
// records (wrapped in Effects alongside narrative Events); State.Apply is the
// one function that moves counters. Apply dispatches on the change kind in a
// single switch, validates the whole batch against a working copy and swaps
// it in only if every record applied cleanly, so a malformed batch leaves the
// state untouched.
//
// # Sign Convention
//
// Amounts are never negative. Opposite directions are separate kinds
// (veil_damage / veil_restore, sanity_drain / sanity_restore, ...). A
// negative amount is rejected as a malformed change.
//
// # Region Scope
//
// Region-scoped kinds (sanity, corruption, investigation heat) that do not
// name a region are divided evenly across all regions. NewState rejects an
// empty region list, so the division is always defined.
package campaign
