// Package phase holds the campaign's progression gates: the Phase 2 state
// that carries the active doctrine's private progress, the Phase 3 state,
// their unlock predicates and the doctrine-specific completion milestones.
//
// Unlocking is monotonic. Check never returns a locked phase for a phase
// that was unlocked on input.
package phase
