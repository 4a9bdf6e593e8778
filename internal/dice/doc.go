// Package dice provides the seeded random source threaded through every
// probabilistic roll in the engine.
//
// # Determinism
//
// A Roller is created from a single int64 seed. Every roll in a campaign
// (summoning success, binding decay checks, backlash severity, counter-meme
// triggers, ...) draws from the same stream in a fixed order, so the same
// seed, the same initial state and the same orders reproduce a campaign
// bit-for-bit. The journal stores the seed for replay verification.
//
// All rolls derive from one unit draw in [0,1). Tests can pre-load those
// draws with NewScripted to force specific outcomes; once the script is
// exhausted the roller falls back to its seeded stream.
package dice
