// Package convergence implements the Convergence doctrine: enlightenment
// programs that walk students through a staged curriculum, the True
// Intentions Meter that keeps the cult's promises and lies on the books,
// cultural movements and the economy of willing sacrifice.
//
// Program and meter bookkeeping lives in *State, which the caller owns;
// everything that touches the shared campaign is returned as effects.
package convergence
