// Package components defines ECS components for the particle pool.
package components

import "gonum.org/v1/gonum/spatial/r2"

// GridPos is a particle's location in grid space. I and J are fractional
// cell indices and may drift outside the grid between respawns.
type GridPos struct {
	Face int
	I, J float64
}

// Current is the velocity sampled at the particle's cell on the last step,
// with M its magnitude relative to the configured maximum.
type Current struct {
	U, V float64
	M    float64
}

// Trail holds the screen positions before and after the last step.
// From == To right after a respawn.
type Trail struct {
	From, To r2.Vec
}

// Life is the remaining lifespan, drawn in [0, 1) and decremented each tick.
type Life struct {
	Remaining float64
}

// Origin is the fixed respawn point of a lattice particle.
// Randomly spawned particles do not carry it.
type Origin struct {
	Face int
	I, J float64
}
