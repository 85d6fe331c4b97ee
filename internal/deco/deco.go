// Package deco defines the decompression model contract the ascent
// scheduler plans against, and provides a Bühlmann ZH-L16C gradient factor
// implementation of it.
package deco

import "github.com/opendive/planner/pkg/core"

// Compartments is the number of tissue compartments in the model.
const Compartments = 16

// State is a snapshot of the tissue saturations. It is a fixed-size value
// type so taking and restoring snapshots is O(1) and allocation-free; the
// trial-rollback loop snapshots once per stop level and once per deco
// minute.
type State struct {
	N2, He        [Compartments]float64
	MaxAmbientBar float64
}

// Model is the decompression model consumed by the scheduler. AddSegment is
// the sole mutator of tissue state. Two planning runs must not share a
// Model without serialization.
type Model interface {
	// AddSegment advances the tissues by durationS seconds at the given
	// constant ambient pressure, breathing gas (or the CCR setpoint when
	// setpointMbar > 0), and returns the resulting tissue tolerance: the
	// lowest ambient pressure in bar the tissues tolerate.
	AddSegment(pressureBar float64, gas core.GasMix, durationS, setpointMbar int) float64

	// AllowedDepth converts a tissue tolerance into the shallowest depth in
	// mm the diver may ascend to. With conservative set the exact ceiling is
	// returned; otherwise it is rounded down to the shallower 3 m multiple
	// for display.
	AllowedDepth(toleranceBar, surfaceBar float64, conservative bool) int

	// SetGF configures the gradient factor pair in percent. With
	// lowAtMaxDepth the low factor applies at the deepest point of the
	// dive, otherwise at the first stop.
	SetGF(low, high int, lowAtMaxDepth bool)

	// Init resets the tissues to surface equilibrium and returns the
	// initial tolerance.
	Init() float64

	// Snapshot captures the tissue state; Restore brings it back and
	// returns the tolerance at that state.
	Snapshot() State
	Restore(State) float64
}
