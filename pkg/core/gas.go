// Package core holds the domain types shared between the planner, the
// storage backends and the CLI: gas mixes, cylinders, plan waypoints and
// the produced dive record. Internal units are integer millimeters (depth),
// milliliters (gas volume), millibars (pressure) and seconds (time);
// conversion to display units happens at the presentation edge.
package core

import "fmt"

const (
	// O2InAir is the oxygen content of air in permille.
	O2InAir = 209

	// SurfacePressure is standard atmospheric pressure in mbar.
	SurfacePressure = 1013

	// MaxCylinders bounds the per-dive cylinder inventory.
	MaxCylinders = 8
)

// GasMix describes a breathing gas by its O2 and He content in permille.
// The N2 share is the remainder. Invariant: O2 + He <= 1000.
type GasMix struct {
	O2 int `json:"o2"`
	He int `json:"he"`
}

// Air is the default mix: 20.9% oxygen, no helium.
func Air() GasMix {
	return GasMix{O2: O2InAir}
}

// IsNull reports whether the mix carries no gas information at all.
// A null mix on a waypoint means "keep breathing the previous gas".
func (g GasMix) IsNull() bool {
	return g.O2 == 0 && g.He == 0
}

// IsAir reports whether the mix is plain air within rounding slack.
func (g GasMix) IsAir() bool {
	if g.He != 0 {
		return false
	}
	return g.O2 == 0 || (g.O2 >= O2InAir-1 && g.O2 <= O2InAir+1)
}

// GasDistance is the component-wise distance of two mixes in permille,
// bounded by 2000. Mixes closer than 200 are treated as the same gas.
func GasDistance(a, b GasMix) int {
	return abs(a.O2-b.O2) + abs(a.He-b.He)
}

// SameGas reports whether two mixes are close enough to be interchangeable.
func SameGas(a, b GasMix) bool {
	return GasDistance(a, b) < 200
}

// Name renders the conventional name of the mix: "air", "EAN32" or "21/35".
// Percentages are rounded from permille.
func (g GasMix) Name() string {
	if g.IsAir() {
		return "air"
	}
	if g.He == 0 {
		return fmt.Sprintf("EAN%d", (g.O2+5)/10)
	}
	return fmt.Sprintf("%d/%d", (g.O2+5)/10, (g.He+5)/10)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
