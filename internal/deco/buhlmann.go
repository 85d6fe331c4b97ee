package deco

import (
	"math"

	"github.com/opendive/planner/pkg/core"
)

// ZH-L16C compartment constants. Halftimes are minutes, a/b are the
// Bühlmann tolerance coefficients per inert gas.
var (
	n2Halflife = [Compartments]float64{5.0, 8.0, 12.5, 18.5, 27.0, 38.3, 54.3, 77.0,
		109.0, 146.0, 187.0, 239.0, 305.0, 390.0, 498.0, 635.0}
	n2A = [Compartments]float64{1.1696, 1.0, 0.8618, 0.7562, 0.62, 0.5043, 0.441, 0.4,
		0.375, 0.35, 0.3295, 0.3065, 0.2835, 0.261, 0.248, 0.2327}
	n2B = [Compartments]float64{0.5578, 0.6514, 0.7222, 0.7825, 0.8126, 0.8434, 0.8693, 0.8910,
		0.9092, 0.9222, 0.9319, 0.9403, 0.9477, 0.9544, 0.9602, 0.9653}

	heHalflife = [Compartments]float64{1.88, 3.02, 4.72, 6.99, 10.21, 14.48, 20.53, 29.11,
		41.20, 55.19, 70.69, 90.34, 115.29, 147.42, 188.24, 240.03}
	heA = [Compartments]float64{1.6189, 1.383, 1.1919, 1.0458, 0.922, 0.8205, 0.7305, 0.6502,
		0.595, 0.5545, 0.5333, 0.5189, 0.5181, 0.5176, 0.5172, 0.5119}
	heB = [Compartments]float64{0.4770, 0.5747, 0.6527, 0.7223, 0.7582, 0.7957, 0.8279, 0.8553,
		0.8757, 0.8903, 0.8997, 0.9073, 0.9122, 0.9171, 0.9217, 0.9267}
)

const (
	// Water vapor pressure in the lungs, bar.
	wvPressure = 0.0627

	// N2 share of air in the inspired fraction.
	n2InAir = 0.781

	surfaceEquilibriumBar = float64(core.SurfacePressure) / 1000.0
)

// Buhlmann is a ZH-L16C gradient factor model. The zero value is not ready;
// use NewBuhlmann.
type Buhlmann struct {
	state           State
	gfLow, gfHigh   float64
	gfLowAtMaxDepth bool
}

var _ Model = (*Buhlmann)(nil)

// NewBuhlmann returns a model initialized to surface equilibrium with a
// GF 30/75 default.
func NewBuhlmann() *Buhlmann {
	m := &Buhlmann{gfLow: 0.30, gfHigh: 0.75, gfLowAtMaxDepth: true}
	m.Init()
	return m
}

// SetGF configures the gradient factors in percent. Non-positive values
// keep the previous setting. lowAtMaxDepth is recorded, but gfAt anchors
// the low factor at the deepest exposure either way; no first-stop anchor
// is computed.
func (m *Buhlmann) SetGF(low, high int, lowAtMaxDepth bool) {
	if low > 0 {
		m.gfLow = float64(low) / 100.0
	}
	if high > 0 {
		m.gfHigh = float64(high) / 100.0
	}
	m.gfLowAtMaxDepth = lowAtMaxDepth
}

// Init resets the tissues to surface equilibrium on air.
func (m *Buhlmann) Init() float64 {
	loading := (surfaceEquilibriumBar - wvPressure) * n2InAir
	for i := 0; i < Compartments; i++ {
		m.state.N2[i] = loading
		m.state.He[i] = 0
	}
	m.state.MaxAmbientBar = surfaceEquilibriumBar
	return m.tolerance()
}

// AddSegment advances the tissues by durationS seconds at constant ambient
// pressure on the given gas, or on the CCR setpoint when setpointMbar > 0.
func (m *Buhlmann) AddSegment(pressureBar float64, gas core.GasMix, durationS, setpointMbar int) float64 {
	fO2 := float64(gas.O2) / 1000.0
	if gas.IsNull() {
		fO2 = float64(core.O2InAir) / 1000.0
	}
	fHe := float64(gas.He) / 1000.0
	fN2 := 1.0 - fO2 - fHe

	var pN2, pHe float64
	if setpointMbar > 0 {
		// closed circuit: the loop holds the setpoint, the inert share is
		// whatever ambient pressure is left
		po2 := math.Min(float64(setpointMbar)/1000.0, pressureBar)
		pInert := pressureBar - po2 - wvPressure
		if pInert < 0 {
			pInert = 0
		}
		if fN2+fHe > 0 {
			pN2 = pInert * fN2 / (fN2 + fHe)
			pHe = pInert * fHe / (fN2 + fHe)
		} else {
			pN2 = pInert
		}
	} else {
		pAlv := pressureBar - wvPressure
		pN2 = pAlv * fN2
		pHe = pAlv * fHe
	}

	minutes := float64(durationS) / 60.0
	for i := 0; i < Compartments; i++ {
		m.state.N2[i] += (pN2 - m.state.N2[i]) * (1 - math.Exp2(-minutes/n2Halflife[i]))
		m.state.He[i] += (pHe - m.state.He[i]) * (1 - math.Exp2(-minutes/heHalflife[i]))
	}
	if pressureBar > m.state.MaxAmbientBar {
		m.state.MaxAmbientBar = pressureBar
	}
	return m.tolerance()
}

// gfAt interpolates the gradient factor linearly over ambient pressure:
// gfHigh at the surface, gfLow at the deepest exposure of the dive.
func (m *Buhlmann) gfAt(ambientBar float64) float64 {
	anchor := m.state.MaxAmbientBar
	if anchor <= surfaceEquilibriumBar {
		return m.gfHigh
	}
	p := math.Min(math.Max(ambientBar, surfaceEquilibriumBar), anchor)
	return m.gfHigh + (m.gfLow-m.gfHigh)*(p-surfaceEquilibriumBar)/(anchor-surfaceEquilibriumBar)
}

// tolerance returns the lowest tolerated ambient pressure over all
// compartments. The gradient factor depends on the ambient pressure being
// solved for, so each compartment runs a short fixed-point iteration.
func (m *Buhlmann) tolerance() float64 {
	tol := 0.0
	for i := 0; i < Compartments; i++ {
		pTissue := m.state.N2[i] + m.state.He[i]
		if pTissue <= 0 {
			continue
		}
		a := (n2A[i]*m.state.N2[i] + heA[i]*m.state.He[i]) / pTissue
		b := (n2B[i]*m.state.N2[i] + heB[i]*m.state.He[i]) / pTissue

		p := surfaceEquilibriumBar
		for iter := 0; iter < 4; iter++ {
			gf := m.gfAt(p)
			p = (pTissue - a*gf) / (gf/b + 1.0 - gf)
		}
		if p > tol {
			tol = p
		}
	}
	return tol
}

// AllowedDepth converts a tolerance into the shallowest permitted depth.
func (m *Buhlmann) AllowedDepth(toleranceBar, surfaceBar float64, conservative bool) int {
	delta := toleranceBar - surfaceBar
	if delta <= 0 {
		return 0
	}
	depth := core.RelMbarToDepth(int(math.Round(delta * 1000)))
	if !conservative {
		depth = depth / 3000 * 3000
	}
	return depth
}

// Snapshot captures the tissue state by value.
func (m *Buhlmann) Snapshot() State {
	return m.state
}

// Restore brings a snapshot back and returns the tolerance at that state.
func (m *Buhlmann) Restore(s State) float64 {
	m.state = s
	return m.tolerance()
}
