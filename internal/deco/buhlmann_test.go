package deco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendive/planner/pkg/core"
)

func TestInitNoCeiling(t *testing.T) {
	m := NewBuhlmann()
	tol := m.Init()

	// surface-equilibrated tissues tolerate the surface
	assert.Less(t, tol, surfaceEquilibriumBar)
	assert.Zero(t, m.AllowedDepth(tol, surfaceEquilibriumBar, true))
}

func TestLoadingRaisesCeiling(t *testing.T) {
	m := NewBuhlmann()
	m.SetGF(30, 75, true)
	m.Init()

	// 25 min at 40 m on air
	pressure := core.DepthToBar(40000, core.SurfacePressure)
	tol := m.AddSegment(pressure, core.Air(), 25*60, 0)

	ceiling := m.AllowedDepth(tol, surfaceEquilibriumBar, true)
	assert.Greater(t, ceiling, 0, "a 40m/25min exposure must produce a ceiling")
	assert.Less(t, ceiling, 40000, "the ceiling must stay above the bottom")
}

func TestOffgassingLowersCeiling(t *testing.T) {
	m := NewBuhlmann()
	m.Init()
	pressure := core.DepthToBar(40000, core.SurfacePressure)
	m.AddSegment(pressure, core.Air(), 25*60, 0)

	stop := core.DepthToBar(9000, core.SurfacePressure)
	tol1 := m.AddSegment(stop, core.GasMix{O2: 500}, 60, 0)
	tol2 := m.AddSegment(stop, core.GasMix{O2: 500}, 10*60, 0)
	assert.Less(t, tol2, tol1, "time on a rich mix at the stop must offgas")
}

func TestGFLowMoreConservative(t *testing.T) {
	exposure := func(low int) float64 {
		m := NewBuhlmann()
		m.SetGF(low, 75, true)
		m.Init()
		return m.AddSegment(core.DepthToBar(40000, core.SurfacePressure), core.Air(), 25*60, 0)
	}

	assert.Greater(t, exposure(20), exposure(80),
		"a lower GF-low must demand a higher tolerated pressure, i.e. a deeper ceiling")
}

func TestSnapshotRestoreExact(t *testing.T) {
	m := NewBuhlmann()
	m.Init()
	m.AddSegment(core.DepthToBar(30000, core.SurfacePressure), core.Air(), 20*60, 0)

	snap := m.Snapshot()
	tolBefore := m.tolerance()

	// perturb heavily, then roll back
	m.AddSegment(core.DepthToBar(60000, core.SurfacePressure), core.GasMix{O2: 180, He: 450}, 30*60, 0)
	tolAfter := m.Restore(snap)

	require.Equal(t, snap, m.Snapshot())
	assert.Equal(t, tolBefore, tolAfter)
}

func TestAllowedDepthRounding(t *testing.T) {
	m := NewBuhlmann()

	// ~4 m raw ceiling: conservative keeps it, display rounds down to 3 m
	tol := surfaceEquilibriumBar + 0.404
	exact := m.AllowedDepth(tol, surfaceEquilibriumBar, true)
	assert.InDelta(t, 4000, exact, 50)
	assert.Equal(t, 3000, m.AllowedDepth(tol, surfaceEquilibriumBar, false))
}

func TestSetpointReducesInertLoading(t *testing.T) {
	pressure := core.DepthToBar(30000, core.SurfacePressure)

	oc := NewBuhlmann()
	oc.Init()
	tolOC := oc.AddSegment(pressure, core.Air(), 20*60, 0)

	ccr := NewBuhlmann()
	ccr.Init()
	tolCCR := ccr.AddSegment(pressure, core.Air(), 20*60, 1400)

	assert.Less(t, tolCCR, tolOC, "a 1.4 bar setpoint displaces inert gas")
}
