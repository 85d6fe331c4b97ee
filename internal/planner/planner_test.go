package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendive/planner/internal/config"
	"github.com/opendive/planner/internal/deco"
	"github.com/opendive/planner/pkg/core"
)

func newTestPlanner(cfg config.PlanConfig) *Planner {
	return New(testLogger(), deco.NewBuhlmann(), cfg)
}

// nonZero filters the gas declarations out of a waypoint list.
func nonZero(wps []core.Waypoint) []core.Waypoint {
	var out []core.Waypoint
	for _, wp := range wps {
		if wp.TimeS != 0 {
			out = append(out, wp)
		}
	}
	return out
}

// stopTime sums the time spent level at the given depth.
func stopTime(wps []core.Waypoint, depthMM int) int {
	total := 0
	wps = nonZero(wps)
	for i := 1; i < len(wps); i++ {
		if wps[i].DepthMM == depthMM && wps[i-1].DepthMM == depthMM {
			total += wps[i].TimeS - wps[i-1].TimeS
		}
	}
	return total
}

func decoPlanAndCylinders() (*core.Plan, []core.Cylinder) {
	cylinders := []core.Cylinder{
		{Description: "back", VolumeML: 24000, WorkingPressureMbar: 232000,
			StartPressureMbar: 232000, Gas: core.GasMix{O2: 210}},
		{Description: "deco 50", VolumeML: 11100, WorkingPressureMbar: 207000,
			StartPressureMbar: 207000, Gas: core.GasMix{O2: 500}},
	}
	plan := &core.Plan{
		SurfacePressureMbar: core.SurfacePressure,
		GFLow:               30,
		GFHigh:              70,
		BottomSACMLMin:      20000,
		DecoSACMLMin:        17000,
	}
	plan.AddSegment(3*60, 40000, core.GasMix{O2: 210}, 0, true)
	plan.AddSegment(22*60, 40000, core.GasMix{O2: 210}, 0, true)
	plan.AddSegment(0, 21000, core.GasMix{O2: 500}, 0, false)
	return plan, cylinders
}

func TestNoDecoPlan(t *testing.T) {
	p := newTestPlanner(config.DefaultPlanConfig())
	plan := simplePlan()

	dive, err := p.Run(plan, []core.Cylinder{airCylinder()}, false)
	require.NoError(t, err)
	require.NotNil(t, dive)

	// two user waypoints plus one synthesized straight ascent
	require.Len(t, plan.Waypoints, 3)
	final := plan.Waypoints[2]
	assert.Equal(t, 31*60+18000/75, final.TimeS)
	assert.Zero(t, final.DepthMM)
	assert.False(t, final.Entered)

	last := dive.Samples[len(dive.Samples)-1]
	assert.Zero(t, last.DepthMM)
	assert.Equal(t, 31*60+18000/75, last.TimeS)

	cyl := dive.Cylinders[0]
	assert.Positive(t, cyl.GasUsedML)
	// exact modulo the per-segment integer rounding
	assert.InDelta(t, cyl.StartPressureMbar, cyl.EndPressureMbar+cyl.GasUsedML*1000/cyl.VolumeML, 5)
}

func TestDecoPlanWithGasChange(t *testing.T) {
	plan, cylinders := decoPlanAndCylinders()
	p := newTestPlanner(config.DefaultPlanConfig())

	dive, err := p.Run(plan, cylinders, true)
	require.NoError(t, err)
	require.NotNil(t, dive)

	// the profile ends at the surface
	wps := nonZero(plan.Waypoints)
	assert.Zero(t, wps[len(wps)-1].DepthMM)
	assert.Zero(t, dive.Samples[len(dive.Samples)-1].DepthMM)

	// waypoint times are strictly increasing once declarations are
	// filtered out
	for i := 1; i < len(wps); i++ {
		assert.Greater(t, wps[i].TimeS, wps[i-1].TimeS)
	}

	// the ascent switches to the deco cylinder at 21 m
	switched := false
	for _, ev := range dive.Events {
		if ev.Type == core.EventGasSwitch && ev.CylinderIndex == 1 {
			switched = true
		}
	}
	assert.True(t, switched, "expected a gas switch to the deco cylinder")

	at21 := false
	for _, wp := range wps {
		if !wp.Entered && wp.DepthMM == 21000 {
			at21 = true
		}
	}
	assert.True(t, at21, "expected a scheduler waypoint at the 21 m gas change")

	// a 40 m / 25 min air dive at GF 30/70 has to stop on the way up
	assert.Positive(t, stopTime(plan.Waypoints, 3000))
	assert.Positive(t, dive.Cylinders[0].GasUsedML)
	assert.Positive(t, dive.Cylinders[1].GasUsedML)

	assert.Contains(t, dive.Notes, "GFlow = 30")
	assert.Contains(t, dive.Notes, "Gas consumption:")
}

func TestLastStop6M(t *testing.T) {
	planA, cylsA := decoPlanAndCylinders()
	base := newTestPlanner(config.DefaultPlanConfig())
	_, err := base.Run(planA, cylsA, true)
	require.NoError(t, err)

	cfg := config.DefaultPlanConfig()
	cfg.LastStop6M = true
	planB, cylsB := decoPlanAndCylinders()
	six := newTestPlanner(cfg)
	_, err = six.Run(planB, cylsB, true)
	require.NoError(t, err)

	stop3 := stopTime(planA.Waypoints, 3000)
	require.Positive(t, stop3, "baseline must stop at 3 m")

	// with the last stop at 6 m nothing happens at 3 m any more
	for _, wp := range nonZero(planB.Waypoints) {
		assert.NotEqual(t, 3000, wp.DepthMM)
	}
	assert.Zero(t, stopTime(planB.Waypoints, 3000))

	// the 6 m hang absorbs at least the former 6 m + 3 m stop time
	assert.GreaterOrEqual(t, stopTime(planB.Waypoints, 6000),
		stopTime(planA.Waypoints, 6000)+stop3)
}

func TestHighPO2Warning(t *testing.T) {
	cylinders := []core.Cylinder{{Description: "stage", VolumeML: 12000,
		StartPressureMbar: 232000, Gas: core.GasMix{O2: 800}}}
	plan := &core.Plan{
		SurfacePressureMbar: core.SurfacePressure,
		GFLow:               30,
		GFHigh:              75,
		BottomSACMLMin:      20000,
		DecoSACMLMin:        17000,
	}
	plan.AddSegment(2*60, 30000, core.GasMix{O2: 800}, 0, true)
	plan.AddSegment(18*60, 30000, core.GasMix{O2: 800}, 0, true)

	p := newTestPlanner(config.DefaultPlanConfig())
	dive, err := p.Run(plan, cylinders, true)
	require.NoError(t, err)
	require.NotNil(t, dive)

	assert.Contains(t, dive.Notes, "high pO2")
}

func TestTrialRollbackSideEffectFree(t *testing.T) {
	run := func(extraDeclaration bool) *core.Dive {
		plan, cylinders := decoPlanAndCylinders()
		if extraDeclaration {
			// unreachable declaration far below the dive; must not
			// perturb anything
			plan.AddSegment(0, 200000, core.GasMix{O2: 500}, 0, false)
		}
		p := newTestPlanner(config.DefaultPlanConfig())
		dive, err := p.Run(plan, cylinders, true)
		require.NoError(t, err)
		require.NotNil(t, dive)
		return dive
	}

	a := run(false)
	b := run(true)
	assert.Equal(t, a.Samples, b.Samples)
	assert.Equal(t, a.Events, b.Events)
}

func TestEmptyPlanNoDive(t *testing.T) {
	p := newTestPlanner(config.DefaultPlanConfig())
	dive, err := p.Run(&core.Plan{}, []core.Cylinder{airCylinder()}, true)
	assert.NoError(t, err)
	assert.Nil(t, dive)
}

func TestSurfaceOnlyPlanNoDive(t *testing.T) {
	plan := &core.Plan{SurfacePressureMbar: core.SurfacePressure, BottomSACMLMin: 20000, DecoSACMLMin: 17000}
	plan.AddSegment(10*60, 0, core.Air(), 0, true)

	p := newTestPlanner(config.DefaultPlanConfig())
	dive, err := p.Run(plan, []core.Cylinder{airCylinder()}, true)
	assert.NoError(t, err)
	assert.Nil(t, dive)
}

func TestMissingGasSurfacesError(t *testing.T) {
	plan, cylinders := decoPlanAndCylinders()
	plan.AddSegment(0, 15000, core.GasMix{O2: 1000}, 0, false)

	p := newTestPlanner(config.DefaultPlanConfig())
	dive, err := p.Run(plan, cylinders, true)
	assert.Nil(t, dive)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "too many gas mixes"))
}
