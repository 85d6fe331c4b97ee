package planner

import (
	"fmt"
	"slices"

	"github.com/opendive/planner/pkg/core"
)

// createDiveFromPlan materializes the waypoint list into a time-sampled
// dive record: samples, gas-switch and setpoint events, and per-cylinder
// consumption. Returns (nil, nil) for a degenerate plan with fewer than
// two samples, and an error when a waypoint references a gas that is not
// in the cylinder inventory.
func createDiveFromPlan(plan *core.Plan, cylinders []core.Cylinder) (*core.Dive, error) {
	if len(plan.Waypoints) == 0 {
		return nil, nil
	}

	dive := &core.Dive{
		When:                plan.Start,
		SurfacePressureMbar: plan.SurfacePressureMbar,
		Cylinders:           slices.Clone(cylinders),
	}
	core.ResetCylinders(dive.Cylinders)

	cylIdx := 0
	oldGas := dive.Cylinders[0].Gas
	oldPO2 := 0
	lastTime, lastDepth := 0, 0

	// seed sample at the surface carrying the initial setpoint
	dive.Samples = append(dive.Samples, core.Sample{PO2Mbar: plan.Waypoints[0].SetpointMbar})

	for i := range plan.Waypoints {
		dp := &plan.Waypoints[i]

		if dp.TimeS == 0 {
			// gas availability declaration: validate, don't sample
			if core.FindCylinderByGas(dive.Cylinders, dp.Gas) < 0 {
				return nil, fmt.Errorf("too many gas mixes: %s is not in the cylinder inventory", dp.Gas.Name())
			}
			continue
		}

		gas := dp.Gas
		if gas.IsNull() {
			gas = oldGas
		}

		if oldPO2 != dp.SetpointMbar {
			if lastTime != 0 {
				dive.Events = append(dive.Events, core.Event{
					TimeS:        lastTime,
					Type:         core.EventSetpointChange,
					SetpointMbar: dp.SetpointMbar,
				})
			}
			oldPO2 = dp.SetpointMbar
		}

		if core.GasDistance(gas, oldGas) > 0 {
			idx := core.FindCylinderByGas(dive.Cylinders, gas)
			if idx < 0 {
				return nil, fmt.Errorf("too many gas mixes: %s is not in the cylinder inventory", gas.Name())
			}
			// the switch takes effect one second after the previous
			// waypoint; bridge the profile so the new gas has a sample to
			// start from
			dive.Events = append(dive.Events, core.Event{
				TimeS:         lastTime + 1,
				Type:          core.EventGasSwitch,
				CylinderIndex: idx,
			})
			dive.Samples[len(dive.Samples)-1].PO2Mbar = dp.SetpointMbar
			dive.Samples = append(dive.Samples, core.Sample{TimeS: lastTime + 1, DepthMM: lastDepth})
			cylIdx = idx
			oldGas = gas
		}

		// keep the pO2 valid from the start of the segment
		prev := &dive.Samples[len(dive.Samples)-1]
		prev.PO2Mbar = dp.SetpointMbar

		sac := plan.DecoSACMLMin
		if dp.Entered {
			sac = plan.BottomSACMLMin
		}
		cyl := &dive.Cylinders[cylIdx]
		cyl.UpdatePressure(prev.DepthMM, dp.DepthMM, dp.TimeS-prev.TimeS, sac, plan.SurfacePressureMbar)

		dive.Samples = append(dive.Samples, core.Sample{
			TimeS:                dp.TimeS,
			DepthMM:              dp.DepthMM,
			PO2Mbar:              dp.SetpointMbar,
			CylinderPressureMbar: cyl.EndPressureMbar,
		})
		lastTime, lastDepth = dp.TimeS, dp.DepthMM
	}

	if len(dive.Samples) <= 1 {
		// not enough for a dive, most likely every waypoint was a
		// declaration
		return nil, nil
	}
	return dive, nil
}
