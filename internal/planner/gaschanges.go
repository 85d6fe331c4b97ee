package planner

import (
	"log/slog"

	"github.com/opendive/planner/pkg/core"
)

// gasChange is a depth at which the ascent switches to another cylinder.
type gasChange struct {
	depthMM  int
	cylinder int
}

// analyzeGasList extracts the gas-change depths from the plan's zero-time
// declarations at or above the given depth, sorted ascending. Declarations
// below the current depth are considered as a better cylinder to start the
// ascent on: the shallowest one that is still shallower than the ascent
// cylinder's switch depth wins.
func analyzeGasList(plan *core.Plan, cylinders []core.Cylinder, depthMM int, ascCylinder *int, log *slog.Logger) []gasChange {
	var changes []gasChange
	bestDepth := cylinders[*ascCylinder].SwitchDepthMM

	for i := range plan.Waypoints {
		dp := &plan.Waypoints[i]
		if dp.TimeS != 0 {
			continue
		}
		if dp.DepthMM <= depthMM {
			idx := core.FindCylinderByGas(cylinders, dp.Gas)
			if idx < 0 {
				// the materializer validates declarations before the
				// scheduler runs, so this cannot happen on a dive that
				// made it here
				log.Error("Declared gas missing from cylinder inventory", "gas", dp.Gas.Name())
				continue
			}
			pos := 0
			for pos < len(changes) && changes[pos].depthMM <= dp.DepthMM {
				pos++
			}
			changes = append(changes, gasChange{})
			copy(changes[pos+1:], changes[pos:])
			changes[pos] = gasChange{depthMM: dp.DepthMM, cylinder: idx}
		} else if dp.DepthMM < bestDepth {
			// a richer mix parked below the bottom depth: start the
			// ascent on it
			bestDepth = dp.DepthMM
			*ascCylinder = core.FindCylinderByGas(cylinders, dp.Gas)
		}
	}
	return changes
}
