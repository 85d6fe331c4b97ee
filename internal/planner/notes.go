package planner

import (
	"fmt"
	"strings"

	"github.com/opendive/planner/internal/config"
	"github.com/opendive/planner/pkg/core"
)

// Summary is the structured plan summary. It carries data only; Render
// turns it into the textual notes at the presentation edge.
type Summary struct {
	GFLow, GFHigh int
	Rows          []SummaryRow
	GasUsage      []GasUse
	Warnings      []PO2Warning
}

// SummaryRow is one interesting waypoint of the plan: a stop, a
// user-entered leg, or a transition.
type SummaryRow struct {
	DepthMM     int
	RuntimeS    int
	DurationS   int
	Entered     bool
	DepthChange bool
	// GasName is the gas breathed on this segment; NextGasName the gas of
	// the following segment (what the tabular gas column shows).
	GasName     string
	NextGasName string
	// SwitchToGas is set when a gas switch happens at this waypoint.
	SwitchToGas string
}

// GasUse is the consumption of one cylinder.
type GasUse struct {
	GasName   string
	VolumeML  int
	Overdrawn bool
}

// PO2Warning flags a waypoint whose oxygen partial pressure exceeds
// 1600 mbar.
type PO2Warning struct {
	PO2Mbar int
	TimeS   int
	DepthMM int
	GasName string
}

// buildSummary collects the rows, per-cylinder gas usage and pO2 warnings
// for the finished plan.
func buildSummary(plan *core.Plan, dive *core.Dive) *Summary {
	s := &Summary{GFLow: plan.GFLow, GFHigh: plan.GFHigh}

	lastDepth, lastTime := 0, 0
	currentGas := dive.Cylinders[0].Gas
	for i := range plan.Waypoints {
		dp := &plan.Waypoints[i]
		if dp.TimeS == 0 {
			continue
		}
		gas := dp.Gas
		if gas.IsNull() {
			gas = currentGas
		}

		// look ahead past declarations for the following segment
		var next *core.Waypoint
		for j := i + 1; j < len(plan.Waypoints); j++ {
			if plan.Waypoints[j].TimeS != 0 {
				next = &plan.Waypoints[j]
				break
			}
		}
		newGas := gas
		if next != nil && !next.Gas.IsNull() {
			newGas = next.Gas
		}

		// drop legs devoid of anything useful: synthesized mid-ascent
		// points that neither stop nor switch gas
		if !dp.Entered && core.GasDistance(gas, newGas) == 0 && next != nil &&
			dp.DepthMM != lastDepth && next.DepthMM != dp.DepthMM {
			currentGas = gas
			continue
		}

		row := SummaryRow{
			DepthMM:     dp.DepthMM,
			RuntimeS:    dp.TimeS,
			DurationS:   dp.TimeS - lastTime,
			Entered:     dp.Entered,
			DepthChange: dp.DepthMM != lastDepth,
			GasName:     gas.Name(),
			NextGasName: newGas.Name(),
		}
		if next != nil && core.GasDistance(gas, newGas) > 0 {
			row.SwitchToGas = newGas.Name()
		}
		s.Rows = append(s.Rows, row)

		currentGas = gas
		lastTime, lastDepth = dp.TimeS, dp.DepthMM
	}

	for i := range dive.Cylinders {
		cyl := &dive.Cylinders[i]
		if !cyl.HasData() {
			continue
		}
		s.GasUsage = append(s.GasUsage, GasUse{
			GasName:   cyl.Gas.Name(),
			VolumeML:  cyl.GasUsedML,
			Overdrawn: cyl.VolumeML != 0 && cyl.EndPressureMbar < 10000,
		})
	}

	for i := range plan.Waypoints {
		dp := &plan.Waypoints[i]
		if dp.TimeS == 0 {
			continue
		}
		po2 := int(core.DepthToAtm(dp.DepthMM, plan.SurfacePressureMbar) * float64(dp.Gas.O2))
		if po2 > 1600 {
			s.Warnings = append(s.Warnings, PO2Warning{
				PO2Mbar: po2,
				TimeS:   dp.TimeS,
				DepthMM: dp.DepthMM,
				GasName: dp.Gas.Name(),
			})
		}
	}
	return s
}

// Render formats the summary as the plan notes.
func (s *Summary) Render(cfg config.PlanConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dive plan\nbased on GFlow = %d and GFhigh = %d\n\n", s.GFLow, s.GFHigh)
	b.WriteString("depth")
	if cfg.DisplayRuntime {
		b.WriteString(" runtime")
	}
	if cfg.DisplayDuration {
		b.WriteString(" stop time")
	}
	b.WriteString(" gas\n")

	pendingGas := true
	for _, row := range s.Rows {
		if row.DepthChange {
			if cfg.DisplayTransitions {
				fmt.Fprintf(&b, "Transition to %.1f m in %d:%02d min - runtime %d:%02d on %s\n",
					float64(row.DepthMM)/1000, row.DurationS/60, row.DurationS%60,
					row.RuntimeS/60, row.RuntimeS%60, row.GasName)
			} else if row.Entered {
				pendingGas = s.writeTabularRow(&b, cfg, row, pendingGas)
			}
		} else {
			if cfg.Verbatim {
				fmt.Fprintf(&b, "Stay at %.1f m for %d:%02d min - runtime %d:%02d on %s\n",
					float64(row.DepthMM)/1000, row.DurationS/60, row.DurationS%60,
					row.RuntimeS/60, row.RuntimeS%60, row.GasName)
			} else {
				pendingGas = s.writeTabularRow(&b, cfg, row, pendingGas)
			}
		}
		if row.SwitchToGas != "" {
			if cfg.Verbatim {
				fmt.Fprintf(&b, "Switch gas to %s\n", row.SwitchToGas)
			} else {
				pendingGas = true
			}
		}
	}

	b.WriteString("\nGas consumption:\n")
	for _, use := range s.GasUsage {
		warning := ""
		if use.Overdrawn {
			warning = " WARNING: this is more gas than available in the specified cylinder!"
		}
		fmt.Fprintf(&b, "%.0fl of %s%s\n", float64(use.VolumeML)/1000, use.GasName, warning)
	}

	for _, w := range s.Warnings {
		fmt.Fprintf(&b, "Warning: high pO2 value %.2f at %d:%02d with gas %s at depth %.1f m\n",
			float64(w.PO2Mbar)/1000, w.TimeS/60, w.TimeS%60, w.GasName, float64(w.DepthMM)/1000)
	}
	return b.String()
}

// writeTabularRow emits one line of the tabular form and reports whether a
// gas announcement is still pending.
func (s *Summary) writeTabularRow(b *strings.Builder, cfg config.PlanConfig, row SummaryRow, pendingGas bool) bool {
	fmt.Fprintf(b, "%3.0fm", float64(row.DepthMM)/1000)
	if cfg.DisplayRuntime {
		fmt.Fprintf(b, "  %3dmin ", (row.RuntimeS+30)/60)
	}
	if cfg.DisplayDuration {
		fmt.Fprintf(b, "   %3dmin ", (row.DurationS+30)/60)
	}
	if pendingGas {
		fmt.Fprintf(b, " %s", row.NextGasName)
		pendingGas = false
	}
	b.WriteString("\n")
	return pendingGas
}
