package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/opendive/planner/internal/parser"
	"github.com/opendive/planner/pkg/core"
)

// planFile is the JSON document the plan command reads. Depths are meters
// and durations minutes here; the conversion into the planner's internal
// mm/seconds happens on load.
type planFile struct {
	Name                string  `json:"name"`
	GFLow               int     `json:"gfLow"`
	GFHigh              int     `json:"gfHigh"`
	AddDeco             *bool   `json:"addDeco"`
	BottomSACMLMin      int     `json:"bottomSAC"`
	DecoSACMLMin        int     `json:"decoSAC"`
	SurfacePressureMbar int     `json:"surfacePressureMbar"`
	Cylinders           []struct {
		Description         string `json:"description"`
		VolumeML            int    `json:"volumeML"`
		WorkingPressureMbar int    `json:"workingPressureMbar"`
		StartPressureMbar   int    `json:"startPressureMbar"`
		Gas                 string `json:"gas"`
		SwitchDepthM        float64 `json:"switchDepthM"`
	} `json:"cylinders"`
	Segments []struct {
		DurationMin float64 `json:"durationMin"`
		DepthM      float64 `json:"depthM"`
		Gas         string  `json:"gas"`
		PO2         string  `json:"po2"`
	} `json:"segments"`
	GasChanges []struct {
		DepthM float64 `json:"depthM"`
		Gas    string  `json:"gas"`
	} `json:"gasChanges"`
}

// loadPlanFile reads and converts a plan document into the planner's
// domain types. Configured defaults fill whatever the file leaves out.
func loadPlanFile(path string) (*core.Plan, []core.Cylinder, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, false, fmt.Errorf("error reading plan file: %w", err)
	}
	var pf planFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, nil, false, fmt.Errorf("error parsing plan file: %w", err)
	}

	if len(pf.Cylinders) == 0 {
		return nil, nil, false, fmt.Errorf("plan file declares no cylinders")
	}
	if len(pf.Cylinders) > core.MaxCylinders {
		return nil, nil, false, fmt.Errorf("plan file declares %d cylinders, at most %d are supported",
			len(pf.Cylinders), core.MaxCylinders)
	}

	plan := &core.Plan{
		GFLow:               pf.GFLow,
		GFHigh:              pf.GFHigh,
		BottomSACMLMin:      pf.BottomSACMLMin,
		DecoSACMLMin:        pf.DecoSACMLMin,
		SurfacePressureMbar: pf.SurfacePressureMbar,
	}
	if plan.GFLow == 0 {
		plan.GFLow = viper.GetInt("plan.gfLow")
	}
	if plan.GFHigh == 0 {
		plan.GFHigh = viper.GetInt("plan.gfHigh")
	}
	if plan.BottomSACMLMin == 0 {
		plan.BottomSACMLMin = viper.GetInt("plan.bottomSAC")
	}
	if plan.DecoSACMLMin == 0 {
		plan.DecoSACMLMin = viper.GetInt("plan.decoSAC")
	}
	if plan.SurfacePressureMbar == 0 {
		plan.SurfacePressureMbar = viper.GetInt("plan.surfacePressure")
	}

	var cylinders []core.Cylinder
	for i, c := range pf.Cylinders {
		gas, ok := parser.ParseGas(c.Gas)
		if !ok {
			return nil, nil, false, fmt.Errorf("cylinder %d: invalid gas %q", i, c.Gas)
		}
		cylinders = append(cylinders, core.Cylinder{
			Description:         c.Description,
			VolumeML:            c.VolumeML,
			WorkingPressureMbar: c.WorkingPressureMbar,
			StartPressureMbar:   c.StartPressureMbar,
			Gas:                 gas,
			SwitchDepthMM:       int(c.SwitchDepthM * 1000),
		})
	}

	for i, s := range pf.Segments {
		gas := core.GasMix{}
		if s.Gas != "" {
			parsed, ok := parser.ParseGas(s.Gas)
			if !ok {
				return nil, nil, false, fmt.Errorf("segment %d: invalid gas %q", i, s.Gas)
			}
			gas = parsed
		}
		po2 := 0
		if s.PO2 != "" {
			parsed, ok := parser.ParsePO2(s.PO2)
			if !ok {
				return nil, nil, false, fmt.Errorf("segment %d: invalid pO2 %q", i, s.PO2)
			}
			po2 = parsed
		}
		plan.AddSegment(int(s.DurationMin*60), int(s.DepthM*1000), gas, po2, true)
	}

	for i, gc := range pf.GasChanges {
		gas, ok := parser.ParseGas(gc.Gas)
		if !ok {
			return nil, nil, false, fmt.Errorf("gas change %d: invalid gas %q", i, gc.Gas)
		}
		plan.AddSegment(0, int(gc.DepthM*1000), gas, 0, false)
	}

	addDeco := true
	if pf.AddDeco != nil {
		addDeco = *pf.AddDeco
	}
	return plan, cylinders, addDeco, nil
}
