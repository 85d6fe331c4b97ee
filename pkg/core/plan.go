package core

import "time"

// Waypoint is one entry of a dive plan. A waypoint with TimeS == 0 is a gas
// declaration: it tells the planner a cylinder with Gas is available at or
// above DepthMM, and is not itself a profile segment. Entered marks
// user-authored descent/bottom waypoints; synthesized ascent waypoints
// carry false.
type Waypoint struct {
	TimeS        int    `json:"timeS"`
	DepthMM      int    `json:"depthMM"`
	Gas          GasMix `json:"gas"`
	SetpointMbar int    `json:"setpointMbar"`
	Entered      bool   `json:"entered"`
}

// Plan is the user-authored dive plan plus whatever the scheduler appends.
// Waypoints are kept in non-decreasing absolute time order, except for
// zero-time gas declarations.
type Plan struct {
	Start               time.Time  `json:"start"`
	SurfacePressureMbar int        `json:"surfacePressureMbar"`
	GFLow               int        `json:"gfLow"`
	GFHigh              int        `json:"gfHigh"`
	BottomSACMLMin      int        `json:"bottomSACMLMin"`
	DecoSACMLMin        int        `json:"decoSACMLMin"`
	Waypoints           []Waypoint `json:"waypoints"`
}

// MaxTime returns the largest absolute time in the plan.
func (p *Plan) MaxTime() int {
	max := 0
	for i := range p.Waypoints {
		if p.Waypoints[i].TimeS > max {
			max = p.Waypoints[i].TimeS
		}
	}
	return max
}

// AddSegment appends a waypoint, translating the relative duration into
// absolute time by adding it to the maximum existing time. Zero-duration
// declarations are not time-shifted.
func (p *Plan) AddSegment(durationS, depthMM int, gas GasMix, setpointMbar int, entered bool) *Waypoint {
	timeS := durationS
	if len(p.Waypoints) > 0 && durationS != 0 {
		timeS += p.MaxTime()
	}
	p.Waypoints = append(p.Waypoints, Waypoint{
		TimeS:        timeS,
		DepthMM:      depthMM,
		Gas:          gas,
		SetpointMbar: setpointMbar,
		Entered:      entered,
	})
	return &p.Waypoints[len(p.Waypoints)-1]
}

// Nth returns the idx-th waypoint, growing the list with empty placeholders
// as needed. The UI edits plans through this.
func (p *Plan) Nth(idx int) *Waypoint {
	for len(p.Waypoints) <= idx {
		p.Waypoints = append(p.Waypoints, Waypoint{})
	}
	return &p.Waypoints[idx]
}

// IsEmpty reports whether the plan has no profile segments. Gas
// declarations alone do not make a plan.
func (p *Plan) IsEmpty() bool {
	for i := range p.Waypoints {
		if p.Waypoints[i].TimeS != 0 {
			return false
		}
	}
	return true
}

// AverageDepth is the time-weighted mean depth over the profile segments,
// used to pick the ascent-rate tier.
func (p *Plan) AverageDepth() int {
	lastTime, lastDepth := 0, 0
	sum := 0
	for i := range p.Waypoints {
		wp := &p.Waypoints[i]
		if wp.TimeS == 0 {
			continue
		}
		sum += (wp.TimeS - lastTime) * (wp.DepthMM + lastDepth) / 2
		lastTime, lastDepth = wp.TimeS, wp.DepthMM
	}
	if lastTime == 0 {
		return 0
	}
	return sum / lastTime
}
