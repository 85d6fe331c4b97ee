// Package planner turns a user-authored dive plan into a complete dive:
// it schedules the ascent against a decompression model, materializes the
// time-sampled dive record and renders the plan summary.
package planner

import (
	"log/slog"
	"slices"
	"time"

	"github.com/opendive/planner/internal/config"
	"github.com/opendive/planner/internal/deco"
	"github.com/opendive/planner/pkg/core"
)

const (
	// timeStep is the simulation granularity of the ascent.
	timeStep = 1

	// decoTimeStep is the unit of deco stop time.
	decoTimeStep = 60
)

// Planner runs planning passes. A Planner (and its model) must not be
// shared between concurrent runs.
type Planner struct {
	log   *slog.Logger
	model deco.Model
	cfg   config.PlanConfig

	metrics instruments
}

// New creates a planner around a decompression model.
func New(log *slog.Logger, model deco.Model, cfg config.PlanConfig) *Planner {
	return &Planner{
		log:     log,
		model:   model,
		cfg:     cfg,
		metrics: newInstruments(log),
	}
}

// Run synthesizes the complete dive for the plan: the user waypoints plus
// the ascent schedule with any required deco stops and gas switches. The
// plan's waypoint list is extended in place; the cylinders slice is copied
// and the copy is returned on the dive with consumption booked. A
// degenerate plan yields (nil, nil).
func (p *Planner) Run(plan *core.Plan, cylinders []core.Cylinder, addDeco bool) (*core.Dive, error) {
	started := time.Now()

	if plan.SurfacePressureMbar == 0 {
		plan.SurfacePressureMbar = core.SurfacePressure
	}
	p.model.SetGF(plan.GFLow, plan.GFHigh, p.cfg.GFLowAtMaxDepth)

	// the run owns its inventory copy
	inventory := slices.Clone(cylinders)

	dive, err := createDiveFromPlan(plan, inventory)
	if err != nil || dive == nil {
		return nil, err
	}
	if dive.MaxDepthMM() == 0 {
		// the plan never leaves the surface
		return nil, nil
	}

	// start from the last materialized sample, on whatever gas was active
	last := dive.Samples[len(dive.Samples)-1]
	gas := inventory[0].Gas
	gasFromEvents(dive, last.TimeS, &gas)
	po2 := last.PO2Mbar

	currentCylinder := core.FindCylinderByGas(inventory, gas)
	if currentCylinder < 0 {
		p.log.Error("Can't find gas in cylinder inventory", "gas", gas.Name())
		currentCylinder = 0
	}

	depth := last.DepthMM
	avgDepth := plan.AverageDepth()
	bottomTime := last.TimeS
	lastAscendRate := ascendVelocity(depth, avgDepth, p.cfg.Ascent)

	if !addDeco {
		// just get back to the surface in one straight transition
		transition := depth / p.cfg.NoDecoDivisor
		plan.AddSegment(transition, 0, gas, po2, false)
		dive, err = createDiveFromPlan(plan, inventory)
		p.metrics.recordRun(time.Since(started), 0)
		return dive, err
	}

	tissueTolerance := p.tissueAtEnd(dive)
	surfaceBar := float64(plan.SurfacePressureMbar) / 1000.0

	bestFirstAscendCylinder := currentCylinder
	gaschanges := analyzeGasList(plan, inventory, depth, &bestFirstAscendCylinder, p.log)

	// first potential deco stop level shallower than the current depth
	levels := stopLevels(p.cfg.LastStop6M)
	stopidx := len(levels)
	for i, lv := range levels {
		if lv >= depth {
			stopidx = i
			break
		}
	}
	if stopidx > 0 {
		stopidx--
	}
	stoplevels := sortStops(levels[:stopidx+1], gaschanges)
	stopidx += len(gaschanges)

	clock := bottomTime
	previousPointTime := bottomTime
	gi := len(gaschanges) - 1
	stopping := false
	decoSeconds := 0

	if bestFirstAscendCylinder != currentCylinder {
		// a better mix was declared for the start of the ascent; no
		// simulated time has passed, so no waypoint yet
		stopping = true
		currentCylinder = bestFirstAscendCylinder
		gas = inventory[currentCylinder].Gas
		p.log.Debug("Starting ascent on declared gas", "gas", gas.Name())
	}

	for {
		// ascend towards the next stop level in one-second steps
		for {
			deltad := ascendVelocity(depth, avgDepth, p.cfg.Ascent) * timeStep
			if ascendVelocity(depth, avgDepth, p.cfg.Ascent) != lastAscendRate {
				plan.AddSegment(clock-previousPointTime, depth, gas, po2, false)
				previousPointTime = clock
				stopping = false
				lastAscendRate = ascendVelocity(depth, avgDepth, p.cfg.Ascent)
			}
			if depth-deltad < stoplevels[stopidx] {
				deltad = depth - stoplevels[stopidx]
			}
			tissueTolerance = p.model.AddSegment(core.DepthToBar(depth, plan.SurfacePressureMbar),
				inventory[currentCylinder].Gas, timeStep, po2)
			clock += timeStep
			depth -= deltad
			if depth <= stoplevels[stopidx] {
				break
			}
		}

		if depth <= 0 {
			break
		}

		if gi >= 0 && stoplevels[stopidx] == gaschanges[gi].depthMM {
			// reached a declared gas change
			plan.AddSegment(clock-previousPointTime, depth, gas, po2, false)
			previousPointTime = clock
			stopping = true

			currentCylinder = gaschanges[gi].cylinder
			gas = inventory[currentCylinder].Gas
			p.log.Debug("Gas switch on ascent", "gas", gas.Name(), "depthMM", depth)
			gi--
		}

		stopidx--

		// try to reach the next level; wait out the ceiling in deco-minute
		// increments when the trial hits it
		trialDepth := depth
		cache := p.model.Snapshot()
		for {
			clearToAscend := true
			for trialDepth > stoplevels[stopidx] {
				deltad := ascendVelocity(trialDepth, avgDepth, p.cfg.Ascent) * timeStep
				tissueTolerance = p.model.AddSegment(core.DepthToBar(trialDepth, plan.SurfacePressureMbar),
					inventory[currentCylinder].Gas, timeStep, po2)
				if p.model.AllowedDepth(tissueTolerance, surfaceBar, true) > trialDepth-deltad {
					// we should have stopped
					clearToAscend = false
					break
				}
				trialDepth -= deltad
			}
			tissueTolerance = p.model.Restore(cache)

			if clearToAscend {
				break
			}

			if !stopping {
				// the last segment was an ascent; mark the start of this
				// deco stop
				plan.AddSegment(clock-previousPointTime, depth, gas, po2, false)
				previousPointTime = clock
				stopping = true
			}
			tissueTolerance = p.model.AddSegment(core.DepthToBar(depth, plan.SurfacePressureMbar),
				inventory[currentCylinder].Gas, decoTimeStep, po2)
			cache = p.model.Snapshot()
			clock += decoTimeStep
			decoSeconds += decoTimeStep
			trialDepth = depth
		}
		if stopping {
			// deco time was spent here; close the stop before ascending
			plan.AddSegment(clock-previousPointTime, depth, gas, po2, false)
			previousPointTime = clock
			stopping = false
		}
	}

	// we made it to the surface
	plan.AddSegment(clock-previousPointTime, 0, gas, po2, false)

	dive, err = createDiveFromPlan(plan, inventory)
	if err != nil || dive == nil {
		return nil, err
	}
	dive.Notes = buildSummary(plan, dive).Render(p.cfg)

	p.metrics.recordRun(time.Since(started), decoSeconds)
	p.log.Info("Plan computed",
		"runtimeS", dive.RuntimeS(),
		"maxDepthMM", dive.MaxDepthMM(),
		"decoS", decoSeconds)
	return dive, nil
}

// tissueAtEnd replays the materialized profile through a freshly
// initialized model and returns the tissue tolerance at the end of the
// entered portion of the dive.
func (p *Planner) tissueAtEnd(dive *core.Dive) float64 {
	tol := p.model.Init()
	if len(dive.Samples) == 0 {
		return tol
	}

	t0, lastDepth := 0, 0
	gas := dive.Cylinders[0].Gas
	prev := dive.Samples[0]
	for i, sample := range dive.Samples {
		t1 := sample.TimeS
		gasFromEvents(dive, t0, &gas)
		if i > 0 {
			lastDepth = prev.DepthMM
		}
		for j := t0; j < t1; j++ {
			d := interpolate(lastDepth, sample.DepthMM, j-t0, t1-t0)
			tol = p.model.AddSegment(core.DepthToBar(d, dive.SurfacePressureMbar), gas, 1, sample.PO2Mbar)
		}
		prev = sample
		t0 = t1
	}
	return tol
}

// gasFromEvents applies every gas switch up to and including the given
// time. The mix passed in stays untouched when no event matches.
func gasFromEvents(dive *core.Dive, timeS int, gas *core.GasMix) {
	for _, ev := range dive.Events {
		if ev.Type == core.EventGasSwitch && ev.TimeS <= timeS {
			*gas = dive.Cylinders[ev.CylinderIndex].Gas
		}
	}
}

func interpolate(a, b, part, whole int) int {
	if whole == 0 {
		return b
	}
	return a + (b-a)*part/whole
}
