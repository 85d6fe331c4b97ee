package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSegmentShiftsTime(t *testing.T) {
	var p Plan

	p.AddSegment(60, 18000, Air(), 0, true)
	p.AddSegment(30*60, 18000, Air(), 0, true)

	assert.Equal(t, 60, p.Waypoints[0].TimeS)
	assert.Equal(t, 60+30*60, p.Waypoints[1].TimeS)
}

func TestAddSegmentDeclarationNotShifted(t *testing.T) {
	var p Plan
	p.AddSegment(60, 40000, Air(), 0, true)
	dp := p.AddSegment(0, 21000, GasMix{O2: 500}, 0, false)

	assert.Zero(t, dp.TimeS)
	assert.Equal(t, 60, p.MaxTime())
}

func TestNthGrowsPlaceholders(t *testing.T) {
	var p Plan
	wp := p.Nth(2)
	assert.Len(t, p.Waypoints, 3)
	assert.Zero(t, wp.TimeS)

	wp.DepthMM = 12000
	assert.Equal(t, 12000, p.Nth(2).DepthMM)
	assert.Len(t, p.Waypoints, 3)
}

func TestIsEmpty(t *testing.T) {
	var p Plan
	assert.True(t, p.IsEmpty())

	// declarations alone do not make a plan
	p.AddSegment(0, 21000, GasMix{O2: 500}, 0, false)
	assert.True(t, p.IsEmpty())

	p.AddSegment(60, 18000, Air(), 0, true)
	assert.False(t, p.IsEmpty())
}

func TestAverageDepth(t *testing.T) {
	var p Plan
	assert.Zero(t, p.AverageDepth())

	// 1 min descent to 18 m, 29 min flat
	p.AddSegment(60, 18000, Air(), 0, true)
	p.AddSegment(29*60, 18000, Air(), 0, true)

	// descent contributes the segment midpoint
	want := (60*9000 + 29*60*18000) / (30 * 60)
	assert.Equal(t, want, p.AverageDepth())
}
