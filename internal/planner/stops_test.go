package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opendive/planner/internal/config"
)

func TestStopLevels(t *testing.T) {
	levels := stopLevels(false)
	assert.Equal(t, 0, levels[0])
	assert.Equal(t, 3000, levels[1])
	assert.Equal(t, 90000, levels[30])
	assert.Equal(t, 380000, levels[len(levels)-1])

	six := stopLevels(true)
	assert.Equal(t, 6000, six[1])
	assert.NotContains(t, six[:3], 3000)
	// the shared table is untouched
	assert.Equal(t, 3000, decoStopLevelsMM[1])
}

func TestSortStopsNoGasChanges(t *testing.T) {
	got := sortStops([]int{0, 3000, 6000, 9000}, nil)
	assert.Equal(t, []int{0, 3000, 6000, 9000}, got)
}

func TestSortStopsMerge(t *testing.T) {
	got := sortStops([]int{0, 3000, 6000}, []gasChange{{depthMM: 4500}, {depthMM: 21000}})
	assert.Equal(t, []int{0, 3000, 4500, 6000, 21000}, got)
}

func TestSortStopsEqualDepthCollapses(t *testing.T) {
	got := sortStops([]int{0, 3000, 6000}, []gasChange{{depthMM: 6000}})
	// both entries are consumed; the freed slot reads as a surface level
	assert.Equal(t, []int{0, 0, 3000, 6000}, got)
}

func TestAscendVelocity(t *testing.T) {
	rates := config.DefaultPlanConfig().Ascent

	// shallow crawl at 6 m and shallower
	assert.Equal(t, 1000/60, ascendVelocity(5000, 30000, rates))
	assert.Equal(t, 1000/60, ascendVelocity(6000, 30000, rates))
	// deeper than three quarters of the average depth
	assert.Equal(t, 9000/60, ascendVelocity(30000, 30000, rates))
	// in between
	assert.Equal(t, 6000/60, ascendVelocity(20000, 30000, rates))
}
