package planner

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendive/planner/pkg/core"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestAnalyzeGasListSortsAscending(t *testing.T) {
	cylinders := []core.Cylinder{
		{Description: "back", VolumeML: 24000, Gas: core.GasMix{O2: 210}},
		{Description: "deco 50", VolumeML: 11100, Gas: core.GasMix{O2: 500}},
		{Description: "oxygen", VolumeML: 7000, Gas: core.GasMix{O2: 1000}},
	}

	var plan core.Plan
	plan.AddSegment(25*60, 40000, core.GasMix{O2: 210}, 0, true)
	plan.AddSegment(0, 6000, core.GasMix{O2: 1000}, 0, false)
	plan.AddSegment(0, 21000, core.GasMix{O2: 500}, 0, false)

	asc := 0
	changes := analyzeGasList(&plan, cylinders, 40000, &asc, testLogger())

	require.Len(t, changes, 2)
	assert.Equal(t, gasChange{depthMM: 6000, cylinder: 2}, changes[0])
	assert.Equal(t, gasChange{depthMM: 21000, cylinder: 1}, changes[1])
	assert.Equal(t, 0, asc, "no declaration below the bottom, first-ascent cylinder unchanged")
}

func TestAnalyzeGasListBestFirstAscendCylinder(t *testing.T) {
	cylinders := []core.Cylinder{
		{Description: "travel", VolumeML: 24000, Gas: core.Air(), SwitchDepthMM: 66000},
		{Description: "bottom mix", VolumeML: 24000, Gas: core.GasMix{O2: 180, He: 450}},
	}

	// declaration deeper than the current depth but shallower than the
	// current cylinder's switch depth
	var plan core.Plan
	plan.AddSegment(20*60, 40000, core.Air(), 0, true)
	plan.AddSegment(0, 50000, core.GasMix{O2: 180, He: 450}, 0, false)

	asc := 0
	changes := analyzeGasList(&plan, cylinders, 40000, &asc, testLogger())

	assert.Empty(t, changes)
	assert.Equal(t, 1, asc)
}

func TestAnalyzeGasListIgnoresUnreachableDeclaration(t *testing.T) {
	cylinders := []core.Cylinder{
		{Description: "back", VolumeML: 24000, Gas: core.Air()},
		{Description: "deco", VolumeML: 11100, Gas: core.GasMix{O2: 500}},
	}

	var plan core.Plan
	plan.AddSegment(25*60, 40000, core.Air(), 0, true)
	plan.AddSegment(0, 200000, core.GasMix{O2: 500}, 0, false)

	asc := 0
	changes := analyzeGasList(&plan, cylinders, 40000, &asc, testLogger())

	assert.Empty(t, changes)
	assert.Equal(t, 0, asc)
}
