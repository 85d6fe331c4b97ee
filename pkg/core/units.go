package core

import "math"

// Sea water weighs 1030 g/l; one meter of it adds about 101 mbar of
// pressure. The factor below is mbar per 10 mm of depth.
const seaWaterSpecificWeight = 1.03 * 0.981

// DepthToMbar converts a depth to absolute ambient pressure.
func DepthToMbar(depthMM, surfaceMbar int) int {
	return surfaceMbar + int(math.Round(float64(depthMM)*seaWaterSpecificWeight/10))
}

// DepthToBar converts a depth to absolute ambient pressure in bar.
func DepthToBar(depthMM, surfaceMbar int) float64 {
	return float64(DepthToMbar(depthMM, surfaceMbar)) / 1000.0
}

// DepthToAtm converts a depth to absolute ambient pressure in standard
// atmospheres. Gas consumption scales with this value.
func DepthToAtm(depthMM, surfaceMbar int) float64 {
	return float64(DepthToMbar(depthMM, surfaceMbar)) / float64(SurfacePressure)
}

// RelMbarToDepth converts a pressure difference relative to the surface
// into a depth.
func RelMbarToDepth(mbar int) int {
	return int(math.Round(float64(mbar) / seaWaterSpecificWeight * 10))
}
