package planner

import "github.com/opendive/planner/internal/config"

// Fixed deco stop depths in mm: 3 m steps to 90 m, 10 m steps to 200 m,
// 20 m steps to 380 m. Slot 1 switches between 3 m and 6 m when the last
// stop is moved.
var decoStopLevelsMM = []int{0, 3000, 6000, 9000, 12000, 15000, 18000, 21000, 24000, 27000,
	30000, 33000, 36000, 39000, 42000, 45000, 48000, 51000, 54000, 57000,
	60000, 63000, 66000, 69000, 72000, 75000, 78000, 81000, 84000, 87000,
	90000, 100000, 110000, 120000, 130000, 140000, 150000, 160000, 170000,
	180000, 190000, 200000, 220000, 240000, 260000, 280000, 300000,
	320000, 340000, 360000, 380000}

// stopLevels returns the fixed deco ladder. With lastStop6M the shallowest
// non-surface level is 6 m and 3 m disappears from the ladder.
func stopLevels(lastStop6M bool) []int {
	levels := make([]int, len(decoStopLevelsMM))
	copy(levels, decoStopLevelsMM)
	if lastStop6M {
		levels[1] = 6000
	}
	return levels
}

// sortStops merges the fixed deco depths (ascending, already truncated at
// the current depth) with the gas-change depths (ascending) into one
// ascending ladder of len(dstops)+len(gstops) entries. Duplicate depths
// collapse; the freed slots at the front read as surface levels.
func sortStops(dstops []int, gstops []gasChange) []int {
	total := len(dstops) + len(gstops)
	stoplevels := make([]int, total)

	if len(gstops) == 0 {
		copy(stoplevels, dstops)
		return stoplevels
	}

	i := total - 1
	gi := len(gstops) - 1
	di := len(dstops) - 1
	for i >= 0 {
		if dstops[di] > gstops[gi].depthMM {
			stoplevels[i] = dstops[di]
			di--
		} else if dstops[di] == gstops[gi].depthMM {
			stoplevels[i] = dstops[di]
			di--
			gi--
		} else {
			stoplevels[i] = gstops[gi].depthMM
			gi--
		}
		i--
		if di < 0 {
			for gi >= 0 {
				stoplevels[i] = gstops[gi].depthMM
				i--
				gi--
			}
			break
		}
		if gi < 0 {
			for di >= 0 {
				stoplevels[i] = dstops[di]
				i--
				di--
			}
			break
		}
	}
	return stoplevels
}

// ascendVelocity returns the ascent rate in mm/s for the given depth,
// tiered by the configured rate table: crawl in the shallows, fast while
// deeper than three quarters of the average depth, moderate in between.
func ascendVelocity(depthMM, avgDepthMM int, rates config.AscentRates) int {
	if depthMM <= rates.ShallowDepthMM {
		return rates.ShallowMMPerMin / 60
	}
	if depthMM*4 > avgDepthMM*3 {
		return rates.UpperThirdMMPerMin / 60
	}
	return rates.DefaultMMPerMin / 60
}
