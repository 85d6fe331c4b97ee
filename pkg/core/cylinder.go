package core

// Cylinder is one tank in the dive inventory. Pressure accounting runs in
// mbar against the start pressure; GasUsedML accumulates surface-equivalent
// volume across the dive.
type Cylinder struct {
	Description         string `json:"description"`
	VolumeML            int    `json:"volumeML"`
	WorkingPressureMbar int    `json:"workingPressureMbar"`
	StartPressureMbar   int    `json:"startPressureMbar"`
	EndPressureMbar     int    `json:"endPressureMbar"`
	GasUsedML           int    `json:"gasUsedML"`
	Gas                 GasMix `json:"gas"`
	SwitchDepthMM       int    `json:"switchDepthMM"`
}

// HasData reports whether the cylinder slot is actually in use.
func (c *Cylinder) HasData() bool {
	return c.Description != "" || c.VolumeML != 0 || c.WorkingPressureMbar != 0 || !c.Gas.IsNull()
}

// Reset clears per-run accounting so a new planning pass starts from the
// full cylinder again.
func (c *Cylinder) Reset() {
	c.EndPressureMbar = c.StartPressureMbar
	c.GasUsedML = 0
}

// ResetCylinders resets every cylinder in the inventory.
func ResetCylinders(inventory []Cylinder) {
	for i := range inventory {
		inventory[i].Reset()
	}
}

// FindCylinderByGas returns the first cylinder whose mix is the same gas,
// or -1 when the inventory has no match. Empty slots are skipped.
func FindCylinderByGas(inventory []Cylinder, gas GasMix) int {
	for i := range inventory {
		if !inventory[i].HasData() {
			continue
		}
		if SameGas(inventory[i].Gas, gas) {
			return i
		}
	}
	return -1
}

// UpdatePressure books the consumption of one profile segment against the
// cylinder: SAC scaled by the ambient pressure at the segment's mean depth.
// The end pressure only moves when the cylinder volume is known.
func (c *Cylinder) UpdatePressure(oldDepthMM, newDepthMM, durationS, sacMLPerMin, surfaceMbar int) {
	meanDepth := (oldDepthMM + newDepthMM) / 2
	gasUsed := int(DepthToAtm(meanDepth, surfaceMbar) * float64(sacMLPerMin) / 60 * float64(durationS))
	c.GasUsedML += gasUsed
	if c.VolumeML != 0 {
		c.EndPressureMbar -= gasUsed * 1000 / c.VolumeML
	}
}
