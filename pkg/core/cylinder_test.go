package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCylinderHasData(t *testing.T) {
	var empty Cylinder
	assert.False(t, empty.HasData())

	assert.True(t, (&Cylinder{Description: "D12"}).HasData())
	assert.True(t, (&Cylinder{VolumeML: 12000}).HasData())
	assert.True(t, (&Cylinder{WorkingPressureMbar: 232000}).HasData())
	assert.True(t, (&Cylinder{Gas: Air()}).HasData())
}

func TestFindCylinderByGas(t *testing.T) {
	inventory := []Cylinder{
		{},
		{Description: "main", VolumeML: 12000, Gas: Air()},
		{Description: "deco", VolumeML: 7000, Gas: GasMix{O2: 500}},
	}

	// the empty slot at index 0 holds no data and is skipped
	assert.Equal(t, 1, FindCylinderByGas(inventory, GasMix{O2: 210}))
	assert.Equal(t, 2, FindCylinderByGas(inventory, GasMix{O2: 500}))
	assert.Equal(t, -1, FindCylinderByGas(inventory, GasMix{O2: 210, He: 350}))
}

func TestUpdatePressure(t *testing.T) {
	cyl := Cylinder{VolumeML: 12000, StartPressureMbar: 232000, Gas: Air()}
	cyl.Reset()
	require.Equal(t, 232000, cyl.EndPressureMbar)

	// 30 min at a constant 18 m on a 20 l/min SAC
	cyl.UpdatePressure(18000, 18000, 30*60, 20000, SurfacePressure)

	wantUsed := int(DepthToAtm(18000, SurfacePressure) * 20000.0 / 60 * 1800)
	assert.Equal(t, wantUsed, cyl.GasUsedML)
	assert.Equal(t, 232000-wantUsed*1000/12000, cyl.EndPressureMbar)

	// pressure accounting stays exact modulo integer rounding
	assert.Equal(t, cyl.StartPressureMbar, cyl.EndPressureMbar+cyl.GasUsedML*1000/cyl.VolumeML)
}

func TestUpdatePressureUnknownVolume(t *testing.T) {
	cyl := Cylinder{Gas: Air()}
	cyl.Reset()
	cyl.UpdatePressure(0, 20000, 120, 20000, SurfacePressure)
	assert.NotZero(t, cyl.GasUsedML)
	assert.Zero(t, cyl.EndPressureMbar)
}

func TestResetCylinders(t *testing.T) {
	inv := []Cylinder{{StartPressureMbar: 200000, EndPressureMbar: 50000, GasUsedML: 1800000}}
	ResetCylinders(inv)
	assert.Equal(t, 200000, inv[0].EndPressureMbar)
	assert.Zero(t, inv[0].GasUsedML)
}
