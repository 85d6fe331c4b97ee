package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"plan": { "gfLow": 20, "lastStop6m": true },
		"storage": { "type": "sqlite" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diveplanner.cfg.json"), []byte(cfg), 0644))

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 20, viper.GetInt("plan.gfLow"))
	assert.True(t, viper.GetBool("plan.lastStop6m"))
	assert.Equal(t, "sqlite", viper.GetString("storage.type"))
	// untouched keys keep defaults
	assert.Equal(t, 75, viper.GetInt("plan.gfHigh"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diveplanner.cfg.json"), []byte(`{}`), 0644))

	require.NoError(t, Load(dir))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./planlogs", viper.GetString("logsDir"))
	assert.Equal(t, 30, viper.GetInt("plan.gfLow"))
	assert.Equal(t, 75, viper.GetInt("plan.gfHigh"))
	assert.Equal(t, 20000, viper.GetInt("plan.bottomSAC"))
	assert.Equal(t, 17000, viper.GetInt("plan.decoSAC"))
	assert.Equal(t, 1013, viper.GetInt("plan.surfacePressure"))
	assert.False(t, viper.GetBool("plan.lastStop6m"))
	assert.Equal(t, 75, viper.GetInt("plan.noDecoDivisor"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./plans", viper.GetString("storage.memory.outputDir"))
	assert.False(t, viper.GetBool("influx.enabled"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	assert.Error(t, Load(t.TempDir()))
}

func TestPlanConfigFromViper(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{"plan": {"verbatim": true, "ascent": {"defaultRate": 3000}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diveplanner.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	pc := PlanConfigFromViper()
	assert.True(t, pc.Verbatim)
	assert.Equal(t, 3000, pc.Ascent.DefaultMMPerMin)
	assert.Equal(t, 1000, pc.Ascent.ShallowMMPerMin)
	assert.Equal(t, 75, pc.NoDecoDivisor)
	assert.True(t, pc.GFLowAtMaxDepth)
}

func TestDefaultPlanConfigMatchesViperDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diveplanner.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	assert.Equal(t, DefaultPlanConfig(), PlanConfigFromViper())
}
