// Package config loads the planner configuration file and exposes the
// explicit config structs the rest of the program consumes. All keys have
// defaults; a missing file is an error but an empty one is fine.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// AscentRates is the depth-tiered ascent-rate table, in mm/min. Above
// ShallowDepthMM the shallow rate applies; in the upper third of the dive
// (relative to average depth) the upper-third rate applies; everywhere else
// the default rate.
type AscentRates struct {
	ShallowMMPerMin    int `json:"shallowMMPerMin" mapstructure:"shallowMMPerMin"`
	UpperThirdMMPerMin int `json:"upperThirdMMPerMin" mapstructure:"upperThirdMMPerMin"`
	DefaultMMPerMin    int `json:"defaultMMPerMin" mapstructure:"defaultMMPerMin"`
	ShallowDepthMM     int `json:"shallowDepthMM" mapstructure:"shallowDepthMM"`
}

// PlanConfig carries the per-run planner settings. It replaces what used to
// be process-wide toggles; build one from viper with PlanConfigFromViper or
// construct it directly in tests.
type PlanConfig struct {
	LastStop6M         bool `json:"lastStop6m"`
	Verbatim           bool `json:"verbatim"`
	DisplayRuntime     bool `json:"displayRuntime"`
	DisplayDuration    bool `json:"displayDuration"`
	DisplayTransitions bool `json:"displayTransitions"`
	GFLowAtMaxDepth    bool `json:"gfLowAtMaxDepth"`

	// NoDecoDivisor sets the straight-to-surface transition for no-deco
	// plans: duration_s = depth_mm / NoDecoDivisor.
	NoDecoDivisor int `json:"noDecoDivisor"`

	Ascent AscentRates `json:"ascent"`
}

// MemoryConfig holds the JSON export backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
}

// Load reads configuration from the JSON config file in configDir and sets
// default values.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./planlogs")

	viper.SetDefault("plan.gfLow", 30)
	viper.SetDefault("plan.gfHigh", 75)
	viper.SetDefault("plan.gfLowAtMaxDepth", true)
	viper.SetDefault("plan.bottomSAC", 20000)
	viper.SetDefault("plan.decoSAC", 17000)
	viper.SetDefault("plan.surfacePressure", 1013)
	viper.SetDefault("plan.lastStop6m", false)
	viper.SetDefault("plan.verbatim", false)
	viper.SetDefault("plan.displayRuntime", true)
	viper.SetDefault("plan.displayDuration", false)
	viper.SetDefault("plan.displayTransitions", false)
	viper.SetDefault("plan.noDecoDivisor", 75)
	viper.SetDefault("plan.ascent.shallowRate", 1000)
	viper.SetDefault("plan.ascent.upperThirdRate", 9000)
	viper.SetDefault("plan.ascent.defaultRate", 6000)
	viper.SetDefault("plan.ascent.shallowDepth", 6000)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./plans")
	viper.SetDefault("storage.memory.compressOutput", false)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "diveplans")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "diveplanner-metrics")

	viper.SetConfigName("diveplanner.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	return nil
}

// PlanConfigFromViper builds the per-run planner settings from the loaded
// configuration.
func PlanConfigFromViper() PlanConfig {
	return PlanConfig{
		LastStop6M:         viper.GetBool("plan.lastStop6m"),
		Verbatim:           viper.GetBool("plan.verbatim"),
		DisplayRuntime:     viper.GetBool("plan.displayRuntime"),
		DisplayDuration:    viper.GetBool("plan.displayDuration"),
		DisplayTransitions: viper.GetBool("plan.displayTransitions"),
		GFLowAtMaxDepth:    viper.GetBool("plan.gfLowAtMaxDepth"),
		NoDecoDivisor:      viper.GetInt("plan.noDecoDivisor"),
		Ascent: AscentRates{
			ShallowMMPerMin:    viper.GetInt("plan.ascent.shallowRate"),
			UpperThirdMMPerMin: viper.GetInt("plan.ascent.upperThirdRate"),
			DefaultMMPerMin:    viper.GetInt("plan.ascent.defaultRate"),
			ShallowDepthMM:     viper.GetInt("plan.ascent.shallowDepth"),
		},
	}
}

// DefaultPlanConfig returns the baseline settings without touching viper.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		DisplayRuntime:  true,
		GFLowAtMaxDepth: true,
		NoDecoDivisor:   75,
		Ascent: AscentRates{
			ShallowMMPerMin:    1000,
			UpperThirdMMPerMin: 9000,
			DefaultMMPerMin:    6000,
			ShallowDepthMM:     6000,
		},
	}
}

// StorageConfigFromViper builds the storage backend settings.
func StorageConfigFromViper() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
	}
}
