package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opendive/planner/internal/config"
	"github.com/opendive/planner/internal/deco"
	"github.com/opendive/planner/internal/logging"
	"github.com/opendive/planner/internal/planner"
	"github.com/opendive/planner/internal/storage"
	"github.com/opendive/planner/internal/telemetry"
)

var noSave bool

var planCmd = &cobra.Command{
	Use:   "plan <plan.json>",
	Short: "Compute the full dive for a plan file",
	Long: `Compute the ascent schedule, deco stops, gas switches and cylinder
consumption for the descent/bottom profile in the given plan file, print
the plan summary, and save the result through the configured storage
backend.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(args[0])
	},
}

func init() {
	planCmd.Flags().BoolVar(&noSave, "no-save", false, "print the plan summary without saving the dive")
	rootCmd.AddCommand(planCmd)
}

func runPlan(planPath string) error {
	sessionStart := time.Now()

	if err := config.Load(configDir); err != nil {
		// defaults are already in place, a missing config file is fine
		fmt.Fprintf(os.Stderr, "no config file loaded: %v\n", err)
	}

	logManager := logging.NewManager()
	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err == nil {
		logFile, err := os.Create(logging.LogFilePath(logsDir, "diveplanner", sessionStart))
		if err == nil {
			defer logFile.Close()
			logManager.Setup(logFile, viper.GetString("logLevel"))
		} else {
			logManager.Setup(nil, viper.GetString("logLevel"))
		}
	} else {
		logManager.Setup(nil, viper.GetString("logLevel"))
	}
	log := logManager.Logger()

	plan, cylinders, addDeco, err := loadPlanFile(planPath)
	if err != nil {
		return err
	}
	plan.Start = sessionStart

	p := planner.New(log, deco.NewBuhlmann(), config.PlanConfigFromViper())
	dive, err := p.Run(plan, cylinders, addDeco)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	if dive == nil {
		fmt.Println("The plan has no profile segments; no dive produced.")
		return nil
	}

	if dive.Notes != "" {
		fmt.Println(dive.Notes)
	} else {
		fmt.Printf("Dive planned: runtime %d:%02d min, max depth %.1f m\n",
			dive.RuntimeS()/60, dive.RuntimeS()%60, float64(dive.MaxDepthMM())/1000)
	}

	name := strings.TrimSuffix(filepath.Base(planPath), filepath.Ext(planPath))

	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if !noSave {
		backend, err := storage.NewBackend(config.StorageConfigFromViper(), zlog)
		if err != nil {
			return fmt.Errorf("failed to create storage backend: %w", err)
		}
		if err := backend.Init(); err != nil {
			return fmt.Errorf("failed to initialize storage backend: %w", err)
		}
		defer backend.Close()

		if err := backend.SavePlannedDive(name, plan, dive); err != nil {
			return fmt.Errorf("failed to save planned dive: %w", err)
		}
		if exp, ok := backend.(storage.Exportable); ok {
			log.Info("Plan saved", "path", exp.ExportedFilePath())
		} else {
			log.Info("Plan saved", "name", name)
		}
	}

	if viper.GetBool("influx.enabled") {
		metrics := telemetry.NewManager(zlog, filepath.Join(logsDir, "plan_metrics.gz"))
		if err := metrics.Connect(); err != nil {
			log.Warn("Telemetry disabled", "error", err)
		} else {
			metrics.WritePlanRun(name, dive, time.Since(sessionStart))
			metrics.Close()
		}
	}
	return nil
}
