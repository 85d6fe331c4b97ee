// Package telemetry pushes per-run planner metrics to InfluxDB. When the
// server is unreachable the points land in a gzip-compressed backup file
// instead, so a flaky metrics stack never loses data.
package telemetry

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/opendive/planner/pkg/core"
)

// BucketName is the InfluxDB bucket planner runs are written to.
const BucketName = "dive_plans"

// Manager handles the InfluxDB connection and writes.
type Manager struct {
	Client       influxdb2.Client
	Writer       influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	backupFile   *os.File
	IsValid      bool
	Logger       zerolog.Logger
	BackupPath   string
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{Logger: log, BackupPath: backupPath}
}

// Connect establishes a connection to InfluxDB, or sets up the backup
// writer when the server does not respond.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(context.Background())
	if err != nil || !running {
		m.IsValid = false
		if m.BackupWriter == nil {
			m.Logger.Info().Str("backupPath", m.BackupPath).
				Msg("Failed to reach InfluxDB, writing to backup file")
			file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error creating backup file: %v", err)
			}
			m.backupFile = file
			m.BackupWriter = gzip.NewWriter(file)
		}
		return nil
	}

	m.IsValid = true
	m.Writer = m.Client.WriteAPI(viper.GetString("influx.org"), BucketName)
	m.Logger.Info().Msg("InfluxDB client initialized")
	return nil
}

// WritePlanRun records one completed planning run.
func (m *Manager) WritePlanRun(name string, dive *core.Dive, elapsed time.Duration) {
	point := influxdb2.NewPoint("plan_run",
		map[string]string{"plan": name},
		map[string]interface{}{
			"runtime_s":    dive.RuntimeS(),
			"max_depth_mm": dive.MaxDepthMM(),
			"gas_used_ml":  totalGasUsed(dive),
			"elapsed_ms":   elapsed.Milliseconds(),
		},
		time.Now(),
	)

	if m.IsValid && m.Writer != nil {
		m.Writer.WritePoint(point)
		return
	}
	if m.BackupWriter != nil {
		fmt.Fprintf(m.BackupWriter, "plan_run plan=%s runtime_s=%d max_depth_mm=%d gas_used_ml=%d elapsed_ms=%d %d\n",
			name, dive.RuntimeS(), dive.MaxDepthMM(), totalGasUsed(dive),
			elapsed.Milliseconds(), time.Now().UnixNano())
	}
}

// Close flushes pending writes and shuts the client down.
func (m *Manager) Close() {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}
	if m.BackupWriter != nil {
		if err := m.BackupWriter.Close(); err != nil {
			m.Logger.Error().Err(err).Msg("Error closing backup writer")
		}
		_ = m.backupFile.Close()
	}
}

func totalGasUsed(dive *core.Dive) int {
	total := 0
	for i := range dive.Cylinders {
		total += dive.Cylinders[i].GasUsedML
	}
	return total
}
