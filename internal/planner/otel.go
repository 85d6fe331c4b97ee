package planner

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/opendive/planner/internal/planner"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// instruments bundles the planner's otel metrics. With no meter provider
// configured these are no-ops.
type instruments struct {
	plansComputed metric.Int64Counter
	decoTime      metric.Int64Counter
	runDuration   metric.Float64Histogram
}

func newInstruments(log *slog.Logger) instruments {
	var in instruments
	var err error

	in.plansComputed, err = meter().Int64Counter("diveplanner.plans.computed",
		metric.WithDescription("Number of planning runs completed"))
	if err != nil {
		log.Warn("Failed to create plans counter", "error", err)
	}
	in.decoTime, err = meter().Int64Counter("diveplanner.deco.seconds",
		metric.WithDescription("Total scheduled decompression time"),
		metric.WithUnit("s"))
	if err != nil {
		log.Warn("Failed to create deco counter", "error", err)
	}
	in.runDuration, err = meter().Float64Histogram("diveplanner.run.duration",
		metric.WithDescription("Wall time of a planning run"),
		metric.WithUnit("s"))
	if err != nil {
		log.Warn("Failed to create run histogram", "error", err)
	}
	return in
}

func (in instruments) recordRun(elapsed time.Duration, decoSeconds int) {
	ctx := context.Background()
	if in.plansComputed != nil {
		in.plansComputed.Add(ctx, 1)
	}
	if in.decoTime != nil {
		in.decoTime.Add(ctx, int64(decoSeconds))
	}
	if in.runDuration != nil {
		in.runDuration.Record(ctx, elapsed.Seconds())
	}
}
