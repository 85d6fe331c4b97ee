// Package storage defines the backend interface planned dives are saved
// through, and the factory selecting an implementation from configuration.
package storage

import (
	"github.com/opendive/planner/pkg/core"
)

// Backend is the interface all storage implementations must satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SavePlannedDive persists a completed planning run.
	SavePlannedDive(name string, plan *core.Plan, dive *core.Dive) error
}

// Exportable is an optional interface for backends that produce a file per
// saved plan.
type Exportable interface {
	ExportedFilePath() string
}
