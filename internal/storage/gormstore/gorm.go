// Package gormstore implements the storage backend on top of a gorm
// database connection; both the sqlite and postgres variants share it.
package gormstore

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opendive/planner/internal/model"
	"github.com/opendive/planner/pkg/core"
)

// Backend persists planned dives through gorm.
type Backend struct {
	db *gorm.DB
}

// New creates a backend around an open connection.
func New(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SavePlannedDive stores one completed planning run as a row with the
// sample and event series serialized into JSON columns.
func (b *Backend) SavePlannedDive(name string, plan *core.Plan, dive *core.Dive) error {
	cylinders, err := json.Marshal(dive.Cylinders)
	if err != nil {
		return fmt.Errorf("failed to marshal cylinders: %w", err)
	}
	samples, err := json.Marshal(dive.Samples)
	if err != nil {
		return fmt.Errorf("failed to marshal samples: %w", err)
	}
	events, err := json.Marshal(dive.Events)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	row := model.PlannedDive{
		Name:                name,
		When:                dive.When,
		GFLow:               plan.GFLow,
		GFHigh:              plan.GFHigh,
		SurfacePressureMbar: dive.SurfacePressureMbar,
		RuntimeS:            dive.RuntimeS(),
		MaxDepthMM:          dive.MaxDepthMM(),
		BottomSACMLMin:      plan.BottomSACMLMin,
		DecoSACMLMin:        plan.DecoSACMLMin,
		Cylinders:           datatypes.JSON(cylinders),
		Samples:             datatypes.JSON(samples),
		Events:              datatypes.JSON(events),
		Notes:               dive.Notes,
	}
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save planned dive: %w", err)
	}
	return nil
}
