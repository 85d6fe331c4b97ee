// Package model defines the database schema for persisted planned dives.
package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels lists every struct migrated into the database schema.
var DatabaseModels = []interface{}{
	&PlannedDive{},
}

// PlannedDive is one completed planning run. The sample and event series
// are stored as JSON columns; relational access to individual samples is
// not needed, the record is read back whole.
type PlannedDive struct {
	gorm.Model
	Name                string    `json:"name" gorm:"size:255"`
	When                time.Time `json:"when"`
	GFLow               int       `json:"gfLow"`
	GFHigh              int       `json:"gfHigh"`
	SurfacePressureMbar int       `json:"surfacePressureMbar"`
	RuntimeS            int       `json:"runtimeS"`
	MaxDepthMM          int       `json:"maxDepthMM"`
	BottomSACMLMin      int       `json:"bottomSACMLMin"`
	DecoSACMLMin        int       `json:"decoSACMLMin"`

	Cylinders datatypes.JSON `json:"cylinders"`
	Samples   datatypes.JSON `json:"samples"`
	Events    datatypes.JSON `json:"events"`

	Notes string `json:"notes"`
}
