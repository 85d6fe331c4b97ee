// Package memory implements the storage backend as JSON exports on disk,
// one file per saved plan, optionally gzip-compressed.
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opendive/planner/internal/config"
	"github.com/opendive/planner/pkg/core"
)

// export is the on-disk document for one planned dive.
type export struct {
	Name string     `json:"name"`
	Plan *core.Plan `json:"plan"`
	Dive *core.Dive `json:"dive"`
}

// Backend writes planned dives to the configured output directory.
type Backend struct {
	cfg      config.MemoryConfig
	lastPath string
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init creates the output directory.
func (b *Backend) Init() error {
	return os.MkdirAll(b.cfg.OutputDir, 0755)
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// SavePlannedDive writes the plan and its dive as one JSON document.
func (b *Backend) SavePlannedDive(name string, plan *core.Plan, dive *core.Dive) error {
	doc := export{Name: name, Plan: plan, Dive: dive}

	filename := fmt.Sprintf("%s.%s.json", sanitize(name), time.Now().Format("20060102_150405"))
	if b.cfg.CompressOutput {
		filename += ".gz"
	}
	path := filepath.Join(b.cfg.OutputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating export file: %w", err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		if err := json.NewEncoder(gz).Encode(doc); err != nil {
			return fmt.Errorf("error encoding export: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("error finishing gzip stream: %w", err)
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("error encoding export: %w", err)
		}
	}

	b.lastPath = path
	return nil
}

// ExportedFilePath returns the path of the most recently saved plan.
func (b *Backend) ExportedFilePath() string {
	return b.lastPath
}

// sanitize strips characters that don't belong in file names.
func sanitize(name string) string {
	if name == "" {
		return "dive"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
