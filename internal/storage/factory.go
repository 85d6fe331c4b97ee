package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opendive/planner/internal/config"
	"github.com/opendive/planner/internal/database"
	"github.com/opendive/planner/internal/storage/gormstore"
	"github.com/opendive/planner/internal/storage/memory"
)

// NewBackend creates a storage backend based on configuration.
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(cfg.Memory), nil
	case "sqlite":
		mgr := database.NewManager(log)
		db, err := mgr.GetSqliteDB("diveplans.db")
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return gormstore.New(db), nil
	case "postgres":
		mgr := database.NewManager(log)
		if err := mgr.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
		return gormstore.New(mgr.DB), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
