package cmd

import (
	"mapcycle-sync/core/config"
	"mapcycle-sync/core/database"
	"mapcycle-sync/core/storage"
	"mapcycle-sync/feature/mapcycle"

	"go.uber.org/zap"
)

// newBackuper builds the backuper, mirroring to object storage when enabled.
// A storage client that cannot be created downgrades to local backups.
func newBackuper(cfg *config.Config, l *zap.Logger) *mapcycle.Backuper {
	var store storage.Client
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			l.Warn("Optional storage client failed, keeping backups local", zap.Error(err))
		} else {
			store = client
		}
	}
	return mapcycle.NewBackuper(cfg.Mapcycle, store, cfg.Storage.Bucket, l)
}

// openHistory connects the sync history store when enabled.
// It returns nil when the database is disabled or unreachable.
func openHistory(cfg *config.Config, l *zap.Logger) mapcycle.History {
	if !cfg.Database.Enabled {
		return nil
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		l.Warn("Optional database connection failed", zap.Error(err))
		return nil
	}
	if err := mapcycle.Migrate(db); err != nil {
		l.Warn("Failed to migrate history table", zap.Error(err))
		return nil
	}
	l.Debug("Connected to history database")
	return mapcycle.NewHistory(db)
}
