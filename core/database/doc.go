// Package database handles the optional MySQL connection used to record sync history.
//
// It provides a wrapper around GORM to configure MySQL connections with timeouts
// and sane pool settings based on the application's configuration. The history is
// optional: callers log and continue when the connection fails.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Sync history disabled", zap.Error(err))
//	}
package database
