// Package config provides configuration management for mapcycle-sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults live next to each setting in `default` struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Steam: Web API key, endpoint, timeouts and retries
//   - Mapcycle: mapcycle path, collections, tag filters, backup and memo settings
//   - Log: Logging level and format
//   - Storage: S3/MinIO bucket used to mirror backups
//   - Database: MySQL connection recording sync history
//   - Server: HTTP API port and key
//
// Environment variables map onto nested keys by replacing dots with underscores,
// e.g. STEAM_API_KEY or MAPCYCLE_COLLECTIONS=454128334,123. Command line flags take
// precedence over both.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Mapcycle.Path)
package config
