package mapcycle

import (
	"mapcycle-sync/core/reconcile"
	"mapcycle-sync/core/steam"
)

// DefaultMemo is the comment written above the imported workshop block.
const DefaultMemo = "Imported workshop maps"

// Config holds the mapcycle sync settings.
type Config struct {
	// Path is the mapcycle file to reconcile.
	Path string `mapstructure:"path" default:"mapcycle.txt"`
	// Collections are the workshop collection IDs or URLs to import, in order.
	Collections []string `mapstructure:"collections" default:""`
	// IncludeTags admits only maps carrying one of these tags.
	IncludeTags []string `mapstructure:"include_tags" default:""`
	// ExcludeTags rejects maps carrying any of these tags.
	ExcludeTags []string `mapstructure:"exclude_tags" default:""`
	// GamemodePrefixes are stripped before names are compared for duplicates.
	// Empty uses the built-in TF2 gamemode list.
	GamemodePrefixes []string `mapstructure:"gamemode_prefixes" default:""`
	// Memo is the comment written above the workshop block.
	Memo string `mapstructure:"memo" default:"Imported workshop maps"`
	// Backup saves a copy of the mapcycle before it is rewritten.
	Backup bool `mapstructure:"backup" default:"false"`
	// BackupDir overrides the backup directory (default: <mapcycle dir>/mapcycle_backups).
	BackupDir string `mapstructure:"backup_dir" default:""`
	// BackupKeep is the number of backups to retain, zero keeps all of them.
	BackupKeep int `mapstructure:"backup_keep" default:"0"`
	// RemotePrefix is the object prefix for backups mirrored to storage.
	RemotePrefix string `mapstructure:"remote_prefix" default:"mapcycle_backups"`
}

// Prefixes returns the gamemode prefixes to use for duplicate detection.
func (c Config) Prefixes() []string {
	if len(c.GamemodePrefixes) == 0 {
		return reconcile.DefaultGamemodePrefixes
	}
	return c.GamemodePrefixes
}

// SyncOptions builds sync options from the configuration.
func (c Config) SyncOptions() (SyncOptions, error) {
	ids, err := steam.ParseCollectionIDs(c.Collections)
	if err != nil {
		return SyncOptions{}, err
	}
	return SyncOptions{
		Path:        c.Path,
		Collections: ids,
		Filter:      reconcile.NewFilterSpec(c.IncludeTags, c.ExcludeTags),
		Backup:      c.Backup,
		Memo:        c.Memo,
	}, nil
}
