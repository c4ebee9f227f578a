package mapcycle

import (
	"context"
	"strconv"
	"strings"
	"time"

	mc "mapcycle-sync/core/mapcycle"

	"gorm.io/gorm"
)

// SyncRun is a sync that rewrote a mapcycle.
type SyncRun struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Mapcycle     string    `gorm:"size:512;not null" json:"mapcycle"`
	Collections  string    `gorm:"size:1024" json:"collections"`
	Added        int       `json:"added"`
	Removed      int       `json:"removed"`
	AddedMaps    string    `gorm:"type:text" json:"added_maps"`
	RemovedMaps  string    `gorm:"type:text" json:"removed_maps"`
	BackupPath   string    `gorm:"size:512" json:"backup_path,omitempty"`
	RemoteBackup string    `gorm:"size:512" json:"remote_backup,omitempty"`
}

// TableName overrides the gorm table name.
func (SyncRun) TableName() string {
	return "sync_runs"
}

// NewSyncRun builds a history record from an applied sync.
func NewSyncRun(report *SyncReport, collections []uint64) *SyncRun {
	ids := make([]string, 0, len(collections))
	for _, id := range collections {
		ids = append(ids, strconv.FormatUint(id, 10))
	}
	return &SyncRun{
		Mapcycle:     report.Path,
		Collections:  strings.Join(ids, ","),
		Added:        len(report.Result.Added),
		Removed:      len(report.Result.Removed),
		AddedMaps:    joinTokens(report.Result.Added),
		RemovedMaps:  joinTokens(report.Result.Removed),
		BackupPath:   report.BackupPath,
		RemoteBackup: report.RemoteBackup,
	}
}

// History stores applied syncs.
type History interface {
	// Record saves a sync run.
	Record(ctx context.Context, run *SyncRun) error
	// Recent returns the latest runs, newest first.
	Recent(ctx context.Context, limit int) ([]SyncRun, error)
}

type gormHistory struct {
	db *gorm.DB
}

// NewHistory creates a History backed by gorm.
func NewHistory(db *gorm.DB) History {
	return &gormHistory{db: db}
}

// Migrate creates or updates the history table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&SyncRun{})
}

func (h *gormHistory) Record(ctx context.Context, run *SyncRun) error {
	return h.db.WithContext(ctx).Create(run).Error
}

func (h *gormHistory) Recent(ctx context.Context, limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []SyncRun
	err := h.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

func joinTokens(entries []mc.Entry) string {
	return strings.Join(tokens(entries), " ")
}
