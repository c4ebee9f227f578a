package mapcycle

import (
	"context"
	"errors"
	"testing"
	"time"

	mc "mapcycle-sync/core/mapcycle"
	"mapcycle-sync/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestHistory_Record(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	history := NewHistory(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `sync_runs`").WillReturnResult(sqlmock.NewResult(7, 1))
	sqlMock.ExpectCommit()

	run := &SyncRun{Mapcycle: "mapcycle.txt", Collections: "100", Added: 1}
	require.NoError(t, history.Record(context.Background(), run))

	assert.Equal(t, uint(7), run.ID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestHistory_Recent(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	history := NewHistory(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "mapcycle", "collections", "added", "removed"}).
		AddRow(2, now, "mapcycle.txt", "100", 1, 0).
		AddRow(1, now.Add(-time.Hour), "mapcycle.txt", "100", 3, 2)
	sqlMock.ExpectQuery("SELECT \\* FROM `sync_runs` ORDER BY id DESC LIMIT").WillReturnRows(rows)

	runs, err := history.Recent(context.Background(), 5)
	require.NoError(t, err)

	require.Len(t, runs, 2)
	assert.Equal(t, uint(2), runs[0].ID)
	assert.Equal(t, 3, runs[1].Added)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestHistory_RecentError(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	history := NewHistory(db)

	sqlMock.ExpectQuery("SELECT").WillReturnError(errors.New("db down"))

	_, err := history.Recent(context.Background(), 0)
	assert.ErrorContains(t, err, "db down")
}

func TestNewSyncRun(t *testing.T) {
	report := &SyncReport{
		Path:       "cfg/mapcycle.txt",
		BackupPath: "cfg/mapcycle_backups/mapcycle_20240102_030405.txt",
		Result: &reconcile.Result{
			Added:   []mc.Entry{mc.Workshop("foo", 2), mc.Workshop("", 3)},
			Removed: []mc.Entry{mc.Workshop("", 1)},
		},
	}

	run := NewSyncRun(report, []uint64{100, 200})
	assert.Equal(t, "cfg/mapcycle.txt", run.Mapcycle)
	assert.Equal(t, "100,200", run.Collections)
	assert.Equal(t, 2, run.Added)
	assert.Equal(t, 1, run.Removed)
	assert.Equal(t, "workshop/foo.ugc2 workshop/3", run.AddedMaps)
	assert.Equal(t, "workshop/1", run.RemovedMaps)
	assert.Equal(t, report.BackupPath, run.BackupPath)
}
