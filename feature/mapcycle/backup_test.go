package mapcycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"mapcycle-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var backupTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)

func newTestBackuper(cfg Config, store *mocks.Client) *Backuper {
	var b *Backuper
	if store != nil {
		b = NewBackuper(cfg, store, "test-bucket", nil)
	} else {
		b = NewBackuper(cfg, nil, "", nil)
	}
	b.now = func() time.Time { return backupTime }
	return b
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestBackuper_Local(t *testing.T) {
	path := writeMapcycle(t, "cp_a\n")
	b := newTestBackuper(Config{}, nil)

	backup, err := b.Backup(context.Background(), path)
	require.NoError(t, err)

	want := filepath.Join(filepath.Dir(path), "mapcycle_backups", "mapcycle_20240102_030405.txt")
	assert.Equal(t, want, backup.Local)
	assert.Empty(t, backup.Remote)
	assert.Equal(t, "cp_a\n", readFile(t, want))
}

func TestBackuper_CustomDir(t *testing.T) {
	path := writeMapcycle(t, "cp_a\n")
	dir := filepath.Join(t.TempDir(), "nested", "backups")
	b := newTestBackuper(Config{BackupDir: dir}, nil)

	backup, err := b.Backup(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mapcycle_20240102_030405.txt"), backup.Local)
}

func TestBackuper_MissingFile(t *testing.T) {
	b := newTestBackuper(Config{}, nil)
	_, err := b.Backup(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestBackuper_PrunesLocal(t *testing.T) {
	path := writeMapcycle(t, "cp_a\n")
	dir := filepath.Join(filepath.Dir(path), "mapcycle_backups")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range []string{
		"mapcycle_20230101_000000.txt",
		"mapcycle_20230601_000000.txt",
		"mapcycle_20231231_235959.txt",
		"mapcycle_notes.txt",
		"other_20230101_000000.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	b := newTestBackuper(Config{BackupKeep: 2}, nil)
	_, err := b.Backup(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"mapcycle_20231231_235959.txt",
		"mapcycle_20240102_030405.txt",
		"mapcycle_notes.txt",
		"other_20230101_000000.txt",
	}, listDir(t, dir))
}

func TestBackuper_Mirror(t *testing.T) {
	path := writeMapcycle(t, "cp_a\n")
	store := new(mocks.Client)
	store.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
	store.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)
	store.On("PutObject", mock.Anything, "test-bucket", "mapcycle_backups/mapcycle_20240102_030405.txt",
		mock.Anything, int64(5), mock.Anything).Return(minio.UploadInfo{}, nil)

	b := newTestBackuper(Config{RemotePrefix: "mapcycle_backups"}, store)
	backup, err := b.Backup(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "mapcycle_backups/mapcycle_20240102_030405.txt", backup.Remote)
	store.AssertExpectations(t)
}

func TestBackuper_MirrorFails(t *testing.T) {
	path := writeMapcycle(t, "cp_a\n")
	store := new(mocks.Client)
	store.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	store.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	b := newTestBackuper(Config{RemotePrefix: "mapcycle_backups"}, store)
	_, err := b.Backup(context.Background(), path)
	assert.ErrorContains(t, err, "access denied")
	store.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestBackuper_PrunesRemote(t *testing.T) {
	path := writeMapcycle(t, "cp_a\n")
	store := new(mocks.Client)
	store.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	store.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	ch := make(chan minio.ObjectInfo, 3)
	ch <- minio.ObjectInfo{Key: "backups/mapcycle_20240102_030405.txt"}
	ch <- minio.ObjectInfo{Key: "backups/mapcycle_20230101_000000.txt"}
	ch <- minio.ObjectInfo{Key: "backups/mapcycle_20230601_000000.txt"}
	close(ch)
	store.On("ListObjects", mock.Anything, "test-bucket", minio.ListObjectsOptions{Prefix: "backups/mapcycle_"}).
		Return((<-chan minio.ObjectInfo)(ch))
	store.On("RemoveObject", mock.Anything, "test-bucket", "backups/mapcycle_20230101_000000.txt", mock.Anything).
		Return(nil)

	b := newTestBackuper(Config{RemotePrefix: "/backups/", BackupKeep: 2}, store)
	_, err := b.Backup(context.Background(), path)
	require.NoError(t, err)

	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "RemoveObject", 1)
}

func TestBackuper_SameSecond(t *testing.T) {
	path := writeMapcycle(t, "cp_a\n")
	b := newTestBackuper(Config{}, nil)

	first, err := b.Backup(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("cp_b\n"), 0o600))
	second, err := b.Backup(context.Background(), path)
	require.NoError(t, err)

	dir := filepath.Dir(first.Local)
	assert.Equal(t, filepath.Join(dir, "mapcycle_20240102_030405_1.txt"), second.Local)
	assert.Equal(t, "cp_a\n", readFile(t, first.Local))
	assert.Equal(t, "cp_b\n", readFile(t, second.Local))

	third, err := b.Backup(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mapcycle_20240102_030405_2.txt"), third.Local)
}

func TestBackuper_SameSecondPrunesOldest(t *testing.T) {
	path := writeMapcycle(t, "cp_a\n")
	b := newTestBackuper(Config{BackupKeep: 2}, nil)

	for range 3 {
		_, err := b.Backup(context.Background(), path)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"mapcycle_20240102_030405_1.txt",
		"mapcycle_20240102_030405_2.txt",
	}, listDir(t, filepath.Join(filepath.Dir(path), "mapcycle_backups")))
}

func TestIsBackupName(t *testing.T) {
	assert.True(t, isBackupName("mapcycle_20240102_030405.txt", "mapcycle", ".txt"))
	assert.True(t, isBackupName("mapcycle_20240102_030405_3.txt", "mapcycle", ".txt"))
	assert.False(t, isBackupName("mapcycle_20240102_030405_x.txt", "mapcycle", ".txt"))
	assert.False(t, isBackupName("mapcycle_20240102_030405_0.txt", "mapcycle", ".txt"))
	assert.False(t, isBackupName("mapcycle_20240102.txt", "mapcycle", ".txt"))
	assert.False(t, isBackupName("mapcycle_20240102_030405.bak", "mapcycle", ".txt"))
	assert.False(t, isBackupName("mapcycle_extra_20240102_030405.txt", "mapcycle", ".txt"))
}
