package mapcycle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"mapcycle-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

const (
	// backupDirName is the directory created next to the mapcycle for backups.
	backupDirName = "mapcycle_backups"
	// backupTimeLayout is the timestamp appended to backup file names.
	backupTimeLayout = "20060102_150405"
)

// Backup is where a mapcycle copy was written.
type Backup struct {
	// Local is the path of the local copy.
	Local string `json:"local"`
	// Remote is the object key in the storage bucket, empty when not mirrored.
	Remote string `json:"remote,omitempty"`
}

// Backuper writes timestamped copies of a mapcycle before it is rewritten.
type Backuper struct {
	dir    string
	keep   int
	store  storage.Client
	bucket string
	prefix string
	now    func() time.Time
	logger *zap.Logger
}

// NewBackuper creates a backuper. store may be nil to keep backups local only.
func NewBackuper(cfg Config, store storage.Client, bucket string, logger *zap.Logger) *Backuper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backuper{
		dir:    cfg.BackupDir,
		keep:   cfg.BackupKeep,
		store:  store,
		bucket: bucket,
		prefix: strings.Trim(cfg.RemotePrefix, "/"),
		now:    time.Now,
		logger: logger,
	}
}

// Dir returns the backup directory used for the given mapcycle.
func (b *Backuper) Dir(mapcyclePath string) string {
	if b.dir != "" {
		return b.dir
	}
	return filepath.Join(filepath.Dir(mapcyclePath), backupDirName)
}

// Backup copies the mapcycle to <dir>/<name>_YYYYmmdd_HHMMSS<ext>, mirrors it to
// the bucket when storage is configured and prunes old copies.
func (b *Backuper) Backup(ctx context.Context, mapcyclePath string) (*Backup, error) {
	data, err := os.ReadFile(mapcyclePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapcycle: %w", err)
	}

	dir := b.Dir(mapcyclePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	stem, ext := splitName(mapcyclePath)
	name, err := freeName(dir, stem+"_"+b.now().Format(backupTimeLayout), ext)
	if err != nil {
		return nil, err
	}
	local := filepath.Join(dir, name)

	if err := atomic.WriteFile(local, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Chmod(local, 0o644); err != nil {
		return nil, err
	}
	b.logger.Info("Backed up mapcycle", zap.String("backup", local))

	backup := &Backup{Local: local}
	if b.store != nil {
		key, err := b.mirror(ctx, name, data)
		if err != nil {
			return nil, err
		}
		backup.Remote = key
	}

	if b.keep > 0 {
		b.prune(ctx, dir, stem, ext)
	}

	return backup, nil
}

// mirror uploads a backup to the bucket, creating the bucket when missing.
func (b *Backuper) mirror(ctx context.Context, name string, data []byte) (string, error) {
	exists, err := b.store.BucketExists(ctx, b.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket %s: %w", b.bucket, err)
	}
	if !exists {
		if err := b.store.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create bucket %s: %w", b.bucket, err)
		}
	}

	key := path.Join(b.prefix, name)
	_, err = b.store.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup %s: %w", key, err)
	}

	b.logger.Info("Mirrored mapcycle backup", zap.String("bucket", b.bucket), zap.String("key", key))
	return key, nil
}

// prune removes all but the newest keep backups, locally and in the bucket.
// Failures are logged: the backup itself already succeeded.
func (b *Backuper) prune(ctx context.Context, dir, stem, ext string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		b.logger.Warn("Failed to list backups", zap.String("dir", dir), zap.Error(err))
		return
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && isBackupName(entry.Name(), stem, ext) {
			names = append(names, entry.Name())
		}
	}
	for _, name := range expired(names, b.keep) {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			b.logger.Warn("Failed to remove old backup", zap.String("backup", name), zap.Error(err))
		}
	}

	if b.store == nil {
		return
	}

	prefix := path.Join(b.prefix, stem) + "_"
	var keys []string
	for obj := range b.store.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			b.logger.Warn("Failed to list remote backups", zap.Error(obj.Err))
			return
		}
		if isBackupName(path.Base(obj.Key), stem, ext) {
			keys = append(keys, obj.Key)
		}
	}
	for _, key := range expired(keys, b.keep) {
		if err := b.store.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			b.logger.Warn("Failed to remove old remote backup", zap.String("key", key), zap.Error(err))
		}
	}
}

// expired returns the oldest names beyond keep. Timestamps sort lexically and
// "." sorts before "_", so a same-second copy sorts after the first one.
func expired(names []string, keep int) []string {
	if len(names) <= keep {
		return nil
	}
	sort.Strings(names)
	return names[:len(names)-keep]
}

// freeName returns base+ext, or base_N+ext for the first N not taken in dir,
// so backups taken within the same second never replace each other.
func freeName(dir, base, ext string) (string, error) {
	name := base + ext
	for n := 1; ; n++ {
		_, err := os.Stat(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check backup %s: %w", name, err)
		}
		name = base + "_" + strconv.Itoa(n) + ext
	}
}

// isBackupName matches <stem>_<timestamp><ext> and <stem>_<timestamp>_<n><ext>.
func isBackupName(name, stem, ext string) bool {
	if !strings.HasPrefix(name, stem+"_") || !strings.HasSuffix(name, ext) {
		return false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, stem+"_"), ext)
	if len(stamp) < len(backupTimeLayout) {
		return false
	}
	if _, err := time.Parse(backupTimeLayout, stamp[:len(backupTimeLayout)]); err != nil {
		return false
	}
	suffix := stamp[len(backupTimeLayout):]
	if suffix == "" {
		return true
	}
	n, err := strconv.Atoi(strings.TrimPrefix(suffix, "_"))
	return strings.HasPrefix(suffix, "_") && err == nil && n > 0
}

// splitName splits "cfg/mapcycle.txt" into "mapcycle" and ".txt".
func splitName(p string) (string, string) {
	base := filepath.Base(p)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}
