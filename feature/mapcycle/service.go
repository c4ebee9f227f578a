package mapcycle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mc "mapcycle-sync/core/mapcycle"
	"mapcycle-sync/core/reconcile"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

// ErrNoCollections is returned when a sync is requested without any collection.
var ErrNoCollections = errors.New("no workshop collections configured: pass --collection or set MAPCYCLE_COLLECTIONS")

// Fetcher supplies collection snapshots in the requested order.
type Fetcher interface {
	FetchSnapshots(ctx context.Context, ids []uint64) ([]reconcile.Snapshot, error)
}

// SyncOptions controls a single sync run.
type SyncOptions struct {
	// Path is the mapcycle file.
	Path string
	// Collections are the collection IDs in configured order.
	Collections []uint64
	// Filter admits collection items by tag.
	Filter reconcile.FilterSpec
	// DryRun computes the changes without writing anything.
	DryRun bool
	// Backup copies the mapcycle before rewriting it.
	Backup bool
	// Memo is the comment written above the workshop block.
	Memo string
}

// Plan is a computed but not yet applied sync.
type Plan struct {
	// Path is the mapcycle file.
	Path string
	// Exists is false when the mapcycle file does not exist yet.
	Exists bool
	// Document is the current mapcycle with its layout.
	Document *mc.Document
	// Result is the engine output.
	Result *reconcile.Result
}

// SyncReport describes the outcome of a sync.
type SyncReport struct {
	Path         string            `json:"path"`
	DryRun       bool              `json:"dry_run"`
	Written      bool              `json:"written"`
	BackupPath   string            `json:"backup_path,omitempty"`
	RemoteBackup string            `json:"remote_backup,omitempty"`
	Result       *reconcile.Result `json:"result"`

	// SharedPrefixes groups local maps of the new mapcycle that look like versions of one map.
	SharedPrefixes []reconcile.DuplicateGroup `json:"shared_prefixes"`
}

// Service reconciles a mapcycle file against workshop collections.
type Service struct {
	fetcher Fetcher
	engine  *reconcile.Engine
	backups *Backuper
	history History
	logger  *zap.Logger
}

// NewService creates a new mapcycle service.
// backups and history may be nil; fetcher is only needed for Plan and Sync.
func NewService(fetcher Fetcher, engine *reconcile.Engine, backups *Backuper, history History, logger *zap.Logger) *Service {
	if engine == nil {
		engine = reconcile.NewEngine(reconcile.DefaultGamemodePrefixes)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher: fetcher,
		engine:  engine,
		backups: backups,
		history: history,
		logger:  logger,
	}
}

// Plan validates the filter, parses the mapcycle, fetches the collections and
// reconciles them. Filter and parse errors are reported before any request is made.
func (s *Service) Plan(ctx context.Context, opts SyncOptions) (*Plan, error) {
	if err := opts.Filter.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Collections) == 0 {
		return nil, ErrNoCollections
	}
	if s.fetcher == nil {
		return nil, errors.New("no collection fetcher configured")
	}

	doc, exists, err := readDocument(opts.Path)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fetching workshop collections", zap.Uint64s("collections", opts.Collections))
	snapshots, err := s.fetcher.FetchSnapshots(ctx, opts.Collections)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collections: %w", err)
	}
	if len(snapshots) != len(opts.Collections) {
		return nil, fmt.Errorf("fetched %d of %d collections", len(snapshots), len(opts.Collections))
	}

	result, err := s.engine.Reconcile(doc.Entries(), snapshots, opts.Filter)
	if err != nil {
		return nil, err
	}

	sum := result.Summary
	s.logger.Info("Reconciled mapcycle",
		zap.String("mapcycle", opts.Path),
		zap.Int("items_seen", sum.ItemsSeen),
		zap.Int("non_maps", sum.NonMaps),
		zap.Int("filtered", sum.Filtered),
		zap.Int("candidates", sum.Candidates),
		zap.Int("retained", sum.Retained),
		zap.Int("added", sum.Added),
		zap.Int("removed", sum.Removed),
		zap.Int("duplicate_groups", sum.DuplicateGroups),
	)

	return &Plan{Path: opts.Path, Exists: exists, Document: doc, Result: result}, nil
}

// Sync plans and, unless it is a dry run or nothing changed, applies the plan:
// backup first when requested, then an atomic rewrite of the mapcycle.
func (s *Service) Sync(ctx context.Context, opts SyncOptions) (*SyncReport, error) {
	plan, err := s.Plan(ctx, opts)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{
		Path:           opts.Path,
		DryRun:         opts.DryRun,
		Result:         plan.Result,
		SharedPrefixes: SharedPrefixGroups(plan.Result.Final),
	}
	if !plan.Result.Changed() {
		s.logger.Info("No changed workshop maps", zap.String("mapcycle", opts.Path))
		return report, nil
	}
	if opts.DryRun {
		s.logger.Info("Dry-run mode: no changes were made", zap.String("mapcycle", opts.Path))
		return report, nil
	}

	if opts.Backup && plan.Exists {
		if s.backups == nil {
			return nil, errors.New("backup requested but no backup location is configured")
		}
		backup, err := s.backups.Backup(ctx, opts.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to back up mapcycle: %w", err)
		}
		report.BackupPath = backup.Local
		report.RemoteBackup = backup.Remote
	}

	content := plan.Document.Apply(plan.Result.Final, opts.Memo).String()
	if err := writeFile(opts.Path, content, plan.Exists); err != nil {
		return nil, fmt.Errorf("failed to write mapcycle: %w", err)
	}
	report.Written = true

	s.logger.Info("Mapcycle updated",
		zap.String("mapcycle", opts.Path),
		zap.Int("added", len(plan.Result.Added)),
		zap.Int("removed", len(plan.Result.Removed)),
	)

	if s.history != nil {
		if err := s.history.Record(ctx, NewSyncRun(report, opts.Collections)); err != nil {
			s.logger.Warn("Failed to record sync history", zap.Error(err))
		}
	}

	return report, nil
}

// Duplicates reports duplicate groups of the current mapcycle without fetching
// anything: the engine's name key groups followed by the shared prefix groups.
func (s *Service) Duplicates(path string) ([]reconcile.DuplicateGroup, error) {
	doc, _, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	entries := doc.Entries()
	groups := s.engine.FindDuplicates(entries)
	return append(groups, SharedPrefixGroups(entries)...), nil
}

// readDocument parses the mapcycle; a missing file is an empty mapcycle.
func readDocument(path string) (*mc.Document, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &mc.Document{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read mapcycle: %w", err)
	}

	doc, err := mc.ParseDocument(string(data))
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, true, nil
}

// writeFile replaces path atomically. New files are created world-readable.
func writeFile(path, content string, existed bool) error {
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return err
	}
	if !existed {
		return os.Chmod(path, 0o644)
	}
	return nil
}
