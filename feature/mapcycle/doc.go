// Package mapcycle is the shell around the reconciliation engine.
//
// It reads the mapcycle file, fetches the configured workshop collections, runs
// the engine and, when workshop maps were added or removed, backs the file up and
// rewrites it in place. Nothing is written unless reconciliation succeeds, and the
// rewrite is atomic.
//
// # Components
//
//   - Service: plans and applies a sync (Plan, Sync, Duplicates).
//   - Backuper: timestamped copies next to the mapcycle, optionally mirrored to
//     object storage and pruned to a retention count.
//   - History: optional record of applied syncs in MySQL.
//   - WriteReport: the human readable change report printed by the CLI.
//   - Handler / Feature: the HTTP API mounted by the start command.
//
// # HTTP Endpoints
//
//   - GET /mapcycle/plan : Dry run against the configured collections.
//   - GET /mapcycle/duplicates : Duplicate groups of the current mapcycle.
//   - POST /mapcycle/sync : Apply a sync (supports ?dry_run=true).
package mapcycle
