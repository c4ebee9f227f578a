// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so mapcycle backups can be mirrored to AWS S3 or a
// self-hosted MinIO instance, next to the local backup directory.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: make sure the backup bucket is there.
//   - PutObject: upload a backup copy.
//   - ListObjects / RemoveObject: prune old backups.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
