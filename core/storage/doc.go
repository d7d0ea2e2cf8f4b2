// Package storage provides an abstraction layer for the run archive.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the automation suite needs: archiving per-run reports and raw
// source batch snapshots, and reading them back for audit. The abstraction
// supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easy to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket)
package storage
