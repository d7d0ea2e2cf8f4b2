package automation

// Config holds configuration for the automation run controller.
type Config struct {
	// SyncMaxRetries caps how often a drift push is retried before the
	// conflict is flagged for manual review.
	SyncMaxRetries int `mapstructure:"sync_max_retries" default:"3"`
	// SnapshotTTLSeconds is how long the HTTP API may serve a cached scope
	// snapshot. Batch runs always read fresh.
	SnapshotTTLSeconds int `mapstructure:"snapshot_ttl_seconds" default:"300"`
	// ArchiveEnabled controls whether run reports and raw batch snapshots
	// are written to the archive bucket.
	ArchiveEnabled bool `mapstructure:"archive_enabled" default:"true"`
}
