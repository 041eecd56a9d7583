// Package constants defines timeout values and pacing delays used throughout the application.
package constants

import "time"

const (
	// Interval between full account syncs
	SyncInterval = 15 * time.Minute

	// Delay between paginated list requests during a sync
	SyncPageDelay = 200 * time.Millisecond

	// Delay between per-torrent detail requests during a sync
	SyncDetailDelay = 50 * time.Millisecond

	// Delay before resyncing after a dashboard action touches the account
	PostActionSyncDelay = 1500 * time.Millisecond

	// Timeout for metadata provider requests
	MetadataRequestTimeout = 10 * time.Second
)
