package confkit

import "time"

// Timing constants for file watching.
const (
	// MinPollInterval is the hard floor for file stat polling.
	MinPollInterval = 100 * time.Millisecond

	// DefaultPollInterval is the standard file monitoring frequency.
	DefaultPollInterval = time.Second

	// DefaultDebounce is the file change coalescence period.
	DefaultDebounce = 500 * time.Millisecond
)

// watchBuffer is the snapshot channel capacity; delivery is non-blocking
// and a full channel drops the snapshot rather than stalling the watcher.
const watchBuffer = 4
