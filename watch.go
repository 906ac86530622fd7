package confkit

import (
	"context"
	"os"
	"time"
)

// Watch polls the storage file and delivers freshly decoded config snapshots
// on the returned channel until ctx is cancelled, at which point the channel
// is closed. Rapid successive changes are coalesced by Options.Debounce, and
// a change that fails to decode is skipped (the bad file stays on disk, no
// snapshot is emitted).
//
// The watcher never replaces the manager's current instance; the manager
// stays single-writer. Callers apply a snapshot themselves or call Reload
// when notified. Delivery is non-blocking: a subscriber that falls behind
// misses intermediate snapshots rather than stalling the watcher.
func (m *Manager[C, B, F]) Watch(ctx context.Context) <-chan C {
	ch := make(chan C, watchBuffer)
	go m.watchLoop(ctx, ch)
	return ch
}

// watchLoop stats the file once per poll interval and reloads after changes
// settle for the debounce period.
func (m *Manager[C, B, F]) watchLoop(ctx context.Context, ch chan<- C) {
	defer close(ch)

	var lastModTime time.Time
	var lastSize int64
	if info, err := os.Stat(m.path); err == nil {
		lastModTime = info.ModTime()
		lastSize = info.Size()
	}

	ticker := time.NewTicker(m.opts.PollInterval)
	defer ticker.Stop()

	// Zero while no change is pending; reset on every observed change so
	// bursts collapse into one reload.
	var pendingSince time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if info, err := os.Stat(m.path); err == nil {
				if !info.ModTime().Equal(lastModTime) || info.Size() != lastSize {
					lastModTime = info.ModTime()
					lastSize = info.Size()
					pendingSince = time.Now()
				}
			}

			if pendingSince.IsZero() || time.Since(pendingSince) < m.opts.Debounce {
				continue
			}
			pendingSince = time.Time{}

			cfg, ok := m.Load()
			if !ok {
				continue
			}

			select {
			case ch <- cfg:
			default:
				// Subscriber is behind; drop this snapshot.
			}
		}
	}
}
