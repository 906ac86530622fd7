package confkit

import (
	"log/slog"
	"os"
	"time"
)

// DefaultMaxFileSize caps storage reads at 10 MiB unless overridden.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Options configures a Manager.
type Options[C any] struct {
	// Logger receives decode-fallback warnings and encode failures.
	// Nil means slog.Default().
	Logger *slog.Logger

	// FileMode is applied to the storage file on save. Zero means 0644.
	FileMode os.FileMode

	// DirMode is applied to created parent directories. Zero means 0755.
	DirMode os.FileMode

	// MaxFileSize limits how many bytes are read from storage.
	// Zero means DefaultMaxFileSize; negative disables the limit.
	MaxFileSize int64

	// Validators run against decoded instances during load and against the
	// current instance before persistence. Executed in order; the first
	// error rejects the instance.
	Validators []ValidatorFunc[C]

	// PollInterval between file stat checks in Watch (minimum MinPollInterval).
	PollInterval time.Duration

	// Debounce coalesces rapid file changes before Watch reloads.
	// Negative means DefaultDebounce.
	Debounce time.Duration
}

// DefaultOptions returns the standard manager options.
func DefaultOptions[C any]() Options[C] {
	return Options[C]{
		FileMode:     0644,
		DirMode:      0755,
		MaxFileSize:  DefaultMaxFileSize,
		PollInterval: DefaultPollInterval,
		Debounce:     DefaultDebounce,
	}
}

// normalized fills zero fields with defaults and clamps out-of-range values.
func (o Options[C]) normalized() Options[C] {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.FileMode == 0 {
		o.FileMode = 0644
	}
	if o.DirMode == 0 {
		o.DirMode = 0755
	}
	if o.MaxFileSize == 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.PollInterval < MinPollInterval {
		o.PollInterval = MinPollInterval
	}
	if o.Debounce < 0 {
		o.Debounce = DefaultDebounce
	}
	return o
}
