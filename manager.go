package confkit

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Manager owns one live config instance of type C, the immutable default
// instance, and one storage path. It orchestrates load-or-default
// initialization, in-memory modification via builders of type B, and
// persistence through a codec with intermediary representation F.
//
// The manager is designed for a single logical writer: Modify, Update, Save,
// and Reload perform no internal locking. Callers sharing a manager across
// goroutines must synchronize externally.
type Manager[C any, B Builder[C], F any] struct {
	path    string
	def     C
	current C
	codec   Codec[C, F]
	derive  DeriveFunc[C, B]
	opts    Options[C]
	logger  *slog.Logger
}

// New creates a manager with default options.
//
// If the storage file does not exist, the default instance becomes current
// and is written out immediately. If the file exists but cannot be decoded,
// the default instance becomes current and the file is left untouched for
// manual inspection. Genuine I/O failures (permissions, unreadable path,
// failed write of the materialized default) are returned as errors.
func New[C any, B Builder[C], F any](path string, def C, codec Codec[C, F], derive DeriveFunc[C, B]) (*Manager[C, B, F], error) {
	return NewWithOptions(path, def, codec, derive, DefaultOptions[C]())
}

// NewWithOptions creates a manager with custom options.
func NewWithOptions[C any, B Builder[C], F any](path string, def C, codec Codec[C, F], derive DeriveFunc[C, B], opts Options[C]) (*Manager[C, B, F], error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if codec == nil {
		return nil, ErrNilCodec
	}
	if derive == nil {
		return nil, ErrNilDerive
	}

	m := &Manager[C, B, F]{
		path:   path,
		def:    def,
		codec:  codec,
		derive: derive,
		opts:   opts.normalized(),
	}
	m.logger = m.opts.Logger

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
		}

		// Materialize the default so storage always reflects a usable state.
		m.current = def
		if err := m.persist(def); err != nil {
			return nil, err
		}
		return m, nil
	}

	cfg, ok, err := m.load()
	if err != nil {
		return nil, err
	}
	if ok {
		m.current = cfg
	} else {
		// Unreadable data stays on disk untouched; operate on defaults.
		m.current = def
		m.logger.Warn("config file unusable, falling back to defaults",
			"path", path)
	}

	return m, nil
}

// MustNew is like New but panics on error.
func MustNew[C any, B Builder[C], F any](path string, def C, codec Codec[C, F], derive DeriveFunc[C, B]) *Manager[C, B, F] {
	m, err := New(path, def, codec, derive)
	if err != nil {
		panic(fmt.Sprintf("config manager initialization failed: %v", err))
	}
	return m
}

// Modify wraps the current instance in a fresh builder, applies mutate,
// builds, and replaces the current instance. Storage is not touched;
// repeated calls carry no I/O cost. Returns the new instance.
func (m *Manager[C, B, F]) Modify(mutate func(B)) C {
	builder := m.derive(m.current)
	mutate(builder)
	m.current = builder.Build()
	return m.current
}

// Update performs Modify and then persists the result. This is the common
// "change and save" path. The new instance is returned even when the save
// fails, since the in-memory replacement has already happened.
func (m *Manager[C, B, F]) Update(mutate func(B)) (C, error) {
	cfg := m.Modify(mutate)
	if err := m.Save(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save persists the current instance. If a validator rejects it or the codec
// cannot encode it, the error is reported and no file write happens at all,
// preserving the previously valid file. On success the file is replaced
// atomically, creating parent directories as needed.
func (m *Manager[C, B, F]) Save() error {
	return m.SaveConfig(m.current)
}

// SaveConfig persists the given instance instead of the current one, leaving
// in-memory state untouched. Validation and encode-failure semantics match
// Save.
func (m *Manager[C, B, F]) SaveConfig(cfg C) error {
	if err := m.validate(cfg); err != nil {
		m.logger.Error("config failed validation, skipping write",
			"path", m.path, "error", err)
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return m.persist(cfg)
}

// Load returns the decoded config if the storage file exists, decodes
// successfully, and passes validation; ok is false otherwise. Manager state
// is never mutated; use Reload to apply the result.
func (m *Manager[C, B, F]) Load() (C, bool) {
	cfg, ok, err := m.load()
	if err != nil {
		m.logger.Warn("config read failed", "path", m.path, "error", err)
		var zero C
		return zero, false
	}
	return cfg, ok
}

// Reload re-reads storage and replaces the current instance on success.
// On absence or failure the current instance is kept, not reset to the
// default: a ready manager never regresses because a reload failed.
// Returns the (possibly replaced) current instance and whether a freshly
// decoded instance was applied; identical on-disk bytes still report true.
func (m *Manager[C, B, F]) Reload() (C, bool) {
	cfg, ok := m.Load()
	if ok {
		m.current = cfg
	}
	return m.current, ok
}

// Current returns the live config instance.
func (m *Manager[C, B, F]) Current() C {
	return m.current
}

// Default returns the immutable default instance.
func (m *Manager[C, B, F]) Default() C {
	return m.def
}

// Path returns the storage file path.
func (m *Manager[C, B, F]) Path() string {
	return m.path
}

// Exists reports whether the storage file is present.
func (m *Manager[C, B, F]) Exists() bool {
	info, err := os.Stat(m.path)
	return err == nil && !info.IsDir()
}

// validate runs the configured validators against cfg in order.
func (m *Manager[C, B, F]) validate(cfg C) error {
	for _, validator := range m.opts.Validators {
		if err := validator(cfg); err != nil {
			return err
		}
	}
	return nil
}
