package confkit

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appConfig struct {
	Retries int      `json:"retries"`
	Enabled bool     `json:"enabled"`
	Hosts   []string `json:"hosts"`
}

type appBuilder struct {
	Retries int
	Enabled bool
	Hosts   []string
}

func newAppBuilder(c appConfig) *appBuilder {
	return &appBuilder{
		Retries: c.Retries,
		Enabled: c.Enabled,
		Hosts:   append([]string(nil), c.Hosts...),
	}
}

func (b *appBuilder) Build() appConfig {
	return appConfig{
		Retries: b.Retries,
		Enabled: b.Enabled,
		Hosts:   append([]string(nil), b.Hosts...),
	}
}

func appDefaults() appConfig {
	return appConfig{
		Retries: 3,
		Enabled: true,
		Hosts:   []string{"a.example"},
	}
}

// writeConfigFile serializes cfg to path through the codec, simulating an
// external writer.
func writeConfigFile(t *testing.T, codec *JSONCodec[appConfig], path string, cfg appConfig) {
	t.Helper()

	doc, err := codec.Encode(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.Write(&buf, doc))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func newAppManager(t *testing.T, path string) *Manager[appConfig, *appBuilder, map[string]any] {
	t.Helper()

	m, err := New(path, appDefaults(), NewJSONCodec[appConfig](), newAppBuilder)
	require.NoError(t, err)
	return m
}

// TestManagerDefaultMaterialization verifies a missing file is immediately
// written out with defaults during construction.
func TestManagerDefaultMaterialization(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "app.json")

	m := newAppManager(t, path)

	assert.Equal(t, appDefaults(), m.Current())
	assert.True(t, m.Exists())

	loaded, ok := m.Load()
	require.True(t, ok)
	assert.Equal(t, appDefaults(), loaded)
}

// TestManagerLoadsExistingFile verifies a valid file wins over defaults.
func TestManagerLoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	onDisk := appConfig{Retries: 9, Enabled: false, Hosts: []string{"b.example"}}
	writeConfigFile(t, NewJSONCodec[appConfig](), path, onDisk)

	m := newAppManager(t, path)

	assert.Equal(t, onDisk, m.Current())
}

// TestManagerDecodeFailureFallback verifies an unreadable file leads to
// defaults without the bad bytes being overwritten.
func TestManagerDecodeFailureFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	badBytes := []byte("{{ definitely not json")
	require.NoError(t, os.WriteFile(path, badBytes, 0644))

	m := newAppManager(t, path)

	assert.Equal(t, appDefaults(), m.Current())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, badBytes, after)

	_, ok := m.Load()
	assert.False(t, ok)
}

// TestManagerModifyIsolation verifies Modify replaces in memory only and
// builder mutations cannot reach back into the previous instance.
func TestManagerModifyIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	m := newAppManager(t, path)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	previous := m.Current()
	next := m.Modify(func(b *appBuilder) {
		b.Retries = 5
		b.Hosts[0] = "mutated.example"
	})

	assert.Equal(t, 5, next.Retries)
	assert.Equal(t, "mutated.example", next.Hosts[0])
	assert.Equal(t, next, m.Current())

	// Previous instance unaffected, including reference-typed fields.
	assert.Equal(t, 3, previous.Retries)
	assert.Equal(t, "a.example", previous.Hosts[0])

	// No I/O happened.
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// TestManagerUpdatePersists verifies the change-and-save path: after Update,
// what is on disk equals the returned instance.
func TestManagerUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	m := newAppManager(t, path)

	next, err := m.Update(func(b *appBuilder) {
		b.Retries = 5
	})
	require.NoError(t, err)
	assert.Equal(t, 5, next.Retries)
	assert.True(t, next.Enabled)

	loaded, ok := m.Load()
	require.True(t, ok)
	assert.Equal(t, m.Current(), loaded)

	// A fresh manager on the same path sees the persisted state.
	fresh := newAppManager(t, path)
	assert.Equal(t, next, fresh.Current())
}

// failingCodec wraps the JSON codec with a switchable encode failure.
type failingCodec struct {
	inner      *JSONCodec[appConfig]
	failEncode bool
}

func (f *failingCodec) Encode(cfg appConfig) (map[string]any, error) {
	if f.failEncode {
		return nil, errors.New("unrepresentable config")
	}
	return f.inner.Encode(cfg)
}

func (f *failingCodec) Decode(doc map[string]any) (appConfig, error) {
	return f.inner.Decode(doc)
}

func (f *failingCodec) Read(r io.Reader) (map[string]any, error) {
	return f.inner.Read(r)
}

func (f *failingCodec) Write(w io.Writer, doc map[string]any) error {
	return f.inner.Write(w, doc)
}

// TestManagerSaveSkipsWriteOnEncodeFailure verifies an encode failure leaves
// the previously valid file byte-for-byte intact.
func TestManagerSaveSkipsWriteOnEncodeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	codec := &failingCodec{inner: NewJSONCodec[appConfig]()}

	m, err := New(path, appDefaults(), codec, newAppBuilder)
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	codec.failEncode = true
	_, err = m.Update(func(b *appBuilder) { b.Retries = 99 })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncode))

	// In-memory replacement already happened; disk did not change.
	assert.Equal(t, 99, m.Current().Retries)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

type timedConfig struct {
	Name    string        `json:"name"`
	Timeout time.Duration `json:"timeout"`
}

type timedBuilder struct {
	Name    string
	Timeout time.Duration
}

func newTimedBuilder(c timedConfig) *timedBuilder {
	return &timedBuilder{Name: c.Name, Timeout: c.Timeout}
}

func (b *timedBuilder) Build() timedConfig {
	return timedConfig{Name: b.Name, Timeout: b.Timeout}
}

// TestManagerPersistsDurations verifies a duration-bearing config survives
// the full persist-and-reload cycle through the JSON codec: construction
// reads back the file the manager itself wrote.
func TestManagerPersistsDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timed.json")
	defaults := timedConfig{Name: "sync", Timeout: 5 * time.Second}

	m, err := New(path, defaults, NewJSONCodec[timedConfig](), newTimedBuilder)
	require.NoError(t, err)

	loaded, ok := m.Load()
	require.True(t, ok)
	assert.Equal(t, defaults, loaded)

	updated, err := m.Update(func(b *timedBuilder) { b.Timeout = 90 * time.Second })
	require.NoError(t, err)

	fresh, err := New(path, defaults, NewJSONCodec[timedConfig](), newTimedBuilder)
	require.NoError(t, err)
	assert.Equal(t, updated, fresh.Current())
	assert.Equal(t, 90*time.Second, fresh.Current().Timeout)
}

// TestManagerSaveConfig verifies the explicit-instance save writes the given
// instance without replacing the current one.
func TestManagerSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	m := newAppManager(t, path)

	explicit := appConfig{Retries: 42, Enabled: false, Hosts: []string{"saved.example"}}
	require.NoError(t, m.SaveConfig(explicit))

	// In-memory state untouched; disk holds the explicit instance.
	assert.Equal(t, appDefaults(), m.Current())

	loaded, ok := m.Load()
	require.True(t, ok)
	assert.Equal(t, explicit, loaded)
}

// TestManagerValidators covers validation on both the load and save paths.
func TestManagerValidators(t *testing.T) {
	opts := DefaultOptions[appConfig]()
	opts.Validators = []ValidatorFunc[appConfig]{
		func(c appConfig) error {
			if c.Retries < 0 {
				return errors.New("retries must not be negative")
			}
			return nil
		},
	}

	t.Run("SaveRejectsInvalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.json")
		m, err := NewWithOptions(path, appDefaults(), NewJSONCodec[appConfig](), newAppBuilder, opts)
		require.NoError(t, err)

		before, err := os.ReadFile(path)
		require.NoError(t, err)

		_, err = m.Update(func(b *appBuilder) { b.Retries = -1 })
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("LoadRejectsInvalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.json")
		invalid := appConfig{Retries: -7, Enabled: true, Hosts: []string{"x"}}
		writeConfigFile(t, NewJSONCodec[appConfig](), path, invalid)

		m, err := NewWithOptions(path, appDefaults(), NewJSONCodec[appConfig](), newAppBuilder, opts)
		require.NoError(t, err)

		// Invalid on-disk config is unusable data: defaults win, file stays.
		assert.Equal(t, appDefaults(), m.Current())
	})
}

// TestManagerReload verifies Reload applies external changes and keeps the
// current instance when the file has gone bad.
func TestManagerReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	m := newAppManager(t, path)

	external := appConfig{Retries: 12, Enabled: false, Hosts: []string{"c.example"}}
	writeConfigFile(t, NewJSONCodec[appConfig](), path, external)

	current, ok := m.Reload()
	require.True(t, ok)
	assert.Equal(t, external, current)
	assert.Equal(t, external, m.Current())

	require.NoError(t, os.WriteFile(path, []byte("broken"), 0644))

	current, ok = m.Reload()
	assert.False(t, ok)
	assert.Equal(t, external, current)
}

// TestManagerConstructionGuards verifies nil and empty construction inputs
// are rejected.
func TestManagerConstructionGuards(t *testing.T) {
	codec := NewJSONCodec[appConfig]()

	_, err := New("", appDefaults(), codec, newAppBuilder)
	assert.True(t, errors.Is(err, ErrEmptyPath))

	_, err = New[appConfig, *appBuilder, map[string]any]("app.json", appDefaults(), nil, newAppBuilder)
	assert.True(t, errors.Is(err, ErrNilCodec))

	_, err = New("app.json", appDefaults(), codec, (DeriveFunc[appConfig, *appBuilder])(nil))
	assert.True(t, errors.Is(err, ErrNilDerive))
}

// TestManagerOversizedFile verifies the size guard surfaces as a constructor
// error rather than a silent default fallback.
func TestManagerOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 128), 0644))

	opts := DefaultOptions[appConfig]()
	opts.MaxFileSize = 64

	_, err := NewWithOptions(path, appDefaults(), NewJSONCodec[appConfig](), newAppBuilder, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileSize))
}

// TestManagerAccessors covers the small state accessors.
func TestManagerAccessors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	m := newAppManager(t, path)

	assert.Equal(t, path, m.Path())
	assert.Equal(t, appDefaults(), m.Default())
	assert.Equal(t, appDefaults(), m.Current())

	m.Modify(func(b *appBuilder) { b.Enabled = false })

	// Default stays immutable across modifications.
	assert.Equal(t, appDefaults(), m.Default())
	assert.False(t, m.Current().Enabled)
}
