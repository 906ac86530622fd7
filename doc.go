// Package confkit manages the lifecycle of a persisted configuration object:
// load it at startup, modify it in memory through a builder, and write it
// back to a single file.
//
// The configuration instance is immutable between modifications. Callers never
// mutate it in place; they obtain a mutable builder snapshot, change fields,
// and commit it into a fresh instance:
//
//	type Config struct {
//	    Retries int  `json:"retries"`
//	    Enabled bool `json:"enabled"`
//	}
//
//	type ConfigBuilder struct {
//	    Retries int
//	    Enabled bool
//	}
//
//	func (b *ConfigBuilder) Build() Config {
//	    return Config{Retries: b.Retries, Enabled: b.Enabled}
//	}
//
//	mgr, err := confkit.New("app.json",
//	    Config{Retries: 3, Enabled: true},
//	    confkit.NewJSONCodec[Config](),
//	    func(c Config) *ConfigBuilder {
//	        return &ConfigBuilder{Retries: c.Retries, Enabled: c.Enabled}
//	    })
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg, err := mgr.Update(func(b *ConfigBuilder) { b.Retries = 5 })
//
// Initialization rules:
//   - No file on disk: the default instance becomes current and is written
//     out immediately, so storage always holds the last-known-good state.
//   - File present but undecodable: the default instance becomes current and
//     the file is left untouched for manual inspection.
//   - File present and valid: the decoded instance becomes current.
//
// Serialization goes through the Codec interface, which separates bytes <->
// intermediary document from document <-> config. JSON, TOML, and YAML codecs
// ship with the package; all three use map[string]any as the intermediary, so
// one storage format can serve many independently defined schemas.
//
// The manager assumes a single logical writer. Modify and Update perform no
// internal locking; concurrent callers must synchronize externally. Watch
// delivers decoded snapshots on a channel without touching manager state, so
// the single-writer model holds even with watching enabled.
package confkit
