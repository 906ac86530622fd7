// Demonstrates the config lifecycle: load-or-default initialization,
// builder-based modification, and persistence.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/confkit/confkit"
)

// Settings is the application's persisted configuration schema.
type Settings struct {
	Endpoint string   `json:"endpoint"`
	Retries  int      `json:"retries"`
	Enabled  bool     `json:"enabled"`
	Regions  []string `json:"regions"`
}

// SettingsBuilder mirrors Settings with mutable slots. In a larger project
// this type would come from a code generator; the manager only cares that it
// satisfies confkit.Builder.
type SettingsBuilder struct {
	Endpoint string
	Retries  int
	Enabled  bool
	Regions  []string
}

// NewSettingsBuilder derives a builder from an existing instance, copying
// reference-typed fields so builds never alias the source.
func NewSettingsBuilder(s Settings) *SettingsBuilder {
	return &SettingsBuilder{
		Endpoint: s.Endpoint,
		Retries:  s.Retries,
		Enabled:  s.Enabled,
		Regions:  append([]string(nil), s.Regions...),
	}
}

// Build commits the slots into a fresh immutable instance.
func (b *SettingsBuilder) Build() Settings {
	return Settings{
		Endpoint: b.Endpoint,
		Retries:  b.Retries,
		Enabled:  b.Enabled,
		Regions:  append([]string(nil), b.Regions...),
	}
}

func main() {
	dir, err := os.MkdirTemp("", "confkit-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "settings.json")

	defaults := Settings{
		Endpoint: "https://api.example.com",
		Retries:  3,
		Enabled:  true,
		Regions:  []string{"eu-west"},
	}

	// First construction materializes the defaults on disk.
	mgr, err := confkit.New(path, defaults, confkit.NewJSONCodec[Settings](), NewSettingsBuilder)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("initial: %+v\n", mgr.Current())

	// In-memory change only.
	mgr.Modify(func(b *SettingsBuilder) {
		b.Enabled = false
	})

	// Change and persist in one step.
	updated, err := mgr.Update(func(b *SettingsBuilder) {
		b.Retries = 5
		b.Regions = append(b.Regions, "us-east")
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("updated: %+v\n", updated)

	// A second manager on the same path starts from the persisted state.
	again, err := confkit.New(path, defaults, confkit.NewJSONCodec[Settings](), NewSettingsBuilder)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("reloaded: %+v\n", again.Current())

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("on disk:\n%s", raw)
}
