// Package config — trkit.yaml configuration file support.
//
// When a trkit.yaml file exists in the project root, its values override
// anything auto-detected from the project layout. The file is also where
// the active provider choice is persisted across runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "trkit.yaml"

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level trkit.yaml structure.
type File struct {
	// LocaleDir is the directory with per-locale .dart files
	// (default "lib/translations").
	LocaleDir string `yaml:"locale_dir,omitempty"`
	// SourceDirs are directories to scan for keys (default ["lib"]).
	SourceDirs []string `yaml:"source_dirs,omitempty"`
	// BaseLocale is the source locale (default "en").
	BaseLocale string `yaml:"base_locale,omitempty"`
	// Provider is the active translation backend: "openai", "groq",
	// "ollama".
	Provider string `yaml:"provider,omitempty"`
	// Models overrides the default model per provider.
	Models map[string]string `yaml:"models,omitempty"`
	// BatchSize is keys per translation batch (default 2).
	BatchSize int `yaml:"batch_size,omitempty"`
	// BatchDelay is the pause between batches as a Go duration string
	// (default "1s").
	BatchDelay string `yaml:"batch_delay,omitempty"`
	// Parallel enables concurrent per-file processing.
	Parallel bool `yaml:"parallel,omitempty"`
	// MaxConcurrent caps concurrency in parallel mode (default 3).
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`

	// path the file was loaded from, for Save.
	path string
}

// Default returns a File with every field at its documented default.
func Default() *File {
	return &File{
		LocaleDir:  filepath.Join("lib", "translations"),
		SourceDirs: []string{"lib"},
		BaseLocale: "en",
		Provider:   "openai",
		BatchSize:  2,
		BatchDelay: "1s",
	}
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads trkit.yaml from the given directory and fills in defaults.
// A missing file is not an error: the defaults are returned and a later
// Save creates the file.
func Load(rootDir string) (*File, error) {
	path := filepath.Join(rootDir, FileName)

	f := Default()
	f.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.applyDefaults()

	if err := f.validate(path); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) applyDefaults() {
	d := Default()
	if f.LocaleDir == "" {
		f.LocaleDir = d.LocaleDir
	}
	if len(f.SourceDirs) == 0 {
		f.SourceDirs = d.SourceDirs
	}
	if f.BaseLocale == "" {
		f.BaseLocale = d.BaseLocale
	}
	if f.Provider == "" {
		f.Provider = d.Provider
	}
	if f.BatchSize <= 0 {
		f.BatchSize = d.BatchSize
	}
	if f.BatchDelay == "" {
		f.BatchDelay = d.BatchDelay
	}
}

func (f *File) validate(path string) error {
	switch f.Provider {
	case "openai", "groq", "ollama":
	default:
		return fmt.Errorf("%s: unknown provider %q (valid: openai, groq, ollama)", path, f.Provider)
	}
	if _, err := time.ParseDuration(f.BatchDelay); err != nil {
		return fmt.Errorf("%s: invalid batch_delay %q: %w", path, f.BatchDelay, err)
	}
	return nil
}

// Save writes the file back to where it was loaded from.
func (f *File) Save() error {
	if f.path == "" {
		f.path = FileName
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", f.path, err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	return nil
}

// SetProvider records a new active provider and persists the file.
func (f *File) SetProvider(id string) error {
	f.Provider = id
	if err := f.validate(f.path); err != nil {
		return err
	}
	return f.Save()
}

// BatchDelayDuration returns the parsed batch delay. Validation at load
// time guarantees the string parses.
func (f *File) BatchDelayDuration() time.Duration {
	d, err := time.ParseDuration(f.BatchDelay)
	if err != nil {
		return time.Second
	}
	return d
}

// Model returns the configured model override for a provider, or "".
func (f *File) Model(provider string) string {
	return f.Models[provider]
}
