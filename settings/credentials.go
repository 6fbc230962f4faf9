// Package settings provides storage for trkit user settings, primarily
// translation backend credentials.
//
// All settings are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/trkit/  (default: ~/.local/share/trkit/)
//
// Files stored:
//   - auth.json — API keys and endpoint overrides per provider
//
// Auth.json is a JSON object keyed by provider ID. File permissions are
// 0600 (owner read/write only).
//
// Lookup order for API keys:
//  1. --api-key flag (highest priority)
//  2. TRKIT_API_KEY environment variable
//  3. Provider-specific environment variable (OPENAI_API_KEY, GROQ_API_KEY)
//  4. This credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "trkit"
	fileName    = "auth.json"
)

// EnvKey is the generic API key override, honored for every provider.
const EnvKey = "TRKIT_API_KEY"

// ---------------------------------------------------------------------------
// Auth entries
// ---------------------------------------------------------------------------

// Info is one provider's stored credentials.
type Info struct {
	// Type is "api" for every entry written by current trkit versions.
	// The field is kept so future entry kinds stay distinguishable.
	Type string `json:"type"`

	// Key is the API key. Empty for keyless backends (ollama).
	Key string `json:"key,omitempty"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `json:"baseUrl,omitempty"`
}

// Store holds all provider credentials, keyed by provider ID.
type Store map[string]*Info

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// dataDir returns the XDG data directory for trkit.
// Respects $XDG_DATA_HOME (falls back to ~/.local/share).
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// DataDir returns the trkit data directory path.
func DataDir() (string, error) {
	return dataDir()
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return make(Store)
	}
	if store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Get / Set / Remove
// ---------------------------------------------------------------------------

// Get returns the auth entry for a provider, or nil if not found.
func Get(providerID string) *Info {
	return Load()[providerID]
}

// Set stores an auth entry for a provider (upsert).
func Set(providerID string, info *Info) error {
	store := Load()
	store[providerID] = info
	return Save(store)
}

// SetAPIKey stores an API key for a provider.
func SetAPIKey(providerID, key string) error {
	return Set(providerID, &Info{Type: "api", Key: key})
}

// SetAPIKeyWithBaseURL stores an API key and endpoint override.
func SetAPIKeyWithBaseURL(providerID, key, baseURL string) error {
	return Set(providerID, &Info{Type: "api", Key: key, BaseURL: baseURL})
}

// GetAPIKey retrieves the stored API key for a provider.
// Returns empty string if not found.
func GetAPIKey(providerID string) string {
	info := Get(providerID)
	if info == nil {
		return ""
	}
	return info.Key
}

// GetBaseURL retrieves the stored endpoint override for a provider.
// Returns empty string if not found.
func GetBaseURL(providerID string) string {
	info := Get(providerID)
	if info == nil {
		return ""
	}
	return info.BaseURL
}

// Remove deletes credentials for a provider. Missing entries are a no-op.
func Remove(providerID string) error {
	store := Load()
	if _, ok := store[providerID]; !ok {
		return nil
	}
	delete(store, providerID)
	return Save(store)
}

// RemoveAll removes all stored credentials.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Resolution
// ---------------------------------------------------------------------------

// EnvVarForProvider returns the provider-specific API key environment
// variable, or "" for keyless providers.
func EnvVarForProvider(providerID string) string {
	switch providerID {
	case "openai":
		return "OPENAI_API_KEY"
	case "groq":
		return "GROQ_API_KEY"
	default:
		return ""
	}
}

// ResolveAPIKey resolves the API key for a provider following the
// documented priority: flag, TRKIT_API_KEY, provider env var, store.
func ResolveAPIKey(providerID, flagKey string) string {
	if flagKey != "" {
		return flagKey
	}
	if key := os.Getenv(EnvKey); key != "" {
		return key
	}
	if env := EnvVarForProvider(providerID); env != "" {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return GetAPIKey(providerID)
}

// ---------------------------------------------------------------------------
// Display helpers
// ---------------------------------------------------------------------------

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
