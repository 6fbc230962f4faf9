// Package arbfile implements reading and writing of Flutter ARB
// (Application Resource Bundle) files, used to export GetX locale stores
// into the gen_l10n workflow.
//
// ARB files are JSON files with a specific structure:
//
//   - "@@locale" holds the locale code (e.g. "en", "pt_BR").
//   - Keys starting with "@" (other than "@@locale") are metadata entries
//     and are preserved verbatim — never translated.
//   - All other string values are translatable.
//
// File naming convention: app_LOCALE.arb (e.g. app_en.arb) stored in a
// single directory, conventionally lib/l10n/.
//
// Key order from the source is preserved on round-trip.
package arbfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getx-tools/trkit/dartfile"
)

// entry is a single key in the ARB file.
type entry struct {
	key      string
	value    string          // decoded string for translatable keys
	isMeta   bool            // true for @-keys
	rawValue json.RawMessage // original value bytes, kept for metadata
}

// File represents a parsed or constructed ARB file.
type File struct {
	locale  string
	entries []entry
	index   map[string]int
}

// FileName returns the conventional ARB file name for a locale code.
func FileName(locale string) string {
	return "app_" + locale + ".arb"
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// FromPairs builds an ARB file for locale from a locale store's entries,
// preserving their order.
func FromPairs(locale string, pairs []dartfile.Pair) *File {
	f := &File{locale: locale, index: make(map[string]int)}
	for _, p := range pairs {
		f.append(entry{key: p.Key, value: p.Value})
	}
	return f
}

func (f *File) append(e entry) {
	f.index[e.key] = len(f.entries)
	f.entries = append(f.entries, e)
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses an ARB file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse parses ARB content. Key order is preserved via token streaming;
// json.Unmarshal into a map would lose it.
func Parse(data []byte) (*File, error) {
	f := &File{index: make(map[string]int)}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing ARB: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parsing ARB: expected '{', got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing ARB key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing ARB: expected string key, got %T", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing ARB value for %q: %w", key, err)
		}

		e := entry{key: key, isMeta: strings.HasPrefix(key, "@"), rawValue: raw}
		if key == "@@locale" {
			_ = json.Unmarshal(raw, &f.locale)
		}
		if !e.isMeta {
			if err := json.Unmarshal(raw, &e.value); err != nil {
				return nil, fmt.Errorf("parsing ARB: %q is not a string value", key)
			}
		}
		f.append(e)
	}

	return f, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Locale returns the @@locale value.
func (f *File) Locale() string { return f.locale }

// Keys returns all translatable keys in document order.
func (f *File) Keys() []string {
	var keys []string
	for _, e := range f.entries {
		if !e.isMeta {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Get returns the value for a translatable key.
func (f *File) Get(key string) (string, bool) {
	if idx, ok := f.index[key]; ok && !f.entries[idx].isMeta {
		return f.entries[idx].value, true
	}
	return "", false
}

// Pairs returns the translatable entries in document order.
func (f *File) Pairs() []dartfile.Pair {
	var pairs []dartfile.Pair
	for _, e := range f.entries {
		if !e.isMeta {
			pairs = append(pairs, dartfile.Pair{Key: e.key, Value: e.value})
		}
	}
	return pairs
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal serialises the file with 2-space indentation. The @@locale key
// is always written first.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")

	first := true
	writeKey := func(key string) {
		if !first {
			buf.WriteString(",\n")
		}
		first = false
		raw, _ := json.Marshal(key)
		buf.WriteString("  ")
		buf.Write(raw)
		buf.WriteString(": ")
	}

	if f.locale != "" {
		writeKey("@@locale")
		raw, _ := json.Marshal(f.locale)
		buf.Write(raw)
	}

	for _, e := range f.entries {
		if e.key == "@@locale" {
			continue
		}
		writeKey(e.key)
		if e.isMeta {
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, e.rawValue, "  ", "  "); err != nil {
				buf.Write(e.rawValue)
			} else {
				buf.Write(pretty.Bytes())
			}
		} else {
			raw, _ := json.Marshal(e.value)
			buf.Write(raw)
		}
	}

	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

// WriteFile serialises and writes to path, creating the directory if
// needed.
func (f *File) WriteFile(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
