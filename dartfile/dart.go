// Package dartfile implements reading and merge-writing of GetX locale
// store files: Dart source files declaring a single translation table of
// the shape
//
//	Map<String, String> <identifier> = {
//	  "key": "value",
//	  ...
//	};
//
// The codec never rewrites or removes existing entries. New entries are
// appended inside the map literal; every other byte of the file is
// preserved verbatim, so hand-written comments, imports, and formatting
// around the table survive a merge.
package dartfile

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// ParseError reports that a file contains no recognizable translation
// table. The file is left untouched; callers treat this as a per-file
// failure without aborting a batch.
type ParseError struct {
	Path string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no Map<String, String> declaration found in %s", e.Path)
}

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// Pair is a single key/value entry.
type Pair struct {
	Key   string
	Value string
}

// File is a parsed locale store file.
type File struct {
	// Path is the file's location on disk (also used in error reports).
	Path string
	// Ident is the declared map variable name (usually the locale code).
	Ident string

	content   string
	bodyStart int // index just past the '{' of the map literal
	bodyEnd   int // index of the closing '}' of the map literal
	pairs     []Pair
	index     map[string]int
}

// mapDeclRE locates the translation table declaration. The body match is
// non-greedy up to the first "};", which is safe because Dart string
// literals in these tables cannot contain an unescaped newline-brace pair.
var mapDeclRE = regexp.MustCompile(`(?s)Map<String,\s*String>\s+(\w+)\s*=\s*\{(.*?)\}\s*;`)

// entryRE matches one "key": "value" entry. Either quote style is accepted
// on either side; escaped characters inside the literals are handled.
var entryRE = regexp.MustCompile(`['"]((?:[^'"\\\n]|\\.)*)['"]\s*:\s*['"]((?:[^'"\\\n]|\\.)*)['"]`)

// ParseFile reads and parses a locale store file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, string(data))
}

// Parse parses locale store content. The path is recorded for error
// reporting only; Parse does not touch the filesystem.
func Parse(path, content string) (*File, error) {
	loc := mapDeclRE.FindStringSubmatchIndex(content)
	if loc == nil {
		return nil, &ParseError{Path: path}
	}

	f := &File{
		Path:      path,
		Ident:     content[loc[2]:loc[3]],
		content:   content,
		bodyStart: loc[4],
		bodyEnd:   loc[5],
		index:     make(map[string]int),
	}

	body := content[f.bodyStart:f.bodyEnd]
	for _, m := range entryRE.FindAllStringSubmatch(body, -1) {
		key := unescape(m[1])
		if _, dup := f.index[key]; dup {
			continue
		}
		f.index[key] = len(f.pairs)
		f.pairs = append(f.pairs, Pair{Key: key, Value: unescape(m[2])})
	}
	return f, nil
}

// Keys returns the store's keys in declaration order.
func (f *File) Keys() []string {
	keys := make([]string, len(f.pairs))
	for i, p := range f.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns the store's entries in declaration order.
func (f *File) Pairs() []Pair {
	out := make([]Pair, len(f.pairs))
	copy(out, f.pairs)
	return out
}

// Has reports whether key exists in the store (case-sensitive exact match).
func (f *File) Has(key string) bool {
	_, ok := f.index[key]
	return ok
}

// Missing returns the subset of candidates not present in the store,
// preserving the candidates' order.
func (f *File) Missing(candidates []string) []string {
	var missing []string
	for _, key := range candidates {
		if !f.Has(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// ---------------------------------------------------------------------------
// Merge-append
// ---------------------------------------------------------------------------

// Append returns the file content with the given new entries inserted at
// the end of the map literal. Existing entries and all surrounding content
// are preserved byte-for-byte. Entries whose key already exists are
// skipped, which makes repeated merges idempotent.
func (f *File) Append(pairs []Pair) string {
	var fresh []Pair
	for _, p := range pairs {
		if !f.Has(p.Key) {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		return f.content
	}

	lines := make([]string, len(fresh))
	for i, p := range fresh {
		value := p.Value
		if value == "" {
			value = p.Key // stored values are never empty
		}
		lines[i] = fmt.Sprintf("  \"%s\": \"%s\"", escape(p.Key), escape(value))
	}
	block := strings.Join(lines, ",\n")

	body := f.content[f.bodyStart:f.bodyEnd]
	trimmed := strings.TrimRight(body, " \t\r\n")

	if strings.TrimSpace(body) == "" {
		// Empty table: insert the entries directly.
		return f.content[:f.bodyStart] + "\n" + block + ",\n" + f.content[f.bodyEnd:]
	}

	// Non-empty table: separator (comma + newline) after the last entry.
	insertAt := f.bodyStart + len(trimmed)
	sep := ",\n"
	if strings.HasSuffix(trimmed, ",") {
		sep = "\n"
	}
	return f.content[:insertAt] + sep + block + "," + f.content[insertAt:f.bodyEnd] + f.content[f.bodyEnd:]
}

// AppendToFile merges new entries into the file on disk.
func (f *File) AppendToFile(pairs []Pair) error {
	updated := f.Append(pairs)
	if updated == f.content {
		return nil
	}
	if err := os.WriteFile(f.Path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	f.content = updated
	return nil
}

// ---------------------------------------------------------------------------
// String escaping
// ---------------------------------------------------------------------------

// unescape resolves backslash escapes inside a Dart string literal.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escaper covers the characters that must be escaped inside a
// double-quoted Dart string literal, including $ (interpolation).
var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"\n", `\n`,
	"\t", `\t`,
)

// escape prepares a string for embedding in a double-quoted Dart literal.
func escape(s string) string {
	return escaper.Replace(s)
}
