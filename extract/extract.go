// Package extract finds localization keys in Dart/GetX source code.
//
// A key is a quoted string literal immediately followed by the .tr getter,
// e.g. "login_title".tr or 'cancel'.tr. Extraction is purely textual: any
// non-empty quoted content before .tr is accepted, no semantic checks.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// keyPattern matches a single- or double-quoted string literal immediately
// followed by .tr. Quote tolerance is deliberate: GetX code mixes both
// styles, and extraction must not miss a key over quote choice.
var keyPattern = regexp.MustCompile(`['"]([^'"\n]+)['"]\.tr\b`)

// Keys returns the unique localization keys found in text, in order of
// first occurrence. Empty input yields an empty result.
func Keys(text string) []string {
	var keys []string
	seen := make(map[string]bool)

	for _, m := range keyPattern.FindAllStringSubmatch(text, -1) {
		key := m[1]
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// KeysFromFiles extracts keys from multiple files, deduplicated across the
// whole set with first-seen order preserved. Unreadable files are reported
// through onError and skipped.
func KeysFromFiles(paths []string, onError func(path string, err error)) []string {
	var keys []string
	seen := make(map[string]bool)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if onError != nil {
				onError(path, err)
			}
			continue
		}
		for _, key := range Keys(string(data)) {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// ---------------------------------------------------------------------------
// Source file discovery
// ---------------------------------------------------------------------------

// skipDirs contains directory names to skip during source scanning.
var skipDirs = map[string]bool{
	".git":         true,
	".dart_tool":   true,
	".idea":        true,
	"build":        true,
	"ios":          true,
	"android":      true,
	"windows":      true,
	"linux":        true,
	"macos":        true,
	"web":          true,
	"node_modules": true,
}

// FindSources recursively finds all .dart files under dirs, skipping
// generated and platform directories. Results are sorted and deduplicated.
func FindSources(dirs []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if info.IsDir() {
				if skipDirs[info.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".dart" && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// localeFileRE matches locale store file names: a two-letter language code
// optionally followed by _REGION, with a .dart extension.
var localeFileRE = regexp.MustCompile(`^[a-z]{2}(_[A-Z]{2})?\.dart$`)

// FindLocaleFiles returns the locale store files in dir, sorted by name.
// Only files whose name matches the locale pattern are returned; anything
// else in the directory is ignored.
func FindLocaleFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading locale directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if localeFileRE.MatchString(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
