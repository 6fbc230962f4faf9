// Package config implements auto-detection of project settings
// from pubspec.yaml and existing locale .dart files, plus trkit.yaml
// configuration file support.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/getx-tools/trkit/extract"
	"github.com/getx-tools/trkit/langmeta"
)

// Project holds auto-detected project configuration.
type Project struct {
	// Name is the package name from pubspec.yaml.
	Name string
	// Version from pubspec.yaml or fallback.
	Version string
	// LocaleDir is the directory containing per-locale .dart files.
	LocaleDir string
	// SourceDirs are directories to scan for translatable source files.
	SourceDirs []string
	// Locales detected from existing locale files.
	Locales []string
	// BaseLocale is the authoritative source locale (default "en").
	BaseLocale string
}

// candidate locale directories, checked in order.
var localeDirCandidates = []string{
	filepath.Join("lib", "translations"),
	filepath.Join("lib", "locales"),
	filepath.Join("lib", "i18n"),
	filepath.Join("lib", "lang"),
	filepath.Join("assets", "translations"),
}

// Detect auto-detects project settings from the working directory.
func Detect(rootDir string) *Project {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}

	p := &Project{
		LocaleDir:  filepath.Join(absRoot, "lib", "translations"),
		BaseLocale: langmeta.BaseLanguage,
	}

	// Try pubspec.yaml for name/version.
	if name, version, err := parsePubspec(filepath.Join(absRoot, "pubspec.yaml")); err == nil {
		p.Name = name
		p.Version = version
	}

	// Fallback to directory name.
	if p.Name == "" {
		p.Name = filepath.Base(absRoot)
	}
	if p.Version == "" {
		p.Version = "0.0.0"
	}

	// Locale directory: first candidate that holds locale-named .dart files.
	for _, candidate := range localeDirCandidates {
		dir := filepath.Join(absRoot, candidate)
		if files, err := extract.FindLocaleFiles(dir); err == nil && len(files) > 0 {
			p.LocaleDir = dir
			break
		}
	}

	// Source directories to scan for keys.
	for _, candidate := range []string{"lib", "bin", "test"} {
		dir := filepath.Join(absRoot, candidate)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			p.SourceDirs = append(p.SourceDirs, dir)
		}
	}

	p.Locales = detectLocales(p.LocaleDir)

	return p
}

// detectLocales lists locale codes from existing locale files, sorted.
func detectLocales(dir string) []string {
	files, err := extract.FindLocaleFiles(dir)
	if err != nil {
		return nil
	}
	var locales []string
	for _, file := range files {
		if loc, ok := langmeta.FromFileName(file); ok {
			locales = append(locales, loc.Code)
		}
	}
	sort.Strings(locales)
	return locales
}

// LocalePath returns the locale store path for a locale code.
func (p *Project) LocalePath(code string) string {
	return filepath.Join(p.LocaleDir, code+".dart")
}

// ---------------------------------------------------------------------------
// pubspec.yaml parser
// ---------------------------------------------------------------------------

var pubspecFieldRE = regexp.MustCompile(`^(name|version):\s*(\S+)`)

// parsePubspec extracts the package name and version from pubspec.yaml.
// A line scan is enough; both fields are top-level scalars.
func parsePubspec(path string) (name, version string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}
		m := pubspecFieldRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := strings.Trim(m[2], `"'`)
		switch m[1] {
		case "name":
			name = value
		case "version":
			// pubspec versions carry a build suffix: 1.2.3+4
			version, _, _ = strings.Cut(value, "+")
		}
	}
	return name, version, scanner.Err()
}
