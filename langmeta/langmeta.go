// Package langmeta provides locale identifier parsing, language display
// metadata, and per-language script expectations used to sanity-check
// machine translations.
package langmeta

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// BaseLanguage is the authoritative source/fallback language.
const BaseLanguage = "en"

// ---------------------------------------------------------------------------
// Locale identifiers
// ---------------------------------------------------------------------------

// Locale is a parsed locale identifier: a bare two-letter language code
// ("en") or a language_REGION pair ("pt_BR").
type Locale struct {
	// Code is the full identifier as written (e.g. "pt_BR").
	Code string
	// Lang is the lowercase two-letter language code (e.g. "pt").
	Lang string
	// Region is the uppercase two-letter region code, or "" (e.g. "BR").
	Region string
}

var localeRE = regexp.MustCompile(`^([a-z]{2})(?:_([A-Z]{2}))?$`)

// Parse parses a locale identifier token. Returns false if the token does
// not match the language or language_REGION shape.
func Parse(code string) (Locale, bool) {
	m := localeRE.FindStringSubmatch(code)
	if m == nil {
		return Locale{}, false
	}
	return Locale{Code: code, Lang: m[1], Region: m[2]}, true
}

// FromFileName derives a locale from a file name like "pt_BR.dart".
// Returns false if the stem is not a valid locale identifier.
func FromFileName(name string) (Locale, bool) {
	stem := name
	if idx := strings.LastIndexByte(stem, '/'); idx >= 0 {
		stem = stem[idx+1:]
	}
	if idx := strings.IndexByte(stem, '.'); idx >= 0 {
		stem = stem[:idx]
	}
	return Parse(stem)
}

// IsBase reports whether this locale maps to the base language.
// Both "en" and regional variants like "en_US" qualify.
func (l Locale) IsBase() bool {
	return l.Lang == BaseLanguage
}

// ---------------------------------------------------------------------------
// Display names
// ---------------------------------------------------------------------------

// nativeNames holds native-script display names for the languages the tool
// is most commonly used with. Languages not listed here fall back to the
// x/text English display name.
var nativeNames = map[string]string{
	"ar": "العربية",
	"de": "Deutsch",
	"en": "English",
	"es": "Español",
	"fa": "فارسی",
	"fr": "Français",
	"he": "עברית",
	"hi": "हिन्दी",
	"id": "Bahasa Indonesia",
	"it": "Italiano",
	"ja": "日本語",
	"ko": "한국어",
	"nl": "Nederlands",
	"pl": "Polski",
	"pt": "Português",
	"ru": "Русский",
	"th": "ไทย",
	"tr": "Türkçe",
	"uk": "Українська",
	"ur": "اردو",
	"vi": "Tiếng Việt",
	"zh": "中文",
}

// EnglishName returns the English display name of a locale's language
// (e.g. "Portuguese" for "pt_BR"). This is the name handed to translation
// providers as the target language. Unknown codes are returned as-is.
func EnglishName(code string) string {
	loc, ok := Parse(code)
	if !ok {
		return code
	}
	tag, err := language.Parse(strings.Replace(loc.Code, "_", "-", 1))
	if err != nil {
		tag, err = language.Parse(loc.Lang)
		if err != nil {
			return code
		}
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return name
}

// NativeName returns the language's name in its own script, falling back
// to the English name.
func NativeName(code string) string {
	loc, ok := Parse(code)
	if ok {
		if name, found := nativeNames[loc.Lang]; found {
			return name
		}
	}
	return EnglishName(code)
}

// ---------------------------------------------------------------------------
// Script validation
// ---------------------------------------------------------------------------

// ScriptRule describes the script expectation for one language: a valid
// translation must contain at least one rune from one of Scripts.
type ScriptRule struct {
	Scripts []*unicode.RangeTable
}

// defaultRules maps language codes to required scripts. Languages without
// an entry are treated as Latin-script: translated output must not contain
// Arabic or CJK runes (a sign the backend answered in the wrong language).
var defaultRules = map[string]ScriptRule{
	"ar": {Scripts: []*unicode.RangeTable{unicode.Arabic}},
	"fa": {Scripts: []*unicode.RangeTable{unicode.Arabic}},
	"ur": {Scripts: []*unicode.RangeTable{unicode.Arabic}},
	"ps": {Scripts: []*unicode.RangeTable{unicode.Arabic}},
	"zh": {Scripts: []*unicode.RangeTable{unicode.Han}},
	"ja": {Scripts: []*unicode.RangeTable{unicode.Han, unicode.Hiragana, unicode.Katakana}},
	"ko": {Scripts: []*unicode.RangeTable{unicode.Hangul}},
	"ru": {Scripts: []*unicode.RangeTable{unicode.Cyrillic}},
	"uk": {Scripts: []*unicode.RangeTable{unicode.Cyrillic}},
	"be": {Scripts: []*unicode.RangeTable{unicode.Cyrillic}},
	"bg": {Scripts: []*unicode.RangeTable{unicode.Cyrillic}},
	"sr": {Scripts: []*unicode.RangeTable{unicode.Cyrillic}},
	"mk": {Scripts: []*unicode.RangeTable{unicode.Cyrillic}},
	"kk": {Scripts: []*unicode.RangeTable{unicode.Cyrillic}},
	"el": {Scripts: []*unicode.RangeTable{unicode.Greek}},
	"he": {Scripts: []*unicode.RangeTable{unicode.Hebrew}},
	"hi": {Scripts: []*unicode.RangeTable{unicode.Devanagari}},
	"mr": {Scripts: []*unicode.RangeTable{unicode.Devanagari}},
	"ne": {Scripts: []*unicode.RangeTable{unicode.Devanagari}},
	"th": {Scripts: []*unicode.RangeTable{unicode.Thai}},
	"ka": {Scripts: []*unicode.RangeTable{unicode.Georgian}},
	"hy": {Scripts: []*unicode.RangeTable{unicode.Armenian}},
	"am": {Scripts: []*unicode.RangeTable{unicode.Ethiopic}},
	"bn": {Scripts: []*unicode.RangeTable{unicode.Bengali}},
	"ta": {Scripts: []*unicode.RangeTable{unicode.Tamil}},
	"te": {Scripts: []*unicode.RangeTable{unicode.Telugu}},
}

// foreignScripts are the scripts checked for leakage into Latin-script output.
var foreignScripts = []*unicode.RangeTable{
	unicode.Arabic,
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
}

// Validator checks translated output against per-language script rules.
// The zero value uses the built-in rule table; individual locales can be
// overridden with SetRule.
type Validator struct {
	overrides map[string]ScriptRule
}

// SetRule overrides the script rule for a language code. An empty rule
// (no scripts) disables validation for that language entirely.
func (v *Validator) SetRule(lang string, rule ScriptRule) {
	if v.overrides == nil {
		v.overrides = make(map[string]ScriptRule)
	}
	v.overrides[strings.ToLower(lang)] = rule
}

// rule returns the effective rule for a language and whether one exists.
func (v *Validator) rule(lang string) (ScriptRule, bool) {
	if v.overrides != nil {
		if r, ok := v.overrides[lang]; ok {
			return r, true
		}
	}
	r, ok := defaultRules[lang]
	return r, ok
}

// Valid reports whether text looks like plausible output for the given
// locale code. The check is script-based only; it says nothing about
// linguistic correctness.
func (v *Validator) Valid(code, text string) bool {
	loc, ok := Parse(code)
	if !ok {
		return true
	}
	if loc.IsBase() {
		return true
	}

	rule, found := v.rule(loc.Lang)
	if found {
		if len(rule.Scripts) == 0 {
			return true // validation disabled for this language
		}
		return containsScript(text, rule.Scripts)
	}

	// Latin-script language: reject output that contains a foreign script.
	return !containsScript(text, foreignScripts)
}

func containsScript(text string, scripts []*unicode.RangeTable) bool {
	for _, r := range text {
		for _, table := range scripts {
			if unicode.Is(table, r) {
				return true
			}
		}
	}
	return false
}
