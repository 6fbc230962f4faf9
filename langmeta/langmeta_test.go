package langmeta

import (
	"testing"
	"unicode"
)

// ---------------------------------------------------------------------------
// Parse / FromFileName
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	tests := []struct {
		code   string
		ok     bool
		lang   string
		region string
	}{
		{"en", true, "en", ""},
		{"pt_BR", true, "pt", "BR"},
		{"zh_CN", true, "zh", "CN"},
		{"EN", false, "", ""},
		{"pt-BR", false, "", ""},
		{"pt_br", false, "", ""},
		{"eng", false, "", ""},
		{"", false, "", ""},
	}
	for _, tt := range tests {
		loc, ok := Parse(tt.code)
		if ok != tt.ok {
			t.Errorf("Parse(%q) ok = %v, want %v", tt.code, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if loc.Lang != tt.lang || loc.Region != tt.region {
			t.Errorf("Parse(%q) = %+v, want lang %q region %q", tt.code, loc, tt.lang, tt.region)
		}
	}
}

func TestFromFileName(t *testing.T) {
	loc, ok := FromFileName("lib/translations/pt_BR.dart")
	if !ok {
		t.Fatal("expected pt_BR.dart to parse")
	}
	if loc.Lang != "pt" || loc.Region != "BR" {
		t.Errorf("got %+v", loc)
	}

	if _, ok := FromFileName("strings.dart"); ok {
		t.Error("strings.dart should not parse as locale")
	}
	if _, ok := FromFileName("translations.dart"); ok {
		t.Error("translations.dart should not parse as locale")
	}
}

func TestIsBase(t *testing.T) {
	for _, code := range []string{"en", "en_US", "en_GB"} {
		loc, _ := Parse(code)
		if !loc.IsBase() {
			t.Errorf("%s should be base", code)
		}
	}
	loc, _ := Parse("fr")
	if loc.IsBase() {
		t.Error("fr should not be base")
	}
}

// ---------------------------------------------------------------------------
// Display names
// ---------------------------------------------------------------------------

func TestEnglishName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"fr", "French"},
		{"de", "German"},
		{"ja", "Japanese"},
		{"pt_BR", "Brazilian Portuguese"},
	}
	for _, tt := range tests {
		if got := EnglishName(tt.code); got != tt.want {
			t.Errorf("EnglishName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestNativeName(t *testing.T) {
	if got := NativeName("ru"); got != "Русский" {
		t.Errorf("NativeName(ru) = %q", got)
	}
	if got := NativeName("ja"); got != "日本語" {
		t.Errorf("NativeName(ja) = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Script validation
// ---------------------------------------------------------------------------

func TestValidatorRequiredScripts(t *testing.T) {
	var v Validator

	tests := []struct {
		code string
		text string
		want bool
	}{
		{"ar", "مرحبا", true},
		{"ar", "hello", false},
		{"ur", "سلام", true},
		{"ur", "salaam", false},
		{"zh", "你好", true},
		{"zh", "ni hao", false},
		{"ja", "こんにちは", true},
		{"ko", "안녕하세요", true},
		{"ko", "annyeong", false},
		{"ru", "привет", true},
		{"ru", "privet", false},
	}
	for _, tt := range tests {
		if got := v.Valid(tt.code, tt.text); got != tt.want {
			t.Errorf("Valid(%q, %q) = %v, want %v", tt.code, tt.text, got, tt.want)
		}
	}
}

func TestValidatorLatinLeakage(t *testing.T) {
	var v Validator

	if !v.Valid("fr", "Bonjour") {
		t.Error("plain Latin output should be valid for fr")
	}
	if v.Valid("fr", "مرحبا") {
		t.Error("Arabic output should be invalid for fr")
	}
	if v.Valid("de", "你好") {
		t.Error("CJK output should be invalid for de")
	}
}

func TestValidatorBaseAlwaysValid(t *testing.T) {
	var v Validator
	if !v.Valid("en", "مرحبا") {
		t.Error("base locale output is never rejected")
	}
}

func TestValidatorOverride(t *testing.T) {
	var v Validator

	// Disable validation for Arabic.
	v.SetRule("ar", ScriptRule{})
	if !v.Valid("ar", "hello") {
		t.Error("override with empty rule should disable validation")
	}

	// Require Greek for a language with no default rule.
	v.SetRule("fr", ScriptRule{Scripts: []*unicode.RangeTable{unicode.Greek}})
	if v.Valid("fr", "Bonjour") {
		t.Error("override should require Greek script")
	}
	if !v.Valid("fr", "Γεια") {
		t.Error("Greek text should satisfy the override")
	}
}
