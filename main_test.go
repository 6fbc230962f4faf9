package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		width   int
		want    string
	}{
		{
			name:    "clamps below zero",
			percent: -10,
			width:   4,
			want:    colorRed + "░░░░" + colorReset + "   0%",
		},
		{
			name:    "mid range uses yellow",
			percent: 50,
			width:   4,
			want:    colorYellow + "██░░" + colorReset + "  50%",
		},
		{
			name:    "clamps above hundred",
			percent: 120,
			width:   4,
			want:    colorGreen + "████" + colorReset + " 100%",
		},
	}

	for _, tc := range tests {
		if got := progressBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("%s: progressBar() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFlagFromRegion(t *testing.T) {
	if got := flagFromRegion("us"); got != "🇺🇸" {
		t.Fatalf("flagFromRegion(us) = %q, want %q", got, "🇺🇸")
	}
	if got := flagFromRegion("USA"); got != "" {
		t.Fatalf("flagFromRegion(USA) = %q, want empty", got)
	}
	if got := flagFromRegion("1A"); got != "" {
		t.Fatalf("flagFromRegion(1A) = %q, want empty", got)
	}
}

func TestLangHelpers(t *testing.T) {
	if got := langFlag("pt_BR"); got != "🇧🇷" {
		t.Fatalf("langFlag(pt_BR) = %q, want %q", got, "🇧🇷")
	}
	if got := langFlag("ru"); got != "" {
		t.Fatalf("langFlag(ru) = %q, want empty (no region)", got)
	}
	if got := langFlag("invalid"); got != "" {
		t.Fatalf("langFlag(invalid) = %q, want empty", got)
	}

	codes := []string{"en", "pt_BR", "ru"}
	if got := langColumnWidth(codes); got != len("pt_BR") {
		t.Fatalf("langColumnWidth() = %d, want %d", got, len("pt_BR"))
	}

	cell := langCell("pt_BR", 6)
	if !strings.Contains(cell, "🇧🇷") || !strings.Contains(cell, "pt_BR") {
		t.Fatalf("langCell() = %q, want flag and locale code", cell)
	}
}

func TestFilterLocaleFiles(t *testing.T) {
	files := []string{
		"lib/translations/en.dart",
		"lib/translations/fr.dart",
		"lib/translations/pt_BR.dart",
		"lib/translations/ru.dart",
	}

	t.Run("empty filter keeps everything", func(t *testing.T) {
		if got := filterLocaleFiles(files, "", "en"); !reflect.DeepEqual(got, files) {
			t.Fatalf("filterLocaleFiles() = %#v", got)
		}
	})

	t.Run("base locale survives the filter", func(t *testing.T) {
		got := filterLocaleFiles(files, " fr , it", "en")
		want := []string{"lib/translations/en.dart", "lib/translations/fr.dart"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("filterLocaleFiles() = %#v, want %#v", got, want)
		}
	})

	t.Run("language code matches regioned locale", func(t *testing.T) {
		got := filterLocaleFiles(files, "pt", "en")
		want := []string{"lib/translations/en.dart", "lib/translations/pt_BR.dart"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("filterLocaleFiles() = %#v, want %#v", got, want)
		}
	})
}

func TestFirstPositive(t *testing.T) {
	if got := firstPositive(0, 0, 5, 3); got != 5 {
		t.Fatalf("firstPositive() = %d, want 5", got)
	}
	if got := firstPositive(0, 0); got != 0 {
		t.Fatalf("firstPositive(all zero) = %d, want 0", got)
	}
	if got := firstPositiveDuration(0, 2*time.Second); got != 2*time.Second {
		t.Fatalf("firstPositiveDuration() = %v, want 2s", got)
	}
}

func TestKnownProvider(t *testing.T) {
	for _, id := range []string{"openai", "groq", "ollama"} {
		if !knownProvider(id) {
			t.Fatalf("knownProvider(%q) = false, want true", id)
		}
	}
	if knownProvider("copilot") {
		t.Fatal("knownProvider(copilot) = true, want false")
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(filePath, []byte("ok"), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}

	if !fileExists(filePath) {
		t.Fatalf("fileExists(file) = false, want true")
	}
	if fileExists(dir) {
		t.Fatalf("fileExists(directory) = true, want false")
	}
	if fileExists(filepath.Join(dir, "missing.txt")) {
		t.Fatalf("fileExists(missing) = true, want false")
	}
}
