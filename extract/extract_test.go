package extract

import (
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

func TestKeys_DedupAndOrder(t *testing.T) {
	got := Keys(`"a".tr + 'b'.tr + "a".tr`)
	want := []string{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestKeys_QuoteStyles(t *testing.T) {
	src := `
		Text('login_title'.tr),
		Text("login_subtitle".tr),
		ElevatedButton(child: Text('sign_in'.tr)),
	`
	got := Keys(src)
	want := []string{"login_title", "login_subtitle", "sign_in"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKeys_Empty(t *testing.T) {
	if got := Keys(""); len(got) != 0 {
		t.Errorf("empty input: got %v", got)
	}
	if got := Keys(`Text("no translation here")`); len(got) != 0 {
		t.Errorf("no .tr suffix: got %v", got)
	}
}

func TestKeys_NotImmediatelyFollowed(t *testing.T) {
	// .tr must directly follow the closing quote.
	if got := Keys(`"title" .tr`); len(got) != 0 {
		t.Errorf("space before .tr should not match: got %v", got)
	}
}

func TestKeys_TrPrefixMethods(t *testing.T) {
	// .trim() and similar must not count as .tr usage.
	if got := Keys(`"  padded  ".trim()`); len(got) != 0 {
		t.Errorf(".trim() should not match: got %v", got)
	}
}

// ---------------------------------------------------------------------------
// File discovery
// ---------------------------------------------------------------------------

func TestKeysFromFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	a := write("a.dart", `Text("shared".tr); Text("only_a".tr);`)
	b := write("b.dart", `Text("shared".tr); Text("only_b".tr);`)

	got := KeysFromFiles([]string{a, b}, nil)
	want := []string{"shared", "only_a", "only_b"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindSources_SkipsPlatformDirs(t *testing.T) {
	root := t.TempDir()
	mk := func(rel string) {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("// dart"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	mk("lib/main.dart")
	mk("lib/pages/home.dart")
	mk("build/generated.dart")
	mk("ios/ignored.dart")
	mk("lib/notes.txt")

	files, err := FindSources([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files: %v", len(files), files)
	}
}

func TestFindLocaleFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"en.dart", "pt_BR.dart", "fr.dart", "translations.dart", "en_us.dart", "readme.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := FindLocaleFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("got %v", files)
	}
	// Sorted: en.dart, fr.dart, pt_BR.dart
	if filepath.Base(files[0]) != "en.dart" || filepath.Base(files[1]) != "fr.dart" || filepath.Base(files[2]) != "pt_BR.dart" {
		t.Errorf("got %v", files)
	}
}
