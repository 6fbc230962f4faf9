package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataDirAndFilePathUseXDGDataHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	wantDir := filepath.Join(tmp, "trkit")
	if dir != wantDir {
		t.Fatalf("DataDir() = %q, want %q", dir, wantDir)
	}

	wantPath := filepath.Join(tmp, "trkit", "auth.json")
	if got := FilePath(); got != wantPath {
		t.Fatalf("FilePath() = %q, want %q", got, wantPath)
	}
}

func TestSaveLoadRemoveLifecycle(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store := Store{
		"openai": {Type: "api", Key: "apikey123456"},
		"ollama": {Type: "api", BaseURL: "http://gpu-box:11434/v1"},
	}

	if err := Save(store); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	path := filepath.Join(tmp, "trkit", "auth.json")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat auth.json: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("auth.json mode = %o, want 600", info.Mode().Perm())
	}

	loaded := Load()
	if loaded["openai"] == nil || loaded["openai"].Key != "apikey123456" {
		t.Fatalf("Load() missing openai key: %#v", loaded["openai"])
	}
	if got := GetBaseURL("ollama"); got != "http://gpu-box:11434/v1" {
		t.Fatalf("GetBaseURL(ollama) = %q", got)
	}

	if err := Remove("openai"); err != nil {
		t.Fatalf("Remove(openai) error: %v", err)
	}
	if got := GetAPIKey("openai"); got != "" {
		t.Fatalf("GetAPIKey after remove = %q, want empty", got)
	}
	if Get("ollama") == nil {
		t.Fatalf("ollama entry should remain after removing openai")
	}

	if err := Remove("missing-provider"); err != nil {
		t.Fatalf("Remove(missing) should be no-op, got: %v", err)
	}

	if err := RemoveAll(); err != nil {
		t.Fatalf("RemoveAll() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("auth.json should be removed, stat err=%v", err)
	}
	if got := Load(); len(got) != 0 {
		t.Fatalf("Load() after RemoveAll should be empty, got=%#v", got)
	}
}

func TestLoadToleratesCorruptFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir := filepath.Join(tmp, "trkit")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "auth.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if got := Load(); len(got) != 0 {
		t.Fatalf("Load() on corrupt file = %#v, want empty store", got)
	}
}

func TestResolveAPIKeyPriority(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)
	t.Setenv(EnvKey, "")

	if err := SetAPIKey("groq", "stored-key"); err != nil {
		t.Fatalf("SetAPIKey() error: %v", err)
	}

	t.Setenv("GROQ_API_KEY", "env-key")

	if got := ResolveAPIKey("groq", "flag-key"); got != "flag-key" {
		t.Fatalf("flag should win, got %q", got)
	}
	if got := ResolveAPIKey("groq", ""); got != "env-key" {
		t.Fatalf("provider env should win over store, got %q", got)
	}

	t.Setenv(EnvKey, "generic-key")
	if got := ResolveAPIKey("groq", ""); got != "generic-key" {
		t.Fatalf("TRKIT_API_KEY should win over provider env, got %q", got)
	}

	t.Setenv(EnvKey, "")
	t.Setenv("GROQ_API_KEY", "")
	if got := ResolveAPIKey("groq", ""); got != "stored-key" {
		t.Fatalf("stored key expected, got %q", got)
	}
}

func TestEnvVarForProviderAndMaskKey(t *testing.T) {
	cases := map[string]string{
		"openai":  "OPENAI_API_KEY",
		"groq":    "GROQ_API_KEY",
		"ollama":  "",
		"unknown": "",
	}
	for provider, want := range cases {
		if got := EnvVarForProvider(provider); got != want {
			t.Fatalf("EnvVarForProvider(%q) = %q, want %q", provider, got, want)
		}
	}

	if got := MaskKey("short"); got != "****" {
		t.Fatalf("MaskKey(short) = %q, want ****", got)
	}
	if got := MaskKey("12345678"); got != "****" {
		t.Fatalf("MaskKey(8 chars) = %q, want ****", got)
	}
	if got := MaskKey("123456789"); got != "1234...6789" {
		t.Fatalf("MaskKey(9 chars) = %q, want 1234...6789", got)
	}
}
