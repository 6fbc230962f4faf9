package translate

import (
	"context"
	"errors"
	"testing"
)

// fakeProvider is a scriptable Provider for registry and failover tests.
type fakeProvider struct {
	name      string
	model     string
	available bool
	result    string
	err       error
	calls     int
}

func (f *fakeProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

func (f *fakeProvider) Available() bool { return f.available }
func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Model() string   { return f.model }

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func TestRegister_FirstBecomesCurrent(t *testing.T) {
	m := NewManager()
	m.Register("a", &fakeProvider{name: "a", available: true})
	m.Register("b", &fakeProvider{name: "b", available: true})

	if m.CurrentID() != "a" {
		t.Errorf("current = %q, want a", m.CurrentID())
	}
	ids := m.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("IDs = %v", ids)
	}
}

func TestUnregister_CurrentBecomesUnset(t *testing.T) {
	m := NewManager()
	m.Register("a", &fakeProvider{name: "a", available: true})
	m.Unregister("a")

	if m.CurrentID() != "" {
		t.Errorf("current = %q, want unset", m.CurrentID())
	}
	if _, err := m.Current(); !errors.Is(err, ErrNoProviderConfigured) {
		t.Errorf("Current() err = %v", err)
	}
}

func TestSetCurrent(t *testing.T) {
	m := NewManager()
	m.Register("a", &fakeProvider{name: "a", available: true})
	m.Register("b", &fakeProvider{name: "b", available: false})

	if err := m.SetCurrent("missing"); !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("missing id: %v", err)
	}
	if err := m.SetCurrent("b"); !errors.Is(err, ErrProviderNotAvailable) {
		t.Errorf("unavailable: %v", err)
	}
	if err := m.SetCurrent("a"); err != nil {
		t.Errorf("SetCurrent(a): %v", err)
	}
}

func TestSetCurrent_Persists(t *testing.T) {
	m := NewManager()
	m.Register("a", &fakeProvider{name: "a", available: true})
	m.Register("b", &fakeProvider{name: "b", available: true})

	var persisted string
	m.OnSwitch(func(id string) error {
		persisted = id
		return nil
	})

	if err := m.SetCurrent("b"); err != nil {
		t.Fatal(err)
	}
	if persisted != "b" {
		t.Errorf("persisted = %q", persisted)
	}
}

// ---------------------------------------------------------------------------
// Translate with failover
// ---------------------------------------------------------------------------

func TestTranslateFailover(t *testing.T) {
	failing := &fakeProvider{name: "a", available: true, err: errors.New("backend down")}
	working := &fakeProvider{name: "b", available: true, result: "Bonjour"}

	m := NewManager()
	m.Register("a", failing)
	m.Register("b", working)

	out, err := m.Translate(context.Background(), "Hello", "French")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Bonjour" {
		t.Errorf("got %q", out)
	}
	if m.CurrentID() != "b" {
		t.Errorf("current after failover = %q, want b", m.CurrentID())
	}
}

func TestTranslateFailover_SkipsUnavailable(t *testing.T) {
	failing := &fakeProvider{name: "a", available: true, err: errors.New("down")}
	unavailable := &fakeProvider{name: "b", available: false, result: "never"}
	working := &fakeProvider{name: "c", available: true, result: "Hallo"}

	m := NewManager()
	m.Register("a", failing)
	m.Register("b", unavailable)
	m.Register("c", working)

	out, err := m.Translate(context.Background(), "Hello", "German")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hallo" {
		t.Errorf("got %q", out)
	}
	if unavailable.calls != 0 {
		t.Error("unavailable provider must not be probed")
	}
}

func TestTranslate_AllFail(t *testing.T) {
	origErr := errors.New("quota exceeded")
	m := NewManager()
	m.Register("a", &fakeProvider{name: "a", available: true, err: origErr})
	m.Register("b", &fakeProvider{name: "b", available: true, err: errors.New("also down")})

	_, err := m.Translate(context.Background(), "Hello", "French")
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("expected ErrAllProvidersFailed, got %v", err)
	}
	if !errors.Is(err, origErr) {
		t.Error("original error must be re-raised")
	}
	if m.CurrentID() != "a" {
		t.Errorf("current must not change when all fail: %q", m.CurrentID())
	}
}

func TestTranslate_NoCurrent(t *testing.T) {
	m := NewManager()
	if _, err := m.Translate(context.Background(), "x", "French"); !errors.Is(err, ErrNoProviderConfigured) {
		t.Errorf("got %v", err)
	}
}
