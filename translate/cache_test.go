package translate

import (
	"context"
	"testing"
)

func TestCache_GetPut(t *testing.T) {
	c := NewCache()

	if _, ok := c.Get("hello", "fr"); ok {
		t.Error("empty cache should miss")
	}

	c.Put("hello", "fr", "bonjour")
	got, ok := c.Get("hello", "fr")
	if !ok || got != "bonjour" {
		t.Errorf("got %q, %v", got, ok)
	}

	// Same text, different locale is a distinct entry.
	if _, ok := c.Get("hello", "de"); ok {
		t.Error("locale must be part of the key")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("hits=%d misses=%d", hits, misses)
	}
}

func TestCache_AvoidsRepeatCalls(t *testing.T) {
	prov := &fakeProvider{name: "a", available: true, result: "bonjour"}
	c := NewCache()

	translateCached := func(text, locale, langName string) (string, error) {
		if v, ok := c.Get(text, locale); ok {
			return v, nil
		}
		out, err := prov.Translate(context.Background(), text, langName)
		if err != nil {
			return "", err
		}
		c.Put(text, locale, out)
		return out, nil
	}

	for i := 0; i < 2; i++ {
		out, err := translateCached("hello", "fr", "French")
		if err != nil {
			t.Fatal(err)
		}
		if out != "bonjour" {
			t.Errorf("got %q", out)
		}
	}

	if prov.calls != 1 {
		t.Errorf("underlying calls = %d, want 1", prov.calls)
	}
}
