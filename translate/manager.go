package translate

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Manager owns the registry of translation providers and the "current
// provider" selection. Its Translate method adds failover: when the
// current provider fails, the remaining providers are probed in
// registration order and the first one that succeeds becomes current.
// Callers see a single translate operation and never need to know how
// many backends exist.
type Manager struct {
	mu        sync.Mutex
	order     []string
	providers map[string]Provider
	current   string

	// persist, when set, is called after the current provider changes
	// (explicitly or through failover) so the choice outlives the process.
	persist func(id string) error
}

// NewManager returns an empty provider registry.
func NewManager() *Manager {
	return &Manager{providers: make(map[string]Provider)}
}

// OnSwitch installs a hook invoked with the new current provider id
// whenever the selection changes. Persist failures from failover switches
// are ignored; SetCurrent reports them.
func (m *Manager) OnSwitch(fn func(id string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persist = fn
}

// Register adds a provider under id. The first registered provider
// becomes current. Re-registering an id replaces the instance without
// changing its position in the failover order.
func (m *Manager) Register(id string, p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.providers[id]; !exists {
		m.order = append(m.order, id)
	}
	m.providers[id] = p
	if m.current == "" {
		m.current = id
	}
}

// Unregister removes a provider. If it was current, no provider is
// current afterwards.
func (m *Manager) Unregister(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.providers[id]; !exists {
		return
	}
	delete(m.providers, id)
	if idx := slices.Index(m.order, id); idx >= 0 {
		m.order = slices.Delete(m.order, idx, idx+1)
	}
	if m.current == id {
		m.current = ""
	}
}

// Get returns the provider registered under id.
func (m *Manager) Get(id string) (Provider, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.providers[id]
	return p, ok
}

// IDs returns the registered provider ids in registration order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order)
}

// SetCurrent selects the provider registered under id and persists the
// choice. Fails if id is unknown or the provider is unavailable.
func (m *Manager) SetCurrent(id string) error {
	m.mu.Lock()
	p, ok := m.providers[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%q: %w", id, ErrProviderNotFound)
	}
	if !p.Available() {
		m.mu.Unlock()
		return fmt.Errorf("%q: %w", id, ErrProviderNotAvailable)
	}
	m.current = id
	persist := m.persist
	m.mu.Unlock()

	if persist != nil {
		if err := persist(id); err != nil {
			return fmt.Errorf("persisting provider choice: %w", err)
		}
	}
	return nil
}

// Current returns the current provider.
func (m *Manager) Current() (Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == "" {
		return nil, ErrNoProviderConfigured
	}
	return m.providers[m.current], nil
}

// CurrentID returns the current provider id, or "" if none is set.
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Translate delegates to the current provider. On failure it probes the
// remaining registered providers in registration order, skipping the one
// that failed and any that report unavailable; the first provider that
// succeeds becomes current. When every candidate fails, the original
// error is re-raised wrapped in ErrAllProvidersFailed.
//
// The failover trades a little latency (sequential probing) for
// resilience against a single backend's outage or quota exhaustion.
func (m *Manager) Translate(ctx context.Context, text, targetLang string) (string, error) {
	m.mu.Lock()
	currentID := m.current
	cur := m.providers[currentID]
	order := slices.Clone(m.order)
	m.mu.Unlock()

	if cur == nil {
		return "", ErrNoProviderConfigured
	}

	out, origErr := cur.Translate(ctx, text, targetLang)
	if origErr == nil {
		return out, nil
	}

	for _, id := range order {
		if id == currentID {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		p, ok := m.Get(id)
		if !ok || !p.Available() {
			continue
		}
		out, err := p.Translate(ctx, text, targetLang)
		if err != nil {
			continue
		}
		m.switchTo(id)
		return out, nil
	}

	return "", fmt.Errorf("%w: %w", ErrAllProvidersFailed, origErr)
}

// switchTo updates the current provider after a successful failover.
func (m *Manager) switchTo(id string) {
	m.mu.Lock()
	m.current = id
	persist := m.persist
	m.mu.Unlock()
	if persist != nil {
		_ = persist(id) // selection still holds for this process
	}
}
