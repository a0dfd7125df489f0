package speech

import (
	"fmt"
	"sync"
)

// Provider hands out a lazily constructed engine singleton. Construction is
// expensive (model load, binary resolution) so it happens on first use, not
// at startup. Double-checked locking keeps the steady-state path on a read
// lock. A failed construction is returned to the caller but not cached: the
// next caller retries.
type Provider struct {
	mu     sync.RWMutex
	engine Engine
	build  func() (Engine, error)
}

// NewProvider creates a provider around an engine constructor.
func NewProvider(build func() (Engine, error)) *Provider {
	return &Provider{build: build}
}

// Get returns the cached engine, constructing it on first use.
func (p *Provider) Get() (Engine, error) {
	p.mu.RLock()
	engine := p.engine
	p.mu.RUnlock()
	if engine != nil {
		return engine, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller may have finished construction while we waited.
	if p.engine != nil {
		return p.engine, nil
	}

	engine, err := p.build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tts engine: %w", err)
	}
	p.engine = engine
	return engine, nil
}
