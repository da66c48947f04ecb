package application

import (
	"sync"

	"github.com/AranL152/GeetCode/internal/domain/port/driven"
)

// HostProvider enables runtime hot-swap of the SourceHost. It holds a
// mutex-protected reference to the current driven.SourceHost, allowing
// sign-in, sign-out, and invalidation to take effect without restarting
// the application.
type HostProvider struct {
	mu   sync.RWMutex
	host driven.SourceHost
}

// NewHostProvider creates a new provider with the given initial host.
// host may be nil if no credential is available at startup.
func NewHostProvider(host driven.SourceHost) *HostProvider {
	return &HostProvider{host: host}
}

// Get returns the current host. Callers should check for nil if the provider
// was created without an initial credential.
func (p *HostProvider) Get() driven.SourceHost {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.host
}

// Replace swaps the current host. Pass nil on sign-out or invalidation; the
// next caller of Get() will receive the new value.
func (p *HostProvider) Replace(host driven.SourceHost) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.host = host
}

// HasHost returns true if a non-nil host is currently held.
func (p *HostProvider) HasHost() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.host != nil
}
