package providers

import (
	"sync"

	"github.com/custodia-labs/integra-core/internal/core/domain"
	"github.com/custodia-labs/integra-core/internal/core/ports/driven"
)

// Registry holds the OAuth client and resource fetcher for each
// registered provider. Registration happens once at startup.
type Registry struct {
	mu       sync.RWMutex
	clients  map[domain.ProviderType]driven.OAuthClient
	fetchers map[domain.ProviderType]driven.ResourceFetcher
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		clients:  make(map[domain.ProviderType]driven.OAuthClient),
		fetchers: make(map[domain.ProviderType]driven.ResourceFetcher),
	}
}

// Register registers a provider's OAuth client and resource fetcher.
func (r *Registry) Register(providerType domain.ProviderType, client driven.OAuthClient, fetcher driven.ResourceFetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[providerType] = client
	r.fetchers[providerType] = fetcher
}

// OAuthClient returns the OAuth client for a provider type.
func (r *Registry) OAuthClient(providerType domain.ProviderType) (driven.OAuthClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[providerType]
	if !ok {
		return nil, domain.ErrProviderNotFound
	}
	return client, nil
}

// Fetcher returns the resource fetcher for a provider type.
func (r *Registry) Fetcher(providerType domain.ProviderType) (driven.ResourceFetcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fetcher, ok := r.fetchers[providerType]
	if !ok {
		return nil, domain.ErrProviderNotFound
	}
	return fetcher, nil
}

// SupportedTypes returns all registered provider types.
func (r *Registry) SupportedTypes() []domain.ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]domain.ProviderType, 0, len(r.clients))
	for t := range r.clients {
		types = append(types, t)
	}
	return types
}
