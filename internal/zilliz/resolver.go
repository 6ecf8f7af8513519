package zilliz

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// EndpointResolver maps a cluster id to the base URL of its data plane.
type EndpointResolver interface {
	Resolve(ctx context.Context, clusterID, regionID string) (string, error)
}

// EndpointStore caches resolved endpoints. Resolving a cluster id twice
// yields the same endpoint, so concurrent writers racing on the same key
// are harmless: last writer wins.
type EndpointStore interface {
	// Get returns the cached endpoint for the cluster, if present.
	Get(clusterID string) (string, bool)

	// Put records a resolved endpoint.
	Put(clusterID, endpoint string) error

	// All returns every cached entry, for cache refresh.
	All() map[string]string
}

// MemoryStore is the default in-process EndpointStore.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]string)}
}

// Get implements EndpointStore.
func (s *MemoryStore) Get(clusterID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ep, ok := s.m[clusterID]
	return ep, ok
}

// Put implements EndpointStore.
func (s *MemoryStore) Put(clusterID, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[clusterID] = endpoint
	return nil
}

// All implements EndpointStore.
func (s *MemoryStore) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out
}

// TemplateResolver fills a configured endpoint template containing
// {CLUSTER_ID} and {CLOUD_REGION} placeholders. It performs no I/O and
// needs no cache.
type TemplateResolver struct {
	Template string
}

// Resolve implements EndpointResolver.
func (t TemplateResolver) Resolve(_ context.Context, clusterID, regionID string) (string, error) {
	if clusterID == "" {
		return "", newAPIError(KindNotFound, "cluster id is required", 0, nil)
	}
	ep := strings.ReplaceAll(t.Template, "{CLUSTER_ID}", clusterID)
	ep = strings.ReplaceAll(ep, "{CLOUD_REGION}", regionID)
	if strings.Contains(ep, "{") {
		return "", newAPIError(KindNotFound,
			fmt.Sprintf("endpoint template has unfilled placeholders: %s", ep), 0, nil)
	}
	return ep, nil
}

// LookupFunc obtains a cluster's connect address from the control plane.
type LookupFunc func(ctx context.Context, clusterID string) (string, error)

// CachedResolver memoizes endpoint lookups in an EndpointStore. The store
// is injected so tests (and alternative deployments) can supply their own;
// failed lookups are never cached.
type CachedResolver struct {
	store  EndpointStore
	lookup LookupFunc
}

// NewCachedResolver creates a resolver backed by the given store and
// control-plane lookup. A nil store gets a fresh MemoryStore.
func NewCachedResolver(store EndpointStore, lookup LookupFunc) *CachedResolver {
	if store == nil {
		store = NewMemoryStore()
	}
	return &CachedResolver{store: store, lookup: lookup}
}

// Resolve implements EndpointResolver. On a cache miss it performs one
// control-plane lookup and caches the result for the life of the store.
func (r *CachedResolver) Resolve(ctx context.Context, clusterID, _ string) (string, error) {
	if clusterID == "" {
		return "", newAPIError(KindNotFound, "cluster id is required", 0, nil)
	}

	if ep, ok := r.store.Get(clusterID); ok {
		return ep, nil
	}

	ep, err := r.lookup(ctx, clusterID)
	if err != nil {
		return "", newAPIError(KindNotFound,
			fmt.Sprintf("resolving endpoint for cluster %s: %v", clusterID, err), 0, err)
	}
	if ep == "" {
		return "", newAPIError(KindNotFound,
			fmt.Sprintf("cluster %s has no connect address", clusterID), 0, nil)
	}

	if err := r.store.Put(clusterID, ep); err != nil {
		// Cache persistence is an optimisation; the resolved endpoint is
		// still valid.
		return ep, nil
	}
	return ep, nil
}

// Refresh re-resolves every cached cluster endpoint and overwrites stale
// entries. Used by the scheduled cache refresh job; errors are collected
// per cluster rather than aborting the sweep.
func (r *CachedResolver) Refresh(ctx context.Context) map[string]error {
	failures := make(map[string]error)
	for clusterID := range r.store.All() {
		ep, err := r.lookup(ctx, clusterID)
		if err != nil {
			failures[clusterID] = err
			continue
		}
		if ep == "" {
			continue
		}
		if err := r.store.Put(clusterID, ep); err != nil {
			failures[clusterID] = err
		}
	}
	return failures
}
