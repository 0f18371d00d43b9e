package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"insect-guide-server/internal/domain"
)

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// insectService wraps the iNaturalist client with an in-memory TTL cache.
// Taxon data changes rarely, so repeated searches from the app are served
// locally instead of re-hitting the public API.
type insectService struct {
	client domain.INaturalistClient
	logger domain.Logger
	ttl    time.Duration

	cacheMu sync.RWMutex
	cache   map[string]cacheEntry
}

// NewInsectService creates a new insect search service
func NewInsectService(client domain.INaturalistClient, ttl time.Duration, logger domain.Logger) domain.InsectService {
	return &insectService{
		client: client,
		logger: logger,
		ttl:    ttl,
		cache:  make(map[string]cacheEntry),
	}
}

// SearchTaxa searches insect taxa, serving repeated queries from cache
func (s *insectService) SearchTaxa(ctx context.Context, query domain.ObservationQuery) (*domain.TaxonSearchResult, error) {
	key := fmt.Sprintf("taxa:%s:%s:%d:%d", query.Query, query.Locale, query.PerPage, query.Page)
	if cached, ok := s.cached(key); ok {
		return cached.(*domain.TaxonSearchResult), nil
	}

	result, err := s.client.SearchTaxa(ctx, query)
	if err != nil {
		return nil, err
	}

	s.store(key, result)
	return result, nil
}

// GetTaxon fetches one taxon's detail, serving repeated lookups from cache
func (s *insectService) GetTaxon(ctx context.Context, taxonID int, locale string) (*domain.Taxon, error) {
	key := fmt.Sprintf("taxon:%d:%s", taxonID, locale)
	if cached, ok := s.cached(key); ok {
		return cached.(*domain.Taxon), nil
	}

	taxon, err := s.client.GetTaxon(ctx, taxonID, locale)
	if err != nil {
		return nil, err
	}

	s.store(key, taxon)
	return taxon, nil
}

// NearbyTaxa returns taxa observed near a location
func (s *insectService) NearbyTaxa(ctx context.Context, query domain.NearbyQuery) (*domain.NearbySearchResult, error) {
	key := fmt.Sprintf("nearby:%f:%f:%d:%s:%d:%d",
		query.Latitude, query.Longitude, query.RadiusKm, query.Locale, query.PerPage, query.Page)
	if cached, ok := s.cached(key); ok {
		return cached.(*domain.NearbySearchResult), nil
	}

	result, err := s.client.SearchObservations(ctx, query)
	if err != nil {
		return nil, err
	}

	s.store(key, result)
	return result, nil
}

// CacheStats reports the current cache size and TTL
func (s *insectService) CacheStats() domain.CacheStats {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return domain.CacheStats{
		TotalItems: len(s.cache),
		TTLSeconds: int(s.ttl.Seconds()),
	}
}

// ClearCache drops every cached response
func (s *insectService) ClearCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache = make(map[string]cacheEntry)
}

func (s *insectService) cached(key string) (interface{}, bool) {
	s.cacheMu.RLock()
	entry, ok := s.cache[key]
	s.cacheMu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.cacheMu.Lock()
		delete(s.cache, key)
		s.cacheMu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (s *insectService) store(key string, value interface{}) {
	s.cacheMu.Lock()
	s.cache[key] = cacheEntry{value: value, expiresAt: time.Now().Add(s.ttl)}
	s.cacheMu.Unlock()
}
