package services

import (
	"fmt"
	"sync"
	"time"

	"risk-management-api/config"
	"risk-management-api/models"
)

var (
	lookupCacheMu sync.RWMutex
	lookupCache   *lookupCacheEntry
	lookupTTL     = 5 * time.Minute
)

type lookupCacheEntry struct {
	categories   []models.RiskCategory
	sources      []models.RiskSource
	categoryByID map[int]models.RiskCategory
	sourceByID   map[int]models.RiskSource
	fetchedAt    time.Time
}

func loadLookups(force bool) (*lookupCacheEntry, error) {
	lookupCacheMu.RLock()
	cached := lookupCache
	lookupCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < lookupTTL {
		return cached, nil
	}

	lookupCacheMu.Lock()
	defer lookupCacheMu.Unlock()

	if lookupCache != nil && !force && time.Since(lookupCache.fetchedAt) < lookupTTL {
		return lookupCache, nil
	}

	var categories []models.RiskCategory
	if err := config.DB.Where("delete_at IS NULL").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load risk categories: %w", err)
	}

	var sources []models.RiskSource
	if err := config.DB.Where("delete_at IS NULL").Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to load risk sources: %w", err)
	}

	categoryByID := make(map[int]models.RiskCategory, len(categories))
	for _, category := range categories {
		categoryByID[category.CategoryID] = category
	}

	sourceByID := make(map[int]models.RiskSource, len(sources))
	for _, source := range sources {
		sourceByID[source.SourceID] = source
	}

	entry := &lookupCacheEntry{
		categories:   categories,
		sources:      sources,
		categoryByID: categoryByID,
		sourceByID:   sourceByID,
		fetchedAt:    time.Now(),
	}
	lookupCache = entry
	return entry, nil
}

// ClearLookupCache invalidates the in-memory lookup cache. Admin writes to
// categories or sources call this so readers never serve stale rows past
// the TTL boundary.
func ClearLookupCache() {
	lookupCacheMu.Lock()
	defer lookupCacheMu.Unlock()
	lookupCache = nil
}

// GetRiskCategories returns all non-deleted risk categories with caching.
func GetRiskCategories() ([]models.RiskCategory, error) {
	entry, err := loadLookups(false)
	if err != nil {
		return nil, err
	}
	return entry.categories, nil
}

// GetRiskSources returns all non-deleted risk sources with caching.
func GetRiskSources() ([]models.RiskSource, error) {
	entry, err := loadLookups(false)
	if err != nil {
		return nil, err
	}
	return entry.sources, nil
}

// GetRiskCategoryByID resolves a category, refreshing the cache once before
// giving up on an unknown id.
func GetRiskCategoryByID(id int) (*models.RiskCategory, error) {
	entry, err := loadLookups(false)
	if err != nil {
		return nil, err
	}

	if category, ok := entry.categoryByID[id]; ok {
		return &category, nil
	}

	entry, err = loadLookups(true)
	if err != nil {
		return nil, err
	}

	if category, ok := entry.categoryByID[id]; ok {
		return &category, nil
	}

	return nil, fmt.Errorf("risk category %d not found", id)
}

// GetRiskSourceByID resolves a source, refreshing the cache once before
// giving up on an unknown id.
func GetRiskSourceByID(id int) (*models.RiskSource, error) {
	entry, err := loadLookups(false)
	if err != nil {
		return nil, err
	}

	if source, ok := entry.sourceByID[id]; ok {
		return &source, nil
	}

	entry, err = loadLookups(true)
	if err != nil {
		return nil, err
	}

	if source, ok := entry.sourceByID[id]; ok {
		return &source, nil
	}

	return nil, fmt.Errorf("risk source %d not found", id)
}
