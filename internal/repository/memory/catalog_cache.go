package memory

import (
	"time"

	"bookease-be/internal/dto"

	"github.com/patrickmn/go-cache"
)

const activeServicesKey = "services:active"

// CatalogCache holds the public list of active services.
type CatalogCache struct {
	cache *cache.Cache
}

func NewCatalogCache(ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *CatalogCache) GetActive() ([]dto.ServiceResponse, bool) {
	if x, found := r.cache.Get(activeServicesKey); found {
		return x.([]dto.ServiceResponse), true
	}
	return nil, false
}

func (r *CatalogCache) SetActive(services []dto.ServiceResponse) {
	r.cache.Set(activeServicesKey, services, cache.DefaultExpiration)
}

// Invalidate drops the cached list after any catalog write.
func (r *CatalogCache) Invalidate() {
	r.cache.Delete(activeServicesKey)
}
