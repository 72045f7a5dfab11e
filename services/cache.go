package services

import "github.com/americanbox/americanbox-api/cache"

var cacheInstance cache.Store

// SetCache installs the cache store used by settings lookups. nil disables caching.
func SetCache(store cache.Store) {
	cacheInstance = store
}

// GetCache returns the installed cache store, possibly nil.
func GetCache() cache.Store {
	return cacheInstance
}
