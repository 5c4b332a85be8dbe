package services

import (
	"time"

	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/manager"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
)

// KVService exposes the shared key-value cache to API clients.
type KVService struct {
	cache  *manager.Manager
	logger *logging.ChanneledLogger
}

// NewKVService creates the service.
func NewKVService(cache *manager.Manager, logger *logging.ChanneledLogger) *KVService {
	return &KVService{cache: cache, logger: logger}
}

// Set stores a value under a key. Zero or negative TTL seconds use the
// configured default.
func (s *KVService) Set(key string, value any, ttlSeconds int) {
	ttl := time.Duration(ttlSeconds) * time.Second
	s.cache.SetKV(key, value, ttl)
	s.logger.Cache().Debug("KV entry stored", "key", key, "ttlSeconds", ttlSeconds)
}

// Get returns the value for a key, or found=false when missing or expired.
func (s *KVService) Get(key string) (any, bool) {
	value, found := s.cache.GetKV(key)
	s.logger.Cache().Debug("KV entry read", "key", key, "found", found)
	return value, found
}

// Delete removes a key.
func (s *KVService) Delete(key string) {
	s.cache.DeleteKV(key)
	s.logger.Cache().Debug("KV entry deleted", "key", key)
}
