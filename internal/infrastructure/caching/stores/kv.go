package stores

import (
	"sync"
	"time"

	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/caching/types"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
)

// KVStore implements the remote key-value cache behind the cache-data
// endpoints. Expiry is enforced on read and by the cleanup worker.
type KVStore struct {
	entries map[string]*types.KVEntry
	mu      sync.RWMutex
	logger  *logging.ChanneledLogger

	defaultTTL time.Duration
}

// NewKVStore creates a new key-value cache store
func NewKVStore(defaultTTL time.Duration, logger *logging.ChanneledLogger) *KVStore {
	if logger != nil {
		logger.Cache().Info("Initializing key-value cache store", "defaultTTL", defaultTTL)
	}
	return &KVStore{
		entries:    make(map[string]*types.KVEntry),
		logger:     logger,
		defaultTTL: defaultTTL,
	}
}

// Set stores a value under key. A zero ttl falls back to the store default.
func (kv *KVStore) Set(key string, value any, ttl time.Duration) {
	start := time.Now()
	if ttl <= 0 {
		ttl = kv.defaultTTL
	}

	kv.mu.Lock()
	kv.entries[key] = &types.KVEntry{
		Value:     value,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	kv.mu.Unlock()

	if kv.logger != nil {
		kv.logger.Cache().Debug("Cache operation", "operation", "set", "key", key, "ttl", ttl, "duration", time.Since(start))
	}
}

// Get returns the value for key, or false on miss or expiry.
func (kv *KVStore) Get(key string) (any, bool) {
	start := time.Now()
	now := time.Now().UTC()

	kv.mu.RLock()
	entry, exists := kv.entries[key]
	kv.mu.RUnlock()

	if !exists {
		if kv.logger != nil {
			kv.logger.Cache().Debug("Cache operation", "operation", "get", "key", key, "hit", false, "duration", time.Since(start))
		}
		return nil, false
	}

	if entry.Expired(now) {
		kv.mu.Lock()
		// Re-check under the write lock; another goroutine may have replaced it.
		if current, ok := kv.entries[key]; ok && current.Expired(now) {
			delete(kv.entries, key)
		}
		kv.mu.Unlock()

		if kv.logger != nil {
			kv.logger.Cache().Debug("Cache operation", "operation", "get", "key", key, "hit", false, "reason", "expired", "duration", time.Since(start))
		}
		return nil, false
	}

	if kv.logger != nil {
		kv.logger.Cache().Debug("Cache operation", "operation", "get", "key", key, "hit", true, "duration", time.Since(start))
	}
	return entry.Value, true
}

// Delete removes a key.
func (kv *KVStore) Delete(key string) {
	kv.mu.Lock()
	delete(kv.entries, key)
	kv.mu.Unlock()
}

// PurgeExpired removes all expired entries and returns how many were removed.
func (kv *KVStore) PurgeExpired() int {
	now := time.Now().UTC()

	kv.mu.Lock()
	defer kv.mu.Unlock()

	purged := 0
	for key, entry := range kv.entries {
		if entry.Expired(now) {
			delete(kv.entries, key)
			purged++
		}
	}
	return purged
}

// Len returns the number of live entries, including not-yet-purged expired ones.
func (kv *KVStore) Len() int {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	return len(kv.entries)
}
