package store

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"
)

// memoryHash is one stored hash with its expiration.
type memoryHash struct {
	fields     map[string]string
	expiration time.Time
}

// Memory is a thread-safe in-memory hash store with TTL support. It backs
// tests and single-node deployments where Redis is not available.
type Memory struct {
	mu   sync.RWMutex
	data map[string]memoryHash
}

// NewMemory creates an in-memory state store.
func NewMemory() *Memory {
	m := &Memory{data: make(map[string]memoryHash)}

	// Sweep expired hashes periodically.
	go m.sweepExpired()

	return m
}

// SetHashFields merges fields into the hash at key and refreshes its TTL.
// Values are stored as their string form, mirroring Redis semantics.
func (m *Memory) SetHashFields(ctx context.Context, key string, fields map[string]interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash, exists := m.data[key]
	if !exists || time.Now().After(hash.expiration) {
		hash = memoryHash{fields: make(map[string]string)}
	}

	for k, v := range fields {
		hash.fields[k] = fmt.Sprint(v)
	}
	hash.expiration = time.Now().Add(ttl)
	m.data[key] = hash

	return nil
}

// GetHashFields returns a copy of the hash at key; a missing or expired
// key yields an empty map.
func (m *Memory) GetHashFields(ctx context.Context, key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hash, exists := m.data[key]
	if !exists || time.Now().After(hash.expiration) {
		return map[string]string{}, nil
	}

	out := make(map[string]string, len(hash.fields))
	for k, v := range hash.fields {
		out[k] = v
	}
	return out, nil
}

// ScanKeys returns up to limit live keys matching a glob pattern, in
// sorted order for determinism.
func (m *Memory) ScanKeys(ctx context.Context, pattern string, limit int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	var keys []string
	for key, hash := range m.data {
		if now.After(hash.expiration) {
			continue
		}
		if ok, err := path.Match(pattern, key); err != nil {
			return nil, err
		} else if ok {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys, nil
}

// sweepExpired removes expired hashes every minute.
func (m *Memory) sweepExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		now := time.Now()
		for key, hash := range m.data {
			if now.After(hash.expiration) {
				delete(m.data, key)
			}
		}
		m.mu.Unlock()
	}
}
