package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/spectrumhq/spectrum/internal/core/ports"
	"github.com/spectrumhq/spectrum/internal/platform/observability"
)

var _ ports.Cache = (*Memory)(nil)

const defaultPartitionSize = 500

// Memory is an in-process cache partitioned by key type. Every partition is
// an independent bounded LRU with the TTL for its type, so a burst of search
// traffic can never evict analysis results. Mutations within a partition are
// serialized by that partition's store; operations on different partitions
// proceed concurrently.
//
// The ttl argument on Set is accepted for interface compatibility but the
// partition's type TTL governs expiry.
type Memory struct {
	mu         sync.RWMutex
	partitions map[string]*expirable.LRU[string, interface{}]
	maxSize    int
	logger     *zerolog.Logger
}

// NewMemory creates a partitioned in-memory cache. maxSize bounds each
// partition independently; values <= 0 fall back to the default of 500.
func NewMemory(maxSize int, logger *zerolog.Logger) *Memory {
	if maxSize <= 0 {
		maxSize = defaultPartitionSize
	}

	return &Memory{
		partitions: make(map[string]*expirable.LRU[string, interface{}]),
		maxSize:    maxSize,
		logger:     logger,
	}
}

func (m *Memory) partition(keyType string) *expirable.LRU[string, interface{}] {
	m.mu.RLock()
	p, ok := m.partitions[keyType]
	m.mu.RUnlock()

	if ok {
		return p
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double check
	if p, ok := m.partitions[keyType]; ok {
		return p
	}

	onEvict := func(string, interface{}) {
		observability.CacheEvictions.WithLabelValues(keyType).Inc()
	}

	p = expirable.NewLRU[string, interface{}](m.maxSize, onEvict, TTLFor(keyType))
	m.partitions[keyType] = p

	return p
}

// Get looks up a key. The second return is false when the key is absent or
// expired.
func (m *Memory) Get(key string) (interface{}, bool) {
	keyType := KeyType(key)

	value, ok := m.partition(keyType).Get(key)
	if ok {
		observability.CacheHits.WithLabelValues(keyType).Inc()
	} else {
		observability.CacheMisses.WithLabelValues(keyType).Inc()
	}

	return value, ok
}

// Set stores a value under key in its type partition.
func (m *Memory) Set(key string, value interface{}, _ time.Duration) {
	m.partition(KeyType(key)).Add(key, value)
}

// Delete removes a key.
func (m *Memory) Delete(key string) {
	m.partition(KeyType(key)).Remove(key)
}

// Exists reports whether a key is present and unexpired.
func (m *Memory) Exists(key string) bool {
	return m.partition(KeyType(key)).Contains(key)
}

// ClearPrefix removes every key starting with prefix across all partitions
// and returns the number removed. A trailing "*" wildcard is tolerated.
func (m *Memory) ClearPrefix(prefix string) int {
	prefix = strings.TrimSuffix(prefix, "*")

	m.mu.RLock()
	stores := make([]*expirable.LRU[string, interface{}], 0, len(m.partitions))

	for _, p := range m.partitions {
		stores = append(stores, p)
	}
	m.mu.RUnlock()

	count := 0

	for _, p := range stores {
		for _, key := range p.Keys() {
			if strings.HasPrefix(key, prefix) && p.Remove(key) {
				count++
			}
		}
	}

	if count > 0 && m.logger != nil {
		m.logger.Debug().Str("prefix", prefix).Int("removed", count).Msg("cache prefix cleared")
	}

	return count
}
