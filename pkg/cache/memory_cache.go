package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// memoryEntry, encode edilmiş değeri ve expire zamanını tutar.
type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero value = süresiz
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache, process içi cache driver'ıdır. Tek instance'lı kurulumlar ve
// testler için uygundur.
type MemoryCache struct {
	store  map[string]*memoryEntry
	mu     sync.RWMutex
	logger Logger
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewMemoryCache, cache'i oluşturur ve gcInterval aralıkla expired entry'leri
// temizleyen goroutine'i başlatır. gcInterval <= 0 ise temizlik goroutine'i çalışmaz.
func NewMemoryCache(logger Logger, gcInterval time.Duration) *MemoryCache {
	mc := &MemoryCache{
		store:  make(map[string]*memoryEntry),
		logger: logger,
		now:    time.Now,
		stop:   make(chan struct{}),
	}

	if gcInterval > 0 {
		go mc.collectGarbage(gcInterval)
	}

	logger.Println("✅ Memory cache başlatıldı")
	return mc
}

func (m *MemoryCache) Get(key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	entry, exists := m.store[key]
	m.mu.RUnlock()

	if !exists || entry.expired(m.now()) {
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("json decode failed: %w", err)
	}
	return true, nil
}

func (m *MemoryCache) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json encode failed: %w", err)
	}

	entry := &memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.store[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(key string) error {
	m.mu.Lock()
	delete(m.store, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Has(key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.store[key]
	return exists && !entry.expired(m.now()), nil
}

func (m *MemoryCache) Flush() error {
	m.mu.Lock()
	m.store = make(map[string]*memoryEntry)
	m.mu.Unlock()

	m.logger.Println("⚠️  Memory cache tamamen temizlendi")
	return nil
}

func (m *MemoryCache) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	valid := 0
	for _, entry := range m.store {
		if !entry.expired(now) {
			valid++
		}
	}

	return map[string]interface{}{
		"driver":       "memory",
		"total_keys":   len(m.store),
		"valid_keys":   valid,
		"expired_keys": len(m.store) - valid,
	}
}

// Close, garbage collection goroutine'ini durdurur.
func (m *MemoryCache) Close() {
	m.once.Do(func() { close(m.stop) })
}

func (m *MemoryCache) collectGarbage(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanExpiredEntries()
		case <-m.stop:
			return
		}
	}
}

func (m *MemoryCache) cleanExpiredEntries() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cleaned := 0
	for key, entry := range m.store {
		if entry.expired(now) {
			delete(m.store, key)
			cleaned++
		}
	}

	if cleaned > 0 {
		m.logger.Printf("🧹 Memory cache garbage collection: %d expired entry silindi", cleaned)
	}
}
