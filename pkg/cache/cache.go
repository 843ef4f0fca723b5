// Package cache, TTL destekli key-value cache soyutlaması ve memory, redis ve
// file driver'larını sağlar.
//
// Tüm driver'lar değerleri JSON olarak saklar ve Get sırasında çağıranın verdiği
// hedefe decode eder. Böylece driver değişse de okunan tip aynı kalır ve
// cache'ten okunan değer paylaşılan bir nesne değil, her okuyucuya ait bir kopyadır.
package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// Cache, driver'ların uyguladığı ortak interface'dir.
type Cache interface {
	// Get, key'in değerini dest'e decode eder. Key yoksa veya süresi dolmuşsa
	// (false, nil) döner.
	Get(key string, dest interface{}) (bool, error)

	// Set, değeri JSON olarak ttl süresince saklar. ttl <= 0 süresiz demektir.
	Set(key string, value interface{}, ttl time.Duration) error

	Delete(key string) error

	Has(key string) (bool, error)

	// Flush, driver'ın sahip olduğu tüm key'leri siler.
	Flush() error
}

// Stats, istatistik sunabilen driver'lar tarafından uygulanır.
type Stats interface {
	Stats() map[string]interface{}
}

// Logger, cache driver'larının kullandığı minimum log interface'i.
type Logger interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// Remember, key cache'te varsa dest'e decode eder; yoksa callback'i çalıştırır,
// sonucu ttl ile yazar ve dest'e aktarır.
//
// Eşzamanlı miss'ler callback'i birden fazla kez çalıştırabilir; bu kabul
// edilmiş bir durumdur, son yazan kazanır. Cache yazma hatası çağırana
// döndürülmez, sadece loglanır; callback'in sonucu yine kullanılır.
//
// Örnek:
//
//	var groups []models.ProgramGroup
//	err := cache.Remember(c, "program_groups", 10*time.Minute, &groups, func() (interface{}, error) {
//	    return repo.LoadActiveTree()
//	})
func Remember(c Cache, logger Logger, key string, ttl time.Duration, dest interface{}, callback func() (interface{}, error)) error {
	found, err := c.Get(key, dest)
	if err != nil {
		logger.Printf("⚠️  Remember cache okuma hatası [%s]: %v", key, err)
	}
	if found && err == nil {
		return nil
	}

	result, err := callback()
	if err != nil {
		return err
	}

	if err := c.Set(key, result, ttl); err != nil {
		logger.Printf("⚠️  Remember cache yazma hatası [%s]: %v", key, err)
	}

	return assign(result, dest)
}

// assign, callback sonucunu JSON üzerinden dest'e aktarır; cache'ten okunan
// değerle birebir aynı şekli garanti eder.
func assign(value interface{}, dest interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json encode failed: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("json decode failed: %w", err)
	}
	return nil
}
