package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// fileEntry, diskteki cache dosyasının formatıdır.
type fileEntry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expires_at"`
}

// FileCache, Redis olmayan tek sunuculu kurulumlarda process restart'ından
// sonra da catalog snapshot'ını koruyan driver'dır.
type FileCache struct {
	dir    string
	logger Logger
	mu     sync.RWMutex
}

func NewFileCache(dir string, logger Logger) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	logger.Printf("✅ File cache başlatıldı: %s", dir)
	return &FileCache{dir: dir, logger: logger}, nil
}

// filePath, key'in hash'inden iki seviyeli dosya yolu üretir.
func (f *FileCache) filePath(key string) string {
	sum := sha256.Sum256([]byte(key))
	hash := hex.EncodeToString(sum[:])
	return filepath.Join(f.dir, hash[:2], hash)
}

func (f *FileCache) Get(key string, dest interface{}) (bool, error) {
	path := f.filePath(key)

	f.mu.RLock()
	data, err := os.ReadFile(path)
	f.mu.RUnlock()

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("file cache read failed: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		f.logger.Printf("❌ Bozuk cache dosyası siliniyor [%s]: %v", key, err)
		_ = f.Delete(key)
		return false, nil
	}

	if entry.ExpiresAt > 0 && time.Now().Unix() > entry.ExpiresAt {
		_ = f.Delete(key)
		return false, nil
	}

	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return false, fmt.Errorf("json decode failed: %w", err)
	}
	return true, nil
}

func (f *FileCache) Set(key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json encode failed: %w", err)
	}

	entry := fileEntry{Value: raw}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl).Unix()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("json encode failed: %w", err)
	}

	path := f.filePath(key)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("file cache mkdir failed: %w", err)
	}

	// Yarım yazılmış dosya okunmasın diye önce temp dosyaya yazılıp rename edilir.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("file cache write failed: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("file cache rename failed: %w", err)
	}
	return nil
}

func (f *FileCache) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.filePath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file cache delete failed: %w", err)
	}
	return nil
}

func (f *FileCache) Has(key string) (bool, error) {
	var discard json.RawMessage
	return f.Get(key, &discard)
}

func (f *FileCache) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return fmt.Errorf("file cache flush failed: %w", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(f.dir, entry.Name())); err != nil {
			return fmt.Errorf("file cache flush failed: %w", err)
		}
	}

	f.logger.Println("⚠️  File cache tamamen temizlendi")
	return nil
}
