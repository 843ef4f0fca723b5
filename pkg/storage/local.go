package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage, yerel diskte basePath altında sandbox'lanmış bir alandır.
type LocalStorage struct {
	basePath   string
	baseURL    string
	visibility Visibility
	logger     Logger
}

// NewLocalStorage, alan dizinini oluşturur.
//
// Parametreler:
//   - basePath: alanın kök dizini (örn: "storage/app/public")
//   - baseURL: public alan için URL prefix'i (örn: "/storage"); private alanda yok sayılır
//   - visibility: alanın görünürlüğü
func NewLocalStorage(basePath, baseURL string, visibility Visibility, logger Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	logger.Printf("✅ Local storage initialized: %s (%s)", basePath, visibility)

	return &LocalStorage{
		basePath:   basePath,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		visibility: visibility,
		logger:     logger,
	}, nil
}

func (s *LocalStorage) fullPath(path string) (string, string, error) {
	sanitized, err := SanitizePath(path)
	if err != nil {
		return "", "", err
	}
	return sanitized, filepath.Join(s.basePath, filepath.FromSlash(sanitized)), nil
}

func (s *LocalStorage) Put(path string, contents []byte) error {
	sanitized, full, err := s.fullPath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	perm := os.FileMode(0o644)
	if s.visibility == VisibilityPrivate {
		perm = 0o600
	}

	if err := os.WriteFile(full, contents, perm); err != nil {
		s.logger.Printf("❌ Failed to write file: %s - %v", sanitized, err)
		return fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Printf("✅ File saved: %s (%d bytes)", sanitized, len(contents))
	return nil
}

func (s *LocalStorage) Get(path string) ([]byte, error) {
	_, full, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}

	contents, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return contents, nil
}

func (s *LocalStorage) GetStream(path string) (io.ReadCloser, error) {
	_, full, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(path string) error {
	sanitized, full, err := s.fullPath(path)
	if err != nil {
		return err
	}

	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrFileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.Printf("🗑️  File deleted: %s", sanitized)
	return nil
}

func (s *LocalStorage) Exists(path string) (bool, error) {
	_, full, err := s.fullPath(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (s *LocalStorage) Size(path string) (int64, error) {
	_, full, err := s.fullPath(path)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, ErrFileNotFound
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *LocalStorage) Url(path string) string {
	if s.visibility != VisibilityPublic {
		return ""
	}

	sanitized, err := SanitizePath(path)
	if err != nil {
		return ""
	}
	return s.baseURL + "/" + sanitized
}

func (s *LocalStorage) Visibility() Visibility {
	return s.visibility
}

// BasePath, public alanı http.FileServer ile servis etmek için kök dizini döndürür.
func (s *LocalStorage) BasePath() string {
	return s.basePath
}
