// -----------------------------------------------------------------------------
// Storage Tests - Path Traversal Prevention & Areas
// -----------------------------------------------------------------------------
// Saldırgan, "../" veya "..\\" gibi sequence'lar kullanarak storage root
// dışındaki dosyalara erişmeye çalışabilir. Upload path'leri sunucu tarafında
// üretilse de indirme endpoint'i path'i veritabanından okur; her iki yön de
// sandbox içinde kalmalıdır.
// -----------------------------------------------------------------------------

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MockLogger for testing
type MockLogger struct {
	logs []string
}

func (m *MockLogger) Printf(format string, v ...interface{}) {
	m.logs = append(m.logs, fmt.Sprintf(format, v...))
}

func (m *MockLogger) Println(v ...interface{}) {
	m.logs = append(m.logs, fmt.Sprint(v...))
}

func TestSanitizePath_RejectsTraversal(t *testing.T) {
	attacks := []string{
		"../etc/passwd",
		"../../etc/passwd",
		"documents/../../secret.pdf",
		`..\..\windows\system32`,
		"documents/..",
		"safe.txt\x00../../etc/passwd",
		"uploads/file.jpg\x00.php",
		"",
		"/",
	}

	for _, attack := range attacks {
		t.Run(fmt.Sprintf("%q", attack), func(t *testing.T) {
			if _, err := SanitizePath(attack); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Path %q should be rejected, got err=%v", attack, err)
			}
		})
	}
}

func TestSanitizePath_ValidPaths(t *testing.T) {
	validPaths := []struct {
		input    string
		expected string
	}{
		{"photos/3f1c.jpg", "photos/3f1c.jpg"},
		{"/documents/2025/report.pdf", "documents/2025/report.pdf"},
		{"documents/file..name.pdf", "documents/file..name.pdf"},
		{"a/b/c/", "a/b/c"},
	}

	for _, tc := range validPaths {
		t.Run(tc.input, func(t *testing.T) {
			result, err := SanitizePath(tc.input)
			if err != nil {
				t.Errorf("Valid path '%s' rejected with error: %v", tc.input, err)
			}
			if result != tc.expected {
				t.Errorf("Expected '%s', got '%s'", tc.expected, result)
			}
		})
	}
}

func TestLocalStorage_Sandboxing(t *testing.T) {
	tempDir := t.TempDir()
	storage, err := NewLocalStorage(filepath.Join(tempDir, "private"), "", VisibilityPrivate, &MockLogger{})
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := storage.Put("documents/cert.pdf", []byte("%PDF-1.4")); err != nil {
		t.Fatalf("Failed to write valid file: %v", err)
	}

	content, err := storage.Get("documents/cert.pdf")
	if err != nil || string(content) != "%PDF-1.4" {
		t.Errorf("Read back failed: %q %v", content, err)
	}

	if err := storage.Put("../escape.txt", []byte("escaped")); err == nil {
		t.Error("Sandbox escape succeeded!")
	}
	if _, err := os.Stat(filepath.Join(tempDir, "escape.txt")); err == nil {
		t.Error("File created outside sandbox!")
	}

	if _, err := storage.Get("../../etc/passwd"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Traversal read should fail with ErrInvalidPath, got %v", err)
	}
}

func TestLocalStorage_DeleteAndMissing(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/storage", VisibilityPublic, &MockLogger{})
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	_ = storage.Put("photos/a.jpg", []byte{0xFF, 0xD8})

	if err := storage.Delete("photos/a.jpg"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if exists, _ := storage.Exists("photos/a.jpg"); exists {
		t.Error("File should not exist after delete")
	}
	if err := storage.Delete("photos/a.jpg"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Second delete should return ErrFileNotFound, got %v", err)
	}
	if _, err := storage.GetStream("photos/missing.jpg"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Missing stream should return ErrFileNotFound, got %v", err)
	}
}

func TestLocalStorage_UrlByVisibility(t *testing.T) {
	public, _ := NewLocalStorage(t.TempDir(), "/storage/", VisibilityPublic, &MockLogger{})
	private, _ := NewLocalStorage(t.TempDir(), "/storage", VisibilityPrivate, &MockLogger{})

	if got := public.Url("photos/a.jpg"); got != "/storage/photos/a.jpg" {
		t.Errorf("Unexpected public url: %s", got)
	}
	if got := private.Url("documents/a.pdf"); got != "" {
		t.Errorf("Private area must not expose urls, got %s", got)
	}
}

func TestGenerateUniqueName(t *testing.T) {
	name1 := GenerateUniqueName("Character Certificate.PDF")
	name2 := GenerateUniqueName("Character Certificate.PDF")

	if name1 == name2 {
		t.Error("GenerateUniqueName generated duplicate names")
	}
	if !strings.HasSuffix(name1, ".pdf") {
		t.Errorf("Extension should be kept lowercased, got %s", name1)
	}
	if strings.Contains(name1, "Character") {
		t.Errorf("Original name must not leak into stored name: %s", name1)
	}
}

// BenchmarkSanitizePath benchmarks path validation performance.
func BenchmarkSanitizePath(b *testing.B) {
	path := "documents/2025/3f1c2a.pdf"
	for i := 0; i < b.N; i++ {
		_, _ = SanitizePath(path)
	}
}
