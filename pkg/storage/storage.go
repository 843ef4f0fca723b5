// Package storage, upload edilen dosyalar için disk soyutlaması sağlar.
//
// Uygulama iki alan kullanır: public alan (başvuru fotoğrafları, URL ile
// servis edilir) ve private alan (başvuru belgeleri, sadece kimliği
// doğrulanmış indirme endpoint'i üzerinden okunur).
package storage

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage, bir dosya alanının (disk) operasyonlarıdır.
type Storage interface {
	// Put, içeriği verilen relative path'e yazar.
	Put(path string, contents []byte) error

	Get(path string) ([]byte, error)

	// GetStream, büyük dosyaları belleğe almadan okumak için reader döndürür.
	GetStream(path string) (io.ReadCloser, error)

	// Delete, dosyayı siler. Dosya yoksa ErrFileNotFound döner.
	Delete(path string) error

	Exists(path string) (bool, error)

	Size(path string) (int64, error)

	// Url, public alanda dosyanın erişim URL'ini döndürür; private alanda boş string.
	Url(path string) string

	Visibility() Visibility
}

type Logger interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid path")
)

// GetExtension, path'in uzantısını küçük harfle döndürür (".pdf" gibi).
func GetExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// SanitizePath, path traversal ve null byte içeren path'leri reddeder ve
// baştaki/sondaki ayraçları temizler.
func SanitizePath(path string) (string, error) {
	if strings.ContainsRune(path, 0) || containsPathTraversal(path) {
		return "", ErrInvalidPath
	}

	path = strings.Trim(path, `/\`)
	if path == "" {
		return "", ErrInvalidPath
	}
	return path, nil
}

// containsPathTraversal, path'in herhangi bir segmenti ".." ise true döner.
func containsPathTraversal(path string) bool {
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
	for _, segment := range segments {
		if segment == ".." {
			return true
		}
	}
	return false
}

// GenerateUniqueName, orijinal dosya adının uzantısını koruyarak UUID tabanlı
// çakışmasız bir dosya adı üretir. Orijinal ad (kişisel veri içerebilir) diske
// yazılan isme taşınmaz; metadata olarak ayrıca saklanır.
//
// Örnek:
//
//	GenerateUniqueName("Matric Result.PDF") // "3f1c...-9a2b.pdf"
func GenerateUniqueName(originalName string) string {
	return uuid.NewString() + GetExtension(originalName)
}
