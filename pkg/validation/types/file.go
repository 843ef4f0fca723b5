package types

import (
	"fmt"
	"strings"

	"github.com/biyonik/admission-api/pkg/validation"
)

// FileValue, doğrulanabilir bir yüklenmiş dosyadır. MIME tipi içerikten
// tespit edilmiş olmalıdır; istemcinin gönderdiği Content-Type'a güvenilmez.
type FileValue interface {
	FileSize() int64
	FileMIME() string
}

// FileType, dosya alanlarını tip ve boyut açısından doğrular.
type FileType struct {
	BaseType
	mimeTypes []string
	maxSize   int64
}

func File() *FileType {
	return &FileType{}
}

func (f *FileType) Required() *FileType {
	f.SetRequired()
	return f
}

func (f *FileType) Label(label string) *FileType {
	f.SetLabel(label)
	return f
}

// MimeTypes, izin verilen MIME tiplerini belirler. "image/*" gibi joker
// tipler desteklenir.
func (f *FileType) MimeTypes(types ...string) *FileType {
	f.mimeTypes = types
	return f
}

// MaxSize, byte cinsinden üst sınırı belirler (sınır dahil).
func (f *FileType) MaxSize(bytes int64) *FileType {
	f.maxSize = bytes
	return f
}

func (f *FileType) Validate(field string, value any, result *validation.ValidationResult) bool {
	if !f.BaseType.Validate(field, value, result) {
		return false
	}
	if value == nil {
		return true
	}

	name := f.displayName(field)

	file, ok := value.(FileValue)
	if !ok || file == nil {
		result.AddError(field, fmt.Sprintf("The %s field must be a file.", name))
		return false
	}

	valid := true
	if len(f.mimeTypes) > 0 && !mimeAllowed(f.mimeTypes, file.FileMIME()) {
		result.AddError(field, fmt.Sprintf("The %s field must be a file of type: %s.", name, describeMimes(f.mimeTypes)))
		valid = false
	}
	if f.maxSize > 0 && file.FileSize() > f.maxSize {
		result.AddError(field, fmt.Sprintf("The %s field must not be greater than %d kilobytes.", name, f.maxSize/1024))
		valid = false
	}
	return valid
}

func mimeAllowed(allowed []string, mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(strings.SplitN(mime, ";", 2)[0]))
	for _, a := range allowed {
		if strings.HasSuffix(a, "/*") && strings.HasPrefix(mime, strings.TrimSuffix(a, "*")) {
			return true
		}
		if a == mime {
			return true
		}
	}
	return false
}

// describeMimes, "application/pdf" → "pdf", "image/*" → "image" şeklinde kısaltır.
func describeMimes(mimes []string) string {
	parts := make([]string, len(mimes))
	for i, m := range mimes {
		if strings.HasSuffix(m, "/*") {
			parts[i] = strings.TrimSuffix(m, "/*")
			continue
		}
		if idx := strings.Index(m, "/"); idx >= 0 {
			parts[i] = m[idx+1:]
			continue
		}
		parts[i] = m
	}
	return strings.Join(parts, ", ")
}
