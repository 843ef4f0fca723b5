package models

import (
	"strings"
	"unicode"
)

// Document, bir destekleyici belge türü. DocumentKey isimden türetilir ve
// görünen isim değişse bile makine anahtarı olarak kullanılır.
type Document struct {
	BaseModel
	Name        string `json:"name" db:"name"`
	DocumentKey string `json:"document_key" db:"document_key"`
}

// DocumentKeyFor, bir ismi snake_case anahtara çevirir:
// "Character Certificate (Original)" → "character_certificate_original".
func DocumentKeyFor(name string) string {
	var b strings.Builder
	pendingSep := false

	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSep = true
	}
	return b.String()
}
