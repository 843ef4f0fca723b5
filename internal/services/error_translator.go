package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/biyonik/admission-api/pkg/validation"
)

// indexedPath, "examination.0.obtained_marks" veya "documents.1" gibi
// dizi elemanı yollarını yakalar.
var indexedPath = regexp.MustCompile(`\b(examination|documents)\.(\d+)(?:\.([a-z_]+))?\b`)

// ErrorTranslator, ham alan yollu hataları kullanıcıya gösterilecek
// etiketlere çevirir. Etiketler, kullanıcının gördüğü katalog ve
// gönderdiği adlarla aynı kaynaktan üretilir.
type ErrorTranslator struct {
	submittedExams []string
	submittedDocs  []string
	catalogExams   []string
}

// NewErrorTranslator; req nil olabilir (program çözümlenemediyse katalog
// etiketleri kullanılmaz).
func NewErrorTranslator(submittedExams, submittedDocs []string, req *Requirements) *ErrorTranslator {
	t := &ErrorTranslator{submittedExams: submittedExams, submittedDocs: submittedDocs}
	if req != nil {
		t.catalogExams = req.RequiredExaminations
	}
	return t
}

// Translate, anahtarları koruyarak mesajlardaki yolları etiketlere çevirir
// ve ilk hatayı özet mesaj olarak döndürür.
func (t *ErrorTranslator) Translate(result *validation.ValidationResult) (map[string][]string, string) {
	out := make(map[string][]string, len(result.Errors()))
	for field, messages := range result.Errors() {
		translated := make([]string, len(messages))
		for i, msg := range messages {
			translated[i] = t.message(msg)
		}
		out[field] = translated
	}

	first := ""
	if field, _, ok := result.FirstError(); ok {
		first = out[field][0]
	}
	return out, first
}

// Label, tek bir alan yolunun okunabilir etiketi. Dizi yolu değilse yol
// olduğu gibi döner.
func (t *ErrorTranslator) Label(path string) string {
	m := indexedPath.FindStringSubmatch(path)
	if m == nil || m[0] != path {
		return path
	}
	return t.label(m[1], m[2], m[3])
}

func (t *ErrorTranslator) message(msg string) string {
	return indexedPath.ReplaceAllStringFunc(msg, func(match string) string {
		m := indexedPath.FindStringSubmatch(match)
		return t.label(m[1], m[2], m[3])
	})
}

func (t *ErrorTranslator) label(collection, rawIndex, sub string) string {
	index, _ := strconv.Atoi(rawIndex)

	var name string
	switch collection {
	case "examination":
		name = firstNonEmpty(at(t.submittedExams, index), at(t.catalogExams, index))
		if name == "" {
			name = fmt.Sprintf("Examination #%d", index+1)
		}
	case "documents":
		name = at(t.submittedDocs, index)
		if name == "" {
			name = fmt.Sprintf("Document #%d", index+1)
		}
	}

	if sub == "" {
		return name
	}
	return name + " " + strings.ReplaceAll(sub, "_", " ")
}

func at(list []string, i int) string {
	if i < 0 || i >= len(list) {
		return ""
	}
	return strings.TrimSpace(list[i])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
