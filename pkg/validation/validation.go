// Package validation, form ve API payload'larını şema bazlı doğrulamak için
// küçük bir yardımcı pakettir. Tip bazlı doğrulama (Type) ve şema bazlı
// doğrulama (Schema) desteklenir; hatalar "examination.0.obtained_marks" gibi
// noktalı alan yollarıyla anahtarlanır.
//
// Dizi elemanlarının yolu, elemanın index'i kullanılarak üretilir. Böylece
// aynı index'e sahip kardeş alanlar (örneğin bir sınav bloğunun
// total_marks ve obtained_marks değerleri) her zaman aynı bloğa aittir.
package validation

// @author    Ahmet Altun
// @email     ahmet.altun60@gmail.com
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik

// ValidationResult, bir doğrulama işleminin sonucunu temsil eder.
// Hataların eklenme sırası korunur; ilk hata özet mesaj olarak kullanılır.
type ValidationResult struct {
	errors    map[string][]string // Alan bazlı doğrulama hataları
	order     []string            // Alanların ilk hata alma sırası
	validData map[string]any      // Doğrulanmış ve temizlenmiş veriler
}

// NewResult, boş bir ValidationResult oluşturur.
func NewResult() *ValidationResult {
	return &ValidationResult{
		errors:    make(map[string][]string),
		validData: make(map[string]any),
	}
}

// AddError, belirtilen alan için bir doğrulama hatası ekler.
func (r *ValidationResult) AddError(field, message string) {
	if _, exists := r.errors[field]; !exists {
		r.order = append(r.order, field)
	}
	r.errors[field] = append(r.errors[field], message)
}

// Merge, başka bir sonucun hatalarını sıralarını koruyarak ekler.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for _, field := range other.order {
		for _, msg := range other.errors[field] {
			r.AddError(field, msg)
		}
	}
}

func (r *ValidationResult) HasErrors() bool {
	return len(r.errors) > 0
}

// HasFieldErrors, verilen alan için hata olup olmadığını döndürür.
func (r *ValidationResult) HasFieldErrors(field string) bool {
	return len(r.errors[field]) > 0
}

func (r *ValidationResult) Errors() map[string][]string {
	return r.errors
}

// Fields, hata alan alanları ilk hata sırasına göre döndürür.
func (r *ValidationResult) Fields() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// FirstError, ilk eklenen hatanın alanını ve mesajını döndürür.
func (r *ValidationResult) FirstError() (string, string, bool) {
	if len(r.order) == 0 {
		return "", "", false
	}
	field := r.order[0]
	return field, r.errors[field][0], true
}

func (r *ValidationResult) ValidData() map[string]any {
	return r.validData
}

func (r *ValidationResult) SetValidData(data map[string]any) {
	r.validData = data
}

// FieldError, CrossValidate fonksiyonlarının hatayı belirli bir alana
// yazmak için döndürdüğü hata tipi.
//
//	return validation.NewFieldError("subject_combination_id", "The selected subject combination is not offered in this shift.")
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func NewFieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// --- ARAYÜZLER (INTERFACES / CONTRACTS) ---

// Type, her veri tipinin (StringType, NumberType, ...) uyguladığı arayüzdür.
type Type interface {
	// Validate, alanı doğrular ve hataları result'a ekler.
	// Alan geçerliyse true döner. Dönüş değeri yalnızca bu alana aittir;
	// başka alanların hataları sonucu etkilemez.
	Validate(field string, value any, result *ValidationResult) bool

	// Transform, doğrulama öncesinde veriyi temizler ve dönüştürür.
	// Örnek: string trim, "1100" → 1100.0 gibi sayısal dönüşüm.
	Transform(value any) (any, error)
}

// Schema, tüm veri setini doğrulamak için kullanılır.
type Schema interface {
	Validate(data map[string]any) *ValidationResult
	Shape(shape map[string]Type) Schema
	CrossValidate(fn func(data map[string]any) error) Schema

	// When, bir alanın değeri beklenen değerle eşleşirse callback'in
	// döndürdüğü alt şemayı da doğrulamaya dahil eder.
	When(field string, expectedValue any, callback func() Schema) Schema
}
