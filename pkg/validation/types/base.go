package types

import (
	"fmt"

	"github.com/biyonik/admission-api/pkg/validation"
)

// BaseType, tüm tiplerin ortak davranışlarını (zorunluluk, etiket,
// varsayılan değer ve transform zinciri) tutar.
type BaseType struct {
	isRequired      bool
	label           string
	defaultValue    any
	transformations []func(any) (any, error)
}

func (b *BaseType) SetRequired() {
	b.isRequired = true
}

func (b *BaseType) SetLabel(label string) {
	b.label = label
}

func (b *BaseType) SetDefault(value any) {
	b.defaultValue = value
}

func (b *BaseType) AddTransform(fn func(any) (any, error)) {
	b.transformations = append(b.transformations, fn)
}

// IsRequired, alanın zorunlu olup olmadığını döndürür.
func (b *BaseType) IsRequired() bool {
	return b.isRequired
}

// displayName, mesajlarda kullanılacak adı döndürür. Etiket yoksa alan yolu
// kullanılır; yol daha sonra okunabilir bir etikete çevrilebilir.
func (b *BaseType) displayName(field string) string {
	if b.label != "" {
		return b.label
	}
	return field
}

func (b *BaseType) Transform(value any) (any, error) {
	if isEmpty(value) && b.defaultValue != nil {
		value = b.defaultValue
	}

	if value == nil {
		return nil, nil
	}

	var err error
	for _, fn := range b.transformations {
		value, err = fn(value)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// Validate, zorunluluk kontrolünü yapar. Zorunlu alan boşsa hata ekler ve
// false döner; alt tipler bu durumda kendi kontrollerini atlar.
func (b *BaseType) Validate(field string, value any, result *validation.ValidationResult) bool {
	if b.isRequired && isEmpty(value) {
		result.AddError(field, fmt.Sprintf("The %s field is required.", b.displayName(field)))
		return false
	}
	return true
}

// isEmpty, nil ve boş string değerlerini boş kabul eder. Boş dizi boş
// sayılmaz; "hiç eleman gönderilmedi" durumu dizi kurallarına bırakılır.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if str, ok := value.(string); ok && str == "" {
		return true
	}
	return false
}
