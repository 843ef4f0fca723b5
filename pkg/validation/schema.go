package validation

import (
	"errors"
	"fmt"
	"sort"
)

// @author    Ahmet Altun
// @email     ahmet.altun60@gmail.com
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik

// CrossValidationField, alan bilgisi taşımayan çapraz doğrulama hatalarının
// anahtarıdır.
const CrossValidationField = "_cross_validation"

type conditionalRule struct {
	field         string
	expectedValue any
	callback      func() Schema
}

// ValidationSchema; tip bazlı doğrulama, koşullu kurallar ve çapraz alan
// doğrulamasını tek bir akışta yürütür.
type ValidationSchema struct {
	shape            map[string]Type
	crossValidators  []func(data map[string]any) error
	conditionalRules []conditionalRule
}

// Make, boş bir ValidationSchema döndürür.
func Make() *ValidationSchema {
	return &ValidationSchema{
		shape:            make(map[string]Type),
		conditionalRules: make([]conditionalRule, 0),
	}
}

func (vs *ValidationSchema) Shape(shape map[string]Type) Schema {
	vs.shape = shape
	return vs
}

// CrossValidate, alanlar arası doğrulama fonksiyonu ekler. Fonksiyon bir
// *FieldError döndürürse hata o alana, aksi halde CrossValidationField'a yazılır.
func (vs *ValidationSchema) CrossValidate(fn func(data map[string]any) error) Schema {
	vs.crossValidators = append(vs.crossValidators, fn)
	return vs
}

func (vs *ValidationSchema) When(field string, expectedValue any, callback func() Schema) Schema {
	vs.conditionalRules = append(vs.conditionalRules, conditionalRule{
		field:         field,
		expectedValue: expectedValue,
		callback:      callback,
	})
	return vs
}

// fieldNames, shape alanlarını sıralı döndürür; hata sırası deterministik olur.
func (vs *ValidationSchema) fieldNames() []string {
	names := make([]string, 0, len(vs.shape))
	for name := range vs.shape {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate, şemanın doğrulama sürecini çalıştırır:
//  1. Transform: ham veriyi temizler ve tip dönüşümlerini uygular.
//  2. Validate: temizlenmiş veri üzerinde tip bazlı doğrulama.
//  3. When: koşulu sağlanan alt şemalar.
//  4. Cross-Validate: yalnızca önceki adımlar hatasızsa çalışır.
func (vs *ValidationSchema) Validate(data map[string]any) *ValidationResult {
	result := NewResult()
	transformedData := make(map[string]any, len(data))
	for k, v := range data {
		transformedData[k] = v
	}

	failed := make(map[string]bool)
	for _, field := range vs.fieldNames() {
		transformedValue, err := vs.shape[field].Transform(data[field])
		if err != nil {
			result.AddError(field, err.Error())
			failed[field] = true
			continue
		}
		transformedData[field] = transformedValue
	}

	for _, field := range vs.fieldNames() {
		if failed[field] {
			continue
		}
		vs.shape[field].Validate(field, transformedData[field], result)
	}

	for _, rule := range vs.conditionalRules {
		value, exists := transformedData[rule.field]
		if !exists || value != rule.expectedValue {
			continue
		}
		result.Merge(rule.callback().Validate(transformedData))
	}

	if !result.HasErrors() {
		for _, fn := range vs.crossValidators {
			err := fn(transformedData)
			if err == nil {
				continue
			}
			var fieldErr *FieldError
			if errors.As(err, &fieldErr) {
				result.AddError(fieldErr.Field, fieldErr.Message)
				continue
			}
			result.AddError(CrossValidationField, err.Error())
		}
	}

	if !result.HasErrors() {
		result.SetValidData(transformedData)
	}

	return result
}

// String, log ve test çıktıları için "alan: mesaj" satırları üretir.
func (r *ValidationResult) String() string {
	s := ""
	for _, field := range r.order {
		for _, msg := range r.errors[field] {
			s += fmt.Sprintf("%s: %s\n", field, msg)
		}
	}
	return s
}
