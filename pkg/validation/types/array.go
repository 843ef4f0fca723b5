package types

import (
	"fmt"
	"strconv"

	"github.com/biyonik/admission-api/pkg/validation"
)

// ArrayType, dizi alanlarını doğrular. Eleman yolları "alan.index" şeklinde
// üretilir; nesne elemanlarının alt alanları "alan.index.alt_alan" olur.
type ArrayType struct {
	BaseType
	minLength     *int
	maxLength     *int
	exactLength   *int
	elementSchema validation.Type
	includesField string
	includes      []string
}

// Array, dizi alanı. Eleman şeması Elements ile verilir.
func Array() *ArrayType {
	return &ArrayType{}
}

func (a *ArrayType) Required() *ArrayType {
	a.SetRequired()
	return a
}

func (a *ArrayType) Label(label string) *ArrayType {
	a.SetLabel(label)
	return a
}

func (a *ArrayType) Min(length int) *ArrayType {
	a.minLength = &length
	return a
}

func (a *ArrayType) Max(length int) *ArrayType {
	a.maxLength = &length
	return a
}

// Length, eleman sayısının tam olarak length olmasını ister.
func (a *ArrayType) Length(length int) *ArrayType {
	a.exactLength = &length
	return a
}

func (a *ArrayType) Elements(schema validation.Type) *ArrayType {
	a.elementSchema = schema
	return a
}

// Includes, nesne elemanlarının subField değerleri arasında values'daki her
// değerin bulunmasını ister. Eksik her değer için ayrı hata eklenir.
func (a *ArrayType) Includes(subField string, values []string) *ArrayType {
	a.includesField = subField
	a.includes = values
	return a
}

func (a *ArrayType) Transform(value any) (any, error) {
	value, err := a.BaseType.Transform(value)
	if err != nil || value == nil {
		return value, err
	}

	slice, ok := value.([]any)
	if !ok || a.elementSchema == nil {
		return value, nil
	}

	transformed := make([]any, len(slice))
	for i, item := range slice {
		item, err := a.elementSchema.Transform(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		transformed[i] = item
	}
	return transformed, nil
}

func (a *ArrayType) Validate(field string, value any, result *validation.ValidationResult) bool {
	if !a.BaseType.Validate(field, value, result) {
		return false
	}
	if value == nil {
		return true
	}

	name := a.displayName(field)

	slice, ok := value.([]any)
	if !ok {
		result.AddError(field, fmt.Sprintf("The %s field must be an array.", name))
		return false
	}

	valid := true
	if a.exactLength != nil && len(slice) != *a.exactLength {
		result.AddError(field, fmt.Sprintf("The %s field must contain %d items.", name, *a.exactLength))
		valid = false
	}
	if a.minLength != nil && len(slice) < *a.minLength {
		result.AddError(field, fmt.Sprintf("The %s field must have at least %d items.", name, *a.minLength))
		valid = false
	}
	if a.maxLength != nil && len(slice) > *a.maxLength {
		result.AddError(field, fmt.Sprintf("The %s field must not have more than %d items.", name, *a.maxLength))
		valid = false
	}

	for _, missing := range a.missingIncludes(slice) {
		result.AddError(field, fmt.Sprintf("The %s field must include %s.", name, missing))
		valid = false
	}

	if a.elementSchema != nil {
		for i, item := range slice {
			if !a.elementSchema.Validate(field+"."+strconv.Itoa(i), item, result) {
				valid = false
			}
		}
	}

	return valid
}

// missingIncludes, gerekli değerlerden dizide bulunmayanları sırasıyla döndürür.
func (a *ArrayType) missingIncludes(slice []any) []string {
	if len(a.includes) == 0 {
		return nil
	}

	present := make(map[string]bool, len(slice))
	for _, item := range slice {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := obj[a.includesField].(string); ok {
			present[s] = true
		}
	}

	var missing []string
	for _, v := range a.includes {
		if !present[v] {
			missing = append(missing, v)
		}
	}
	return missing
}
