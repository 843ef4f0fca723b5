package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/biyonik/admission-api/pkg/validation"
)

// NumberType, sayısal alanları doğrular. Multipart formlardan gelen
// "1100" gibi string değerler Transform aşamasında float64'e çevrilir.
// Karşılaştırmalar her zaman reel sayılar üzerinden yapılır.
type NumberType struct {
	BaseType
	min       *float64
	max       *float64
	digits    *int
	isInteger bool
}

// Number, string veya sayısal girdiyi float64'e çevirir.
func Number() *NumberType {
	return &NumberType{}
}

func (n *NumberType) Required() *NumberType {
	n.SetRequired()
	return n
}

func (n *NumberType) Label(label string) *NumberType {
	n.SetLabel(label)
	return n
}

func (n *NumberType) Default(value float64) *NumberType {
	n.SetDefault(value)
	return n
}

func (n *NumberType) Min(val float64) *NumberType {
	n.min = &val
	return n
}

func (n *NumberType) Max(val float64) *NumberType {
	n.max = &val
	return n
}

func (n *NumberType) Integer() *NumberType {
	n.isInteger = true
	return n
}

// Digits, tamsayı değerin tam olarak count basamaklı olmasını ister.
// Integer() kuralını da etkinleştirir.
func (n *NumberType) Digits(count int) *NumberType {
	n.digits = &count
	n.isInteger = true
	return n
}

// Transform, sayısal görünen string'leri float64'e çevirir. Çevrilemeyen
// değerler olduğu gibi bırakılır ve Validate aşamasında raporlanır.
func (n *NumberType) Transform(value any) (any, error) {
	value, err := n.BaseType.Transform(value)
	if err != nil || value == nil {
		return value, err
	}

	if str, ok := value.(string); ok {
		trimmed := strings.TrimSpace(str)
		if trimmed == "" {
			return nil, nil
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f, nil
		}
		return str, nil
	}

	if f, ok := ToFloat(value); ok {
		return f, nil
	}
	return value, nil
}

func (n *NumberType) Validate(field string, value any, result *validation.ValidationResult) bool {
	if !n.BaseType.Validate(field, value, result) {
		return false
	}
	if isEmpty(value) {
		return true
	}

	name := n.displayName(field)

	num, ok := ToFloat(value)
	if !ok || math.IsNaN(num) || math.IsInf(num, 0) {
		result.AddError(field, fmt.Sprintf("The %s field must be a number.", name))
		return false
	}

	if n.isInteger && num != math.Trunc(num) {
		result.AddError(field, fmt.Sprintf("The %s field must be an integer.", name))
		return false
	}

	valid := true
	if n.digits != nil && len(strconv.FormatInt(int64(math.Abs(num)), 10)) != *n.digits {
		result.AddError(field, fmt.Sprintf("The %s field must be %d digits.", name, *n.digits))
		valid = false
	}
	if n.min != nil && num < *n.min {
		result.AddError(field, fmt.Sprintf("The %s field must be at least %v.", name, *n.min))
		valid = false
	}
	if n.max != nil && num > *n.max {
		result.AddError(field, fmt.Sprintf("The %s field must not be greater than %v.", name, *n.max))
		valid = false
	}

	return valid
}

// ToFloat, desteklenen sayısal tipleri float64'e çevirir.
func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
