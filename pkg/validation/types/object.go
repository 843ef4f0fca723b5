package types

import (
	"fmt"
	"sort"

	"github.com/biyonik/admission-api/pkg/validation"
)

// lessOrEqualRule, aynı nesne içindeki iki sayısal alanı karşılaştırır.
type lessOrEqualRule struct {
	field string
	other string
}

// requiredWhenRule, condField değeri values içindeyse field'ı zorunlu kılar.
type requiredWhenRule struct {
	field     string
	condField string
	values    []string
}

// ObjectType, nesne alanlarını iç şemaya göre doğrular. Kardeş alanlar
// arasındaki kurallar (obtained ≤ total gibi) nesnenin kendi yolu üzerinden
// uygulanır; index hiçbir zaman string yoldan geri çıkarılmaz.
type ObjectType struct {
	BaseType
	shape        map[string]validation.Type
	lessOrEqual  []lessOrEqualRule
	requiredWhen []requiredWhenRule
}

func Object() *ObjectType {
	return &ObjectType{}
}

func (o *ObjectType) Required() *ObjectType {
	o.SetRequired()
	return o
}

func (o *ObjectType) Label(label string) *ObjectType {
	o.SetLabel(label)
	return o
}

func (o *ObjectType) Shape(shape map[string]validation.Type) *ObjectType {
	o.shape = shape
	return o
}

// LessOrEqual, field değerinin other değerinden büyük olmamasını ister.
// Kural, iki alan da kendi başına geçerliyse çalışır.
func (o *ObjectType) LessOrEqual(field, other string) *ObjectType {
	o.lessOrEqual = append(o.lessOrEqual, lessOrEqualRule{field: field, other: other})
	return o
}

// RequiredWhen, condField'ın değeri values'dan biriyse field'ı zorunlu kılar.
func (o *ObjectType) RequiredWhen(field, condField string, values []string) *ObjectType {
	o.requiredWhen = append(o.requiredWhen, requiredWhenRule{field: field, condField: condField, values: values})
	return o
}

func (o *ObjectType) keys() []string {
	keys := make([]string, 0, len(o.shape))
	for k := range o.shape {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o *ObjectType) Transform(value any) (any, error) {
	value, err := o.BaseType.Transform(value)
	if err != nil || value == nil {
		return value, err
	}

	data, ok := value.(map[string]any)
	if !ok {
		return value, nil
	}

	transformed := make(map[string]any, len(data))
	for k, v := range data {
		transformed[k] = v
	}
	for _, key := range o.keys() {
		sub, err := o.shape[key].Transform(data[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		transformed[key] = sub
	}
	return transformed, nil
}

func (o *ObjectType) Validate(field string, value any, result *validation.ValidationResult) bool {
	if !o.BaseType.Validate(field, value, result) {
		return false
	}
	if value == nil {
		return true
	}

	data, ok := value.(map[string]any)
	if !ok {
		result.AddError(field, fmt.Sprintf("The %s field must be an object.", o.displayName(field)))
		return false
	}

	valid := true
	fieldValid := make(map[string]bool, len(o.shape))

	for _, key := range o.keys() {
		path := field + "." + key
		ok := o.shape[key].Validate(path, data[key], result)
		fieldValid[key] = ok
		if !ok {
			valid = false
		}
	}

	for _, rule := range o.requiredWhen {
		cond, _ := data[rule.condField].(string)
		if !contains(rule.values, cond) || !isEmpty(data[rule.field]) {
			continue
		}
		path := field + "." + rule.field
		if !result.HasFieldErrors(path) {
			result.AddError(path, fmt.Sprintf("The %s field is required.", path))
		}
		fieldValid[rule.field] = false
		valid = false
	}

	for _, rule := range o.lessOrEqual {
		if !fieldValid[rule.field] || !fieldValid[rule.other] {
			continue
		}
		left, lok := ToFloat(data[rule.field])
		right, rok := ToFloat(data[rule.other])
		if !lok || !rok {
			continue
		}
		if left > right {
			path := field + "." + rule.field
			result.AddError(path, fmt.Sprintf("The %s field must be less than or equal to %s.", path, field+"."+rule.other))
			valid = false
		}
	}

	return valid
}
