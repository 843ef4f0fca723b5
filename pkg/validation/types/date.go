package types

import (
	"fmt"
	"time"

	"github.com/biyonik/admission-api/pkg/validation"
)

// DateType, tarih alanlarını doğrular. String değerler format'a göre
// time.Time'a çevrilir.
type DateType struct {
	BaseType
	format  string
	minDate *time.Time
	maxDate *time.Time
}

// Date, varsayılan olarak YYYY-MM-DD kabul eder.
func Date() *DateType {
	return &DateType{format: "2006-01-02"}
}

func (d *DateType) Required() *DateType {
	d.SetRequired()
	return d
}

func (d *DateType) Label(label string) *DateType {
	d.SetLabel(label)
	return d
}

func (d *DateType) Format(goTimeFormat string) *DateType {
	d.format = goTimeFormat
	return d
}

func (d *DateType) Min(date time.Time) *DateType {
	d.minDate = &date
	return d
}

func (d *DateType) Max(date time.Time) *DateType {
	d.maxDate = &date
	return d
}

// Transform, string değeri parse eder. Parse edilemeyen değer olduğu gibi
// bırakılır ve Validate aşamasında format hatası olarak raporlanır.
func (d *DateType) Transform(value any) (any, error) {
	value, err := d.BaseType.Transform(value)
	if err != nil || value == nil {
		return value, err
	}

	str, ok := value.(string)
	if !ok || str == "" {
		return value, nil
	}

	if parsed, err := time.Parse(d.format, str); err == nil {
		return parsed, nil
	}
	return value, nil
}

func (d *DateType) Validate(field string, value any, result *validation.ValidationResult) bool {
	if !d.BaseType.Validate(field, value, result) {
		return false
	}
	if isEmpty(value) {
		return true
	}

	name := d.displayName(field)

	parsed, ok := value.(time.Time)
	if !ok {
		result.AddError(field, fmt.Sprintf("The %s field must match the format %s.", name, d.format))
		return false
	}

	if d.minDate != nil && parsed.Before(*d.minDate) {
		result.AddError(field, fmt.Sprintf("The %s field must be a date after or equal to %s.", name, d.minDate.Format(d.format)))
		return false
	}
	if d.maxDate != nil && parsed.After(*d.maxDate) {
		result.AddError(field, fmt.Sprintf("The %s field must be a date before or equal to %s.", name, d.maxDate.Format(d.format)))
		return false
	}
	return true
}
