package types

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/biyonik/admission-api/pkg/validation"
)

// StringType, metin alanlarını doğrular.
type StringType struct {
	BaseType
	minLength     *int
	maxLength     *int
	pattern       *regexp.Regexp
	allowedValues []string
}

func String() *StringType {
	return &StringType{}
}

func (s *StringType) Required() *StringType {
	s.SetRequired()
	return s
}

func (s *StringType) Label(label string) *StringType {
	s.SetLabel(label)
	return s
}

func (s *StringType) Default(value string) *StringType {
	s.SetDefault(value)
	return s
}

func (s *StringType) Min(length int) *StringType {
	s.minLength = &length
	return s
}

func (s *StringType) Max(length int) *StringType {
	s.maxLength = &length
	return s
}

// Pattern, değerin verilen regex ile tam eşleşmesini ister.
func (s *StringType) Pattern(expr string) *StringType {
	s.pattern = regexp.MustCompile(expr)
	return s
}

// OneOf, değerin verilen listeden biri olmasını ister (büyük/küçük harf duyarlı).
func (s *StringType) OneOf(values []string) *StringType {
	s.allowedValues = values
	return s
}

func (s *StringType) Trim() *StringType {
	s.AddTransform(func(value any) (any, error) {
		str, ok := value.(string)
		if !ok {
			return value, nil
		}
		return strings.TrimSpace(str), nil
	})
	return s
}

func (s *StringType) Validate(field string, value any, result *validation.ValidationResult) bool {
	if !s.BaseType.Validate(field, value, result) {
		return false
	}
	if isEmpty(value) {
		return true
	}

	name := s.displayName(field)

	str, ok := value.(string)
	if !ok {
		result.AddError(field, fmt.Sprintf("The %s field must be a string.", name))
		return false
	}

	valid := true
	length := utf8.RuneCountInString(str)

	if s.minLength != nil && length < *s.minLength {
		result.AddError(field, fmt.Sprintf("The %s field must be at least %d characters.", name, *s.minLength))
		valid = false
	}
	if s.maxLength != nil && length > *s.maxLength {
		result.AddError(field, fmt.Sprintf("The %s field must not be greater than %d characters.", name, *s.maxLength))
		valid = false
	}
	if s.pattern != nil && !s.pattern.MatchString(str) {
		result.AddError(field, fmt.Sprintf("The %s field format is invalid.", name))
		valid = false
	}
	if s.allowedValues != nil && !contains(s.allowedValues, str) {
		result.AddError(field, fmt.Sprintf("The selected %s is invalid.", name))
		valid = false
	}

	return valid
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
