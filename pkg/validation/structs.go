package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// -----------------------------------------------------------------------------
// Struct Validation
// -----------------------------------------------------------------------------
// Sabit şekilli payload'lar (başvuru sahibinin profili, yönetim paneli JSON
// istekleri) struct tag'leri ile doğrulanır. Hatalar İngilizce çevirilerle
// aynı ValidationResult'a, JSON alan adıyla anahtarlanarak yazılır.
// -----------------------------------------------------------------------------

const (
	cnicTag  = "cnic"
	phoneTag = "phone"
	blankTag = "notblank"
)

var (
	// 12345-1234567-1 veya 13 hane
	cnicPattern  = regexp.MustCompile(`^(\d{5}-\d{7}-\d|\d{13})$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\- ]{8,18}[0-9]$`)
)

var (
	structValidator *validator.Validate
	translator      ut.Translator
)

func init() {
	structValidator = validator.New(validator.WithRequiredStructEnabled())

	locale := en.New()
	uni := ut.New(locale, locale)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(structValidator, translator)

	// Hata anahtarları JSON alan adlarıdır.
	structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = structValidator.RegisterValidation(cnicTag, matches(cnicPattern))
	_ = structValidator.RegisterValidation(phoneTag, matches(phonePattern))
	_ = structValidator.RegisterValidation(blankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	registerTranslation("required", "The {0} field is required.", true)
	registerTranslation(blankTag, "The {0} field is required.", false)
	registerTranslation(cnicTag, "The {0} must be a valid CNIC (12345-1234567-1).", false)
	registerTranslation(phoneTag, "The {0} must be a valid phone number.", false)
}

func matches(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

func registerTranslation(tag, text string, override bool) {
	_ = structValidator.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidateStruct, v'yi struct tag'lerine göre doğrular. Struct olmayan veya
// nil bir değer verilirse hata CrossValidationField altına yazılır.
//
// Örnek:
//
//	type LoginRequest struct {
//	    Email string `json:"email" validate:"required,email"`
//	}
//	result := validation.ValidateStruct(req) // "email": ["The email field is required."]
func ValidateStruct(v any) *ValidationResult {
	result := NewResult()

	err := structValidator.Struct(v)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.AddError(CrossValidationField, err.Error())
		return result
	}

	for _, fe := range fieldErrs {
		result.AddError(fieldKey(fe), fe.Translate(translator))
	}
	return result
}

// fieldKey, iç içe struct'larda "guardian.phone" gibi noktalı yolu üretir.
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}
