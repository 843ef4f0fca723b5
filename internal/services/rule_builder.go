package services

import (
	"time"

	"github.com/biyonik/admission-api/pkg/validation"
	"github.com/biyonik/admission-api/pkg/validation/types"
)

// Sınav bloklarının alt alanları.
var examinationFields = []string{"name", "year", "board", "roll_no", "total_marks", "obtained_marks"}

// RuleLimits, kural setinin program dışı parametreleri.
type RuleLimits struct {
	PhotoMaxBytes    int64
	DocumentMaxBytes int64
	MinYear          int
	CurrentYear      int // 0 ise time.Now().Year()
}

// DefaultRuleLimits: fotoğraf 2MB, belge 5MB, yıl [1900, bu yıl].
func DefaultRuleLimits() RuleLimits {
	return RuleLimits{
		PhotoMaxBytes:    2 * 1024 * 1024,
		DocumentMaxBytes: 5 * 1024 * 1024,
		MinYear:          1900,
	}
}

// FileRule, tek dosya alanı kuralı.
type FileRule struct {
	Required  bool     `json:"required"`
	MimeTypes []string `json:"mime_types"`
	MaxBytes  int64    `json:"max_bytes"`
}

// ExaminationRules, sınav blokları için sabit sayılı kurallar.
type ExaminationRules struct {
	Count          int      `json:"count"`
	AllowedNames   []string `json:"allowed_names"`
	RequiredFields []string `json:"required_fields"`
	MinYear        int      `json:"min_year"`
	MaxYear        int      `json:"max_year"`
	MinTotalMarks  float64  `json:"min_total_marks"`
}

// DocumentRules, belge dizisi kuralları. Required listesindeki her ad
// gönderilen belgeler arasında bulunmalı ve dosyası olmalıdır.
type DocumentRules struct {
	Required []string `json:"required"`
	Accepted []string `json:"accepted"`
	File     FileRule `json:"file"`
}

// RuleSet, bir program için başvuru doğrulama kurallarının bildirimsel
// hali. JSON'a çevrilebilir; ön yüz aynı kuralları gösterebilir.
// Documents, programın hiç belge gereksinimi yoksa nil'dir ve alan hiç
// doğrulanmaz.
type RuleSet struct {
	ProgramID          int64            `json:"program_id"`
	SubjectCombination bool             `json:"subject_combinations_offered"`
	Photo              FileRule         `json:"photo"`
	Examinations       ExaminationRules `json:"examinations"`
	Documents          *DocumentRules   `json:"documents,omitempty"`
}

// BuildRules, katalog kopyası ve program ID'sinden kural setini üretir.
// İstekten bağımsızdır; aynı girdiler her zaman aynı kural setini verir.
func BuildRules(catalog *Catalog, programID int64, limits RuleLimits) (RuleSet, error) {
	req, err := ResolveRequirements(catalog, programID)
	if err != nil {
		return RuleSet{}, err
	}
	return BuildRulesFor(req, limits), nil
}

// BuildRulesFor, çözümlenmiş gereksinimlerden kural setini üretir.
func BuildRulesFor(req *Requirements, limits RuleLimits) RuleSet {
	maxYear := limits.CurrentYear
	if maxYear == 0 {
		maxYear = time.Now().Year()
	}

	names := make([]string, len(req.RequiredExaminations))
	copy(names, req.RequiredExaminations)

	rules := RuleSet{
		ProgramID:          req.Program.ID,
		SubjectCombination: len(req.SubjectCombinations) > 0,
		Photo: FileRule{
			Required:  true,
			MimeTypes: []string{"image/*"},
			MaxBytes:  limits.PhotoMaxBytes,
		},
		Examinations: ExaminationRules{
			Count:          len(names),
			AllowedNames:   names,
			RequiredFields: examinationFields,
			MinYear:        limits.MinYear,
			MaxYear:        maxYear,
			MinTotalMarks:  1,
		},
	}

	if len(req.DocumentRequirements) > 0 {
		required := req.RequiredDocumentNames()
		if required == nil {
			required = []string{}
		}
		rules.Documents = &DocumentRules{
			Required: required,
			Accepted: req.DocumentNames(),
			File: FileRule{
				MimeTypes: []string{"application/pdf"},
				MaxBytes:  limits.DocumentMaxBytes,
			},
		}
	}

	return rules
}

// Schema, kural setini doğrulama şemasına derler. Aynı index'teki
// total_marks ve obtained_marks aynı nesne içinde karşılaştırılır.
func (rs RuleSet) Schema() validation.Schema {
	exam := rs.Examinations
	block := types.Object().Shape(map[string]validation.Type{
		"name":           types.String().Required().Trim().OneOf(exam.AllowedNames),
		"year":           types.Number().Required().Digits(4).Min(float64(exam.MinYear)).Max(float64(exam.MaxYear)),
		"board":          types.String().Required().Trim().Max(100),
		"roll_no":        types.String().Required().Trim().Max(50),
		"total_marks":    types.Number().Required().Min(exam.MinTotalMarks),
		"obtained_marks": types.Number().Required().Min(0),
	}).LessOrEqual("obtained_marks", "total_marks")

	shape := map[string]validation.Type{
		"program_id":             types.Number().Required().Integer().Min(1),
		"shift_id":               types.Number().Required().Integer().Min(1),
		"subject_combination_id": types.Number().Integer().Min(1),
		"photo": types.File().Required().
			MimeTypes(rs.Photo.MimeTypes...).
			MaxSize(rs.Photo.MaxBytes),
		"examination": types.Array().Required().
			Length(exam.Count).
			Elements(block),
	}

	if docs := rs.Documents; docs != nil {
		doc := types.Object().Shape(map[string]validation.Type{
			"name": types.String().Required().Trim().OneOf(docs.Accepted),
			"file": types.File().MimeTypes(docs.File.MimeTypes...).MaxSize(docs.File.MaxBytes),
		}).RequiredWhen("file", "name", docs.Required)

		shape["documents"] = types.Array().Required().
			Includes("name", docs.Required).
			Elements(doc)
	}

	return validation.Make().Shape(shape)
}
