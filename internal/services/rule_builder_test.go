package services

import (
	"encoding/json"
	"reflect"
	"testing"

	testhelpers "github.com/biyonik/admission-api/pkg/testing"
)

func testLimits() RuleLimits {
	limits := DefaultRuleLimits()
	limits.CurrentYear = 2026
	return limits
}

func mergedCatalog() *Catalog {
	return &Catalog{Groups: MergeCatalog(catalogTree())}
}

func TestBuildRulesIsDeterministic(t *testing.T) {
	a, err := BuildRules(mergedCatalog(), 20, testLimits())
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildRules(mergedCatalog(), 20, testLimits())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("rules differ between identical calls:\n%+v\n%+v", a, b)
	}
}

func TestBuildRulesShape(t *testing.T) {
	rules, err := BuildRules(mergedCatalog(), 20, testLimits())
	if err != nil {
		t.Fatal(err)
	}

	if rules.Examinations.Count != 2 || rules.Examinations.MaxYear != 2026 || rules.Examinations.MinYear != 1900 {
		t.Errorf("examination rules = %+v", rules.Examinations)
	}
	if !rules.SubjectCombination {
		t.Error("B.Com-IT offers subject combinations")
	}
	if rules.Documents == nil {
		t.Fatal("documents rules missing")
	}
	if got := rules.Documents.Required; len(got) != 1 || got[0] != "Character Certificate" {
		t.Errorf("required documents = %v", got)
	}

	if _, err := json.Marshal(rules); err != nil {
		t.Errorf("rule set must serialize: %v", err)
	}
}

func TestBuildRulesWithoutDocuments(t *testing.T) {
	rules, err := BuildRules(mergedCatalog(), 10, testLimits())
	if err != nil {
		t.Fatal(err)
	}
	if rules.Documents != nil {
		t.Fatalf("documents rules must be absent, got %+v", rules.Documents)
	}

	// Belge gereksinimi olmayan programda gönderilen belgeler doğrulanmaz.
	result := rules.Schema().Validate(map[string]any{
		"program_id":  "10",
		"shift_id":    "1",
		"photo":       NewUploadedFile("me.png", testhelpers.PNGBytes(4, 4)),
		"examination": []any{examBlock("Matric", "2020", "1100", "850")},
		"documents":   []any{map[string]any{"name": "Anything"}},
	})
	if result.HasErrors() {
		t.Errorf("unexpected errors:\n%s", result)
	}
}

func TestRuleSchemaFieldErrors(t *testing.T) {
	rules, err := BuildRules(mergedCatalog(), 20, testLimits())
	if err != nil {
		t.Fatal(err)
	}
	pdf := NewUploadedFile("cc.pdf", testhelpers.PDFBytes(1024))

	base := func() map[string]any {
		return map[string]any{
			"program_id": "20",
			"shift_id":   "1",
			"photo":      NewUploadedFile("me.png", testhelpers.PNGBytes(4, 4)),
			"examination": []any{
				examBlock("Matric", "2020", "1100", "850"),
				examBlock("Intermediate", "2022", "1100", "900"),
			},
			"documents": []any{map[string]any{"name": "Character Certificate", "file": pdf}},
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"valid", func(map[string]any) {}, ""},
		{"missing photo", func(d map[string]any) { delete(d, "photo") }, "photo"},
		{"photo is a pdf", func(d map[string]any) { d["photo"] = pdf }, "photo"},
		{"one exam short", func(d map[string]any) { d["examination"] = d["examination"].([]any)[:1] }, "examination"},
		{"year in the future", func(d map[string]any) {
			d["examination"].([]any)[1].(map[string]any)["year"] = "2027"
		}, "examination.1.year"},
		{"obtained above total", func(d map[string]any) {
			d["examination"].([]any)[0].(map[string]any)["obtained_marks"] = "1200"
		}, "examination.0.obtained_marks"},
		{"required document missing", func(d map[string]any) {
			d["documents"] = []any{map[string]any{"name": "Domicile", "file": pdf}}
		}, "documents"},
		{"required document without file", func(d map[string]any) {
			d["documents"] = []any{map[string]any{"name": "Character Certificate"}}
		}, "documents.0.file"},
		{"combination id not numeric", func(d map[string]any) { d["subject_combination_id"] = "abc" }, "subject_combination_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := base()
			tt.mutate(data)
			result := rules.Schema().Validate(data)

			if tt.field == "" {
				if result.HasErrors() {
					t.Fatalf("unexpected errors:\n%s", result)
				}
				return
			}
			if !result.HasFieldErrors(tt.field) {
				t.Errorf("expected error on %s, got:\n%s", tt.field, result)
			}
		})
	}
}

func examBlock(name, year, total, obtained string) map[string]any {
	return map[string]any{
		"name":           name,
		"year":           year,
		"board":          "Lahore",
		"roll_no":        "123456",
		"total_marks":    total,
		"obtained_marks": obtained,
	}
}
