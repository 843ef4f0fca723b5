package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRequirementScopeFromColumns(t *testing.T) {
	id := int64(4)

	tests := []struct {
		name      string
		programID *int64
		groupID   *int64
		wantKind  ScopeKind
		wantErr   bool
	}{
		{"program only", &id, nil, ScopeProgram, false},
		{"group only", nil, &id, ScopeProgramGroup, false},
		{"both", &id, &id, "", true},
		{"neither", nil, nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := ScopeFromColumns(tt.programID, tt.groupID)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidScope) {
					t.Fatalf("err = %v, want ErrInvalidScope", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if scope.Kind() != tt.wantKind || scope.ID() != 4 {
				t.Errorf("scope = %v/%d", scope.Kind(), scope.ID())
			}
		})
	}
}

func TestRequirementScopeJSON(t *testing.T) {
	data, err := json.Marshal(ForProgramGroup(9))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"program_group","id":9}` {
		t.Errorf("MarshalJSON = %s", data)
	}

	var scope RequirementScope
	if err := json.Unmarshal([]byte(`{"type":"program","id":3}`), &scope); err != nil {
		t.Fatal(err)
	}
	if !scope.AppliesTo(3, 1) || scope.AppliesTo(4, 1) {
		t.Errorf("AppliesTo mismatch for %+v", scope)
	}

	if err := json.Unmarshal([]byte(`{"type":"faculty","id":3}`), &scope); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("unknown kind: err = %v", err)
	}
	if _, err := json.Marshal(RequirementScope{}); err == nil {
		t.Error("zero scope must not marshal")
	}
}

func TestMergeDocumentRequirementsProgramWins(t *testing.T) {
	group := []DocumentRequirement{
		{DocumentID: 1, Scope: ForProgramGroup(1), IsRequired: false},
		{DocumentID: 2, Scope: ForProgramGroup(1), IsRequired: true},
	}
	program := []DocumentRequirement{
		{DocumentID: 1, Scope: ForProgram(5), IsRequired: true},
		{DocumentID: 3, Scope: ForProgram(5), IsRequired: false},
	}

	merged := MergeDocumentRequirements(group, program)
	if len(merged) != 3 {
		t.Fatalf("len = %d, want 3", len(merged))
	}
	if !merged[0].IsRequired || merged[0].Scope.Kind() != ScopeProgram {
		t.Errorf("program level must override group level: %+v", merged[0])
	}
	if merged[2].DocumentID != 3 {
		t.Errorf("program-only document should be appended last: %+v", merged[2])
	}
}

func TestMergeExaminationResultsDeduplicates(t *testing.T) {
	matric := ExaminationResult{BaseModel: BaseModel{ID: 1}, Title: "Matric"}
	inter := ExaminationResult{BaseModel: BaseModel{ID: 2}, Title: "Intermediate"}

	merged := MergeExaminationResults([]ExaminationResult{matric}, []ExaminationResult{matric, inter})
	if len(merged) != 2 || merged[0].Title != "Matric" || merged[1].Title != "Intermediate" {
		t.Errorf("merged = %+v", merged)
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to FormStatus
		want     bool
	}{
		{FormPending, FormApproved, true},
		{FormPending, FormRejected, true},
		{FormApproved, FormRejected, true},
		{FormRejected, FormPending, true},
		{FormApproved, FormPending, false},
		{FormRejected, FormApproved, false},
		{FormPending, FormPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s → %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}

	if FormRejected.ActiveMarker() != nil {
		t.Error("rejected forms must not carry an active marker")
	}
	if m := FormApproved.ActiveMarker(); m == nil || *m != 1 {
		t.Error("approved forms must carry active marker 1")
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		obtained, total, want float64
	}{
		{850, 1100, 77.27},
		{1100, 1100, 100},
		{0, 500, 0},
		{333, 0, 0},
		{412.5, 550, 75},
	}
	for _, tt := range tests {
		if got := Percentage(tt.obtained, tt.total); got != tt.want {
			t.Errorf("Percentage(%v, %v) = %v, want %v", tt.obtained, tt.total, got, tt.want)
		}
	}
}

func TestDocumentKeyFor(t *testing.T) {
	tests := map[string]string{
		"Character Certificate":         "character_certificate",
		"  Domicile  ":                  "domicile",
		"Matric Result Card (Attested)": "matric_result_card_attested",
		"B-Form / CNIC":                 "b_form_cnic",
	}
	for in, want := range tests {
		if got := DocumentKeyFor(in); got != want {
			t.Errorf("DocumentKeyFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStringListScan(t *testing.T) {
	var l StringList
	if err := l.Scan([]byte(`["Physics","Chemistry","Biology"]`)); err != nil {
		t.Fatal(err)
	}
	c := SubjectCombination{Subjects: l}
	if c.Text() != "Physics, Chemistry, Biology" {
		t.Errorf("Text() = %q", c.Text())
	}

	if err := l.Scan(nil); err != nil || len(l) != 0 {
		t.Errorf("NULL scan = %v, %v", l, err)
	}
	v, _ := StringList(nil).Value()
	if v != "[]" {
		t.Errorf("nil Value() = %v", v)
	}
}
