package services

import (
	"testing"

	"github.com/biyonik/admission-api/pkg/events"
)

func TestCatalogChangedEvictsCache(t *testing.T) {
	source := &fakeCatalogSource{groups: catalogTree()}
	catalog := newCatalogService(t, source)

	d := events.NewDispatcher(quietLogger())
	RegisterListeners(d, catalog, nil, quietLogger())

	if _, err := catalog.Snapshot(); err != nil {
		t.Fatal(err)
	}
	if err := d.Dispatch(events.NewBaseEvent(events.EventCatalogChanged, CatalogChange{Entity: "program", ID: 10, Action: "updated"})); err != nil {
		t.Fatal(err)
	}
	if _, err := catalog.Snapshot(); err != nil {
		t.Fatal(err)
	}

	if source.calls != 2 {
		t.Errorf("source calls = %d, want 2 after eviction", source.calls)
	}
}

func TestDocumentRequirementPayloadScope(t *testing.T) {
	id := int64(3)

	tests := []struct {
		name    string
		payload DocumentRequirementPayload
		wantErr bool
	}{
		{"program", DocumentRequirementPayload{DocumentID: 1, ProgramID: &id}, false},
		{"group", DocumentRequirementPayload{DocumentID: 1, ProgramGroupID: &id}, false},
		{"both", DocumentRequirementPayload{DocumentID: 1, ProgramID: &id, ProgramGroupID: &id}, true},
		{"neither", DocumentRequirementPayload{DocumentID: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := tt.payload.RequirementScope()
			if tt.wantErr {
				if !isValidationFailure(err) {
					t.Errorf("err = %v, want *ValidationFailure", err)
				}
				return
			}
			if err != nil || !scope.IsValid() {
				t.Errorf("scope = %+v, err = %v", scope, err)
			}
		})
	}
}

func TestCheckPayload(t *testing.T) {
	err := checkPayload(SubjectCombinationPayload{ProgramID: 1, Subjects: []string{}})
	if !isValidationFailure(err) {
		t.Errorf("empty subjects: err = %v", err)
	}
	if err := checkPayload(SubjectCombinationPayload{ProgramID: 1, Subjects: []string{"Physics", "Maths"}}); err != nil {
		t.Errorf("valid payload: %v", err)
	}
	if err := checkPayload(ShiftPayload{Name: "Morning", Status: "paused"}); !isValidationFailure(err) {
		t.Errorf("bad status: err = %v", err)
	}
}
