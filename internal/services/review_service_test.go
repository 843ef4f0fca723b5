package services

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/repositories"
	"github.com/biyonik/admission-api/pkg/events"
)

type fakeReviewStore struct {
	forms      map[int64]*models.AdmissionForm
	documents  map[string]*models.FormDocument
	duplicate  bool
	lastFilter repositories.AdmissionFilter
	since      time.Time
}

func (f *fakeReviewStore) List(filter repositories.AdmissionFilter) ([]models.AdmissionForm, int64, error) {
	f.lastFilter = filter
	var out []models.AdmissionForm
	for _, form := range f.forms {
		out = append(out, *form)
	}
	return out, int64(len(out)), nil
}

func (f *fakeReviewStore) FindByID(id int64) (*models.AdmissionForm, error) {
	form, ok := f.forms[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *form
	return &copied, nil
}

func (f *fakeReviewStore) FindByFormNoAndCNIC(formNo int64, cnic string) (*models.AdmissionForm, error) {
	form, ok := f.forms[formNo]
	if !ok || form.CNIC != cnic {
		return nil, repositories.ErrNotFound
	}
	copied := *form
	return &copied, nil
}

func (f *fakeReviewStore) FindDocument(formID int64, key string) (*models.FormDocument, error) {
	doc, ok := f.documents[key]
	if !ok || doc.AdmissionFormID != formID {
		return nil, repositories.ErrNotFound
	}
	return doc, nil
}

func (f *fakeReviewStore) UpdateStatus(id int64, status models.FormStatus) error {
	if f.duplicate && status.IsActive() {
		return repositories.ErrDuplicate
	}
	f.forms[id].Status = status
	return nil
}

func (f *fakeReviewStore) CountByStatus() ([]repositories.StatusCount, error) {
	return []repositories.StatusCount{{Status: models.FormPending, Total: 3}, {Status: models.FormRejected, Total: 1}}, nil
}

func (f *fakeReviewStore) CountByProgram() ([]repositories.ProgramCount, error) {
	return []repositories.ProgramCount{{ProgramID: 20, Total: 4}}, nil
}

func (f *fakeReviewStore) CountSince(since time.Time) (int64, error) {
	f.since = since
	return 2, nil
}

func newReviewFixture(t *testing.T) (*ReviewService, *fakeReviewStore, *recordingDispatcher, string) {
	t.Helper()
	public, private, _, _ := newDisks(t)

	if err := private.Put("documents/cc.pdf", []byte("%PDF-1.4")); err != nil {
		t.Fatal(err)
	}

	store := &fakeReviewStore{
		forms: map[int64]*models.AdmissionForm{
			1: {BaseModel: models.BaseModel{ID: 1}, CNIC: "35202-1234567-1", ProgramID: 20, PhotoPath: "photos/a.png", Status: models.FormPending},
			2: {BaseModel: models.BaseModel{ID: 2}, CNIC: "35202-1234567-1", ProgramID: 10, Status: models.FormRejected},
		},
		documents: map[string]*models.FormDocument{
			"character_certificate": {AdmissionFormID: 1, DocumentKey: "character_certificate", Path: "documents/cc.pdf"},
			"domicile":              {AdmissionFormID: 1, DocumentKey: "domicile", Path: "documents/missing.pdf"},
		},
	}
	dispatcher := newRecordingDispatcher()
	catalog := newCatalogService(t, &fakeCatalogSource{groups: catalogTree()})

	return NewReviewService(store, catalog, public, private, dispatcher, quietLogger()), store, dispatcher, "/storage/photos/a.png"
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(map[string]string{
		"status":     "pending",
		"program_id": "20",
		"from":       "2024-05-01",
		"to":         "2024-05-31",
		"q":          "  khan ",
		"page":       "2",
		"per_page":   "",
	})
	if err != nil {
		t.Fatal(err)
	}
	if f.Status != models.FormPending || f.ProgramID != 20 || f.Query != "khan" || f.Page.Number != 2 {
		t.Errorf("filter = %+v", f)
	}
	if f.From != "2024-05-01" || f.To != "2024-05-31" {
		t.Errorf("dates = %s..%s", f.From, f.To)
	}

	tests := map[string]map[string]string{
		"status":   {"status": "archived"},
		"to":       {"from": "2024-05-10", "to": "2024-05-01"},
		"from":     {"from": "10/05/2024"},
		"per_page": {"per_page": "500"},
	}
	for field, query := range tests {
		_, err := ParseFilter(query)
		var vf *ValidationFailure
		if !errors.As(err, &vf) || len(vf.Errors[field]) == 0 {
			t.Errorf("%v: err = %v, want error on %s", query, err, field)
		}
	}
}

func TestReviewListDecoratesForms(t *testing.T) {
	svc, store, _, photoURL := newReviewFixture(t)

	page, err := svc.List(map[string]string{"status": "pending"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || page.Page != 1 || page.PerPage != 20 {
		t.Errorf("page = %+v", page)
	}
	if store.lastFilter.Status != models.FormPending {
		t.Errorf("filter not forwarded: %+v", store.lastFilter)
	}

	for _, form := range page.Data {
		if form.ID == 1 && (form.ProgramName != "B.Com-IT" || form.PhotoURL != photoURL) {
			t.Errorf("form 1 = %q %q", form.ProgramName, form.PhotoURL)
		}
	}
}

func TestChangeStatus(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		next    models.FormStatus
		dup     bool
		wantErr func(error) bool
	}{
		{"pending to approved", 1, models.FormApproved, false, nil},
		{"rejected to pending", 2, models.FormPending, false, nil},
		{"rejected to approved", 2, models.FormApproved, false, isValidationFailure},
		{"unknown status", 1, "archived", false, isValidationFailure},
		{"missing form", 99, models.FormApproved, false, func(err error) bool { return errors.Is(err, repositories.ErrNotFound) }},
		{"reopen clashes with active form", 2, models.FormPending, true, func(err error) bool { return errors.Is(err, ErrDuplicateApplication) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, dispatcher, _ := newReviewFixture(t)
			store.duplicate = tt.dup

			form, err := svc.ChangeStatus(tt.id, tt.next, 42)
			if tt.wantErr != nil {
				if !tt.wantErr(err) {
					t.Fatalf("unexpected err %v", err)
				}
				if len(dispatcher.names) != 0 {
					t.Errorf("no event expected, got %v", dispatcher.names)
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}
			if form.Status != tt.next || store.forms[tt.id].Status != tt.next {
				t.Errorf("status = %s, stored %s", form.Status, store.forms[tt.id].Status)
			}
			if len(dispatcher.names) != 1 || dispatcher.names[0] != events.EventAdmissionStatusChanged {
				t.Errorf("events = %v", dispatcher.names)
			}
		})
	}
}

func isValidationFailure(err error) bool {
	var vf *ValidationFailure
	return errors.As(err, &vf)
}

func TestLookupRequiresMatchingCNIC(t *testing.T) {
	svc, _, _, _ := newReviewFixture(t)

	if _, err := svc.Lookup(1, "35202-1234567-1"); err != nil {
		t.Errorf("Lookup: %v", err)
	}
	if _, err := svc.Lookup(1, "35202-7654321-1"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestOpenDocument(t *testing.T) {
	svc, _, _, _ := newReviewFixture(t)

	doc, stream, err := svc.OpenDocument(1, "character_certificate")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	body, err := io.ReadAll(stream)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "%PDF-1.4" || doc.DocumentKey != "character_certificate" {
		t.Errorf("document = %+v, body %q", doc, body)
	}

	if _, _, err := svc.OpenDocument(1, "domicile"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("file missing on disk: err = %v, want ErrNotFound", err)
	}
	if _, _, err := svc.OpenDocument(2, "character_certificate"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("document of another form: err = %v, want ErrNotFound", err)
	}
}

func TestDashboard(t *testing.T) {
	svc, store, _, _ := newReviewFixture(t)

	d, err := svc.Dashboard()
	if err != nil {
		t.Fatal(err)
	}
	if d.Total != 4 || d.ByStatus[models.FormApproved] != 0 || d.ByStatus[models.FormPending] != 3 {
		t.Errorf("dashboard = %+v", d)
	}
	if d.Last24h != 2 || time.Since(store.since) < 23*time.Hour {
		t.Errorf("last 24h = %d since %v", d.Last24h, store.since)
	}
	if len(d.ByProgram) != 1 || d.ByProgram[0].ProgramName != "B.Com-IT" {
		t.Errorf("by program = %+v", d.ByProgram)
	}
}
