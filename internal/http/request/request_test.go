package request

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biyonik/admission-api/internal/services"
	"github.com/biyonik/admission-api/pkg/auth"
	testhelpers "github.com/biyonik/admission-api/pkg/testing"
)

func decode(t *testing.T, fields map[string]string, files []testhelpers.FileField, limits SubmissionLimits) (*services.SubmissionInput, error) {
	t.Helper()

	var (
		in  *services.SubmissionInput
		err error
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		in, err = New(r).SubmissionInput(limits)
	})
	testhelpers.NewTestRequest("POST", "/api/v1/admissions").WithMultipart(fields, files).Send(handler)
	return in, err
}

func defaultLimits() SubmissionLimits {
	return SubmissionLimits{MaxMemory: 1 << 20, PhotoMaxBytes: 2 << 20, DocumentMaxBytes: 5 << 20}
}

func TestSubmissionInputDecodesIndexedFields(t *testing.T) {
	fields := map[string]string{
		"program_id":                        "20",
		"shift_id":                          "1",
		"cnic":                              "35202-1234567-1",
		"program_category":                  "ignored",
		"examination[1][name]":              "Intermediate",
		"examination[0][name]":              "Matric",
		"examination[0][obtained_marks]":    "850",
		"examination[0][total_marks]":       "1100",
		"documents[0][name]":                "Character Certificate",
		"documents[1][name]":                "Domicile",
		"examination[0][unknown_sub_field]": "x",
	}
	files := []testhelpers.FileField{
		{Field: "photo", Filename: "me.png", Content: testhelpers.PNGBytes(4, 4)},
		{Field: "documents[0][file]", Filename: "cc.pdf", Content: testhelpers.PDFBytes(512)},
	}

	in, err := decode(t, fields, files, defaultLimits())
	if err != nil {
		t.Fatal(err)
	}

	if in.ProgramID != "20" || in.ShiftID != "1" || in.Profile.CNIC != "35202-1234567-1" {
		t.Errorf("scalar fields = %+v", in)
	}
	if len(in.Examinations) != 2 || in.Examinations[0].Name != "Matric" || in.Examinations[1].Name != "Intermediate" {
		t.Fatalf("examinations = %+v", in.Examinations)
	}
	if in.Examinations[0].TotalMarks != "1100" || in.Examinations[0].ObtainedMarks != "850" {
		t.Errorf("marks = %+v", in.Examinations[0])
	}

	if len(in.Documents) != 2 {
		t.Fatalf("documents = %+v", in.Documents)
	}
	if in.Documents[0].File == nil || in.Documents[0].File.MIME != "application/pdf" {
		t.Errorf("document file = %+v", in.Documents[0].File)
	}
	if in.Documents[1].File != nil {
		t.Errorf("optional document should have no file")
	}
	if in.Photo == nil || in.Photo.MIME != "image/png" {
		t.Errorf("photo = %+v", in.Photo)
	}
}

func TestSubmissionInputRejectsHugeIndex(t *testing.T) {
	_, err := decode(t, map[string]string{"examination[500][name]": "Matric"}, nil, defaultLimits())
	if !errors.Is(err, ErrMalformedSubmission) {
		t.Errorf("err = %v, want ErrMalformedSubmission", err)
	}
}

func TestSubmissionInputTruncatesOversizedFiles(t *testing.T) {
	limits := defaultLimits()
	limits.DocumentMaxBytes = 1024

	in, err := decode(t, map[string]string{"documents[0][name]": "Character Certificate"},
		[]testhelpers.FileField{{Field: "documents[0][file]", Filename: "big.pdf", Content: testhelpers.PDFBytes(4096)}},
		limits)
	if err != nil {
		t.Fatal(err)
	}
	if got := in.Documents[0].File.FileSize(); got != 1025 {
		t.Errorf("size = %d, want limit+1", got)
	}
}

func TestSubmissionInputRequiresMultipart(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/admissions", nil)
	r.Header.Set("Content-Type", "application/json")
	if _, err := New(r).SubmissionInput(defaultLimits()); !errors.Is(err, ErrMalformedSubmission) {
		t.Errorf("err = %v", err)
	}
}

func TestRouteIDAndAuthUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/admin/admissions/7", nil)
	ctx := context.WithValue(r.Context(), RequestParamsKey, map[string]string{"id": "7", "bad": "x"})
	ctx = auth.WithUser(ctx, &auth.AuthenticatedUser{ID: 3, Role: "staff"})
	req := New(r.WithContext(ctx))

	if id, ok := req.RouteID("id"); !ok || id != 7 {
		t.Errorf("RouteID = %d, %v", id, ok)
	}
	if _, ok := req.RouteID("bad"); ok {
		t.Error("non numeric id accepted")
	}
	if req.AuthUserID() != 3 {
		t.Errorf("AuthUserID = %d", req.AuthUserID())
	}

	if _, err := New(r).AuthUser(); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v", err)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.5:5123"
	if got := ClientIP(r); got != "10.0.0.5" {
		t.Errorf("ClientIP = %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Errorf("ClientIP = %q", got)
	}
}
