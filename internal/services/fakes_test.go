package services

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"path/filepath"
	"testing"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/repositories"
	"github.com/biyonik/admission-api/pkg/cache"
	"github.com/biyonik/admission-api/pkg/events"
	"github.com/biyonik/admission-api/pkg/storage"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func int64Ptr(v int64) *int64 { return &v }

// --- Katalog fixture'ı ---
//
// Intermediate (1): grup sınavı Matric
//   F.Sc.Pre-Med (10): kendi sınavı yok
//   I.C.S (11): Matric (grupla aynı, tekilleşmeli)
// Associate Degree (2): grup sınavları Matric, Intermediate; grup belgesi Domicile (opsiyonel)
//   B.Com-IT (20): Character Certificate zorunlu, bir ders kombinasyonu, yalnızca Morning vardiyası

var (
	matric       = models.ExaminationResult{BaseModel: models.BaseModel{ID: 1}, Title: "Matric"}
	intermediate = models.ExaminationResult{BaseModel: models.BaseModel{ID: 2}, Title: "Intermediate"}

	characterCertificate = models.Document{BaseModel: models.BaseModel{ID: 1}, Name: "Character Certificate", DocumentKey: "character_certificate"}
	domicile             = models.Document{BaseModel: models.BaseModel{ID: 2}, Name: "Domicile", DocumentKey: "domicile"}
)

func catalogTree() []models.ProgramGroup {
	return []models.ProgramGroup{
		{
			BaseModel:          models.BaseModel{ID: 1},
			Name:               "Intermediate",
			Status:             models.StatusActive,
			ExaminationResults: []models.ExaminationResult{matric},
			Programs: []models.Program{
				{BaseModel: models.BaseModel{ID: 10}, ProgramGroupID: 1, Name: "F.Sc.Pre-Med", Status: models.StatusActive},
				{BaseModel: models.BaseModel{ID: 11}, ProgramGroupID: 1, Name: "I.C.S", Status: models.StatusActive,
					ExaminationResults: []models.ExaminationResult{matric}},
			},
		},
		{
			BaseModel:          models.BaseModel{ID: 2},
			Name:               "Associate Degree",
			Status:             models.StatusActive,
			ExaminationResults: []models.ExaminationResult{matric, intermediate},
			DocumentRequirements: []models.DocumentRequirement{
				{ID: 1, DocumentID: domicile.ID, Scope: models.ForProgramGroup(2), IsRequired: false, Document: domicile},
			},
			Programs: []models.Program{
				{
					BaseModel:      models.BaseModel{ID: 20},
					ProgramGroupID: 2,
					ShiftID:        int64Ptr(1),
					Name:           "B.Com-IT",
					Status:         models.StatusActive,
					DocumentRequirements: []models.DocumentRequirement{
						{ID: 2, DocumentID: characterCertificate.ID, Scope: models.ForProgram(20), IsRequired: true, Document: characterCertificate},
					},
					SubjectCombinations: []models.SubjectCombination{
						{BaseModel: models.BaseModel{ID: 5}, ProgramID: 20, Subjects: models.StringList{"Accounting", "IT"}, Status: models.StatusActive},
					},
				},
			},
		},
	}
}

type fakeCatalogSource struct {
	groups []models.ProgramGroup
	err    error
	calls  int
}

func (f *fakeCatalogSource) LoadTree() ([]models.ProgramGroup, error) {
	f.calls++
	return f.groups, f.err
}

func newCatalogService(t *testing.T, source CatalogSource) *CatalogService {
	t.Helper()
	mc := cache.NewMemoryCache(quietLogger(), 0)
	t.Cleanup(mc.Close)
	return NewCatalogService(source, mc, DefaultCatalogTTL, quietLogger())
}

// --- Vardiyalar ---

type fakeShifts map[int64]models.Shift

func (f fakeShifts) FindActive(id int64) (*models.Shift, error) {
	shift, ok := f[id]
	if !ok || shift.Status != models.StatusActive {
		return nil, repositories.ErrNotFound
	}
	return &shift, nil
}

func defaultShifts() fakeShifts {
	return fakeShifts{
		1: {BaseModel: models.BaseModel{ID: 1}, Name: "Morning", Status: models.StatusActive},
		2: {BaseModel: models.BaseModel{ID: 2}, Name: "Evening", Status: models.StatusActive},
		3: {BaseModel: models.BaseModel{ID: 3}, Name: "Weekend", Status: models.StatusInactive},
	}
}

// --- Bellek içi başvuru deposu ---

var errExamInsert = errors.New("insert form_examinations: boom")

// memoryStore, transaction'ı hazırlık kopyası üzerinde çalıştırır ve fn
// başarılıysa kopyayı kalıcı hale getirir.
type memoryStore struct {
	forms        []models.AdmissionForm
	examinations []models.FormExamination
	documents    []models.FormDocument
	nextID       int64

	failExamination bool
}

type memoryTx struct {
	store        *memoryStore
	forms        []models.AdmissionForm
	examinations []models.FormExamination
	documents    []models.FormDocument
	nextID       int64
}

func (s *memoryStore) WithinTransaction(fn func(tx repositories.AdmissionTx) error) error {
	tx := &memoryTx{
		store:        s,
		forms:        append([]models.AdmissionForm(nil), s.forms...),
		examinations: append([]models.FormExamination(nil), s.examinations...),
		documents:    append([]models.FormDocument(nil), s.documents...),
		nextID:       s.nextID,
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.forms, s.examinations, s.documents, s.nextID = tx.forms, tx.examinations, tx.documents, tx.nextID
	return nil
}

func (t *memoryTx) HasActiveApplication(cnic, shift string, programID int64, combination string) (bool, error) {
	for _, f := range t.forms {
		if f.CNIC == cnic && f.Shift == shift && f.ProgramID == programID &&
			f.SubjectCombination == combination && f.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (t *memoryTx) CreateForm(form *models.AdmissionForm) error {
	t.nextID++
	form.ID = t.nextID
	form.ActiveMarker = form.Status.ActiveMarker()
	t.forms = append(t.forms, *form)
	return nil
}

func (t *memoryTx) CreateExamination(exam *models.FormExamination) error {
	if t.store.failExamination {
		return errExamInsert
	}
	exam.Percentage = models.Percentage(exam.ObtainedMarks, exam.TotalMarks)
	exam.ID = int64(len(t.examinations) + 1)
	t.examinations = append(t.examinations, *exam)
	return nil
}

func (t *memoryTx) CreateDocument(doc *models.FormDocument) error {
	doc.ID = int64(len(t.documents) + 1)
	t.documents = append(t.documents, *doc)
	return nil
}

// --- Disk ---

func newDisks(t *testing.T) (*storage.LocalStorage, *storage.LocalStorage, string, string) {
	t.Helper()
	publicDir := filepath.Join(t.TempDir(), "public")
	privateDir := filepath.Join(t.TempDir(), "private")

	public, err := storage.NewLocalStorage(publicDir, "/storage", storage.VisibilityPublic, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	private, err := storage.NewLocalStorage(privateDir, "", storage.VisibilityPrivate, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	return public, private, publicDir, privateDir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// recordingDispatcher, yayınlanan event adlarını toplar.
type recordingDispatcher struct {
	names []string
	inner *events.Dispatcher
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{inner: events.NewDispatcher(quietLogger())}
}

func (d *recordingDispatcher) Dispatch(e events.Event) error {
	d.names = append(d.names, e.Name())
	return d.inner.Dispatch(e)
}
