package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/repositories"
	"github.com/biyonik/admission-api/pkg/events"
	"github.com/biyonik/admission-api/pkg/storage"
	"github.com/biyonik/admission-api/pkg/validation"
)

// CatalogReader, isteğe ait katalog kopyasını verir.
type CatalogReader interface {
	Snapshot() (*Catalog, error)
}

// ShiftLookup, aktif vardiyayı ID ile bulur.
type ShiftLookup interface {
	FindActive(id int64) (*models.Shift, error)
}

// AdmissionStore, başvuru yazma adımlarını tek transaction'da çalıştırır.
type AdmissionStore interface {
	WithinTransaction(fn func(tx repositories.AdmissionTx) error) error
}

// EventDispatcher, senkron event yayını.
type EventDispatcher interface {
	Dispatch(event events.Event) error
}

// SubmissionStage, kayıt durum makinesinin adımları.
type SubmissionStage string

const (
	StageStart                 SubmissionStage = "start"
	StagePhotoProcessed        SubmissionStage = "photo_processed"
	StageProgramResolved       SubmissionStage = "program_resolved"
	StageShiftResolved         SubmissionStage = "shift_resolved"
	StageDocumentsProcessed    SubmissionStage = "documents_processed"
	StageRecordPersisted       SubmissionStage = "record_persisted"
	StageExaminationsPersisted SubmissionStage = "examinations_persisted"
	StageCommitted             SubmissionStage = "committed"
)

// storedFile, telafi için bu denemede yazılan dosya.
type storedFile struct {
	disk storage.Storage
	path string
}

// submission, tek bir denemenin durumu.
type submission struct {
	input   *SubmissionInput
	req     *Requirements
	stage   SubmissionStage
	written []storedFile

	form         *models.AdmissionForm
	shiftID      int64
	combination  *models.SubjectCombination
	documents    []models.FormDocument
	examinations []models.FormExamination
}

// SubmissionService, başvuru gönderimini uçtan uca yürütür: katalogdan
// gereksinim çözümü, dinamik doğrulama, dosya kaydı ve transactional
// kayıt. Herhangi bir adımda hata olursa bu denemede yazılan tüm dosyalar
// silinir ve veritabanı yazmaları geri alınır.
type SubmissionService struct {
	catalog    CatalogReader
	shifts     ShiftLookup
	store      AdmissionStore
	photos     storage.Storage // public alan
	documents  storage.Storage // private alan
	dispatcher EventDispatcher
	limits     RuleLimits
	logger     *log.Logger
}

func NewSubmissionService(
	catalog CatalogReader,
	shifts ShiftLookup,
	store AdmissionStore,
	photos storage.Storage,
	documents storage.Storage,
	dispatcher EventDispatcher,
	limits RuleLimits,
	logger *log.Logger,
) *SubmissionService {
	return &SubmissionService{
		catalog:    catalog,
		shifts:     shifts,
		store:      store,
		photos:     photos,
		documents:  documents,
		dispatcher: dispatcher,
		limits:     limits,
		logger:     logger,
	}
}

// Submit, başvuruyu doğrular ve kaydeder. Dönen hata her zaman
// *NotFoundError, *ValidationFailure, *ProcessingFailure,
// ErrDuplicateApplication veya beklenmeyen bir hatadır.
func (s *SubmissionService) Submit(in *SubmissionInput) (*models.AdmissionForm, error) {
	catalog, err := s.catalog.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("submission: %w", err)
	}

	programID, ok := parseID(in.ProgramID)
	if !ok {
		return nil, notFound("program_id", "The selected program is invalid.")
	}
	req, err := ResolveRequirements(catalog, programID)
	if err != nil {
		return nil, err
	}

	if failure := s.validate(in, req); failure != nil {
		return nil, failure
	}

	sub := &submission{input: in, req: req, stage: StageStart}
	if err := s.run(sub); err != nil {
		s.compensate(sub, err)
		return nil, err
	}

	s.logger.Printf("✅ Başvuru kaydedildi: form #%d (program %d)", sub.form.ID, sub.form.ProgramID)
	if err := s.dispatcher.Dispatch(events.NewBaseEvent(events.EventAdmissionSubmitted, sub.form)); err != nil {
		s.logger.Printf("⚠️  admission.submitted listener hatası: %v", err)
	}
	return sub.form, nil
}

// Rules, programın kural setini döndürür (katalog API'si için).
func (s *SubmissionService) Rules(programID int64) (*Requirements, RuleSet, error) {
	catalog, err := s.catalog.Snapshot()
	if err != nil {
		return nil, RuleSet{}, err
	}
	req, err := ResolveRequirements(catalog, programID)
	if err != nil {
		return nil, RuleSet{}, err
	}
	return req, BuildRulesFor(req, s.limits), nil
}

// validate, profil ve dinamik kuralları çalıştırır; hata varsa çevrilmiş
// *ValidationFailure döndürür.
func (s *SubmissionService) validate(in *SubmissionInput, req *Requirements) *ValidationFailure {
	result := validation.ValidateStruct(in.Profile)
	result.Merge(BuildRulesFor(req, s.limits).Schema().Validate(in.data()))

	if !result.HasErrors() {
		return nil
	}

	translator := NewErrorTranslator(in.examinationNames(), in.documentNames(), req)
	errs, first := translator.Translate(result)
	return &ValidationFailure{Errors: errs, Message: first}
}

// run, durum makinesini sırayla yürütür. Her adım bir önceki başarılıysa çalışır.
func (s *SubmissionService) run(sub *submission) error {
	steps := []struct {
		next SubmissionStage
		fn   func(*submission) error
	}{
		{StagePhotoProcessed, s.processPhoto},
		{StageProgramResolved, s.resolveProgram},
		{StageShiftResolved, s.resolveShift},
		{StageDocumentsProcessed, s.processDocuments},
	}

	for _, step := range steps {
		if err := step.fn(sub); err != nil {
			return err
		}
		sub.stage = step.next
	}

	err := s.store.WithinTransaction(func(tx repositories.AdmissionTx) error {
		if err := s.persistRecord(tx, sub); err != nil {
			return err
		}
		sub.stage = StageRecordPersisted

		if err := s.persistExaminations(tx, sub); err != nil {
			return err
		}
		sub.stage = StageExaminationsPersisted
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrDuplicateApplication
		}
		return err
	}

	sub.stage = StageCommitted
	return nil
}

func (s *SubmissionService) processPhoto(sub *submission) error {
	photo := sub.input.Photo
	if photo == nil || len(photo.Content) == 0 {
		return processing(nil, "A photo is required.")
	}
	if photo.FileSize() > s.limits.PhotoMaxBytes {
		return processing(nil, "The photo must not be greater than %d kilobytes.", s.limits.PhotoMaxBytes/1024)
	}
	if !strings.HasPrefix(photo.MIME, "image/") {
		return processing(nil, "The photo must be an image.")
	}
	if _, err := imaging.Decode(bytes.NewReader(photo.Content)); err != nil {
		return processing(err, "The photo could not be read as an image.")
	}

	path := "photos/" + storage.GenerateUniqueName(photo.Filename)
	if err := s.photos.Put(path, photo.Content); err != nil {
		return processing(err, "The photo could not be stored.")
	}
	sub.written = append(sub.written, storedFile{disk: s.photos, path: path})

	sub.form = &models.AdmissionForm{PhotoPath: path, PhotoURL: s.photos.Url(path)}
	return nil
}

// resolveProgram, programı katalogdan yeniden çözer ve seçilen ders
// kombinasyonunu programın listesinde arar.
func (s *SubmissionService) resolveProgram(sub *submission) error {
	program := sub.req.Program
	sub.form.ProgramID = program.ID
	sub.form.ProgramName = program.Name

	raw := strings.TrimSpace(sub.input.SubjectCombinationID)
	if raw == "" {
		return nil
	}

	id, ok := parseID(raw)
	if !ok {
		return notFound("subject_combination_id", "The selected subject combination is invalid.")
	}
	combination, ok := program.FindSubjectCombination(id)
	if !ok {
		return notFound("subject_combination_id", "The selected subject combination is invalid.")
	}

	sub.combination = &combination
	sub.form.SubjectCombination = combination.Text()
	return nil
}

// resolveShift, vardiyanın hâlâ aktif olduğunu doğrular ve adını forma yazar.
func (s *SubmissionService) resolveShift(sub *submission) error {
	id, ok := parseID(sub.input.ShiftID)
	if !ok {
		return notFound("shift_id", "The selected shift is invalid.")
	}

	shift, err := s.shifts.FindActive(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("shift_id", "The selected shift is invalid.")
		}
		return fmt.Errorf("resolve shift: %w", err)
	}

	if !sub.req.Program.OffersShift(shift.ID) {
		return notFound("shift_id", "The selected shift is not offered for %s.", sub.req.Program.Name)
	}
	if c := sub.combination; c != nil && c.ShiftID != nil && *c.ShiftID != shift.ID {
		return notFound("subject_combination_id", "The selected subject combination is not offered in the %s shift.", shift.Name)
	}

	sub.shiftID = shift.ID
	sub.form.Shift = shift.Name
	return nil
}

// processDocuments, zorunlu belgelerin varlığını ve her dosyanın PDF ve
// boyut sınırına uygunluğunu denetler, sonra private alana yazar.
func (s *SubmissionService) processDocuments(sub *submission) error {
	submitted := make(map[string]*UploadedFile, len(sub.input.Documents))
	for _, d := range sub.input.Documents {
		if d.File != nil {
			submitted[strings.TrimSpace(d.Name)] = d.File
		}
	}

	for _, req := range sub.req.DocumentRequirements {
		name := req.Document.Name
		file, ok := submitted[name]
		if !ok {
			if req.IsRequired {
				return processing(nil, "The %s document is required.", name)
			}
			continue
		}

		if file.MIME != "application/pdf" {
			return processing(nil, "The %s must be a file of type: pdf.", name)
		}
		if file.FileSize() > s.limits.DocumentMaxBytes {
			return processing(nil, "The %s must not be greater than %d kilobytes.", name, s.limits.DocumentMaxBytes/1024)
		}

		path := "documents/" + storage.GenerateUniqueName(file.Filename)
		if err := s.documents.Put(path, file.Content); err != nil {
			return processing(err, "The %s document could not be stored.", name)
		}
		sub.written = append(sub.written, storedFile{disk: s.documents, path: path})

		key := req.Document.DocumentKey
		if key == "" {
			key = models.DocumentKeyFor(name)
		}
		sub.documents = append(sub.documents, models.FormDocument{
			Name:         name,
			DocumentKey:  key,
			OriginalName: file.Filename,
			MimeType:     file.MIME,
			Size:         file.FileSize(),
			Path:         path,
		})
	}
	return nil
}

func (s *SubmissionService) persistRecord(tx repositories.AdmissionTx, sub *submission) error {
	p := sub.input.Profile
	form := sub.form

	dob, err := time.Parse("2006-01-02", p.DateOfBirth)
	if err != nil {
		return processing(err, "The date of birth is invalid.")
	}

	form.FullName = strings.TrimSpace(p.FullName)
	form.FatherName = strings.TrimSpace(p.FatherName)
	form.CNIC = strings.TrimSpace(p.CNIC)
	form.DateOfBirth = dob
	form.Gender = p.Gender
	form.Religion = p.Religion
	form.Nationality = p.Nationality
	form.Email = strings.ToLower(strings.TrimSpace(p.Email))
	form.Phone = p.Phone
	form.GuardianName = strings.TrimSpace(p.GuardianName)
	form.GuardianRelation = p.GuardianRelation
	form.GuardianPhone = p.GuardianPhone
	form.Address = strings.TrimSpace(p.Address)
	form.City = strings.TrimSpace(p.City)
	form.Status = models.FormPending
	if income, ok := parseID(p.GuardianIncome); ok {
		form.GuardianIncome = &income
	}

	exists, err := tx.HasActiveApplication(form.CNIC, form.Shift, form.ProgramID, form.SubjectCombination)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateApplication
	}

	if err := tx.CreateForm(form); err != nil {
		return err
	}

	form.Documents = make([]models.FormDocument, 0, len(sub.documents))
	for _, doc := range sub.documents {
		doc.AdmissionFormID = form.ID
		if err := tx.CreateDocument(&doc); err != nil {
			return err
		}
		form.Documents = append(form.Documents, doc)
	}
	return nil
}

// persistExaminations, gerekli sınavların tamamının gönderildiğini ve her
// bloğun tutarlı olduğunu denetleyip satırları yazar.
func (s *SubmissionService) persistExaminations(tx repositories.AdmissionTx, sub *submission) error {
	provided := make(map[string]bool, len(sub.input.Examinations))
	for _, e := range sub.input.Examinations {
		provided[strings.TrimSpace(e.Name)] = true
	}

	var missing []string
	for _, title := range sub.req.RequiredExaminations {
		if !provided[title] {
			missing = append(missing, title)
		}
	}
	if len(missing) > 0 {
		return processing(nil, "The following examinations are required: %s.", strings.Join(missing, ", "))
	}

	sub.form.Examinations = make([]models.FormExamination, 0, len(sub.input.Examinations))
	for i, e := range sub.input.Examinations {
		exam, err := examinationRecord(e)
		if err != nil {
			label := firstNonEmpty(strings.TrimSpace(e.Name), fmt.Sprintf("Examination #%d", i+1))
			return processing(nil, "The %s examination is invalid: %v.", label, err)
		}

		exam.AdmissionFormID = sub.form.ID
		if err := tx.CreateExamination(&exam); err != nil {
			return err
		}
		sub.form.Examinations = append(sub.form.Examinations, exam)
	}
	return nil
}

var errMarksExceedTotal = errors.New("obtained marks must not exceed total marks")

func examinationRecord(e ExaminationInput) (models.FormExamination, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" || strings.TrimSpace(e.Board) == "" || strings.TrimSpace(e.RollNo) == "" {
		return models.FormExamination{}, errors.New("name, board and roll number are required")
	}

	year, yok := parseID(e.Year)
	total, tok := parseMarks(e.TotalMarks)
	obtained, ook := parseMarks(e.ObtainedMarks)
	if !yok || !tok || !ook {
		return models.FormExamination{}, errors.New("year and marks must be numeric")
	}
	if obtained > total {
		return models.FormExamination{}, errMarksExceedTotal
	}

	return models.FormExamination{
		Name:          name,
		Year:          int(year),
		Board:         strings.TrimSpace(e.Board),
		RollNo:        strings.TrimSpace(e.RollNo),
		TotalMarks:    total,
		ObtainedMarks: obtained,
	}, nil
}

// compensate, bu denemede yazılan dosyaları siler ve hatayı loglar.
// Veritabanı yazmaları WithinTransaction tarafından zaten geri alınmıştır.
func (s *SubmissionService) compensate(sub *submission, cause error) {
	for i := len(sub.written) - 1; i >= 0; i-- {
		f := sub.written[i]
		if err := f.disk.Delete(f.path); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
			s.logger.Printf("⚠️  Telafi: %s silinemedi: %v", f.path, err)
		}
	}

	var (
		processingErr *ProcessingFailure
		notFoundErr   *NotFoundError
	)
	switch {
	case errors.As(cause, &processingErr):
		s.logger.Printf("❌ Başvuru işlenemedi (adım: %s): %v | girdi: %s", sub.stage, cause, sub.input.Redacted())
	case errors.As(cause, &notFoundErr), errors.Is(cause, ErrDuplicateApplication):
		s.logger.Printf("⚠️  Başvuru reddedildi (adım: %s): %v", sub.stage, cause)
	default:
		s.logger.Printf("❌ Beklenmeyen hata (adım: %s): %v | girdi: %s", sub.stage, cause, sub.input.Redacted())
	}
}
