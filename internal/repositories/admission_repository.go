package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/pkg/database"
)

// AdmissionTx, başvuru kaydının tek transaction içindeki yazma adımlarıdır.
// Servis katmanı bu arayüzü kullanır; testlerde bellek içi sahte ile değişir.
type AdmissionTx interface {
	// HasActiveApplication, aynı (cnic, shift, program, kombinasyon) için
	// pending veya approved bir başvuru olup olmadığını döndürür.
	HasActiveApplication(cnic, shift string, programID int64, subjectCombination string) (bool, error)
	CreateForm(form *models.AdmissionForm) error
	CreateExamination(exam *models.FormExamination) error
	CreateDocument(doc *models.FormDocument) error
}

// AdmissionFilter, inceleme listesi filtreleri. Boş alanlar uygulanmaz.
type AdmissionFilter struct {
	Status    models.FormStatus
	ProgramID int64
	Shift     string
	From      string // YYYY-MM-DD, created_at dahil
	To        string // YYYY-MM-DD, created_at dahil
	Query     string // ad, CNIC, e-posta veya form numarası
	Page      Page
}

// StatusCount / ProgramCount, dashboard sayaçları.
type StatusCount struct {
	Status models.FormStatus `json:"status" db:"status"`
	Total  int64             `json:"total" db:"total"`
}

type ProgramCount struct {
	ProgramID int64 `json:"program_id" db:"program_id"`
	Total     int64 `json:"total" db:"total"`
}

// AdmissionRepository, admission_forms ve çocuk tabloları.
type AdmissionRepository struct {
	forms        base
	examinations base
	documents    base
	sqlDB        *sql.DB
	logger       *log.Logger
}

func NewAdmissionRepository(db *sql.DB, grammar database.Grammar, logger *log.Logger) *AdmissionRepository {
	return &AdmissionRepository{
		forms:        base{db: db, grammar: grammar, table: "admission_forms"},
		examinations: base{db: db, grammar: grammar, table: "form_examinations"},
		documents:    base{db: db, grammar: grammar, table: "admission_form_documents"},
		sqlDB:        db,
		logger:       logger,
	}
}

// WithinTransaction, fn'i tek bir veritabanı transaction'ı içinde çalıştırır.
// fn hata dönerse tüm yazmalar geri alınır ve hata olduğu gibi döner.
func (r *AdmissionRepository) WithinTransaction(fn func(tx AdmissionTx) error) error {
	return database.WithTransaction(r.sqlDB, r.forms.grammar, r.logger, func(tx *database.Transaction) error {
		return fn(newAdmissionTx(tx.Tx, r.forms.grammar))
	})
}

// admissionTx, AdmissionTx'in *sql.Tx üzerindeki gerçeklemesi.
type admissionTx struct {
	forms        base
	examinations base
	documents    base
}

func newAdmissionTx(exec database.QueryExecutor, grammar database.Grammar) *admissionTx {
	return &admissionTx{
		forms:        base{db: exec, grammar: grammar, table: "admission_forms"},
		examinations: base{db: exec, grammar: grammar, table: "form_examinations"},
		documents:    base{db: exec, grammar: grammar, table: "admission_form_documents"},
	}
}

func (t *admissionTx) HasActiveApplication(cnic, shift string, programID int64, subjectCombination string) (bool, error) {
	exists, err := t.forms.query().
		Where("cnic", "=", cnic).
		Where("shift", "=", shift).
		Where("program_id", "=", programID).
		Where("subject_combination", "=", subjectCombination).
		WhereNotNull("active_marker").
		Exists()
	if err != nil {
		return false, fmt.Errorf("check active application: %w", err)
	}
	return exists, nil
}

// CreateForm, formu yazar. active_marker durumdan türetilir; unique index
// eşzamanlı kopyaları commit anında reddeder ve ErrDuplicate döner.
func (t *admissionTx) CreateForm(form *models.AdmissionForm) error {
	if form.Status == "" {
		form.Status = models.FormPending
	}
	form.ActiveMarker = form.Status.ActiveMarker()

	id, err := t.forms.insert(map[string]interface{}{
		"shift":               form.Shift,
		"program_id":          form.ProgramID,
		"subject_combination": form.SubjectCombination,
		"full_name":           form.FullName,
		"father_name":         form.FatherName,
		"cnic":                form.CNIC,
		"date_of_birth":       form.DateOfBirth,
		"gender":              form.Gender,
		"religion":            form.Religion,
		"nationality":         form.Nationality,
		"email":               form.Email,
		"phone":               form.Phone,
		"guardian_name":       form.GuardianName,
		"guardian_relation":   form.GuardianRelation,
		"guardian_phone":      form.GuardianPhone,
		"guardian_income":     form.GuardianIncome,
		"address":             form.Address,
		"city":                form.City,
		"photo_path":          form.PhotoPath,
		"status":              form.Status,
		"active_marker":       form.ActiveMarker,
	})
	if err != nil {
		return err
	}

	form.ID = id
	form.Initialize()
	return nil
}

func (t *admissionTx) CreateExamination(exam *models.FormExamination) error {
	exam.Percentage = models.Percentage(exam.ObtainedMarks, exam.TotalMarks)

	id, err := t.examinations.insert(map[string]interface{}{
		"admission_form_id": exam.AdmissionFormID,
		"name":              exam.Name,
		"year":              exam.Year,
		"board":             exam.Board,
		"roll_no":           exam.RollNo,
		"total_marks":       exam.TotalMarks,
		"obtained_marks":    exam.ObtainedMarks,
		"percentage":        exam.Percentage,
	})
	if err != nil {
		return err
	}

	exam.ID = id
	exam.Initialize()
	return nil
}

func (t *admissionTx) CreateDocument(doc *models.FormDocument) error {
	id, err := t.documents.insert(map[string]interface{}{
		"admission_form_id": doc.AdmissionFormID,
		"name":              doc.Name,
		"document_key":      doc.DocumentKey,
		"original_name":     doc.OriginalName,
		"mime_type":         doc.MimeType,
		"size":              doc.Size,
		"path":              doc.Path,
	})
	if err != nil {
		return err
	}

	doc.ID = id
	doc.Initialize()
	return nil
}

// -----------------------------------------------------------------------------
// Okuma ve inceleme sorguları
// -----------------------------------------------------------------------------

func (r *AdmissionRepository) applyFilter(q *database.QueryBuilder, f AdmissionFilter) *database.QueryBuilder {
	if f.Status != "" {
		q.Where("status", "=", f.Status)
	}
	if f.ProgramID > 0 {
		q.Where("program_id", "=", f.ProgramID)
	}
	if f.Shift != "" {
		q.Where("shift", "=", f.Shift)
	}
	if f.From != "" {
		q.WhereDate("created_at", ">=", f.From)
	}
	if f.To != "" {
		q.WhereDate("created_at", "<=", f.To)
	}

	if term := strings.TrimSpace(f.Query); term != "" {
		columns := []string{"full_name", "father_name", "cnic", "email"}
		if _, err := strconv.ParseInt(term, 10, 64); err == nil {
			columns = append(columns, "id")
		}
		q.WhereAny(columns, "LIKE", "%"+term+"%")
	}
	return q
}

// List, filtreye uyan formları en yeni önce döndürür; toplam sayıyı da verir.
func (r *AdmissionRepository) List(f AdmissionFilter) ([]models.AdmissionForm, int64, error) {
	page := f.Page.normalized()

	total, err := r.applyFilter(r.forms.query(), f).Count()
	if err != nil {
		return nil, 0, fmt.Errorf("count admissions: %w", err)
	}

	forms := []models.AdmissionForm{}
	err = r.applyFilter(r.forms.query(), f).
		OrderBy("id", "DESC").
		Limit(page.PerPage).
		Offset(page.offset()).
		Get(&forms)
	if err != nil {
		return nil, 0, fmt.Errorf("list admissions: %w", err)
	}
	return forms, total, nil
}

// FindByID, formu sınav ve belge satırlarıyla birlikte döndürür.
func (r *AdmissionRepository) FindByID(id int64) (*models.AdmissionForm, error) {
	var form models.AdmissionForm
	if err := r.forms.findByID(id, &form); err != nil {
		return nil, err
	}
	if err := r.loadChildren(&form); err != nil {
		return nil, err
	}
	return &form, nil
}

// FindByFormNoAndCNIC, başvuru sahibinin durum sorgusu. İki değer birlikte
// eşleşmezse ErrNotFound döner.
func (r *AdmissionRepository) FindByFormNoAndCNIC(formNo int64, cnic string) (*models.AdmissionForm, error) {
	var form models.AdmissionForm
	err := r.forms.query().
		Where("id", "=", formNo).
		Where("cnic", "=", cnic).
		First(&form)
	if err != nil {
		return nil, classify(err)
	}
	if err := r.loadChildren(&form); err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *AdmissionRepository) loadChildren(form *models.AdmissionForm) error {
	form.Examinations = []models.FormExamination{}
	if err := r.examinations.query().
		Where("admission_form_id", "=", form.ID).
		OrderBy("id", "ASC").
		Get(&form.Examinations); err != nil {
		return fmt.Errorf("load form examinations: %w", err)
	}

	form.Documents = []models.FormDocument{}
	if err := r.documents.query().
		Where("admission_form_id", "=", form.ID).
		OrderBy("id", "ASC").
		Get(&form.Documents); err != nil {
		return fmt.Errorf("load form documents: %w", err)
	}
	return nil
}

// FindDocument, formun document_key ile eşleşen belgesini döndürür.
func (r *AdmissionRepository) FindDocument(formID int64, documentKey string) (*models.FormDocument, error) {
	var doc models.FormDocument
	err := r.documents.query().
		Where("admission_form_id", "=", formID).
		Where("document_key", "=", documentKey).
		First(&doc)
	if err != nil {
		return nil, classify(err)
	}
	return &doc, nil
}

// UpdateStatus, durumu ve active_marker'ı birlikte yazar. Aktif bir duruma
// dönüş başka bir aktif formla çakışırsa ErrDuplicate döner.
func (r *AdmissionRepository) UpdateStatus(id int64, status models.FormStatus) error {
	err := r.forms.updateByID(id, map[string]interface{}{
		"status":        status,
		"active_marker": status.ActiveMarker(),
	})
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrDuplicate) {
		return fmt.Errorf("update admission status: %w", err)
	}
	return err
}

func (r *AdmissionRepository) CountByStatus() ([]StatusCount, error) {
	counts := []StatusCount{}
	err := r.forms.query().
		Select("status", "COUNT(*) as total").
		GroupBy("status").
		OrderBy("status", "ASC").
		Get(&counts)
	if err != nil {
		return nil, fmt.Errorf("count admissions by status: %w", err)
	}
	return counts, nil
}

func (r *AdmissionRepository) CountByProgram() ([]ProgramCount, error) {
	counts := []ProgramCount{}
	err := r.forms.query().
		Select("program_id", "COUNT(*) as total").
		GroupBy("program_id").
		OrderBy("program_id", "ASC").
		Get(&counts)
	if err != nil {
		return nil, fmt.Errorf("count admissions by program: %w", err)
	}
	return counts, nil
}

// CountSince, verilen andan sonra oluşturulan form sayısı.
func (r *AdmissionRepository) CountSince(since time.Time) (int64, error) {
	return r.forms.query().Where("created_at", ">=", since).Count()
}
