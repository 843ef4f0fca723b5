package models

import (
	"errors"
	"math"
	"time"
)

// FormStatus, başvurunun inceleme durumu.
type FormStatus string

const (
	FormPending  FormStatus = "pending"
	FormApproved FormStatus = "approved"
	FormRejected FormStatus = "rejected"
)

// ErrInvalidTransition, izin verilmeyen durum geçişi.
var ErrInvalidTransition = errors.New("invalid status transition")

var allowedTransitions = map[FormStatus][]FormStatus{
	FormPending:  {FormApproved, FormRejected},
	FormApproved: {FormRejected},
	FormRejected: {FormPending},
}

func (s FormStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsActive, durumun tekillik kuralına dahil olup olmadığını söyler.
func (s FormStatus) IsActive() bool {
	return s == FormPending || s == FormApproved
}

// CanTransitionTo, s → next geçişinin izinli olup olmadığını döndürür.
func (s FormStatus) CanTransitionTo(next FormStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ActiveMarker, tekillik index'inde kullanılan kolon değeri: aktif
// durumlarda 1, reddedilmiş formlarda NULL. MySQL unique index'leri NULL
// içeren satırları karşılaştırmaz.
func (s FormStatus) ActiveMarker() *int {
	if !s.IsActive() {
		return nil
	}
	one := 1
	return &one
}

// AdmissionForm, gönderilmiş başvuru kaydı. ID aynı zamanda sıralı form
// numarasıdır.
type AdmissionForm struct {
	BaseModel

	Shift              string `json:"shift" db:"shift"`
	ProgramID          int64  `json:"program_id" db:"program_id"`
	SubjectCombination string `json:"subject_combination" db:"subject_combination"` // kombinasyon yoksa boş

	FullName         string    `json:"full_name" db:"full_name"`
	FatherName       string    `json:"father_name" db:"father_name"`
	CNIC             string    `json:"cnic" db:"cnic"`
	DateOfBirth      time.Time `json:"date_of_birth" db:"date_of_birth"`
	Gender           string    `json:"gender" db:"gender"`
	Religion         string    `json:"religion" db:"religion"`
	Nationality      string    `json:"nationality" db:"nationality"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	GuardianName     string    `json:"guardian_name" db:"guardian_name"`
	GuardianRelation string    `json:"guardian_relation" db:"guardian_relation"`
	GuardianPhone    string    `json:"guardian_phone" db:"guardian_phone"`
	GuardianIncome   *int64    `json:"guardian_income,omitempty" db:"guardian_income"`
	Address          string    `json:"address" db:"address"`
	City             string    `json:"city" db:"city"`

	PhotoPath    string     `json:"photo_path" db:"photo_path"`
	Status       FormStatus `json:"status" db:"status"`
	ActiveMarker *int       `json:"-" db:"active_marker"`

	ProgramName  string            `json:"program_name,omitempty" db:"-"`
	PhotoURL     string            `json:"photo_url,omitempty" db:"-"`
	Examinations []FormExamination `json:"examinations" db:"-"`
	Documents    []FormDocument    `json:"documents" db:"-"`
}

// FormNo, sıralı form numarası.
func (f *AdmissionForm) FormNo() int64 {
	return f.ID
}

// FormExamination, bir başvurudaki tek bir sınav bloğu.
type FormExamination struct {
	BaseModel
	AdmissionFormID int64   `json:"admission_form_id" db:"admission_form_id"`
	Name            string  `json:"name" db:"name"`
	Year            int     `json:"year" db:"year"`
	Board           string  `json:"board" db:"board"`
	RollNo          string  `json:"roll_no" db:"roll_no"`
	TotalMarks      float64 `json:"total_marks" db:"total_marks"`
	ObtainedMarks   float64 `json:"obtained_marks" db:"obtained_marks"`
	Percentage      float64 `json:"percentage" db:"percentage"`
}

// Percentage, round(obtained/total×100, 2). total sıfır ise 0 döner.
func Percentage(obtained, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(obtained/total*100*100) / 100
}

// FormDocument, başvuruya yüklenmiş belge meta verisi. Path private
// storage içindeki yoldur ve API'ye gönderilmez.
type FormDocument struct {
	BaseModel
	AdmissionFormID int64  `json:"admission_form_id" db:"admission_form_id"`
	Name            string `json:"name" db:"name"`
	DocumentKey     string `json:"document_key" db:"document_key"`
	OriginalName    string `json:"original_name" db:"original_name"`
	MimeType        string `json:"mime_type" db:"mime_type"`
	Size            int64  `json:"size" db:"size"`
	Path            string `json:"-" db:"path"`
}
