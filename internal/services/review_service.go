package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/repositories"
	"github.com/biyonik/admission-api/pkg/events"
	"github.com/biyonik/admission-api/pkg/storage"
	"github.com/biyonik/admission-api/pkg/validation"
	"github.com/biyonik/admission-api/pkg/validation/types"
)

// ReviewStore, personel inceleme ekranlarının okuma/yazma ihtiyaçları.
type ReviewStore interface {
	List(f repositories.AdmissionFilter) ([]models.AdmissionForm, int64, error)
	FindByID(id int64) (*models.AdmissionForm, error)
	FindByFormNoAndCNIC(formNo int64, cnic string) (*models.AdmissionForm, error)
	FindDocument(formID int64, documentKey string) (*models.FormDocument, error)
	UpdateStatus(id int64, status models.FormStatus) error
	CountByStatus() ([]repositories.StatusCount, error)
	CountByProgram() ([]repositories.ProgramCount, error)
	CountSince(since time.Time) (int64, error)
}

// AdmissionPage, sayfalanmış liste sonucu.
type AdmissionPage struct {
	Data    []models.AdmissionForm `json:"data"`
	Total   int64                  `json:"total"`
	Page    int                    `json:"page"`
	PerPage int                    `json:"per_page"`
}

// StatusChange, admission.status_changed payload'ı.
type StatusChange struct {
	FormID    int64             `json:"form_id"`
	From      models.FormStatus `json:"from"`
	To        models.FormStatus `json:"to"`
	ChangedBy int64             `json:"changed_by"`

	Form *models.AdmissionForm `json:"-"`
}

// Dashboard, durum ve program bazında başvuru sayıları.
type Dashboard struct {
	ByStatus  map[models.FormStatus]int64 `json:"by_status"`
	ByProgram []ProgramTotal              `json:"by_program"`
	Total     int64                       `json:"total"`
	Last24h   int64                       `json:"last_24h"`
}

type ProgramTotal struct {
	ProgramID   int64  `json:"program_id"`
	ProgramName string `json:"program_name"`
	Total       int64  `json:"total"`
}

// ReviewService, başvuruların personel tarafından incelenmesi.
type ReviewService struct {
	store      ReviewStore
	catalog    CatalogReader
	photos     storage.Storage
	documents  storage.Storage
	dispatcher EventDispatcher
	logger     *log.Logger
}

func NewReviewService(store ReviewStore, catalog CatalogReader, photos, documents storage.Storage, dispatcher EventDispatcher, logger *log.Logger) *ReviewService {
	return &ReviewService{
		store:      store,
		catalog:    catalog,
		photos:     photos,
		documents:  documents,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// filterSchema, liste sorgu parametrelerinin şeması. to, from'dan önce olamaz.
func filterSchema() validation.Schema {
	return validation.Make().Shape(map[string]validation.Type{
		"status":     types.String().OneOf([]string{string(models.FormPending), string(models.FormApproved), string(models.FormRejected)}),
		"program_id": types.Number().Integer().Min(1),
		"shift":      types.String().Trim().Max(50),
		"from":       types.Date(),
		"to":         types.Date(),
		"q":          types.String().Trim().Max(100),
		"page":       types.Number().Integer().Min(1),
		"per_page":   types.Number().Integer().Min(1).Max(100),
	}).CrossValidate(func(data map[string]any) error {
		from, ok1 := data["from"].(time.Time)
		to, ok2 := data["to"].(time.Time)
		if ok1 && ok2 && to.Before(from) {
			return validation.NewFieldError("to", "The to date must be a date after or equal to from.")
		}
		return nil
	})
}

// ParseFilter, ham sorgu parametrelerini doğrulayıp filtreye çevirir.
func ParseFilter(query map[string]string) (repositories.AdmissionFilter, error) {
	data := make(map[string]any, len(query))
	for k, v := range query {
		if v != "" {
			data[k] = v
		}
	}

	result := filterSchema().Validate(data)
	if result.HasErrors() {
		_, msg, _ := result.FirstError()
		return repositories.AdmissionFilter{}, &ValidationFailure{Errors: result.Errors(), Message: msg}
	}

	valid := result.ValidData()
	f := repositories.AdmissionFilter{
		Status: models.FormStatus(stringValue(valid["status"])),
		Shift:  stringValue(valid["shift"]),
		Query:  stringValue(valid["q"]),
	}
	if id, ok := types.ToFloat(valid["program_id"]); ok {
		f.ProgramID = int64(id)
	}
	if from, ok := valid["from"].(time.Time); ok {
		f.From = from.Format("2006-01-02")
	}
	if to, ok := valid["to"].(time.Time); ok {
		f.To = to.Format("2006-01-02")
	}
	if page, ok := types.ToFloat(valid["page"]); ok {
		f.Page.Number = int(page)
	}
	if perPage, ok := types.ToFloat(valid["per_page"]); ok {
		f.Page.PerPage = int(perPage)
	}
	return f, nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func (s *ReviewService) List(query map[string]string) (*AdmissionPage, error) {
	filter, err := ParseFilter(query)
	if err != nil {
		return nil, err
	}

	forms, total, err := s.store.List(filter)
	if err != nil {
		return nil, err
	}

	names := s.programNames()
	for i := range forms {
		s.decorate(&forms[i], names)
	}

	page := filter.Page
	if page.Number < 1 {
		page.Number = 1
	}
	if page.PerPage < 1 {
		page.PerPage = 20
	}
	return &AdmissionPage{Data: forms, Total: total, Page: page.Number, PerPage: page.PerPage}, nil
}

func (s *ReviewService) Show(id int64) (*models.AdmissionForm, error) {
	form, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.decorate(form, s.programNames())
	return form, nil
}

// Lookup, başvuru sahibinin form numarası ve CNIC ile durum sorgusu.
func (s *ReviewService) Lookup(formNo int64, cnic string) (*models.AdmissionForm, error) {
	form, err := s.store.FindByFormNoAndCNIC(formNo, cnic)
	if err != nil {
		return nil, err
	}
	s.decorate(form, s.programNames())
	return form, nil
}

// ChangeStatus, izinli geçişi uygular. Aktif bir duruma dönüş başka bir
// aktif başvuruyla çakışırsa ErrDuplicateApplication döner.
func (s *ReviewService) ChangeStatus(id int64, next models.FormStatus, actorID int64) (*models.AdmissionForm, error) {
	if !next.Valid() {
		msg := "The selected status is invalid."
		return nil, &ValidationFailure{Errors: map[string][]string{"status": {msg}}, Message: msg}
	}

	form, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}

	previous := form.Status
	if !previous.CanTransitionTo(next) {
		msg := fmt.Sprintf("A %s application cannot be marked as %s.", previous, next)
		return nil, &ValidationFailure{Errors: map[string][]string{"status": {msg}}, Message: msg}
	}

	if err := s.store.UpdateStatus(id, next); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateApplication
		}
		return nil, err
	}

	form.Status = next
	form.ActiveMarker = next.ActiveMarker()
	form.Touch()
	s.decorate(form, s.programNames())

	change := StatusChange{FormID: id, From: previous, To: next, ChangedBy: actorID, Form: form}
	if err := s.dispatcher.Dispatch(events.NewBaseEvent(events.EventAdmissionStatusChanged, change)); err != nil {
		s.logger.Printf("⚠️  admission.status_changed listener hatası: %v", err)
	}
	return form, nil
}

// OpenDocument, private alandaki belgeyi stream olarak açar. Çağıran
// reader'ı kapatmalıdır.
func (s *ReviewService) OpenDocument(formID int64, documentKey string) (*models.FormDocument, io.ReadCloser, error) {
	doc, err := s.store.FindDocument(formID, documentKey)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.documents.GetStream(doc.Path)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			s.logger.Printf("⚠️  Form #%d belgesi diskte yok: %s", formID, doc.Path)
			return nil, nil, repositories.ErrNotFound
		}
		return nil, nil, fmt.Errorf("open document: %w", err)
	}
	return doc, stream, nil
}

func (s *ReviewService) Dashboard() (*Dashboard, error) {
	byStatus, err := s.store.CountByStatus()
	if err != nil {
		return nil, err
	}
	byProgram, err := s.store.CountByProgram()
	if err != nil {
		return nil, err
	}
	recent, err := s.store.CountSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		ByStatus: map[models.FormStatus]int64{
			models.FormPending:  0,
			models.FormApproved: 0,
			models.FormRejected: 0,
		},
		ByProgram: make([]ProgramTotal, 0, len(byProgram)),
		Last24h:   recent,
	}
	for _, c := range byStatus {
		d.ByStatus[c.Status] = c.Total
		d.Total += c.Total
	}

	names := s.programNames()
	for _, c := range byProgram {
		d.ByProgram = append(d.ByProgram, ProgramTotal{ProgramID: c.ProgramID, ProgramName: names[c.ProgramID], Total: c.Total})
	}
	return d, nil
}

// programNames, katalogdan program adlarını okur. Katalog okunamazsa boş
// döner; adlar yalnızca gösterim içindir.
func (s *ReviewService) programNames() map[int64]string {
	names := make(map[int64]string)
	catalog, err := s.catalog.Snapshot()
	if err != nil {
		s.logger.Printf("⚠️  Program adları okunamadı: %v", err)
		return names
	}
	for _, p := range catalog.Programs() {
		names[p.ID] = p.Name
	}
	return names
}

func (s *ReviewService) decorate(form *models.AdmissionForm, names map[int64]string) {
	if form.PhotoPath != "" {
		form.PhotoURL = s.photos.Url(form.PhotoPath)
	}
	if name, ok := names[form.ProgramID]; ok {
		form.ProgramName = name
	}
}
