package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/repositories"
	"github.com/biyonik/admission-api/pkg/events"
	"github.com/biyonik/admission-api/pkg/validation"
)

// -----------------------------------------------------------------------------
// Referans veri yönetimi
// -----------------------------------------------------------------------------
// Vardiya, grup, program, sınav, belge, belge gereksinimi ve ders
// kombinasyonu CRUD'u. Her başarılı yazma catalog.changed yayınlar;
// listener katalog cache'ini siler.
// -----------------------------------------------------------------------------

// CatalogChange, catalog.changed event'inin payload'ı.
type CatalogChange struct {
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
	Action string `json:"action"` // created, updated, deleted
}

type ShiftPayload struct {
	Name   string              `json:"name" validate:"required,notblank,max=50"`
	Status models.RecordStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

type ExaminationResultPayload struct {
	Title    string  `json:"title" validate:"required,notblank,max=100"`
	Subtitle *string `json:"subtitle" validate:"omitempty,max=255"`
}

type ProgramGroupPayload struct {
	Name                 string              `json:"name" validate:"required,notblank,max=100"`
	Status               models.RecordStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	ExaminationResultIDs []int64             `json:"examination_result_ids" validate:"dive,gt=0"`
}

type ProgramPayload struct {
	ProgramGroupID       int64               `json:"program_group_id" validate:"required,gt=0"`
	ShiftID              *int64              `json:"shift_id" validate:"omitempty,gt=0"`
	Name                 string              `json:"name" validate:"required,notblank,max=150"`
	Abbreviation         string              `json:"abbreviation" validate:"required,notblank,max=30"`
	Status               models.RecordStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	ExaminationResultIDs []int64             `json:"examination_result_ids" validate:"dive,gt=0"`
}

type DocumentPayload struct {
	Name string `json:"name" validate:"required,notblank,max=150"`
}

// DocumentRequirementPayload, program_id ve program_group_id'den tam olarak
// biri dolu olmalıdır; kapsam kalıcılaştırmadan önce varyanta çevrilir.
type DocumentRequirementPayload struct {
	DocumentID     int64  `json:"document_id" validate:"required,gt=0"`
	ProgramID      *int64 `json:"program_id" validate:"omitempty,gt=0"`
	ProgramGroupID *int64 `json:"program_group_id" validate:"omitempty,gt=0"`
	IsRequired     bool   `json:"is_required"`
}

type SubjectCombinationPayload struct {
	ProgramID int64               `json:"program_id" validate:"required,gt=0"`
	ShiftID   *int64              `json:"shift_id" validate:"omitempty,gt=0"`
	Subjects  []string            `json:"subjects" validate:"required,min=1,dive,required,max=100"`
	Status    models.RecordStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ReferenceService
type ReferenceService struct {
	shifts       *repositories.ShiftRepository
	exams        *repositories.ExaminationResultRepository
	groups       *repositories.ProgramGroupRepository
	programs     *repositories.ProgramRepository
	documents    *repositories.DocumentRepository
	combinations *repositories.SubjectCombinationRepository
	dispatcher   EventDispatcher
	logger       *log.Logger
}

func NewReferenceService(
	shifts *repositories.ShiftRepository,
	exams *repositories.ExaminationResultRepository,
	groups *repositories.ProgramGroupRepository,
	programs *repositories.ProgramRepository,
	documents *repositories.DocumentRepository,
	combinations *repositories.SubjectCombinationRepository,
	dispatcher EventDispatcher,
	logger *log.Logger,
) *ReferenceService {
	return &ReferenceService{
		shifts:       shifts,
		exams:        exams,
		groups:       groups,
		programs:     programs,
		documents:    documents,
		combinations: combinations,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// checkPayload, struct doğrulamasını *ValidationFailure'a çevirir.
func checkPayload(payload any) error {
	result := validation.ValidateStruct(payload)
	if !result.HasErrors() {
		return nil
	}
	_, msg, _ := result.FirstError()
	return &ValidationFailure{Errors: result.Errors(), Message: msg}
}

func statusOrDefault(s models.RecordStatus) models.RecordStatus {
	if s == "" {
		return models.StatusActive
	}
	return s
}

func (s *ReferenceService) changed(entity string, id int64, action string) {
	change := CatalogChange{Entity: entity, ID: id, Action: action}
	if err := s.dispatcher.Dispatch(events.NewBaseEvent(events.EventCatalogChanged, change)); err != nil {
		s.logger.Printf("⚠️  catalog.changed listener hatası: %v", err)
	}
}

func (s *ReferenceService) checkExaminationIDs(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[int64]bool, len(ids))
	for _, id := range ids {
		unique[id] = true
	}
	found, err := s.exams.CountExisting(ids)
	if err != nil {
		return err
	}
	if found != int64(len(unique)) {
		msg := "The selected examination results are invalid."
		return &ValidationFailure{Errors: map[string][]string{"examination_result_ids": {msg}}, Message: msg}
	}
	return nil
}

// --- Shifts ---

func (s *ReferenceService) Shifts(activeOnly bool) ([]models.Shift, error) {
	return s.shifts.All(activeOnly)
}

func (s *ReferenceService) SaveShift(id int64, p ShiftPayload) (*models.Shift, error) {
	if err := checkPayload(p); err != nil {
		return nil, err
	}

	shift := &models.Shift{Name: p.Name, Status: statusOrDefault(p.Status)}
	shift.ID = id

	var err error
	if id == 0 {
		err = s.shifts.Create(shift)
	} else {
		err = s.shifts.Update(shift)
	}
	if err != nil {
		return nil, fmt.Errorf("save shift: %w", err)
	}

	s.changed("shift", shift.ID, actionFor(id))
	return shift, nil
}

func (s *ReferenceService) DeleteShift(id int64) error {
	if err := s.shifts.Delete(id); err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	s.changed("shift", id, "deleted")
	return nil
}

// --- Examination results ---

func (s *ReferenceService) ExaminationResults() ([]models.ExaminationResult, error) {
	return s.exams.All()
}

func (s *ReferenceService) SaveExaminationResult(id int64, p ExaminationResultPayload) (*models.ExaminationResult, error) {
	if err := checkPayload(p); err != nil {
		return nil, err
	}

	result := &models.ExaminationResult{Title: p.Title, Subtitle: p.Subtitle}
	result.ID = id

	var err error
	if id == 0 {
		err = s.exams.Create(result)
	} else {
		err = s.exams.Update(result)
	}
	if err != nil {
		return nil, fmt.Errorf("save examination result: %w", err)
	}

	s.changed("examination_result", result.ID, actionFor(id))
	return result, nil
}

func (s *ReferenceService) DeleteExaminationResult(id int64) error {
	if err := s.exams.Delete(id); err != nil {
		return fmt.Errorf("delete examination result: %w", err)
	}
	s.changed("examination_result", id, "deleted")
	return nil
}

// --- Program groups ---

func (s *ReferenceService) ProgramGroups() ([]models.ProgramGroup, error) {
	return s.groups.All()
}

func (s *ReferenceService) SaveProgramGroup(id int64, p ProgramGroupPayload) (*models.ProgramGroup, error) {
	if err := checkPayload(p); err != nil {
		return nil, err
	}
	if err := s.checkExaminationIDs(p.ExaminationResultIDs); err != nil {
		return nil, err
	}

	group := &models.ProgramGroup{Name: p.Name, Status: statusOrDefault(p.Status)}
	group.ID = id
	if err := s.groups.Save(group, p.ExaminationResultIDs); err != nil {
		return nil, fmt.Errorf("save program group: %w", err)
	}

	s.changed("program_group", group.ID, actionFor(id))
	return group, nil
}

func (s *ReferenceService) DeleteProgramGroup(id int64) error {
	if err := s.groups.Delete(id); err != nil {
		return fmt.Errorf("delete program group: %w", err)
	}
	s.changed("program_group", id, "deleted")
	return nil
}

// --- Programs ---

func (s *ReferenceService) Programs(groupID int64) ([]models.Program, error) {
	return s.programs.All(groupID)
}

func (s *ReferenceService) SaveProgram(id int64, p ProgramPayload) (*models.Program, error) {
	if err := checkPayload(p); err != nil {
		return nil, err
	}
	if err := s.checkExaminationIDs(p.ExaminationResultIDs); err != nil {
		return nil, err
	}
	if _, err := s.groups.FindByID(p.ProgramGroupID); err != nil {
		return nil, selectionError(err, "program_group_id", "The selected program group is invalid.")
	}
	if p.ShiftID != nil {
		if _, err := s.shifts.FindByID(*p.ShiftID); err != nil {
			return nil, selectionError(err, "shift_id", "The selected shift is invalid.")
		}
	}

	program := &models.Program{
		ProgramGroupID: p.ProgramGroupID,
		ShiftID:        p.ShiftID,
		Name:           p.Name,
		Abbreviation:   p.Abbreviation,
		Status:         statusOrDefault(p.Status),
	}
	program.ID = id
	if err := s.programs.Save(program, p.ExaminationResultIDs); err != nil {
		return nil, fmt.Errorf("save program: %w", err)
	}

	s.changed("program", program.ID, actionFor(id))
	return program, nil
}

func (s *ReferenceService) DeleteProgram(id int64) error {
	if err := s.programs.Delete(id); err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	s.changed("program", id, "deleted")
	return nil
}

// --- Documents ---

func (s *ReferenceService) Documents() ([]models.Document, error) {
	return s.documents.All()
}

func (s *ReferenceService) SaveDocument(id int64, p DocumentPayload) (*models.Document, error) {
	if err := checkPayload(p); err != nil {
		return nil, err
	}

	document := &models.Document{Name: p.Name}
	document.ID = id

	var err error
	if id == 0 {
		err = s.documents.Create(document)
	} else {
		err = s.documents.Update(document)
	}
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	s.changed("document", document.ID, actionFor(id))
	return document, nil
}

func (s *ReferenceService) DeleteDocument(id int64) error {
	if err := s.documents.Delete(id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	s.changed("document", id, "deleted")
	return nil
}

// --- Document requirements ---

func (s *ReferenceService) DocumentRequirements() ([]models.DocumentRequirement, error) {
	return s.documents.Requirements()
}

// RequirementScope, payload'daki iki nullable foreign key'i varyanta çevirir.
func (p DocumentRequirementPayload) RequirementScope() (models.RequirementScope, error) {
	scope, err := models.ScopeFromColumns(p.ProgramID, p.ProgramGroupID)
	if err != nil {
		msg := "Exactly one of program_id or program_group_id must be provided."
		return models.RequirementScope{}, &ValidationFailure{
			Errors:  map[string][]string{"program_id": {msg}, "program_group_id": {msg}},
			Message: msg,
		}
	}
	return scope, nil
}

func (s *ReferenceService) SaveDocumentRequirement(id int64, p DocumentRequirementPayload) (*models.DocumentRequirement, error) {
	if err := checkPayload(p); err != nil {
		return nil, err
	}
	scope, err := p.RequirementScope()
	if err != nil {
		return nil, err
	}

	document, err := s.documents.FindByID(p.DocumentID)
	if err != nil {
		return nil, selectionError(err, "document_id", "The selected document is invalid.")
	}
	switch scope.Kind() {
	case models.ScopeProgram:
		_, err = s.programs.FindByID(scope.ID())
		err = selectionError(err, "program_id", "The selected program is invalid.")
	case models.ScopeProgramGroup:
		_, err = s.groups.FindByID(scope.ID())
		err = selectionError(err, "program_group_id", "The selected program group is invalid.")
	}
	if err != nil {
		return nil, err
	}

	req := &models.DocumentRequirement{
		ID:         id,
		DocumentID: p.DocumentID,
		Scope:      scope,
		IsRequired: p.IsRequired,
		Document:   *document,
	}
	if err := s.documents.SaveRequirement(req); err != nil {
		return nil, fmt.Errorf("save document requirement: %w", err)
	}

	s.changed("document_requirement", req.ID, actionFor(id))
	return req, nil
}

func (s *ReferenceService) DeleteDocumentRequirement(id int64) error {
	if err := s.documents.DeleteRequirement(id); err != nil {
		return fmt.Errorf("delete document requirement: %w", err)
	}
	s.changed("document_requirement", id, "deleted")
	return nil
}

// --- Subject combinations ---

func (s *ReferenceService) SubjectCombinations(programID int64) ([]models.SubjectCombination, error) {
	return s.combinations.All(programID)
}

func (s *ReferenceService) SaveSubjectCombination(id int64, p SubjectCombinationPayload) (*models.SubjectCombination, error) {
	if err := checkPayload(p); err != nil {
		return nil, err
	}
	if _, err := s.programs.FindByID(p.ProgramID); err != nil {
		return nil, selectionError(err, "program_id", "The selected program is invalid.")
	}

	combination := &models.SubjectCombination{
		ProgramID: p.ProgramID,
		ShiftID:   p.ShiftID,
		Subjects:  models.StringList(p.Subjects),
		Status:    statusOrDefault(p.Status),
	}
	combination.ID = id

	var err error
	if id == 0 {
		err = s.combinations.Create(combination)
	} else {
		err = s.combinations.Update(combination)
	}
	if err != nil {
		return nil, fmt.Errorf("save subject combination: %w", err)
	}

	s.changed("subject_combination", combination.ID, actionFor(id))
	return combination, nil
}

func (s *ReferenceService) DeleteSubjectCombination(id int64) error {
	if err := s.combinations.Delete(id); err != nil {
		return fmt.Errorf("delete subject combination: %w", err)
	}
	s.changed("subject_combination", id, "deleted")
	return nil
}

func actionFor(id int64) string {
	if id == 0 {
		return "created"
	}
	return "updated"
}

// selectionError, referans verilen kaydın bulunamamasını alan hatasına çevirir.
func selectionError(err error, field, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return &ValidationFailure{Errors: map[string][]string{field: {msg}}, Message: msg}
	}
	return err
}
