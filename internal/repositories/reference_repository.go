package repositories

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/pkg/database"
)

// -----------------------------------------------------------------------------
// Reference Data Repositories
// -----------------------------------------------------------------------------
// Vardiya, grup, program, sınav, belge, belge gereksinimi ve ders
// kombinasyonu tabloları için CRUD. Başvuru hattı bu tabloları yalnızca
// CatalogRepository üzerinden okur.
// -----------------------------------------------------------------------------

// ShiftRepository
type ShiftRepository struct {
	base
}

func NewShiftRepository(db *sql.DB, grammar database.Grammar) *ShiftRepository {
	return &ShiftRepository{base{db: db, grammar: grammar, table: "shifts"}}
}

func (r *ShiftRepository) All(activeOnly bool) ([]models.Shift, error) {
	q := r.query().OrderBy("id", "ASC")
	if activeOnly {
		q.Where("status", "=", models.StatusActive)
	}

	shifts := []models.Shift{}
	if err := q.Get(&shifts); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

func (r *ShiftRepository) FindByID(id int64) (*models.Shift, error) {
	var shift models.Shift
	if err := r.findByID(id, &shift); err != nil {
		return nil, err
	}
	return &shift, nil
}

// FindActive, aktif vardiyayı döndürür; pasif veya silinmiş vardiya için
// ErrNotFound döner.
func (r *ShiftRepository) FindActive(id int64) (*models.Shift, error) {
	var shift models.Shift
	err := r.query().
		Where("id", "=", id).
		Where("status", "=", models.StatusActive).
		First(&shift)
	if err != nil {
		return nil, classify(err)
	}
	return &shift, nil
}

func (r *ShiftRepository) Create(shift *models.Shift) error {
	id, err := r.insert(map[string]interface{}{
		"name":   shift.Name,
		"status": shift.Status,
	})
	if err != nil {
		return err
	}
	shift.ID = id
	return nil
}

func (r *ShiftRepository) Update(shift *models.Shift) error {
	return r.updateByID(shift.ID, map[string]interface{}{
		"name":   shift.Name,
		"status": shift.Status,
	})
}

func (r *ShiftRepository) Delete(id int64) error {
	return r.deleteByID(id)
}

// ExaminationResultRepository
type ExaminationResultRepository struct {
	base
}

func NewExaminationResultRepository(db *sql.DB, grammar database.Grammar) *ExaminationResultRepository {
	return &ExaminationResultRepository{base{db: db, grammar: grammar, table: "examination_results"}}
}

func (r *ExaminationResultRepository) All() ([]models.ExaminationResult, error) {
	results := []models.ExaminationResult{}
	if err := r.query().OrderBy("id", "ASC").Get(&results); err != nil {
		return nil, fmt.Errorf("list examination results: %w", err)
	}
	return results, nil
}

func (r *ExaminationResultRepository) FindByID(id int64) (*models.ExaminationResult, error) {
	var result models.ExaminationResult
	if err := r.findByID(id, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CountExisting, verilen ID'lerden kaç tanesinin var olduğunu döndürür.
func (r *ExaminationResultRepository) CountExisting(ids []int64) (int64, error) {
	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return r.query().WhereIn("id", values).Count()
}

func (r *ExaminationResultRepository) Create(result *models.ExaminationResult) error {
	id, err := r.insert(map[string]interface{}{
		"title":    result.Title,
		"subtitle": result.Subtitle,
	})
	if err != nil {
		return err
	}
	result.ID = id
	return nil
}

func (r *ExaminationResultRepository) Update(result *models.ExaminationResult) error {
	return r.updateByID(result.ID, map[string]interface{}{
		"title":    result.Title,
		"subtitle": result.Subtitle,
	})
}

func (r *ExaminationResultRepository) Delete(id int64) error {
	return r.deleteByID(id)
}

// ProgramGroupRepository
type ProgramGroupRepository struct {
	base
	sqlDB  *sql.DB
	logger *log.Logger
}

func NewProgramGroupRepository(db *sql.DB, grammar database.Grammar, logger *log.Logger) *ProgramGroupRepository {
	return &ProgramGroupRepository{
		base:   base{db: db, grammar: grammar, table: "program_groups"},
		sqlDB:  db,
		logger: logger,
	}
}

func (r *ProgramGroupRepository) All() ([]models.ProgramGroup, error) {
	groups := []models.ProgramGroup{}
	if err := r.query().OrderBy("name", "ASC").Get(&groups); err != nil {
		return nil, fmt.Errorf("list program groups: %w", err)
	}
	return groups, nil
}

func (r *ProgramGroupRepository) FindByID(id int64) (*models.ProgramGroup, error) {
	var group models.ProgramGroup
	if err := r.findByID(id, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// Save, grubu ve sınav pivotunu tek transaction içinde yazar. ID sıfırsa
// insert, değilse update yapılır.
func (r *ProgramGroupRepository) Save(group *models.ProgramGroup, examinationResultIDs []int64) error {
	return database.WithTransaction(r.sqlDB, r.grammar, r.logger, func(tx *database.Transaction) error {
		txBase := base{db: tx.Tx, grammar: r.grammar, table: r.table}
		data := map[string]interface{}{
			"name":   group.Name,
			"status": group.Status,
		}

		if group.ID == 0 {
			id, err := txBase.insert(data)
			if err != nil {
				return err
			}
			group.ID = id
		} else if err := txBase.updateByID(group.ID, data); err != nil {
			return err
		}

		return syncPivot(tx.Tx, r.grammar, "program_group_examination_results", "program_group_id", group.ID, examinationResultIDs)
	})
}

func (r *ProgramGroupRepository) Delete(id int64) error {
	return r.deleteByID(id)
}

// ProgramRepository
type ProgramRepository struct {
	base
	sqlDB  *sql.DB
	logger *log.Logger
}

func NewProgramRepository(db *sql.DB, grammar database.Grammar, logger *log.Logger) *ProgramRepository {
	return &ProgramRepository{
		base:   base{db: db, grammar: grammar, table: "programs"},
		sqlDB:  db,
		logger: logger,
	}
}

func (r *ProgramRepository) All(groupID int64) ([]models.Program, error) {
	q := r.query().OrderBy("name", "ASC")
	if groupID > 0 {
		q.Where("program_group_id", "=", groupID)
	}

	programs := []models.Program{}
	if err := q.Get(&programs); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

func (r *ProgramRepository) FindByID(id int64) (*models.Program, error) {
	var program models.Program
	if err := r.findByID(id, &program); err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *ProgramRepository) Save(program *models.Program, examinationResultIDs []int64) error {
	return database.WithTransaction(r.sqlDB, r.grammar, r.logger, func(tx *database.Transaction) error {
		txBase := base{db: tx.Tx, grammar: r.grammar, table: r.table}
		data := map[string]interface{}{
			"program_group_id": program.ProgramGroupID,
			"shift_id":         program.ShiftID,
			"name":             program.Name,
			"abbreviation":     program.Abbreviation,
			"status":           program.Status,
		}

		if program.ID == 0 {
			id, err := txBase.insert(data)
			if err != nil {
				return err
			}
			program.ID = id
		} else if err := txBase.updateByID(program.ID, data); err != nil {
			return err
		}

		return syncPivot(tx.Tx, r.grammar, "program_examination_results", "program_id", program.ID, examinationResultIDs)
	})
}

func (r *ProgramRepository) Delete(id int64) error {
	return r.deleteByID(id)
}

// DocumentRepository, belge türleri ve belge gereksinimleri.
type DocumentRepository struct {
	base
}

func NewDocumentRepository(db *sql.DB, grammar database.Grammar) *DocumentRepository {
	return &DocumentRepository{base{db: db, grammar: grammar, table: "documents"}}
}

func (r *DocumentRepository) All() ([]models.Document, error) {
	documents := []models.Document{}
	if err := r.query().OrderBy("name", "ASC").Get(&documents); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return documents, nil
}

func (r *DocumentRepository) FindByID(id int64) (*models.Document, error) {
	var document models.Document
	if err := r.findByID(id, &document); err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *DocumentRepository) Create(document *models.Document) error {
	document.DocumentKey = models.DocumentKeyFor(document.Name)
	id, err := r.insert(map[string]interface{}{
		"name":         document.Name,
		"document_key": document.DocumentKey,
	})
	if err != nil {
		return err
	}
	document.ID = id
	return nil
}

func (r *DocumentRepository) Update(document *models.Document) error {
	document.DocumentKey = models.DocumentKeyFor(document.Name)
	return r.updateByID(document.ID, map[string]interface{}{
		"name":         document.Name,
		"document_key": document.DocumentKey,
	})
}

func (r *DocumentRepository) Delete(id int64) error {
	return r.deleteByID(id)
}

func (r *DocumentRepository) requirements() base {
	return base{db: r.db, grammar: r.grammar, table: "document_requirements"}
}

// Requirements, tüm belge gereksinimlerini belgeleriyle birlikte döndürür.
func (r *DocumentRepository) Requirements() ([]models.DocumentRequirement, error) {
	documents, err := r.All()
	if err != nil {
		return nil, err
	}
	docByID := make(map[int64]models.Document, len(documents))
	for _, d := range documents {
		docByID[d.ID] = d
	}

	var rows []documentRequirementRow
	if err := r.requirements().query().OrderBy("id", "ASC").Get(&rows); err != nil {
		return nil, fmt.Errorf("list document requirements: %w", err)
	}

	out := make([]models.DocumentRequirement, 0, len(rows))
	for _, row := range rows {
		req, err := row.toModel(docByID)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *DocumentRepository) FindRequirement(id int64) (*models.DocumentRequirement, error) {
	var row documentRequirementRow
	if err := r.requirements().findByID(id, &row); err != nil {
		return nil, err
	}

	document, err := r.FindByID(row.DocumentID)
	if err != nil {
		return nil, err
	}

	req, err := row.toModel(map[int64]models.Document{document.ID: *document})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// SaveRequirement, gereksinimi yazar. Kapsam zaten geçerli bir varyant
// olduğundan iki foreign key'in ikisi birden dolu veya boş olamaz.
func (r *DocumentRepository) SaveRequirement(req *models.DocumentRequirement) error {
	if !req.Scope.IsValid() {
		return models.ErrInvalidScope
	}

	programID, groupID := req.Scope.Columns()
	data := map[string]interface{}{
		"document_id":      req.DocumentID,
		"program_id":       programID,
		"program_group_id": groupID,
		"is_required":      req.IsRequired,
	}

	if req.ID == 0 {
		id, err := r.requirements().insert(data)
		if err != nil {
			return err
		}
		req.ID = id
		return nil
	}
	return r.requirements().updateByID(req.ID, data)
}

func (r *DocumentRepository) DeleteRequirement(id int64) error {
	return r.requirements().deleteByID(id)
}

// SubjectCombinationRepository
type SubjectCombinationRepository struct {
	base
}

func NewSubjectCombinationRepository(db *sql.DB, grammar database.Grammar) *SubjectCombinationRepository {
	return &SubjectCombinationRepository{base{db: db, grammar: grammar, table: "subject_combinations"}}
}

func (r *SubjectCombinationRepository) All(programID int64) ([]models.SubjectCombination, error) {
	q := r.query().OrderBy("id", "ASC")
	if programID > 0 {
		q.Where("program_id", "=", programID)
	}

	combinations := []models.SubjectCombination{}
	if err := q.Get(&combinations); err != nil {
		return nil, fmt.Errorf("list subject combinations: %w", err)
	}
	return combinations, nil
}

func (r *SubjectCombinationRepository) FindByID(id int64) (*models.SubjectCombination, error) {
	var combination models.SubjectCombination
	if err := r.findByID(id, &combination); err != nil {
		return nil, err
	}
	return &combination, nil
}

func (r *SubjectCombinationRepository) Create(c *models.SubjectCombination) error {
	id, err := r.insert(map[string]interface{}{
		"program_id": c.ProgramID,
		"shift_id":   c.ShiftID,
		"subjects":   c.Subjects,
		"status":     c.Status,
	})
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *SubjectCombinationRepository) Update(c *models.SubjectCombination) error {
	return r.updateByID(c.ID, map[string]interface{}{
		"program_id": c.ProgramID,
		"shift_id":   c.ShiftID,
		"subjects":   c.Subjects,
		"status":     c.Status,
	})
}

func (r *SubjectCombinationRepository) Delete(id int64) error {
	return r.deleteByID(id)
}
