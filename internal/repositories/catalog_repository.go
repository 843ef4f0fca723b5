package repositories

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/pkg/database"
)

// CatalogRepository, katalog ağacını okur. Builder JOIN desteklemediği için
// her tablo ayrı sorguyla okunur ve ağaç Go tarafında kurulur; katalog
// onlarca kayıttan oluştuğu için sorgu sayısı sabittir (7).
type CatalogRepository struct {
	db      *sql.DB
	grammar database.Grammar
	logger  *log.Logger
}

func NewCatalogRepository(db *sql.DB, grammar database.Grammar, logger *log.Logger) *CatalogRepository {
	return &CatalogRepository{db: db, grammar: grammar, logger: logger}
}

func (r *CatalogRepository) builder(table string) *database.QueryBuilder {
	return database.NewBuilder(r.db, r.grammar).Table(table)
}

// documentRequirementRow, document_requirements tablosunun ham satırı.
// Nullable iki foreign key burada RequirementScope'a çevrilir.
type documentRequirementRow struct {
	ID             int64  `db:"id"`
	DocumentID     int64  `db:"document_id"`
	ProgramID      *int64 `db:"program_id"`
	ProgramGroupID *int64 `db:"program_group_id"`
	IsRequired     bool   `db:"is_required"`
}

func (row documentRequirementRow) toModel(documents map[int64]models.Document) (models.DocumentRequirement, error) {
	scope, err := models.ScopeFromColumns(row.ProgramID, row.ProgramGroupID)
	if err != nil {
		return models.DocumentRequirement{}, fmt.Errorf("document requirement %d: %w", row.ID, err)
	}
	return models.DocumentRequirement{
		ID:         row.ID,
		DocumentID: row.DocumentID,
		Scope:      scope,
		IsRequired: row.IsRequired,
		Document:   documents[row.DocumentID],
	}, nil
}

// LoadTree, aktif grupları aktif programlarıyla birlikte döndürür.
// Gruplar kendi sınav ve belge gereksinimlerini henüz taşır; birleştirme
// katalog servisinin işidir.
func (r *CatalogRepository) LoadTree() ([]models.ProgramGroup, error) {
	var groups []models.ProgramGroup
	if err := r.builder("program_groups").
		Where("status", "=", models.StatusActive).
		OrderBy("name", "ASC").
		Get(&groups); err != nil {
		return nil, fmt.Errorf("load program groups: %w", err)
	}

	var programs []models.Program
	if err := r.builder("programs").
		Where("status", "=", models.StatusActive).
		OrderBy("name", "ASC").
		Get(&programs); err != nil {
		return nil, fmt.Errorf("load programs: %w", err)
	}

	var results []models.ExaminationResult
	if err := r.builder("examination_results").OrderBy("id", "ASC").Get(&results); err != nil {
		return nil, fmt.Errorf("load examination results: %w", err)
	}
	resultByID := make(map[int64]models.ExaminationResult, len(results))
	for _, res := range results {
		resultByID[res.ID] = res
	}

	programPivot, err := readPivot(r.db, r.grammar, "program_examination_results", "program_id")
	if err != nil {
		return nil, err
	}
	groupPivot, err := readPivot(r.db, r.grammar, "program_group_examination_results", "program_group_id")
	if err != nil {
		return nil, err
	}

	var combinations []models.SubjectCombination
	if err := r.builder("subject_combinations").
		Where("status", "=", models.StatusActive).
		OrderBy("id", "ASC").
		Get(&combinations); err != nil {
		return nil, fmt.Errorf("load subject combinations: %w", err)
	}

	requirements, err := r.loadRequirements()
	if err != nil {
		return nil, err
	}

	programResults := groupPivotRows(programPivot, resultByID)
	groupResults := groupPivotRows(groupPivot, resultByID)

	combinationsByProgram := make(map[int64][]models.SubjectCombination)
	for _, c := range combinations {
		combinationsByProgram[c.ProgramID] = append(combinationsByProgram[c.ProgramID], c)
	}

	programReqs := make(map[int64][]models.DocumentRequirement)
	groupReqs := make(map[int64][]models.DocumentRequirement)
	for _, req := range requirements {
		switch req.Scope.Kind() {
		case models.ScopeProgram:
			programReqs[req.Scope.ID()] = append(programReqs[req.Scope.ID()], req)
		case models.ScopeProgramGroup:
			groupReqs[req.Scope.ID()] = append(groupReqs[req.Scope.ID()], req)
		}
	}

	programsByGroup := make(map[int64][]models.Program)
	for _, p := range programs {
		p.ExaminationResults = nonNil(programResults[p.ID])
		p.SubjectCombinations = combinationsByProgram[p.ID]
		if p.SubjectCombinations == nil {
			p.SubjectCombinations = []models.SubjectCombination{}
		}
		p.DocumentRequirements = programReqs[p.ID]
		programsByGroup[p.ProgramGroupID] = append(programsByGroup[p.ProgramGroupID], p)
	}

	for i := range groups {
		g := &groups[i]
		g.Programs = programsByGroup[g.ID]
		if g.Programs == nil {
			g.Programs = []models.Program{}
		}
		g.ExaminationResults = groupResults[g.ID]
		g.DocumentRequirements = groupReqs[g.ID]
	}

	return groups, nil
}

func (r *CatalogRepository) loadRequirements() ([]models.DocumentRequirement, error) {
	var documents []models.Document
	if err := r.builder("documents").Get(&documents); err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	docByID := make(map[int64]models.Document, len(documents))
	for _, d := range documents {
		docByID[d.ID] = d
	}

	var rows []documentRequirementRow
	if err := r.builder("document_requirements").OrderBy("id", "ASC").Get(&rows); err != nil {
		return nil, fmt.Errorf("load document requirements: %w", err)
	}

	out := make([]models.DocumentRequirement, 0, len(rows))
	for _, row := range rows {
		req, err := row.toModel(docByID)
		if err != nil {
			// Şema CHECK ile korunur; bozuk satır kataloğu düşürmez, loglanıp atlanır.
			r.logger.Printf("⚠️  %v", err)
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func groupPivotRows(rows []pivotRow, results map[int64]models.ExaminationResult) map[int64][]models.ExaminationResult {
	out := make(map[int64][]models.ExaminationResult)
	for _, row := range rows {
		res, ok := results[row.ExaminationResultID]
		if !ok {
			continue
		}
		out[row.OwnerID] = append(out[row.OwnerID], res)
	}
	return out
}

func nonNil(list []models.ExaminationResult) []models.ExaminationResult {
	if list == nil {
		return []models.ExaminationResult{}
	}
	return list
}
