package services

import "github.com/biyonik/admission-api/internal/models"

// Requirements, bir programın başvuru sırasında talep ettikleri.
type Requirements struct {
	Program              models.Program               `json:"program"`
	RequiredExaminations []string                     `json:"required_examinations"`
	DocumentRequirements []models.DocumentRequirement `json:"document_requirements"`
	SubjectCombinations  []models.SubjectCombination  `json:"subject_combinations"`
}

// ResolveRequirements, programı katalogda bulur ve birleştirilmiş sınav
// başlıklarını ve belge gereksinimlerini döndürür. Program yoksa
// *NotFoundError döner; kısmi sonuç üretilmez.
func ResolveRequirements(catalog *Catalog, programID int64) (*Requirements, error) {
	if catalog == nil || programID <= 0 {
		return nil, notFound("program_id", "The selected program is invalid.")
	}

	program, ok := catalog.FindProgram(programID)
	if !ok {
		return nil, notFound("program_id", "The selected program is invalid.")
	}

	docs := program.DocumentRequirements
	if docs == nil {
		docs = []models.DocumentRequirement{}
	}
	combinations := program.SubjectCombinations
	if combinations == nil {
		combinations = []models.SubjectCombination{}
	}

	return &Requirements{
		Program:              program,
		RequiredExaminations: program.ExaminationTitles(),
		DocumentRequirements: docs,
		SubjectCombinations:  combinations,
	}, nil
}

// RequiredDocumentNames, is_required=true olan belgelerin adları.
func (r *Requirements) RequiredDocumentNames() []string {
	var names []string
	for _, req := range r.DocumentRequirements {
		if req.IsRequired {
			names = append(names, req.Document.Name)
		}
	}
	return names
}

// DocumentNames, zorunlu olsun olmasın programın kabul ettiği tüm belgeler.
func (r *Requirements) DocumentNames() []string {
	names := make([]string, 0, len(r.DocumentRequirements))
	for _, req := range r.DocumentRequirements {
		names = append(names, req.Document.Name)
	}
	return names
}

// FindDocument, ada göre gereksinimi bulur.
func (r *Requirements) FindDocument(name string) (models.DocumentRequirement, bool) {
	for _, req := range r.DocumentRequirements {
		if req.Document.Name == name {
			return req, true
		}
	}
	return models.DocumentRequirement{}, false
}
