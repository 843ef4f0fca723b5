package models

// ProgramGroup, programların bağlı olduğu kategori ("Intermediate").
// Katalog oluşturulurken grubun sınav ve belge listeleri programlara
// aktarılır ve gruptan kaldırılır.
type ProgramGroup struct {
	BaseModel
	Name   string       `json:"name" db:"name"`
	Status RecordStatus `json:"status" db:"status"`

	Programs             []Program             `json:"programs" db:"-"`
	ExaminationResults   []ExaminationResult   `json:"examination_results,omitempty" db:"-"`
	DocumentRequirements []DocumentRequirement `json:"document_requirements,omitempty" db:"-"`
}

// Program, bir grup içindeki belirli öğrenim programı.
type Program struct {
	BaseModel
	ProgramGroupID int64        `json:"program_group_id" db:"program_group_id"`
	ShiftID        *int64       `json:"shift_id,omitempty" db:"shift_id"` // nil = tüm vardiyalar
	Name           string       `json:"name" db:"name"`
	Abbreviation   string       `json:"abbreviation" db:"abbreviation"`
	Status         RecordStatus `json:"status" db:"status"`

	ExaminationResults   []ExaminationResult   `json:"examination_results" db:"-"`
	SubjectCombinations  []SubjectCombination  `json:"subject_combinations" db:"-"`
	DocumentRequirements []DocumentRequirement `json:"document_requirements" db:"-"`
}

// ExaminationTitles, programın gerektirdiği sınav başlıklarını sırasıyla döndürür.
func (p Program) ExaminationTitles() []string {
	titles := make([]string, len(p.ExaminationResults))
	for i, r := range p.ExaminationResults {
		titles[i] = r.Title
	}
	return titles
}

// FindSubjectCombination, programa ait ders kombinasyonunu ID ile bulur.
func (p Program) FindSubjectCombination(id int64) (SubjectCombination, bool) {
	for _, c := range p.SubjectCombinations {
		if c.ID == id {
			return c, true
		}
	}
	return SubjectCombination{}, false
}

// OffersShift, programın verilen vardiyada açılıp açılmadığını söyler.
func (p Program) OffersShift(shiftID int64) bool {
	return p.ShiftID == nil || *p.ShiftID == shiftID
}
