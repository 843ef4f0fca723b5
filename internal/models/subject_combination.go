package models

import "strings"

// SubjectCombination, bir program (ve isteğe bağlı vardiya) için önceden
// tanımlanmış seçmeli ders kümesi.
type SubjectCombination struct {
	BaseModel
	ProgramID int64        `json:"program_id" db:"program_id"`
	ShiftID   *int64       `json:"shift_id,omitempty" db:"shift_id"`
	Subjects  StringList   `json:"subjects" db:"subjects"`
	Status    RecordStatus `json:"status" db:"status"`
}

// Text, başvuru kaydına yazılan denormalize ders metni.
func (c SubjectCombination) Text() string {
	return strings.Join(c.Subjects, ", ")
}
