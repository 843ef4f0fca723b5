package models

// Shift, dersin verildiği vardiya ("Morning", "Evening").
type Shift struct {
	BaseModel
	Name   string       `json:"name" db:"name"`
	Status RecordStatus `json:"status" db:"status"`
}
