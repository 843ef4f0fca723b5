// internal/models/base_model.go
//
// Tüm tabloların ortak alanları (ID, CreatedAt, UpdatedAt).
//
// Kullanım:
//
//	type Shift struct {
//	    models.BaseModel
//	    Name string `db:"name"`
//	}
package models

import "time"

// BaseModel, modellerin gövdesini oluşturur. Scanner embedded struct'ları
// özyineli çözdüğü için `db` tag'leri doğrudan kolonlara eşlenir.
type BaseModel struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Initialize, yeni kayıt öncesi zaman damgalarını ayarlar.
func (m *BaseModel) Initialize() {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
}

// Touch, UpdatedAt alanını günceller.
func (m *BaseModel) Touch() {
	m.UpdatedAt = time.Now().UTC()
}

// RecordStatus, referans verilerin aktiflik durumu.
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusInactive RecordStatus = "inactive"
)

func (s RecordStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}
