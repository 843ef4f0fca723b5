package services

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Başvuru hattının hata tipleri
// -----------------------------------------------------------------------------
// Orkestrasyon sınırından yalnızca aşağıdaki tipler çıkar. Controller
// katmanı bunları HTTP durum kodlarına çevirir; listede olmayan her hata
// beklenmeyen hata olarak ele alınır.
// -----------------------------------------------------------------------------

// ErrDuplicateApplication, aynı CNIC, vardiya, program ve ders kombinasyonu
// için aktif (pending/approved) bir başvuru zaten varsa döner.
var ErrDuplicateApplication = errors.New("an application for this program, shift and subject combination is already in progress")

// ErrInvalidCredentials, personel girişi başarısız.
var ErrInvalidCredentials = errors.New("invalid email or password")

// NotFoundError, katalogda olmayan bir seçim (program, vardiya, ders
// kombinasyonu). Kullanıcıya "geçersiz seçim" olarak gösterilir.
type NotFoundError struct {
	Field   string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func notFound(field, format string, args ...any) *NotFoundError {
	return &NotFoundError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidationFailure, kural setinin reddettiği girdi. Errors çevrilmiş
// (okunabilir etiketli) alan haritasıdır; Message ilk hatadır.
type ValidationFailure struct {
	Errors  map[string][]string
	Message string
}

func (e *ValidationFailure) Error() string {
	return e.Message
}

// ProcessingFailure, kayıt sırasında oluşan ve telafi edilen iş hatası
// (dosya yazılamadı, zorunlu belge/sınav eksik, not tutarsızlığı).
type ProcessingFailure struct {
	Message string
	Err     error
}

func (e *ProcessingFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProcessingFailure) Unwrap() error {
	return e.Err
}

func processing(err error, format string, args ...any) *ProcessingFailure {
	return &ProcessingFailure{Message: fmt.Sprintf(format, args...), Err: err}
}
