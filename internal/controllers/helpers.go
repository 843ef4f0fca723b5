// Package controllers, HTTP isteklerini servis çağrılarına çeviren ince
// handler'ları içerir. İş kuralı burada yazılmaz; controller yalnızca
// isteği çözer, servisi çağırır ve hatayı HTTP durum koduna eşler.
package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/biyonik/admission-api/internal/http/request"
	"github.com/biyonik/admission-api/internal/http/response"
	"github.com/biyonik/admission-api/internal/repositories"
	"github.com/biyonik/admission-api/internal/services"
	"github.com/biyonik/admission-api/pkg/auth"
)

// handleError, servis hatalarını yanıt zarfına eşler.
//
//	NotFoundError        → 422, seçim alanına hata
//	ValidationFailure    → 422, alan haritası
//	duplicate            → 409
//	ProcessingFailure    → 422, yalnızca mesaj
//	kimlik hataları      → 401
//	kayıt bulunamadı     → 404
//	diğer her şey        → 500, genel mesaj
func handleError(w http.ResponseWriter, logger *log.Logger, err error) {
	var (
		notFound   *services.NotFoundError
		invalid    *services.ValidationFailure
		processing *services.ProcessingFailure
	)

	switch {
	case errors.As(err, &notFound):
		response.FieldError(w, notFound.Field, notFound.Message)

	case errors.As(err, &invalid):
		response.ValidationError(w, invalid.Message, invalid.Errors)

	case errors.Is(err, services.ErrDuplicateApplication):
		msg := "You have already applied for this program, shift and subject combination."
		response.Conflict(w, msg, map[string][]string{"cnic": {msg}})

	case errors.Is(err, repositories.ErrDuplicate):
		response.Conflict(w, "A record with the same values already exists.", nil)

	case errors.Is(err, repositories.ErrInUse):
		response.Conflict(w, "This record is in use and cannot be deleted.", nil)

	case errors.As(err, &processing):
		logger.Printf("⚠️  İşlem hatası: %v", err)
		response.Error(w, http.StatusUnprocessableEntity, processing.Message)

	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(w, "These credentials do not match our records.")

	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongTokenType):
		response.Unauthorized(w, "The token is invalid or has expired.")

	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w, "")

	default:
		logger.Printf("❌ Beklenmeyen hata: %v", err)
		response.ServerError(w, "")
	}
}

// routeID, {id} parametresini okur; geçersizse 404 yazar ve false döner.
func routeID(w http.ResponseWriter, r *request.Request) (int64, bool) {
	id, ok := r.RouteID("id")
	if !ok {
		response.NotFound(w, "")
	}
	return id, ok
}

// queryID, isteğe bağlı pozitif tamsayı filtresi. Boş veya geçersiz değer 0'dır.
func queryID(r *request.Request, key string) int64 {
	id, ok := request.ParseID(r.Query(key, ""))
	if !ok {
		return 0
	}
	return id
}
