// -----------------------------------------------------------------------------
// Standart hata yanıtları
// -----------------------------------------------------------------------------
// Controller'lar aynı durum kodu ve mesajı tekrar tekrar yazmasın diye
// sık kullanılan hata yanıtları burada toplanır. Mesajlar başvuru
// sahiplerine gösterildiği için İngilizcedir.
// -----------------------------------------------------------------------------

package response

import (
	"net/http"
)

// InvalidJSON, çözümlenemeyen JSON gövdesi için 400 döner.
func InvalidJSON(w http.ResponseWriter) {
	Error(w, http.StatusBadRequest, "Invalid JSON format.")
}

// ValidationError, 422 ile özet mesaj ve alan haritası döner.
//
// Örnek:
//
//	if result.HasErrors() {
//	    _, msg, _ := result.FirstError()
//	    response.ValidationError(w, msg, result.Errors())
//	    return
//	}
func ValidationError(w http.ResponseWriter, message string, errors map[string][]string) {
	Validation(w, http.StatusUnprocessableEntity, message, errors)
}

// FieldError, tek bir alan için 422 döner.
func FieldError(w http.ResponseWriter, field string, message string) {
	ValidationError(w, message, map[string][]string{field: {message}})
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Authentication required."
	}
	Error(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "You don't have permission to perform this action."
	}
	Error(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found."
	}
	Error(w, http.StatusNotFound, message)
}

// ServerError, 500 döner. Ayrıntı istemciye gönderilmez; çağıran loglar.
func ServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Something went wrong while processing your request. Please try again."
	}
	Error(w, http.StatusInternalServerError, message)
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Conflict, 409 döner. errors nil değilse alan haritası da yazılır.
func Conflict(w http.ResponseWriter, message string, errors map[string][]string) {
	Validation(w, http.StatusConflict, message, errors)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Too many requests. Please try again later."
	}
	Error(w, http.StatusTooManyRequests, message)
}
