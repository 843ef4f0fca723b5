// Package response, API'nin tüm JSON çıktılarını tek bir zarf (envelope)
// üzerinden üretir. Başarılı yanıtlarda data/meta, hatalı yanıtlarda
// message ve alan bazlı errors haritası taşınır.
//
// Örnek hata gövdesi:
//
//	{
//	  "success": false,
//	  "message": "The Matric obtained marks field must be less than or equal to Matric total marks.",
//	  "errors": {"examination.0.obtained_marks": ["..."]}
//	}
package response

import (
	"encoding/json"
	"net/http"
)

// @author    Ahmet Altun
// @email     ahmet.altun60@gmail.com
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik

// JSONResponse, tüm API yanıtlarının ortak sözleşmesi.
//
// Alanlar:
//   - Success: işlemin başarılı olup olmadığı
//   - Message: özet mesaj (hatalarda ilk hata)
//   - Data: başarılı işlemin içeriği
//   - Errors: alan yolu → mesajlar (yalnızca doğrulama hatalarında)
//   - Meta: sayfalama gibi ek bilgiler
type JSONResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Meta    interface{}         `json:"meta,omitempty"`
}

// Send, zarfı verilen durum koduyla yazar.
func Send(w http.ResponseWriter, status int, payload JSONResponse) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// Success, başarılı bir yanıt yazar. meta nil olabilir.
func Success(w http.ResponseWriter, status int, data interface{}, meta interface{}) error {
	return Send(w, status, JSONResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// Error, hata yanıtı yazar. errData string, error veya alan haritası olabilir;
// alan haritasında özet mesaj ilk alanın ilk mesajıdır.
func Error(w http.ResponseWriter, status int, errData any) error {
	payload := JSONResponse{Success: false}

	switch e := errData.(type) {
	case string:
		payload.Message = e
	case error:
		payload.Message = e.Error()
	case map[string][]string:
		payload.Message = "The given data was invalid."
		payload.Errors = e
	default:
		payload.Message = "An unexpected error occurred."
	}

	return Send(w, status, payload)
}

// Validation, özet mesaj ve alan haritası ile hata yanıtı yazar.
func Validation(w http.ResponseWriter, status int, message string, errors map[string][]string) error {
	return Send(w, status, JSONResponse{
		Success: false,
		Message: message,
		Errors:  errors,
	})
}
