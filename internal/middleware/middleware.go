// -----------------------------------------------------------------------------
// Middleware Package
// -----------------------------------------------------------------------------
// Middleware, bir http.Handler'ı alıp onu saran yeni bir handler üreten
// fonksiyondur. Logging, kimlik doğrulama, rol kontrolü, rate limiting ve
// panic recovery bu yapı üzerine kurulur; route'lardan bağımsız çalışırlar.
// -----------------------------------------------------------------------------

package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/biyonik/admission-api/internal/http/request"
	"github.com/biyonik/admission-api/pkg/token"
)

// Middleware, bir sonraki handler'ı saran fonksiyon tipi.
type Middleware func(next http.Handler) http.Handler

// RequestIDHeader, her yanıta eklenen istek kimliği.
const RequestIDHeader = "X-Request-ID"

// statusRecorder, yazılan durum kodunu loglamak için yakalar.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging, her isteği method, path, durum kodu, süre ve istemci IP'si ile
// loglar. İstemci bir X-Request-ID göndermediyse yenisi üretilir.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				generated, err := token.GenerateSecureTokenHex(8)
				if err == nil {
					id = generated
				}
			}
			w.Header().Set(RequestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.Printf("%s %s %s → %d (%s) [%s]",
				id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond), request.ClientIP(r))
		})
	}
}

// Chain, middleware'leri verilen sırayla (ilk eleman en dışta) uygular.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// BodyLimit, istek gövdesini maxBytes ile sınırlar. Sınırı aşan okuma
// hata döner; multipart çözümleme bu hatayı 400 olarak raporlar.
func BodyLimit(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
