package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/biyonik/admission-api/internal/http/response"
)

// PanicRecovery, handler'daki panic'i yakalar, stack trace'i loglar ve
// istemciye genel bir 500 döner. Ayrıntı istemciye gönderilmez.
func PanicRecovery(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Printf("🔥 PANIC %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
					response.ServerError(w, "")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
