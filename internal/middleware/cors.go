// -----------------------------------------------------------------------------
// CORS Middleware
// -----------------------------------------------------------------------------
// Başvuru formu ve personel paneli API'den farklı bir origin'de
// çalışabilir. İzin verilen origin'lere Access-Control-Allow-* başlıkları
// eklenir ve preflight (OPTIONS) istekleri 204 ile yanıtlanır.
// -----------------------------------------------------------------------------

package middleware

import (
	"net/http"
)

// CORS, allowedOrigins listesindeki origin'lere izin verir. Liste "*"
// içeriyorsa her origin kabul edilir.
func CORS(allowedOrigins []string) Middleware {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
				w.Header().Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
