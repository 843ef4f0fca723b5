// -----------------------------------------------------------------------------
// Authentication Middleware
// -----------------------------------------------------------------------------
// Personel endpoint'leri Authorization: Bearer <access token> ister.
// Token JWTGuard ile doğrulanır ve personel request context'ine yazılır;
// handler'lar request.AuthUser() ile okur.
//
// Refresh token'lar bu middleware'den geçemez (token tipi claim'de taşınır).
// -----------------------------------------------------------------------------

package middleware

import (
	"errors"
	"net/http"

	"github.com/biyonik/admission-api/internal/http/response"
	"github.com/biyonik/admission-api/pkg/auth"
)

// Auth, geçerli bir access token olmayan istekleri 401 ile reddeder.
//
// Kullanım:
//
//	admin := r.Group("/api/v1/admin")
//	admin.Use(middleware.Auth(guard))
func Auth(guard *auth.JWTGuard) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := guard.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrMissingToken):
					response.Unauthorized(w, "")
				case errors.Is(err, auth.ErrWrongTokenType):
					response.Unauthorized(w, "A refresh token cannot be used for this endpoint.")
				default:
					response.Unauthorized(w, "The access token is invalid or has expired.")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}
