// -----------------------------------------------------------------------------
// Role-Based Authorization Middleware
// -----------------------------------------------------------------------------
// İnceleme ekranları admin ve staff rollerine, referans veri yönetimi
// yalnızca admin'e açıktır. Auth middleware'inden sonra çalışmalıdır.
// -----------------------------------------------------------------------------

package middleware

import (
	"net/http"

	"github.com/biyonik/admission-api/internal/http/response"
	"github.com/biyonik/admission-api/pkg/auth"
)

// Role, personelin rolü allowedRoles içinde değilse 403 döner.
//
// Örnek:
//
//	admin.POST("/shifts", c.StoreShift).Middleware(middleware.Role("admin"))
func Role(allowedRoles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "")
				return
			}

			for _, role := range allowedRoles {
				if user.GetRole() == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "")
		})
	}
}
