// -----------------------------------------------------------------------------
// Auth Guard
// -----------------------------------------------------------------------------
// JWTGuard, Authorization header'ındaki access token'ı doğrular ve
// kimliği doğrulanmış personeli request context'ine taşır. Guard stateless'tır;
// kullanıcı bilgisi guard'da değil, context'te tutulur.
// -----------------------------------------------------------------------------

package auth

import (
	"context"
	"errors"
)

// ErrMissingToken, header yok veya Bearer formatında değil.
var ErrMissingToken = errors.New("missing bearer token")

// User, auth sisteminin ihtiyaç duyduğu minimum kullanıcı arayüzü.
type User interface {
	GetID() int64
	GetEmail() string
	GetRole() string
}

// AuthenticatedUser, token claim'lerinden oluşturulan kullanıcı.
type AuthenticatedUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *AuthenticatedUser) GetID() int64     { return u.ID }
func (u *AuthenticatedUser) GetEmail() string { return u.Email }
func (u *AuthenticatedUser) GetRole() string  { return u.Role }

type JWTGuard struct {
	config *JWTConfig
}

func NewJWTGuard(config *JWTConfig) *JWTGuard {
	return &JWTGuard{config: config}
}

// Authenticate, Authorization header değerini doğrular.
func (g *JWTGuard) Authenticate(authHeader string) (*AuthenticatedUser, error) {
	token := ExtractTokenFromHeader(authHeader)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := ParseToken(token, AccessToken, g.config)
	if err != nil {
		return nil, err
	}

	return &AuthenticatedUser{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

type contextKey struct{}

// WithUser, kullanıcıyı context'e yerleştirir.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext, context'teki kullanıcıyı döndürür.
func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(contextKey{}).(User)
	return user, ok && user != nil
}
