// -----------------------------------------------------------------------------
// JWT (JSON Web Token)
// -----------------------------------------------------------------------------
// Personel (admin/staff) oturumları için access ve refresh token üretimi,
// parse edilmesi ve doğrulanması.
//
// Token tipi claim içinde taşınır; refresh token korumalı endpoint'lerde,
// access token ise /auth/refresh'te kullanılamaz.
// -----------------------------------------------------------------------------

package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrWrongTokenType = errors.New("token type not accepted here")
)

// TokenType, access ve refresh token'ları ayırt eder.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// JWTClaims, token payload'ı.
type JWTClaims struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// JWTConfig, token imzalama ve süre ayarları. Secret config katmanından gelir.
type JWTConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenPair, login ve refresh cevaplarında dönen token çifti.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// GenerateToken, kullanıcı için verilen tipte imzalı bir token üretir.
func GenerateToken(user User, tokenType TokenType, config *JWTConfig) (string, error) {
	if config == nil || config.Secret == "" {
		return "", errors.New("jwt: secret is not configured")
	}

	ttl := config.AccessTTL
	if tokenType == RefreshToken {
		ttl = config.RefreshTTL
	}

	now := time.Now()
	claims := JWTClaims{
		UserID:    user.GetID(),
		Email:     user.GetEmail(),
		Role:      user.GetRole(),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.Issuer,
			Subject:   strconv.FormatInt(user.GetID(), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// IssueTokenPair, login/refresh için access + refresh token üretir.
func IssueTokenPair(user User, config *JWTConfig) (*TokenPair, error) {
	access, err := GenerateToken(user, AccessToken, config)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateToken(user, RefreshToken, config)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(config.AccessTTL.Seconds()),
	}, nil
}

// ParseToken, token'ı doğrular ve beklenen tipte olduğunu kontrol eder.
func ParseToken(tokenString string, expected TokenType, config *JWTConfig) (*JWTClaims, error) {
	if config == nil || config.Secret == "" {
		return nil, errors.New("jwt: secret is not configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Algorithm confusion koruması
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.Secret), nil
	}, jwt.WithIssuer(config.Issuer))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expected {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// ExtractTokenFromHeader, "Bearer <token>" header'ından token'ı çıkarır.
// Format hatalıysa boş string döner.
func ExtractTokenFromHeader(authHeader string) string {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
