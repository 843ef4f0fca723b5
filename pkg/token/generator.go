// -----------------------------------------------------------------------------
// Token Generation Utility
// -----------------------------------------------------------------------------
// Rastgele token (istek kimlikleri) ve imzalı kısa doğrulama kodları
// (başvuru makbuzları) üretir. Rastgelelik her zaman crypto/rand'dan gelir.
// -----------------------------------------------------------------------------

package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// GenerateSecureToken, length byte'lık rastgele değeri base64 URL olarak döndürür.
func GenerateSecureToken(length int) (string, error) {
	b, err := randomBytes(length)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateSecureTokenHex, GenerateSecureToken'ın hex kodlu hali.
//
// Örnek:
//
//	id, _ := token.GenerateSecureTokenHex(8) // "9f2c4a1b7e03d5c6"
func GenerateSecureTokenHex(length int) (string, error) {
	b, err := randomBytes(length)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func randomBytes(length int) ([]byte, error) {
	if length <= 0 {
		length = 32
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("secure random read failed: %w", err)
	}
	return b, nil
}

// Signer, parçalardan deterministik ve kısa bir HMAC-SHA256 kodu üretir.
// Aynı secret ve parçalar her zaman aynı kodu verir; bu yüzden kodun
// saklanması gerekmez.
type Signer struct {
	secret []byte
	length int
}

// NewSigner; length hex karakter sayısıdır (4..64).
func NewSigner(secret string, length int) *Signer {
	if length < 4 || length > 64 {
		length = 12
	}
	return &Signer{secret: []byte(secret), length: length}
}

// Sign, parçaları "|" ile birleştirip imzalar ve büyük harfli hex döndürür.
func (s *Signer) Sign(parts ...string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(strings.Join(parts, "|")))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil))[:s.length])
}

// Verify, kodu sabit zamanlı karşılaştırır.
func (s *Signer) Verify(code string, parts ...string) bool {
	expected := s.Sign(parts...)
	return hmac.Equal([]byte(strings.ToUpper(strings.TrimSpace(code))), []byte(expected))
}
