package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func testConfig() *JWTConfig {
	return &JWTConfig{
		Secret:     "test-secret",
		Issuer:     "admission-api",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	user := &AuthenticatedUser{ID: 7, Email: "registrar@college.edu.pk", Role: "admin"}

	pair, err := IssueTokenPair(user, testConfig())
	if err != nil {
		t.Fatalf("IssueTokenPair() error = %v", err)
	}

	claims, err := ParseToken(pair.AccessToken, AccessToken, testConfig())
	if err != nil {
		t.Fatalf("ParseToken(access) error = %v", err)
	}
	if claims.UserID != 7 || claims.Role != "admin" {
		t.Errorf("unexpected claims %+v", claims)
	}

	if _, err := ParseToken(pair.RefreshToken, AccessToken, testConfig()); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("refresh token used as access: err = %v", err)
	}
	if _, err := ParseToken(pair.AccessToken, RefreshToken, testConfig()); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("access token used as refresh: err = %v", err)
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	user := &AuthenticatedUser{ID: 1, Email: "a@b.c", Role: "staff"}
	token, err := GenerateToken(user, AccessToken, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	other := testConfig()
	other.Secret = "another-secret"
	if _, err := ParseToken(token, AccessToken, other); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestGuardAuthenticate(t *testing.T) {
	guard := NewJWTGuard(testConfig())
	user := &AuthenticatedUser{ID: 3, Email: "staff@college.edu.pk", Role: "staff"}
	token, _ := GenerateToken(user, AccessToken, testConfig())

	got, err := guard.Authenticate("bearer " + token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got.ID != 3 {
		t.Errorf("ID = %d", got.ID)
	}

	if _, err := guard.Authenticate("Token abc"); !errors.Is(err, ErrMissingToken) {
		t.Errorf("err = %v, want ErrMissingToken", err)
	}

	ctx := WithUser(context.Background(), got)
	if u, ok := UserFromContext(ctx); !ok || u.GetEmail() != "staff@college.edu.pk" {
		t.Errorf("UserFromContext() = %v, %v", u, ok)
	}
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("empty context should not carry a user")
	}
}

func TestHashAndCheck(t *testing.T) {
	hash, err := HashWithCost("s3cret-pass", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !Check("s3cret-pass", hash) {
		t.Error("Check() should accept the original password")
	}
	if Check("wrong", hash) {
		t.Error("Check() should reject a wrong password")
	}
	if !NeedsRehash(hash) {
		t.Error("min-cost hash should need a rehash")
	}
	if _, err := Hash(""); err == nil {
		t.Error("empty password should fail")
	}
}
