package token

import (
	"strings"
	"testing"
)

func TestGenerateSecureTokenHex(t *testing.T) {
	a, err := GenerateSecureTokenHex(8)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateSecureTokenHex(8)

	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("tokens must differ")
	}
}

func TestSigner(t *testing.T) {
	s := NewSigner("secret", 10)

	code := s.Sign("42", "35202-1234567-1")
	if len(code) != 10 {
		t.Fatalf("expected 10 chars, got %q", code)
	}
	if code != s.Sign("42", "35202-1234567-1") {
		t.Error("signing must be deterministic")
	}

	tests := []struct {
		name  string
		code  string
		parts []string
		want  bool
	}{
		{"exact", code, []string{"42", "35202-1234567-1"}, true},
		{"lowercase", "  " + strings.ToLower(code) + " ", []string{"42", "35202-1234567-1"}, true},
		{"other form", code, []string{"43", "35202-1234567-1"}, false},
		{"tampered", "0000000000", []string{"42", "35202-1234567-1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Verify(tt.code, tt.parts...); got != tt.want {
				t.Errorf("Verify = %v, want %v", got, tt.want)
			}
		})
	}

	if NewSigner("other", 10).Sign("42", "35202-1234567-1") == code {
		t.Error("different secrets must produce different codes")
	}
}
