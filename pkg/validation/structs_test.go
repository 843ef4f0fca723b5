package validation

import "testing"

type profile struct {
	FullName string `json:"full_name" validate:"required,notblank,max=10"`
	CNIC     string `json:"cnic" validate:"required,cnic"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Email    string `json:"email" validate:"required,email"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      profile
		want    map[string]string
		wantErr bool
	}{
		{
			name: "valid",
			in:   profile{FullName: "Ali Khan", CNIC: "35202-1234567-1", Phone: "0300-1234567", Email: "ali@example.com"},
		},
		{
			name: "bare thirteen digit cnic",
			in:   profile{FullName: "Ali Khan", CNIC: "3520212345671", Email: "ali@example.com"},
		},
		{
			name: "required uses json name",
			in:   profile{CNIC: "35202-1234567-1", Email: "ali@example.com"},
			want: map[string]string{"full_name": "The full_name field is required."},
		},
		{
			name: "custom tags",
			in:   profile{FullName: "Ali", CNIC: "35202-123", Phone: "abc", Email: "ali@example.com"},
			want: map[string]string{
				"cnic":  "The cnic must be a valid CNIC (12345-1234567-1).",
				"phone": "The phone must be a valid phone number.",
			},
		},
		{
			name: "blank name",
			in:   profile{FullName: "   ", CNIC: "35202-1234567-1", Email: "ali@example.com"},
			want: map[string]string{"full_name": "The full_name field is required."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateStruct(tt.in)

			if len(tt.want) == 0 {
				if result.HasErrors() {
					t.Fatalf("unexpected errors:\n%s", result)
				}
				return
			}

			for field, msg := range tt.want {
				got := result.Errors()[field]
				if len(got) == 0 || got[0] != msg {
					t.Errorf("%s = %v, want %q", field, got, msg)
				}
			}
		})
	}
}

func TestValidateStruct_EmailTranslation(t *testing.T) {
	result := ValidateStruct(profile{FullName: "Ali", CNIC: "35202-1234567-1", Email: "nope"})
	if !result.HasFieldErrors("email") {
		t.Fatalf("expected email error, got:\n%s", result)
	}
}
