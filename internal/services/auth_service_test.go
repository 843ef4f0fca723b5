package services

import (
	"errors"
	"testing"
	"time"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/repositories"
	"github.com/biyonik/admission-api/pkg/auth"
	"github.com/biyonik/admission-api/pkg/events"
)

type fakeUsers struct {
	users    map[string]*models.User
	rehashed map[int64]string
}

func (f *fakeUsers) FindByID(id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) FindByEmail(email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) UpdatePassword(id int64, hash string) error {
	f.rehashed[id] = hash
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUsers, *recordingDispatcher) {
	t.Helper()
	hash, err := auth.HashWithCost("secret123", 4)
	if err != nil {
		t.Fatal(err)
	}

	users := &fakeUsers{
		users: map[string]*models.User{
			"registrar@college.edu.pk": {BaseModel: models.BaseModel{ID: 1}, Email: "registrar@college.edu.pk", Password: hash, Role: models.RoleAdmin, Status: models.StatusActive},
			"former@college.edu.pk":    {BaseModel: models.BaseModel{ID: 2}, Email: "former@college.edu.pk", Password: hash, Role: models.RoleStaff, Status: models.StatusInactive},
		},
		rehashed: map[int64]string{},
	}
	cfg := &auth.JWTConfig{Secret: "test-secret", Issuer: "admission-api", AccessTTL: time.Minute, RefreshTTL: time.Hour}
	dispatcher := newRecordingDispatcher()
	return NewAuthService(users, cfg, dispatcher, quietLogger()), users, dispatcher
}

func TestLogin(t *testing.T) {
	svc, users, dispatcher := newAuthFixture(t)

	pair, user, err := svc.Login(LoginPayload{Email: "registrar@college.edu.pk", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || user.ID != 1 {
		t.Errorf("pair = %+v, user = %+v", pair, user)
	}
	if _, ok := users.rehashed[1]; !ok {
		t.Error("low cost hash should be upgraded on login")
	}
	if len(dispatcher.names) != 1 || dispatcher.names[0] != events.EventStaffLoggedIn {
		t.Errorf("events = %v", dispatcher.names)
	}

	refreshed, err := svc.Refresh(RefreshPayload{RefreshToken: pair.RefreshToken})
	if err != nil || refreshed.AccessToken == "" {
		t.Errorf("Refresh: %v", err)
	}
	if _, err := svc.Refresh(RefreshPayload{RefreshToken: pair.AccessToken}); err == nil {
		t.Error("access token must not refresh")
	}
}

func TestLoginRejections(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	tests := []struct {
		name    string
		payload LoginPayload
		want    func(error) bool
	}{
		{"wrong password", LoginPayload{Email: "registrar@college.edu.pk", Password: "nope"}, isInvalidCredentials},
		{"unknown user", LoginPayload{Email: "ghost@college.edu.pk", Password: "secret123"}, isInvalidCredentials},
		{"inactive user", LoginPayload{Email: "former@college.edu.pk", Password: "secret123"}, isInvalidCredentials},
		{"malformed email", LoginPayload{Email: "registrar", Password: "secret123"}, isValidationFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Login(tt.payload); !tt.want(err) {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func isInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
