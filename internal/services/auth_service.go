package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/repositories"
	"github.com/biyonik/admission-api/pkg/auth"
	"github.com/biyonik/admission-api/pkg/events"
)

// UserStore, personel hesapları.
type UserStore interface {
	FindByID(id int64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	UpdatePassword(id int64, hash string) error
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthService, personel girişi ve token yenileme.
type AuthService struct {
	users      UserStore
	jwt        *auth.JWTConfig
	dispatcher EventDispatcher
	logger     *log.Logger
}

func NewAuthService(users UserStore, jwt *auth.JWTConfig, dispatcher EventDispatcher, logger *log.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, dispatcher: dispatcher, logger: logger}
}

// Login, e-posta ve şifreyi doğrular. Kullanıcı yok, şifre yanlış veya
// hesap pasif ise aynı ErrInvalidCredentials döner.
func (s *AuthService) Login(p LoginPayload) (*auth.TokenPair, *models.User, error) {
	if err := checkPayload(p); err != nil {
		return nil, nil, err
	}

	user, err := s.users.FindByEmail(p.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}
	if !user.IsActive() || !auth.Check(p.Password, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.Password) {
		if hash, err := auth.Hash(p.Password); err == nil {
			if err := s.users.UpdatePassword(user.ID, hash); err != nil {
				s.logger.Printf("⚠️  Şifre yeniden hash'lenemedi (user %d): %v", user.ID, err)
			}
		}
	}

	pair, err := auth.IssueTokenPair(user, s.jwt)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if err := s.dispatcher.Dispatch(events.NewBaseEvent(events.EventStaffLoggedIn, user.ID)); err != nil {
		s.logger.Printf("⚠️  staff.logged_in listener hatası: %v", err)
	}
	return pair, user, nil
}

// Refresh, refresh token ile yeni bir token çifti üretir. Kullanıcı bu arada
// pasifleştirildiyse reddedilir.
func (s *AuthService) Refresh(p RefreshPayload) (*auth.TokenPair, error) {
	if err := checkPayload(p); err != nil {
		return nil, err
	}

	claims, err := auth.ParseToken(p.RefreshToken, auth.RefreshToken, s.jwt)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil || !user.IsActive() {
		return nil, auth.ErrInvalidToken
	}
	return auth.IssueTokenPair(user, s.jwt)
}

func (s *AuthService) Me(id int64) (*models.User, error) {
	return s.users.FindByID(id)
}
