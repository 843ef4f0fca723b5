package controllers

import (
	"log"
	"net/http"

	"github.com/biyonik/admission-api/internal/http/request"
	"github.com/biyonik/admission-api/internal/http/response"
	"github.com/biyonik/admission-api/internal/models"
	"github.com/biyonik/admission-api/internal/services"
	"github.com/biyonik/admission-api/pkg/auth"
)

type Authenticator interface {
	Login(p services.LoginPayload) (*auth.TokenPair, *models.User, error)
	Refresh(p services.RefreshPayload) (*auth.TokenPair, error)
	Me(id int64) (*models.User, error)
}

// AuthController handles staff login and token refresh
type AuthController struct {
	auth   Authenticator
	logger *log.Logger
}

func NewAuthController(a Authenticator, logger *log.Logger) *AuthController {
	return &AuthController{auth: a, logger: logger}
}

// Login handles POST /api/v1/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *request.Request) {
	var payload services.LoginPayload
	if err := r.ParseJSON(&payload); err != nil {
		response.InvalidJSON(w)
		return
	}

	pair, user, err := c.auth.Login(payload)
	if err != nil {
		handleError(w, c.logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]any{
		"tokens": pair,
		"user":   user,
	}, nil)
}

// Refresh handles POST /api/v1/auth/refresh
func (c *AuthController) Refresh(w http.ResponseWriter, r *request.Request) {
	var payload services.RefreshPayload
	if err := r.ParseJSON(&payload); err != nil {
		response.InvalidJSON(w)
		return
	}

	pair, err := c.auth.Refresh(payload)
	if err != nil {
		handleError(w, c.logger, err)
		return
	}
	response.Success(w, http.StatusOK, pair, nil)
}

// Me handles GET /api/v1/auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *request.Request) {
	id := r.AuthUserID()
	if id == 0 {
		response.Unauthorized(w, "")
		return
	}

	user, err := c.auth.Me(id)
	if err != nil {
		handleError(w, c.logger, err)
		return
	}
	response.Success(w, http.StatusOK, user, nil)
}
