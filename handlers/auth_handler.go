package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/internal/observability"
	"github.com/A-Malek-CH/Code4Pal-final-submission/middleware"
	"github.com/A-Malek-CH/Code4Pal-final-submission/services"
	"github.com/A-Malek-CH/Code4Pal-final-submission/utils"
)

// RegisterUserRequest represents a user registration request
type RegisterUserRequest struct {
	Email             string  `json:"email" validate:"required,email"`
	Password          string  `json:"password" validate:"required,min=8"`
	FirstName         *string `json:"first_name,omitempty"`
	LastName          *string `json:"last_name,omitempty"`
	PhoneNumber       *string `json:"phone_number,omitempty"`
	PreferredLanguage string  `json:"preferred_language,omitempty"`
}

// RegisterContributorRequest represents a contributor registration request
type RegisterContributorRequest struct {
	RegisterUserRequest
	ContributorType string  `json:"contributor_type" validate:"required"`
	Motivation      *string `json:"motivation,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the opaque refresh secret
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// AuthResponse is the login/registration response envelope
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	Principal    interface{} `json:"principal"`
}

// AuthHandler handles user and contributor authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, metrics *observability.Metrics, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     metrics,
		logger:      logger,
	}
}

func (h *AuthHandler) recordAuth(kind string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	h.metrics.RecordAuthAttempt(kind, outcome)
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		HandleValidationError(w, err, logger)
		return false
	}
	return true
}

// HandleRegisterUser handles POST /api/auth/register/user
func (h *AuthHandler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user, tokens, err := h.authService.RegisterUser(r.Context(), services.RegisterUserInput{
		Email:             req.Email,
		Password:          req.Password,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PhoneNumber:       req.PhoneNumber,
		PreferredLanguage: req.PreferredLanguage,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusCreated, AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		Principal:    user,
	})
}

// HandleRegisterContributor handles POST /api/auth/register/contributor
func (h *AuthHandler) HandleRegisterContributor(w http.ResponseWriter, r *http.Request) {
	var req RegisterContributorRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	contributor, tokens, err := h.authService.RegisterContributor(r.Context(), services.RegisterContributorInput{
		RegisterUserInput: services.RegisterUserInput{
			Email:             req.Email,
			Password:          req.Password,
			FirstName:         req.FirstName,
			LastName:          req.LastName,
			PhoneNumber:       req.PhoneNumber,
			PreferredLanguage: req.PreferredLanguage,
		},
		ContributorType: req.ContributorType,
		Motivation:      req.Motivation,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusCreated, AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		Principal:    contributor,
	})
}

// HandleLoginUser handles POST /api/auth/login/user
func (h *AuthHandler) HandleLoginUser(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user, tokens, err := h.authService.LoginUser(r.Context(), req.Email, req.Password)
	h.recordAuth("user", err)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		Principal:    user,
	})
}

// HandleLoginContributor handles POST /api/auth/login/contributor
func (h *AuthHandler) HandleLoginContributor(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	contributor, tokens, err := h.authService.LoginContributor(r.Context(), req.Email, req.Password)
	h.recordAuth("contributor", err)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		Principal:    contributor,
	})
}

// HandleRefresh handles POST /api/auth/refresh
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	access, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{
		"access_token": access,
		"token_type":   "Bearer",
	})
}

// HandleLogout handles POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]string{"message": "logged out"})
}

// HandleMe handles GET /api/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	principal, err := h.authService.CurrentPrincipal(r.Context(), identity)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, principal)
}

// HandleChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	if err := h.authService.ChangePassword(r.Context(), identity, req.CurrentPassword, req.NewPassword); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]string{"message": "password changed"})
}
