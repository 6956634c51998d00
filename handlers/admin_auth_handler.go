package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/internal/observability"
	"github.com/A-Malek-CH/Code4Pal-final-submission/middleware"
	"github.com/A-Malek-CH/Code4Pal-final-submission/services"
	"github.com/A-Malek-CH/Code4Pal-final-submission/utils"
)

// AdminAuthHandler handles administrator authentication endpoints
type AdminAuthHandler struct {
	authService *services.AuthService
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewAdminAuthHandler creates a new AdminAuthHandler
func NewAdminAuthHandler(authService *services.AuthService, metrics *observability.Metrics, logger *zap.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{
		authService: authService,
		metrics:     metrics,
		logger:      logger,
	}
}

// HandleLogin handles POST /api/admin/auth/login
func (h *AdminAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	admin, tokens, err := h.authService.AdminLogin(r.Context(), req.Email, req.Password)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	h.metrics.RecordAuthAttempt("admin", outcome)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		Principal:    admin,
	})
}

// HandleRefresh handles POST /api/admin/auth/refresh
func (h *AdminAuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	access, err := h.authService.AdminRefresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{
		"access_token": access,
		"token_type":   "Bearer",
	})
}

// HandleLogout handles POST /api/admin/auth/logout
func (h *AdminAuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	if err := h.authService.AdminLogout(r.Context(), req.RefreshToken); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]string{"message": "logged out"})
}

// HandleProfile handles GET /api/admin/auth/profile. The middleware attached
// the re-validated admin record to the context.
func (h *AdminAuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdminFromContext(r.Context())
	if admin == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	_ = utils.WriteOK(w, admin)
}

// HandleChangePassword handles POST /api/admin/auth/change-password
func (h *AdminAuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdminFromContext(r.Context())
	if admin == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	if err := h.authService.AdminChangePassword(r.Context(), admin.ID, req.CurrentPassword, req.NewPassword); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]string{"message": "password changed"})
}
