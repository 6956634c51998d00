package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/middleware"
	"github.com/A-Malek-CH/Code4Pal-final-submission/services"
	"github.com/A-Malek-CH/Code4Pal-final-submission/utils"
)

// AddUserRequest represents an anonymous account creation request
type AddUserRequest struct {
	Email             string `json:"email" validate:"required,email"`
	PreferredLanguage string `json:"preferred_language,omitempty"`
}

// VerifyEmailRequest represents an email confirmation request
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// ResendCodeRequest represents a confirmation code resend request
type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserHandler handles user CRUD and email verification endpoints
type UserHandler struct {
	userService *services.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

func parseIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// HandleList handles GET /api/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, users)
}

// HandleGet handles GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid user id", nil)
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, user)
}

// HandleAdd handles POST /api/users/add
func (h *UserHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req AddUserRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user, err := h.userService.Add(r.Context(), req.Email, req.PreferredLanguage)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, user)
}

// HandleVerifyEmail handles POST /api/users/verify_email
func (h *UserHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user, err := h.userService.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, user)
}

// HandleResendCode handles POST /api/users/resend_code
func (h *UserHandler) HandleResendCode(w http.ResponseWriter, r *http.Request) {
	var req ResendCodeRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	if err := h.userService.ResendCode(r.Context(), req.Email); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, map[string]string{"message": "verification code sent"})
}

// HandleUpdate handles PUT /api/users/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid user id", nil)
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.userService.Update(r.Context(), identity, id, patch)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, user)
}

// HandleDelete handles DELETE /api/users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid user id", nil)
		return
	}

	if err := h.userService.Delete(r.Context(), identity, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
