package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/middleware"
	"github.com/A-Malek-CH/Code4Pal-final-submission/services"
	"github.com/A-Malek-CH/Code4Pal-final-submission/utils"
)

// CreateContributorRequest attaches a contributor profile to an existing user
type CreateContributorRequest struct {
	UserID          int64   `json:"user_id" validate:"required,gt=0"`
	ContributorType string  `json:"contributor_type" validate:"required"`
	Motivation      *string `json:"motivation,omitempty"`
}

// ContributorHandler handles contributor CRUD endpoints
type ContributorHandler struct {
	contributorService *services.ContributorService
	logger             *zap.Logger
}

// NewContributorHandler creates a new ContributorHandler
func NewContributorHandler(contributorService *services.ContributorService, logger *zap.Logger) *ContributorHandler {
	return &ContributorHandler{
		contributorService: contributorService,
		logger:             logger,
	}
}

// HandleList handles GET /api/contributors
func (h *ContributorHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	contributors, err := h.contributorService.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, contributors)
}

// HandleGet handles GET /api/contributors/{id}
func (h *ContributorHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid contributor id", nil)
		return
	}

	contributor, err := h.contributorService.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, contributor)
}

// HandleCreate handles POST /api/contributors
func (h *ContributorHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateContributorRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	contributor, err := h.contributorService.Create(r.Context(), req.UserID, req.ContributorType, req.Motivation)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, contributor)
}

// HandleUpdate handles PUT /api/contributors/{id}
func (h *ContributorHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid contributor id", nil)
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	contributor, err := h.contributorService.Update(r.Context(), identity, id, patch)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, contributor)
}

// HandleDelete handles DELETE /api/contributors/{id}
func (h *ContributorHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid contributor id", nil)
		return
	}

	if err := h.contributorService.Delete(r.Context(), identity, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
