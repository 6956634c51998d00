package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/middleware"
	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/services"
	"github.com/A-Malek-CH/Code4Pal-final-submission/utils"
)

// CreateLocationRequest represents a location submission
type CreateLocationRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Category    *string `json:"category,omitempty"`
}

// VerifyLocationRequest represents an admin review decision
type VerifyLocationRequest struct {
	LocationID int64  `json:"location_id" validate:"required,gt=0"`
	Status     string `json:"status" validate:"required,oneof=verified unverified"`
}

// LocationHandler handles location endpoints
type LocationHandler struct {
	locationService *services.LocationService
	logger          *zap.Logger
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *services.LocationService, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		logger:          logger,
	}
}

// HandleList handles GET /api/locations
func (h *LocationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationService.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, locations)
}

// HandleGet handles GET /api/locations/{id}
func (h *LocationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid location id", nil)
		return
	}

	location, err := h.locationService.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, location)
}

// HandleAdd handles POST /api/locations/add
func (h *LocationHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	in := services.CreateLocationInput{
		Name:        req.Name,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Category:    req.Category,
	}
	if identity, ok := middleware.GetIdentityFromContext(r.Context()); ok && identity.UserID != 0 {
		userID := identity.UserID
		in.CreatedBy = &userID
	}

	location, err := h.locationService.Create(r.Context(), in)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, location)
}

// HandleVerify handles POST /api/locations/verify. Admin only; the route is
// gated by the middleware and the reviewing admin comes from the context.
func (h *LocationHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdminFromContext(r.Context())
	if admin == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	var req VerifyLocationRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	verification, err := h.locationService.Verify(r.Context(), req.LocationID, models.LocationStatus(req.Status), admin.ID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, verification)
}

// HandleUpdate handles PUT /api/locations/{id}
func (h *LocationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid location id", nil)
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	location, err := h.locationService.Update(r.Context(), id, patch)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, location)
}

// HandleDelete handles DELETE /api/locations/{id}
func (h *LocationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid location id", nil)
		return
	}

	if err := h.locationService.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
