package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/services"
	"github.com/A-Malek-CH/Code4Pal-final-submission/utils"
)

// CreateEmergencyRequest represents an emergency report
type CreateEmergencyRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Severity    *string  `json:"severity,omitempty"`
	ReportedBy  *int64   `json:"reported_by,omitempty"`
}

// EmergencyHandler handles emergency endpoints
type EmergencyHandler struct {
	emergencyService *services.EmergencyService
	logger           *zap.Logger
}

// NewEmergencyHandler creates a new EmergencyHandler
func NewEmergencyHandler(emergencyService *services.EmergencyService, logger *zap.Logger) *EmergencyHandler {
	return &EmergencyHandler{
		emergencyService: emergencyService,
		logger:           logger,
	}
}

// HandleList handles GET /api/emergencies
func (h *EmergencyHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	emergencies, err := h.emergencyService.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, emergencies)
}

// HandleGet handles GET /api/emergencies/{id}
func (h *EmergencyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid emergency id", nil)
		return
	}

	emergency, err := h.emergencyService.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, emergency)
}

// HandleCreate handles POST /api/emergencies
func (h *EmergencyHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateEmergencyRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	emergency, err := h.emergencyService.Create(r.Context(), services.CreateEmergencyInput{
		Title:       req.Title,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Severity:    req.Severity,
		ReportedBy:  req.ReportedBy,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, emergency)
}

// HandleUpdate handles PUT /api/emergencies/{id}
func (h *EmergencyHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid emergency id", nil)
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	emergency, err := h.emergencyService.Update(r.Context(), id, patch)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, emergency)
}

// HandleDelete handles DELETE /api/emergencies/{id}
func (h *EmergencyHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		_ = utils.WriteBadRequest(w, "Invalid emergency id", nil)
		return
	}

	if err := h.emergencyService.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
