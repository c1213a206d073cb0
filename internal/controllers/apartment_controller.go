package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/upravdom/facility-service/internal/dtos"
	"github.com/upravdom/facility-service/internal/services"
	"github.com/upravdom/facility-service/internal/utils"
)

type ApartmentController struct {
	apartmentService *services.ApartmentService
	validate         *validator.Validate
}

func NewApartmentController(s *services.ApartmentService) *ApartmentController {
	return &ApartmentController{
		apartmentService: s,
		validate:         validator.New(),
	}
}

// POST /api/v1/apartments
func (c *ApartmentController) CreateApartmentHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreateApartmentHandler")
	logger.Info("Request received")

	var req dtos.CreateApartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	apt, err := c.apartmentService.Create(r.Context(), &req)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("apartmentID", apt.ID).Info("Apartment created")
	utils.RespondWithJSON(w, http.StatusCreated, apt)
}

// GET /api/v1/apartments/{id}
func (c *ApartmentController) GetApartmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid apartment ID", nil, err)
		return
	}

	apt, err := c.apartmentService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, apt)
}

// GET /api/v1/apartments?building_id=...
func (c *ApartmentController) ListApartmentsHandler(w http.ResponseWriter, r *http.Request) {
	var bldgID uuid.UUID
	if raw := r.URL.Query().Get("building_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid building_id filter", nil, err)
			return
		}
		bldgID = parsed
	}

	resp, err := c.apartmentService.List(r.Context(), bldgID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PATCH /api/v1/apartments/{id}
func (c *ApartmentController) UpdateApartmentHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "UpdateApartmentHandler")

	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid apartment ID", nil, err)
		return
	}

	var req dtos.UpdateApartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	apt, err := c.apartmentService.Update(r.Context(), id, &req)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, apt)
}

// DELETE /api/v1/apartments/{id}
func (c *ApartmentController) DeleteApartmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid apartment ID", nil, err)
		return
	}

	if err := c.apartmentService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
