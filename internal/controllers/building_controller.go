package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/upravdom/facility-service/internal/dtos"
	"github.com/upravdom/facility-service/internal/services"
	"github.com/upravdom/facility-service/internal/utils"
)

type BuildingController struct {
	buildingService *services.BuildingService
	validate        *validator.Validate
}

func NewBuildingController(s *services.BuildingService) *BuildingController {
	return &BuildingController{
		buildingService: s,
		validate:        validator.New(),
	}
}

// POST /api/v1/buildings
func (c *BuildingController) CreateBuildingHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreateBuildingHandler")
	logger.Info("Request received")

	var req dtos.CreateBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	bldg, err := c.buildingService.Create(r.Context(), &req)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("buildingID", bldg.ID).Info("Building created")
	utils.RespondWithJSON(w, http.StatusCreated, bldg)
}

// GET /api/v1/buildings/{id}
func (c *BuildingController) GetBuildingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid building ID", nil, err)
		return
	}

	bldg, err := c.buildingService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bldg)
}

// GET /api/v1/buildings
func (c *BuildingController) ListBuildingsHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.buildingService.List(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PATCH /api/v1/buildings/{id}
func (c *BuildingController) UpdateBuildingHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "UpdateBuildingHandler")

	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid building ID", nil, err)
		return
	}

	var req dtos.UpdateBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	bldg, err := c.buildingService.Update(r.Context(), id, &req)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bldg)
}

// DELETE /api/v1/buildings/{id}
func (c *BuildingController) DeleteBuildingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid building ID", nil, err)
		return
	}

	if err := c.buildingService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
