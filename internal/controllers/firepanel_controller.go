package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/upravdom/facility-service/internal/dtos"
	"github.com/upravdom/facility-service/internal/middleware"
	"github.com/upravdom/facility-service/internal/services"
	"github.com/upravdom/facility-service/internal/utils"
)

type FirePanelController struct {
	firePanelService *services.FirePanelService
	validate         *validator.Validate
}

func NewFirePanelController(s *services.FirePanelService) *FirePanelController {
	return &FirePanelController{
		firePanelService: s,
		validate:         validator.New(),
	}
}

// GET /api/v1/firepanel/buildings/{id}/devices
func (c *FirePanelController) BuildingDevicesHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "BuildingDevicesHandler")

	buildingID, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid building ID", nil, err)
		return
	}

	resp, err := c.firePanelService.BuildingDevices(r.Context(), buildingID)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PUT /api/v1/firepanel/buildings/{id}/devices/{deviceID}/override
func (c *FirePanelController) SetDeviceOverrideHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "SetDeviceOverrideHandler")

	buildingID, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid building ID", nil, err)
		return
	}
	deviceID := mux.Vars(r)["deviceID"]

	var req dtos.SetDeviceOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	updatedBy, _ := r.Context().Value(middleware.ContextKeyUserID).(string)

	override, err := c.firePanelService.SetOverride(r.Context(), buildingID, deviceID, req.Status, req.Note, updatedBy)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, override)
}

// DELETE /api/v1/firepanel/buildings/{id}/devices/{deviceID}/override
func (c *FirePanelController) ClearDeviceOverrideHandler(w http.ResponseWriter, r *http.Request) {
	buildingID, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid building ID", nil, err)
		return
	}
	deviceID := mux.Vars(r)["deviceID"]

	if err := c.firePanelService.ClearOverride(r.Context(), buildingID, deviceID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
