package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/upravdom/facility-service/internal/dtos"
	"github.com/upravdom/facility-service/internal/models"
	"github.com/upravdom/facility-service/internal/services"
	"github.com/upravdom/facility-service/internal/utils"
)

type BulkImportController struct {
	bulkImportService *services.BulkImportService
	validate          *validator.Validate
}

func NewBulkImportController(s *services.BulkImportService) *BulkImportController {
	return &BulkImportController{
		bulkImportService: s,
		validate:          validator.New(),
	}
}

// GET /api/v1/directory
func (c *BulkImportController) DirectoryHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.bulkImportService.Directory(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/import/phone-issues/preview
func (c *BulkImportController) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "PreviewHandler")
	logger.Info("Request received")

	var req dtos.BulkImportPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := c.bulkImportService.Preview(r.Context(), req.Text)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("eligible", resp.EligibleCount).Info("Preview parsed")
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/import/phone-issues
func (c *BulkImportController) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "SubmitHandler")
	logger.Info("Request received")

	var req dtos.BulkImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	status, err := models.ParseIssueStatus(req.Status)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), nil)
		return
	}

	opts := services.BulkImportOptions{
		Status:       status,
		WorkerID:     req.WorkerID,
		ExcludeLines: req.ExcludeLines,
	}
	result, err := c.bulkImportService.Submit(r.Context(), req.Text, opts)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}

	logger.WithField("recordsCreated", result.RecordsCreated).Info("Bulk import finished")
	utils.RespondWithJSON(w, http.StatusCreated, result)
}
