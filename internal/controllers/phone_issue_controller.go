package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/upravdom/facility-service/internal/dtos"
	"github.com/upravdom/facility-service/internal/models"
	"github.com/upravdom/facility-service/internal/repositories"
	"github.com/upravdom/facility-service/internal/services"
	"github.com/upravdom/facility-service/internal/utils"
)

type PhoneIssueController struct {
	phoneIssueService *services.PhoneIssueService
	validate          *validator.Validate
}

func NewPhoneIssueController(s *services.PhoneIssueService) *PhoneIssueController {
	return &PhoneIssueController{
		phoneIssueService: s,
		validate:          validator.New(),
	}
}

// POST /api/v1/phone-issues
func (c *PhoneIssueController) CreatePhoneIssueHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreatePhoneIssueHandler")
	logger.Info("Request received")

	var req dtos.CreatePhoneIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	issue, err := c.phoneIssueService.Create(r.Context(), &req)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("issueID", issue.ID).Info("Phone issue created")
	utils.RespondWithJSON(w, http.StatusCreated, issue)
}

// GET /api/v1/phone-issues/{id}
func (c *PhoneIssueController) GetPhoneIssueHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid issue ID", nil, err)
		return
	}

	issue, err := c.phoneIssueService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, issue)
}

// GET /api/v1/phone-issues?status=&kind=&building_id=&apartment_id=&worker_id=
func (c *PhoneIssueController) ListPhoneIssuesHandler(w http.ResponseWriter, r *http.Request) {
	f, err := issueFilterFromQuery(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), nil)
		return
	}

	resp, err := c.phoneIssueService.List(r.Context(), f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PATCH /api/v1/phone-issues/{id}/status
func (c *PhoneIssueController) UpdatePhoneIssueStatusHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "UpdatePhoneIssueStatusHandler")

	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid issue ID", nil, err)
		return
	}

	var req dtos.UpdatePhoneIssueStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	issue, err := c.phoneIssueService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, issue)
}

// PATCH /api/v1/phone-issues/{id}/worker
func (c *PhoneIssueController) AssignWorkerHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "AssignWorkerHandler")

	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid issue ID", nil, err)
		return
	}

	var req dtos.AssignWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	issue, err := c.phoneIssueService.AssignWorker(r.Context(), id, req.WorkerID)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, issue)
}

// DELETE /api/v1/phone-issues/{id}
func (c *PhoneIssueController) DeletePhoneIssueHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid issue ID", nil, err)
		return
	}

	if err := c.phoneIssueService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func issueFilterFromQuery(r *http.Request) (repositories.PhoneIssueFilter, error) {
	var f repositories.PhoneIssueFilter
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseIssueStatus(raw)
		if err != nil {
			return f, err
		}
		f.Status = status
	}
	if raw := q.Get("kind"); raw != "" {
		kind, err := models.ParseIssueKind(raw)
		if err != nil {
			return f, err
		}
		f.Kind = kind
	}
	for param, dst := range map[string]*uuid.UUID{
		"building_id":  &f.BuildingID,
		"apartment_id": &f.ApartmentID,
		"worker_id":    &f.WorkerID,
	} {
		if raw := q.Get(param); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return f, err
			}
			*dst = id
		}
	}
	return f, nil
}
