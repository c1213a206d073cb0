package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/upravdom/facility-service/internal/dtos"
	"github.com/upravdom/facility-service/internal/services"
	"github.com/upravdom/facility-service/internal/utils"
)

type WorkerController struct {
	workerService *services.WorkerService
	validate      *validator.Validate
}

func NewWorkerController(s *services.WorkerService) *WorkerController {
	return &WorkerController{
		workerService: s,
		validate:      validator.New(),
	}
}

// POST /api/v1/workers
func (c *WorkerController) CreateWorkerHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreateWorkerHandler")
	logger.Info("Request received")

	var req dtos.CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	worker, err := c.workerService.Create(r.Context(), &req)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("workerID", worker.ID).Info("Worker created")
	utils.RespondWithJSON(w, http.StatusCreated, worker)
}

// GET /api/v1/workers/{id}
func (c *WorkerController) GetWorkerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid worker ID", nil, err)
		return
	}

	worker, err := c.workerService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, worker)
}

// GET /api/v1/workers
func (c *WorkerController) ListWorkersHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.workerService.List(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PATCH /api/v1/workers/{id}
func (c *WorkerController) UpdateWorkerHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "UpdateWorkerHandler")

	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid worker ID", nil, err)
		return
	}

	var req dtos.UpdateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	worker, err := c.workerService.Update(r.Context(), id, &req)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, worker)
}

// DELETE /api/v1/workers/{id}
func (c *WorkerController) DeleteWorkerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid worker ID", nil, err)
		return
	}

	if err := c.workerService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
