package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/upravdom/facility-service/internal/dtos"
	"github.com/upravdom/facility-service/internal/models"
	"github.com/upravdom/facility-service/internal/repositories"
	"github.com/upravdom/facility-service/internal/utils"
)

type WorkerService struct {
	workerRepo repositories.WorkerRepository
}

func NewWorkerService(workerRepo repositories.WorkerRepository) *WorkerService {
	return &WorkerService{workerRepo: workerRepo}
}

func (s *WorkerService) Create(ctx context.Context, req *dtos.CreateWorkerRequest) (*dtos.WorkerDTO, error) {
	w := &models.Worker{
		ID:          uuid.New(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Position:    req.Position,
		Active:      true,
	}
	if err := s.workerRepo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create worker: %w", err)
	}
	created, err := s.workerRepo.GetByID(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	dto := workerDTO(created)
	return &dto, nil
}

func (s *WorkerService) Get(ctx context.Context, id uuid.UUID) (*dtos.WorkerDTO, error) {
	w, err := s.workerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, notFound("worker")
	}
	dto := workerDTO(w)
	return &dto, nil
}

func (s *WorkerService) List(ctx context.Context) (*dtos.ListWorkersResponse, error) {
	workers, err := s.workerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dtos.ListWorkersResponse{Results: make([]dtos.WorkerDTO, 0, len(workers))}
	for _, w := range workers {
		resp.Results = append(resp.Results, workerDTO(w))
	}
	resp.Total = len(resp.Results)
	return resp, nil
}

func (s *WorkerService) Update(ctx context.Context, id uuid.UUID, req *dtos.UpdateWorkerRequest) (*dtos.WorkerDTO, error) {
	err := s.workerRepo.UpdateWithRetry(ctx, id, func(w *models.Worker) error {
		if req.FirstName != nil {
			w.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			w.LastName = *req.LastName
		}
		if req.Email != nil {
			w.Email = *req.Email
		}
		if req.PhoneNumber != nil {
			w.PhoneNumber = *req.PhoneNumber
		}
		if req.Position != nil {
			w.Position = *req.Position
		}
		if req.Active != nil {
			w.Active = *req.Active
		}
		return nil
	})
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, notFound("worker")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *WorkerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.workerRepo.SoftDelete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return notFound("worker")
		}
		return err
	}
	return nil
}

func workerDTO(w *models.Worker) dtos.WorkerDTO {
	return dtos.WorkerDTO{
		ID:          w.ID,
		FirstName:   w.FirstName,
		LastName:    w.LastName,
		Email:       w.Email,
		PhoneNumber: w.PhoneNumber,
		Position:    w.Position,
		Active:      w.Active,
		CreatedAt:   w.CreatedAt,
		RowVersion:  w.RowVersion,
	}
}

func notFound(what string) error {
	return &utils.AppError{
		StatusCode: http.StatusNotFound,
		Code:       utils.ErrCodeNotFound,
		Message:    what + " not found",
		Err:        utils.ErrNotFound,
	}
}
