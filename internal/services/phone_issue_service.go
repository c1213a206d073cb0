package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/upravdom/facility-service/internal/dtos"
	"github.com/upravdom/facility-service/internal/models"
	"github.com/upravdom/facility-service/internal/repositories"
	"github.com/upravdom/facility-service/internal/utils"
)

type PhoneIssueService struct {
	issueRepo  repositories.PhoneIssueRepository
	aptRepo    repositories.ApartmentRepository
	workerRepo repositories.WorkerRepository
	notifier   *NotificationService
}

func NewPhoneIssueService(
	issueRepo repositories.PhoneIssueRepository,
	aptRepo repositories.ApartmentRepository,
	workerRepo repositories.WorkerRepository,
	notifier *NotificationService,
) *PhoneIssueService {
	return &PhoneIssueService{
		issueRepo:  issueRepo,
		aptRepo:    aptRepo,
		workerRepo: workerRepo,
		notifier:   notifier,
	}
}

func (s *PhoneIssueService) Create(ctx context.Context, req *dtos.CreatePhoneIssueRequest) (*dtos.PhoneIssueDTO, error) {
	kind, err := models.ParseIssueKind(req.Kind)
	if err != nil {
		return nil, badPayload(err)
	}
	status := models.IssueStatusReceived
	if req.Status != "" {
		status, err = models.ParseIssueStatus(req.Status)
		if err != nil {
			return nil, badPayload(err)
		}
	}

	apt, err := s.aptRepo.GetByID(ctx, req.ApartmentID)
	if err != nil {
		return nil, err
	}
	if apt == nil {
		return nil, notFound("apartment")
	}

	if req.WorkerID != nil {
		worker, err := s.workerRepo.GetByID(ctx, *req.WorkerID)
		if err != nil {
			return nil, err
		}
		if worker == nil {
			return nil, notFound("worker")
		}
	}

	phone := req.PhoneNumber
	if phone == "" {
		phone = models.PhoneNumberNA
	}
	dueDate := utils.NextBusinessDay(time.Now())
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	issue := &models.PhoneIssue{
		ID:          uuid.New(),
		ApartmentID: req.ApartmentID,
		PhoneNumber: phone,
		Kind:        kind,
		Status:      status,
		WorkerID:    req.WorkerID,
		Description: req.Description,
		DueDate:     dueDate,
	}
	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("create phone issue: %w", err)
	}
	created, err := s.issueRepo.GetByID(ctx, issue.ID)
	if err != nil {
		return nil, err
	}
	dto := phoneIssueDTO(created)
	return &dto, nil
}

func (s *PhoneIssueService) Get(ctx context.Context, id uuid.UUID) (*dtos.PhoneIssueDTO, error) {
	issue, err := s.issueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, notFound("phone issue")
	}
	dto := phoneIssueDTO(issue)
	return &dto, nil
}

func (s *PhoneIssueService) List(ctx context.Context, f repositories.PhoneIssueFilter) (*dtos.ListPhoneIssuesResponse, error) {
	issues, err := s.issueRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	resp := &dtos.ListPhoneIssuesResponse{Results: make([]dtos.PhoneIssueDTO, 0, len(issues))}
	for _, issue := range issues {
		resp.Results = append(resp.Results, phoneIssueDTO(issue))
	}
	resp.Total = len(resp.Results)
	return resp, nil
}

func (s *PhoneIssueService) UpdateStatus(ctx context.Context, id uuid.UUID, statusStr string) (*dtos.PhoneIssueDTO, error) {
	status, err := models.ParseIssueStatus(statusStr)
	if err != nil {
		return nil, badPayload(err)
	}
	err = s.issueRepo.UpdateWithRetry(ctx, id, func(issue *models.PhoneIssue) error {
		issue.Status = status
		return nil
	})
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, notFound("phone issue")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// AssignWorker sets the assignee and tells them, best-effort, over SMS and
// email.
func (s *PhoneIssueService) AssignWorker(ctx context.Context, id, workerID uuid.UUID) (*dtos.PhoneIssueDTO, error) {
	worker, err := s.workerRepo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, notFound("worker")
	}

	err = s.issueRepo.UpdateWithRetry(ctx, id, func(issue *models.PhoneIssue) error {
		issue.WorkerID = &workerID
		if issue.Status == models.IssueStatusReceived {
			issue.Status = models.IssueStatusInProgress
		}
		return nil
	})
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, notFound("phone issue")
		}
		return nil, err
	}

	updated, err := s.issueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil && updated != nil {
		s.notifier.NotifyAssignment(worker, updated)
	}
	dto := phoneIssueDTO(updated)
	return &dto, nil
}

func (s *PhoneIssueService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.issueRepo.SoftDelete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return notFound("phone issue")
		}
		return err
	}
	return nil
}

func phoneIssueDTO(p *models.PhoneIssue) dtos.PhoneIssueDTO {
	return dtos.PhoneIssueDTO{
		ID:          p.ID,
		ApartmentID: p.ApartmentID,
		PhoneNumber: p.PhoneNumber,
		Kind:        string(p.Kind),
		KindLabel:   p.Kind.Label(),
		Status:      string(p.Status),
		StatusLabel: p.Status.Label(),
		WorkerID:    p.WorkerID,
		Description: p.Description,
		DueDate:     p.DueDate,
		CreatedAt:   p.CreatedAt,
		RowVersion:  p.RowVersion,
	}
}

func badPayload(err error) error {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeInvalidPayload,
		Message:    err.Error(),
		Err:        err,
	}
}
