package dtos

import (
	"time"

	"github.com/google/uuid"
)

type CreatePhoneIssueRequest struct {
	ApartmentID uuid.UUID  `json:"apartment_id" validate:"required"`
	PhoneNumber string     `json:"phone_number"`
	Kind        string     `json:"kind" validate:"required"`
	Status      string     `json:"status"`
	WorkerID    *uuid.UUID `json:"worker_id,omitempty"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type UpdatePhoneIssueStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AssignWorkerRequest struct {
	WorkerID uuid.UUID `json:"worker_id" validate:"required"`
}

type PhoneIssueDTO struct {
	ID          uuid.UUID  `json:"id"`
	ApartmentID uuid.UUID  `json:"apartment_id"`
	PhoneNumber string     `json:"phone_number"`
	Kind        string     `json:"kind"`
	KindLabel   string     `json:"kind_label"`
	Status      string     `json:"status"`
	StatusLabel string     `json:"status_label"`
	WorkerID    *uuid.UUID `json:"worker_id,omitempty"`
	Description string     `json:"description"`
	DueDate     time.Time  `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	RowVersion  int64      `json:"row_version"`
}

type ListPhoneIssuesResponse struct {
	Results []PhoneIssueDTO `json:"results"`
	Total   int             `json:"total"`
}
