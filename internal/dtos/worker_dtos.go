package dtos

import (
	"time"

	"github.com/google/uuid"
)

type CreateWorkerRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
	Position    string `json:"position"`
}

type UpdateWorkerRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Position    *string `json:"position,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type WorkerDTO struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Position    string    `json:"position"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	RowVersion  int64     `json:"row_version"`
}

type ListWorkersResponse struct {
	Results []WorkerDTO `json:"results"`
	Total   int         `json:"total"`
}
