package models

import (
	"time"

	"github.com/google/uuid"
)

// Worker is a maintenance staff member issues can be assigned to.
type Worker struct {
	Versioned

	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	Position    string     `json:"position"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func (w *Worker) GetID() string { return w.ID.String() }

func (w *Worker) FullName() string {
	return w.FirstName + " " + w.LastName
}
