package models

import (
	"time"

	"github.com/google/uuid"
)

// Apartment is a tenant-addressable unit inside a building.
// (building_id, unit_number) is unique among non-deleted rows.
type Apartment struct {
	Versioned

	ID         uuid.UUID  `json:"id"`
	BuildingID uuid.UUID  `json:"building_id"`
	UnitNumber string     `json:"unit_number"`
	Floor      int16      `json:"floor"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

func (a *Apartment) GetID() string { return a.ID.String() }
