package models

import (
	"time"

	"github.com/google/uuid"
)

// Building is one apartment building under management.
// PanelRef, when set, is the building's identifier on the external
// fire-alarm panel API.
type Building struct {
	Versioned

	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Address   *string    `json:"address"`
	Latitude  float64    `json:"latitude,omitempty"`
	Longitude float64    `json:"longitude,omitempty"`
	TimeZone  string     `json:"time_zone,omitempty"`
	PanelRef  *string    `json:"panel_ref,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func (b *Building) GetID() string { return b.ID.String() }
