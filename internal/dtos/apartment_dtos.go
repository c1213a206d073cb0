package dtos

import (
	"time"

	"github.com/google/uuid"
)

type CreateApartmentRequest struct {
	BuildingID uuid.UUID `json:"building_id" validate:"required"`
	UnitNumber string    `json:"unit_number" validate:"required"`
	Floor      *int16    `json:"floor,omitempty"`
}

type UpdateApartmentRequest struct {
	UnitNumber *string `json:"unit_number,omitempty"`
	Floor      *int16  `json:"floor,omitempty"`
}

type ApartmentDTO struct {
	ID         uuid.UUID `json:"id"`
	BuildingID uuid.UUID `json:"building_id"`
	UnitNumber string    `json:"unit_number"`
	Floor      int16     `json:"floor"`
	CreatedAt  time.Time `json:"created_at"`
	RowVersion int64     `json:"row_version"`
}

type ListApartmentsResponse struct {
	Results []ApartmentDTO `json:"results"`
	Total   int            `json:"total"`
}

/*
DirectoryResponse is the one-shot snapshot the bulk-import screen loads
before parsing begins.
*/
type DirectoryResponse struct {
	Buildings  []BuildingDTO  `json:"buildings"`
	Apartments []ApartmentDTO `json:"apartments"`
}
