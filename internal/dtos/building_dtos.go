package dtos

import (
	"time"

	"github.com/google/uuid"
)

type CreateBuildingRequest struct {
	Name      string  `json:"name" validate:"required"`
	Address   *string `json:"address,omitempty"`
	Latitude  float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	PanelRef  *string `json:"panel_ref,omitempty"`
}

type UpdateBuildingRequest struct {
	Name      *string  `json:"name,omitempty"`
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	PanelRef  *string  `json:"panel_ref,omitempty"`
}

type BuildingDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Address    *string   `json:"address"`
	Latitude   float64   `json:"latitude,omitempty"`
	Longitude  float64   `json:"longitude,omitempty"`
	TimeZone   string    `json:"time_zone,omitempty"`
	PanelRef   *string   `json:"panel_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	RowVersion int64     `json:"row_version"`
}

type ListBuildingsResponse struct {
	Results []BuildingDTO `json:"results"`
	Total   int           `json:"total"`
}
