package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bradfitz/latlong"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/upravdom/facility-service/internal/dtos"
	"github.com/upravdom/facility-service/internal/models"
	"github.com/upravdom/facility-service/internal/repositories"
	"github.com/upravdom/facility-service/internal/utils"
)

type BuildingService struct {
	bldgRepo repositories.BuildingRepository
}

func NewBuildingService(bldgRepo repositories.BuildingRepository) *BuildingService {
	return &BuildingService{bldgRepo: bldgRepo}
}

func (s *BuildingService) Create(ctx context.Context, req *dtos.CreateBuildingRequest) (*dtos.BuildingDTO, error) {
	b := &models.Building{
		ID:        uuid.New(),
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		PanelRef:  req.PanelRef,
		TimeZone:  zoneFor(req.Latitude, req.Longitude),
	}
	if err := s.bldgRepo.Create(ctx, b); err != nil {
		if isUniqueViolation(err) {
			return nil, &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       utils.ErrCodeConflict,
				Message:    fmt.Sprintf("building %q already exists", req.Name),
				Err:        utils.ErrBuildingNameExists,
			}
		}
		return nil, fmt.Errorf("create building: %w", err)
	}
	created, err := s.bldgRepo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	dto := buildingDTO(created)
	return &dto, nil
}

func (s *BuildingService) Get(ctx context.Context, id uuid.UUID) (*dtos.BuildingDTO, error) {
	b, err := s.bldgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, notFound("building")
	}
	dto := buildingDTO(b)
	return &dto, nil
}

func (s *BuildingService) List(ctx context.Context) (*dtos.ListBuildingsResponse, error) {
	buildings, err := s.bldgRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dtos.ListBuildingsResponse{Results: make([]dtos.BuildingDTO, 0, len(buildings))}
	for _, b := range buildings {
		resp.Results = append(resp.Results, buildingDTO(b))
	}
	resp.Total = len(resp.Results)
	return resp, nil
}

func (s *BuildingService) Update(ctx context.Context, id uuid.UUID, req *dtos.UpdateBuildingRequest) (*dtos.BuildingDTO, error) {
	err := s.bldgRepo.UpdateWithRetry(ctx, id, func(b *models.Building) error {
		if req.Name != nil {
			b.Name = *req.Name
		}
		if req.Address != nil {
			b.Address = req.Address
		}
		if req.Latitude != nil {
			b.Latitude = *req.Latitude
		}
		if req.Longitude != nil {
			b.Longitude = *req.Longitude
		}
		if req.Latitude != nil || req.Longitude != nil {
			b.TimeZone = zoneFor(b.Latitude, b.Longitude)
		}
		if req.PanelRef != nil {
			b.PanelRef = req.PanelRef
		}
		return nil
	})
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, notFound("building")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *BuildingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.bldgRepo.SoftDelete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return notFound("building")
		}
		return err
	}
	return nil
}

// zoneFor derives the building-local timezone from coordinates; empty when
// no coordinates were supplied.
func zoneFor(lat, lng float64) string {
	if lat == 0 && lng == 0 {
		return ""
	}
	return latlong.LookupZoneName(lat, lng)
}

func buildingDTO(b *models.Building) dtos.BuildingDTO {
	return dtos.BuildingDTO{
		ID:         b.ID,
		Name:       b.Name,
		Address:    b.Address,
		Latitude:   b.Latitude,
		Longitude:  b.Longitude,
		TimeZone:   b.TimeZone,
		PanelRef:   b.PanelRef,
		CreatedAt:  b.CreatedAt,
		RowVersion: b.RowVersion,
	}
}
