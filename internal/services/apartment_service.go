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

type ApartmentService struct {
	aptRepo  repositories.ApartmentRepository
	bldgRepo repositories.BuildingRepository
}

func NewApartmentService(
	aptRepo repositories.ApartmentRepository,
	bldgRepo repositories.BuildingRepository,
) *ApartmentService {
	return &ApartmentService{aptRepo: aptRepo, bldgRepo: bldgRepo}
}

func (s *ApartmentService) Create(ctx context.Context, req *dtos.CreateApartmentRequest) (*dtos.ApartmentDTO, error) {
	bldg, err := s.bldgRepo.GetByID(ctx, req.BuildingID)
	if err != nil {
		return nil, err
	}
	if bldg == nil {
		return nil, notFound("building")
	}

	unit := CleanUnitNumber(req.UnitNumber)
	floor := EstimateFloor(unit)
	if req.Floor != nil {
		floor = *req.Floor
	}

	a := &models.Apartment{
		ID:         uuid.New(),
		BuildingID: req.BuildingID,
		UnitNumber: unit,
		Floor:      floor,
	}
	if err := s.aptRepo.Create(ctx, a); err != nil {
		if isUniqueViolation(err) {
			return nil, &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       utils.ErrCodeConflict,
				Message:    fmt.Sprintf("unit %s already exists in %s", unit, bldg.Name),
				Err:        utils.ErrUnitNumberExists,
			}
		}
		return nil, fmt.Errorf("create apartment: %w", err)
	}
	created, err := s.aptRepo.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	dto := apartmentDTO(created)
	return &dto, nil
}

func (s *ApartmentService) Get(ctx context.Context, id uuid.UUID) (*dtos.ApartmentDTO, error) {
	a, err := s.aptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, notFound("apartment")
	}
	dto := apartmentDTO(a)
	return &dto, nil
}

// List returns all apartments, or only one building's when bldgID is set.
func (s *ApartmentService) List(ctx context.Context, bldgID uuid.UUID) (*dtos.ListApartmentsResponse, error) {
	var (
		apartments []*models.Apartment
		err        error
	)
	if bldgID != uuid.Nil {
		apartments, err = s.aptRepo.ListByBuildingID(ctx, bldgID)
	} else {
		apartments, err = s.aptRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	resp := &dtos.ListApartmentsResponse{Results: make([]dtos.ApartmentDTO, 0, len(apartments))}
	for _, a := range apartments {
		resp.Results = append(resp.Results, apartmentDTO(a))
	}
	resp.Total = len(resp.Results)
	return resp, nil
}

func (s *ApartmentService) Update(ctx context.Context, id uuid.UUID, req *dtos.UpdateApartmentRequest) (*dtos.ApartmentDTO, error) {
	err := s.aptRepo.UpdateWithRetry(ctx, id, func(a *models.Apartment) error {
		if req.UnitNumber != nil {
			a.UnitNumber = CleanUnitNumber(*req.UnitNumber)
		}
		if req.Floor != nil {
			a.Floor = *req.Floor
		}
		return nil
	})
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, notFound("apartment")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ApartmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.aptRepo.SoftDelete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return notFound("apartment")
		}
		return err
	}
	return nil
}

func apartmentDTO(a *models.Apartment) dtos.ApartmentDTO {
	return dtos.ApartmentDTO{
		ID:         a.ID,
		BuildingID: a.BuildingID,
		UnitNumber: a.UnitNumber,
		Floor:      a.Floor,
		CreatedAt:  a.CreatedAt,
		RowVersion: a.RowVersion,
	}
}
