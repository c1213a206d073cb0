package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/upravdom/facility-service/internal/models"
	"github.com/upravdom/facility-service/internal/repositories"
	"github.com/upravdom/facility-service/internal/utils"
)

// Helper to check for unique violation error (PostgreSQL specific code)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

/*
SeedTestData populates a handful of buildings, apartments and workers so
the admin UI has something to show on a fresh database. Idempotent: a
sentinel building ID marks a previous run.
*/
func SeedTestData(
	ctx context.Context,
	bldgRepo repositories.BuildingRepository,
	aptRepo repositories.ApartmentRepository,
	workerRepo repositories.WorkerRepository,
) error {
	sentinelBldgID := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	if existing, err := bldgRepo.GetByID(ctx, sentinelBldgID); err != nil {
		return fmt.Errorf("check existing seed building: %w", err)
	} else if existing != nil {
		utils.Logger.Info("facility-service: seed data already present; skipping seeding")
		return nil
	}

	panelRef := "panel-demo-222"
	addr := "12 Sadovaya St"
	buildings := []*models.Building{
		{ID: sentinelBldgID, Name: "Building 222", Address: &addr, PanelRef: &panelRef},
		{ID: uuid.MustParse("33333333-3333-3333-3333-333333333334"), Name: "Building 17"},
	}
	for _, b := range buildings {
		if err := bldgRepo.Create(ctx, b); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("seed building %s: %w", b.Name, err)
		}
	}

	apartments := []*models.Apartment{
		{ID: uuid.New(), BuildingID: buildings[0].ID, UnitNumber: "106", Floor: 1},
		{ID: uuid.New(), BuildingID: buildings[0].ID, UnitNumber: "212", Floor: 2},
		{ID: uuid.New(), BuildingID: buildings[1].ID, UnitNumber: "45", Floor: 1},
	}
	for _, a := range apartments {
		if err := aptRepo.Create(ctx, a); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("seed apartment %s: %w", a.UnitNumber, err)
		}
	}

	workers := []*models.Worker{
		{
			ID:          uuid.New(),
			FirstName:   "Ivan",
			LastName:    "Petrov",
			Email:       "ivan.petrov@example.com",
			PhoneNumber: "+15005550006",
			Position:    "Electrician",
			Active:      true,
		},
		{
			ID:        uuid.New(),
			FirstName: "Olga",
			LastName:  "Sidorova",
			Email:     "olga.sidorova@example.com",
			Position:  "Intercom Technician",
			Active:    true,
		},
	}
	for _, w := range workers {
		if err := workerRepo.Create(ctx, w); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("seed worker %s: %w", w.FullName(), err)
		}
	}

	utils.Logger.Info("facility-service: test data seeded")
	return nil
}
