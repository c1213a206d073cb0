package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/upravdom/facility-service/internal/models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type ApartmentRepository interface {
	Create(ctx context.Context, a *models.Apartment) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Apartment, error)
	ListAll(ctx context.Context) ([]*models.Apartment, error)
	ListByBuildingID(ctx context.Context, bldgID uuid.UUID) ([]*models.Apartment, error)
	FindByBuildingAndUnit(ctx context.Context, bldgID uuid.UUID, unitNumber string) (*models.Apartment, error)

	Update(ctx context.Context, a *models.Apartment) error
	UpdateIfVersion(ctx context.Context, a *models.Apartment, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Apartment) error) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type apartmentRepo struct {
	*BaseVersionedRepo[*models.Apartment]
	db DB
}

func NewApartmentRepository(db DB) ApartmentRepository {
	r := &apartmentRepo{db: db}
	selectStmt := baseSelectApartment() + " WHERE id=$1 AND deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanApartment)
	return r
}

func (r *apartmentRepo) Create(ctx context.Context, a *models.Apartment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO apartments (
			id, building_id, unit_number, floor,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4, NOW(), NOW(), 1)
	`, a.ID, a.BuildingID, a.UnitNumber, a.Floor)
	return err
}

func (r *apartmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Apartment, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *apartmentRepo) ListAll(ctx context.Context) ([]*models.Apartment, error) {
	rows, err := r.db.Query(ctx, baseSelectApartment()+" WHERE deleted_at IS NULL ORDER BY unit_number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApartments(rows)
}

func (r *apartmentRepo) ListByBuildingID(ctx context.Context, bldgID uuid.UUID) ([]*models.Apartment, error) {
	rows, err := r.db.Query(ctx, baseSelectApartment()+" WHERE building_id=$1 AND deleted_at IS NULL ORDER BY unit_number", bldgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApartments(rows)
}

// FindByBuildingAndUnit is the fallback lookup after a unique-violation on
// Create: some other writer got there first, so fetch what they inserted.
func (r *apartmentRepo) FindByBuildingAndUnit(ctx context.Context, bldgID uuid.UUID, unitNumber string) (*models.Apartment, error) {
	row := r.db.QueryRow(ctx, baseSelectApartment()+" WHERE building_id=$1 AND unit_number=$2 AND deleted_at IS NULL LIMIT 1", bldgID, unitNumber)
	return scanApartment(row)
}

func (r *apartmentRepo) Update(ctx context.Context, a *models.Apartment) error {
	_, err := r.update(ctx, a, false, 0)
	return err
}

func (r *apartmentRepo) UpdateIfVersion(ctx context.Context, a *models.Apartment, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, a, true, expected)
}

func (r *apartmentRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Apartment) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *apartmentRepo) update(ctx context.Context, a *models.Apartment, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
		UPDATE apartments
		SET unit_number=$1, floor=$2, building_id=$3, updated_at=NOW()
	`
	args := []any{a.UnitNumber, a.Floor, a.BuildingID}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$4 AND row_version=$5`
		args = append(args, a.ID, expected)
	} else {
		sql += ` WHERE id=$4`
		args = append(args, a.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *apartmentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE apartments SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *apartmentRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM apartments WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

/* ---------- internals ---------- */

func baseSelectApartment() string {
	return `
		SELECT id, building_id, unit_number, floor,
		created_at, updated_at, deleted_at, row_version
		FROM apartments`
}

func scanApartment(row pgx.Row) (*models.Apartment, error) {
	var a models.Apartment
	if err := row.Scan(
		&a.ID, &a.BuildingID, &a.UnitNumber, &a.Floor,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt, &a.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func scanApartments(rows pgx.Rows) ([]*models.Apartment, error) {
	var out []*models.Apartment
	for rows.Next() {
		a, err := scanApartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
