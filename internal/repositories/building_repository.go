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

type BuildingRepository interface {
	Create(ctx context.Context, b *models.Building) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error)
	GetByName(ctx context.Context, name string) (*models.Building, error)
	ListAll(ctx context.Context) ([]*models.Building, error)
	ListWithPanelRef(ctx context.Context) ([]*models.Building, error)

	Update(ctx context.Context, b *models.Building) error
	UpdateIfVersion(ctx context.Context, b *models.Building, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Building) error) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type buildingRepo struct {
	*BaseVersionedRepo[*models.Building]
	db DB
}

func NewBuildingRepository(db DB) BuildingRepository {
	r := &buildingRepo{db: db}
	selectStmt := baseSelectBuilding() + " WHERE id=$1 AND deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanBuilding)
	return r
}

func (r *buildingRepo) Create(ctx context.Context, b *models.Building) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO buildings (
			id, name, address, latitude, longitude, time_zone, panel_ref,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW(), NOW(), 1)
	`, b.ID, b.Name, b.Address, b.Latitude, b.Longitude, b.TimeZone, b.PanelRef)
	return err
}

func (r *buildingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *buildingRepo) GetByName(ctx context.Context, name string) (*models.Building, error) {
	row := r.db.QueryRow(ctx, baseSelectBuilding()+" WHERE name=$1 AND deleted_at IS NULL LIMIT 1", name)
	return scanBuilding(row)
}

func (r *buildingRepo) ListAll(ctx context.Context) ([]*models.Building, error) {
	rows, err := r.db.Query(ctx, baseSelectBuilding()+" WHERE deleted_at IS NULL ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBuildings(rows)
}

func (r *buildingRepo) ListWithPanelRef(ctx context.Context) ([]*models.Building, error) {
	rows, err := r.db.Query(ctx, baseSelectBuilding()+" WHERE panel_ref IS NOT NULL AND deleted_at IS NULL ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBuildings(rows)
}

func (r *buildingRepo) Update(ctx context.Context, b *models.Building) error {
	_, err := r.update(ctx, b, false, 0)
	return err
}

func (r *buildingRepo) UpdateIfVersion(ctx context.Context, b *models.Building, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, b, true, expected)
}

func (r *buildingRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Building) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *buildingRepo) update(ctx context.Context, b *models.Building, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
		UPDATE buildings
		SET name=$1, address=$2, latitude=$3, longitude=$4, time_zone=$5, panel_ref=$6, updated_at=NOW()
	`
	args := []any{b.Name, b.Address, b.Latitude, b.Longitude, b.TimeZone, b.PanelRef}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$7 AND row_version=$8`
		args = append(args, b.ID, expected)
	} else {
		sql += ` WHERE id=$7`
		args = append(args, b.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *buildingRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE buildings SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *buildingRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM buildings WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

/* ---------- internals ---------- */

func baseSelectBuilding() string {
	return `
		SELECT id, name, address, latitude, longitude, time_zone, panel_ref,
		created_at, updated_at, deleted_at, row_version
		FROM buildings`
}

func scanBuilding(row pgx.Row) (*models.Building, error) {
	var b models.Building
	if err := row.Scan(
		&b.ID, &b.Name, &b.Address, &b.Latitude, &b.Longitude,
		&b.TimeZone, &b.PanelRef,
		&b.CreatedAt, &b.UpdatedAt, &b.DeletedAt, &b.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func scanBuildings(rows pgx.Rows) ([]*models.Building, error) {
	var out []*models.Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
