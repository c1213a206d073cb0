package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/upravdom/facility-service/internal/models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

// DeviceOverrideRepository stores admin-pinned fire-panel device statuses.
// Overrides are plain upsert rows, no optimistic locking: last admin wins.
type DeviceOverrideRepository interface {
	Upsert(ctx context.Context, o *models.DeviceOverride) error
	GetByBuildingAndDevice(ctx context.Context, bldgID uuid.UUID, deviceID string) (*models.DeviceOverride, error)
	ListByBuildingID(ctx context.Context, bldgID uuid.UUID) ([]*models.DeviceOverride, error)
	Delete(ctx context.Context, bldgID uuid.UUID, deviceID string) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type deviceOverrideRepo struct {
	db DB
}

func NewDeviceOverrideRepository(db DB) DeviceOverrideRepository {
	return &deviceOverrideRepo{db: db}
}

func (r *deviceOverrideRepo) Upsert(ctx context.Context, o *models.DeviceOverride) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO device_overrides (id, building_id, device_id, status, note, updated_by, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6, NOW())
		ON CONFLICT (building_id, device_id)
		DO UPDATE SET status=EXCLUDED.status, note=EXCLUDED.note,
			updated_by=EXCLUDED.updated_by, updated_at=NOW()
	`, o.ID, o.BuildingID, o.DeviceID, o.Status, o.Note, o.UpdatedBy)
	return err
}

func (r *deviceOverrideRepo) GetByBuildingAndDevice(ctx context.Context, bldgID uuid.UUID, deviceID string) (*models.DeviceOverride, error) {
	row := r.db.QueryRow(ctx, baseSelectDeviceOverride()+" WHERE building_id=$1 AND device_id=$2", bldgID, deviceID)
	return scanDeviceOverride(row)
}

func (r *deviceOverrideRepo) ListByBuildingID(ctx context.Context, bldgID uuid.UUID) ([]*models.DeviceOverride, error) {
	rows, err := r.db.Query(ctx, baseSelectDeviceOverride()+" WHERE building_id=$1 ORDER BY device_id", bldgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DeviceOverride
	for rows.Next() {
		o, err := scanDeviceOverride(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *deviceOverrideRepo) Delete(ctx context.Context, bldgID uuid.UUID, deviceID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM device_overrides WHERE building_id=$1 AND device_id=$2`, bldgID, deviceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ---------- internals ---------- */

func baseSelectDeviceOverride() string {
	return `
		SELECT id, building_id, device_id, status, note, updated_by, updated_at
		FROM device_overrides`
}

func scanDeviceOverride(row pgx.Row) (*models.DeviceOverride, error) {
	var o models.DeviceOverride
	if err := row.Scan(
		&o.ID, &o.BuildingID, &o.DeviceID, &o.Status, &o.Note, &o.UpdatedBy, &o.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}
