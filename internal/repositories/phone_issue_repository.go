package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/upravdom/facility-service/internal/models"
)

// PhoneIssueFilter narrows List. Zero values mean "no constraint".
type PhoneIssueFilter struct {
	Status      models.IssueStatus
	Kind        models.IssueKind
	BuildingID  uuid.UUID
	ApartmentID uuid.UUID
	WorkerID    uuid.UUID
}

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type PhoneIssueRepository interface {
	Create(ctx context.Context, p *models.PhoneIssue) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.PhoneIssue, error)
	List(ctx context.Context, f PhoneIssueFilter) ([]*models.PhoneIssue, error)

	Update(ctx context.Context, p *models.PhoneIssue) error
	UpdateIfVersion(ctx context.Context, p *models.PhoneIssue, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.PhoneIssue) error) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type phoneIssueRepo struct {
	*BaseVersionedRepo[*models.PhoneIssue]
	db DB
}

func NewPhoneIssueRepository(db DB) PhoneIssueRepository {
	r := &phoneIssueRepo{db: db}
	selectStmt := baseSelectPhoneIssue() + " WHERE pi.id=$1 AND pi.deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanPhoneIssue)
	return r
}

func (r *phoneIssueRepo) Create(ctx context.Context, p *models.PhoneIssue) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO phone_issues (
			id, apartment_id, phone_number, kind, status, worker_id, description, due_date,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
	`, p.ID, p.ApartmentID, p.PhoneNumber, p.Kind, p.Status, p.WorkerID, p.Description, p.DueDate)
	return err
}

func (r *phoneIssueRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PhoneIssue, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *phoneIssueRepo) List(ctx context.Context, f PhoneIssueFilter) ([]*models.PhoneIssue, error) {
	sql := baseSelectPhoneIssue() + " WHERE pi.deleted_at IS NULL"
	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		sql += fmt.Sprintf(" AND %s=$%d", clause, len(args))
	}
	if f.Status != "" {
		add("pi.status", f.Status)
	}
	if f.Kind != "" {
		add("pi.kind", f.Kind)
	}
	if f.ApartmentID != uuid.Nil {
		add("pi.apartment_id", f.ApartmentID)
	}
	if f.WorkerID != uuid.Nil {
		add("pi.worker_id", f.WorkerID)
	}
	if f.BuildingID != uuid.Nil {
		args = append(args, f.BuildingID)
		sql += fmt.Sprintf(" AND pi.apartment_id IN (SELECT id FROM apartments WHERE building_id=$%d)", len(args))
	}
	sql += " ORDER BY pi.created_at DESC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPhoneIssues(rows)
}

func (r *phoneIssueRepo) Update(ctx context.Context, p *models.PhoneIssue) error {
	_, err := r.update(ctx, p, false, 0)
	return err
}

func (r *phoneIssueRepo) UpdateIfVersion(ctx context.Context, p *models.PhoneIssue, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, p, true, expected)
}

func (r *phoneIssueRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.PhoneIssue) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *phoneIssueRepo) update(ctx context.Context, p *models.PhoneIssue, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
		UPDATE phone_issues
		SET phone_number=$1, kind=$2, status=$3, worker_id=$4, description=$5, due_date=$6, updated_at=NOW()
	`
	args := []any{p.PhoneNumber, p.Kind, p.Status, p.WorkerID, p.Description, p.DueDate}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$7 AND row_version=$8`
		args = append(args, p.ID, expected)
	} else {
		sql += ` WHERE id=$7`
		args = append(args, p.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *phoneIssueRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE phone_issues SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *phoneIssueRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM phone_issues WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

/* ---------- internals ---------- */

func baseSelectPhoneIssue() string {
	return `
		SELECT pi.id, pi.apartment_id, pi.phone_number, pi.kind, pi.status, pi.worker_id,
		pi.description, pi.due_date,
		pi.created_at, pi.updated_at, pi.deleted_at, pi.row_version
		FROM phone_issues pi`
}

func scanPhoneIssue(row pgx.Row) (*models.PhoneIssue, error) {
	var p models.PhoneIssue
	if err := row.Scan(
		&p.ID, &p.ApartmentID, &p.PhoneNumber, &p.Kind, &p.Status, &p.WorkerID,
		&p.Description, &p.DueDate,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt, &p.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func scanPhoneIssues(rows pgx.Rows) ([]*models.PhoneIssue, error) {
	var out []*models.PhoneIssue
	for rows.Next() {
		p, err := scanPhoneIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
