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

type WorkerRepository interface {
	Create(ctx context.Context, w *models.Worker) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Worker, error)
	ListAll(ctx context.Context) ([]*models.Worker, error)
	ListActive(ctx context.Context) ([]*models.Worker, error)

	Update(ctx context.Context, w *models.Worker) error
	UpdateIfVersion(ctx context.Context, w *models.Worker, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Worker) error) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type workerRepo struct {
	*BaseVersionedRepo[*models.Worker]
	db DB
}

func NewWorkerRepository(db DB) WorkerRepository {
	r := &workerRepo{db: db}
	selectStmt := baseSelectWorker() + " WHERE id=$1 AND deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanWorker)
	return r
}

func (r *workerRepo) Create(ctx context.Context, w *models.Worker) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO workers (
			id, first_name, last_name, email, phone_number, position, active,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW(), NOW(), 1)
	`, w.ID, w.FirstName, w.LastName, w.Email, w.PhoneNumber, w.Position, w.Active)
	return err
}

func (r *workerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Worker, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *workerRepo) ListAll(ctx context.Context) ([]*models.Worker, error) {
	rows, err := r.db.Query(ctx, baseSelectWorker()+" WHERE deleted_at IS NULL ORDER BY last_name, first_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkers(rows)
}

func (r *workerRepo) ListActive(ctx context.Context) ([]*models.Worker, error) {
	rows, err := r.db.Query(ctx, baseSelectWorker()+" WHERE active AND deleted_at IS NULL ORDER BY last_name, first_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkers(rows)
}

func (r *workerRepo) Update(ctx context.Context, w *models.Worker) error {
	_, err := r.update(ctx, w, false, 0)
	return err
}

func (r *workerRepo) UpdateIfVersion(ctx context.Context, w *models.Worker, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, w, true, expected)
}

func (r *workerRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Worker) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *workerRepo) update(ctx context.Context, w *models.Worker, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
		UPDATE workers
		SET first_name=$1, last_name=$2, email=$3, phone_number=$4, position=$5, active=$6, updated_at=NOW()
	`
	args := []any{w.FirstName, w.LastName, w.Email, w.PhoneNumber, w.Position, w.Active}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$7 AND row_version=$8`
		args = append(args, w.ID, expected)
	} else {
		sql += ` WHERE id=$7`
		args = append(args, w.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *workerRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE workers SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workerRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM workers WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

/* ---------- internals ---------- */

func baseSelectWorker() string {
	return `
		SELECT id, first_name, last_name, email, phone_number, position, active,
		created_at, updated_at, deleted_at, row_version
		FROM workers`
}

func scanWorker(row pgx.Row) (*models.Worker, error) {
	var w models.Worker
	if err := row.Scan(
		&w.ID, &w.FirstName, &w.LastName, &w.Email, &w.PhoneNumber, &w.Position, &w.Active,
		&w.CreatedAt, &w.UpdatedAt, &w.DeletedAt, &w.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func scanWorkers(rows pgx.Rows) ([]*models.Worker, error) {
	var out []*models.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
