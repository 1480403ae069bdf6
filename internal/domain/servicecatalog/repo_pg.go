package servicecatalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicompare/medicompare/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const serviceColumns = `id, hospital_id, loinc_code, display_name, category, price,
	is_active, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, s *HospitalService) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO hospital_services (
			id, hospital_id, loinc_code, display_name, category, price, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		s.ID, s.HospitalID, s.LoincCode, s.DisplayName, s.Category, s.Price, s.IsActive,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return fmt.Errorf("insert hospital service: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*HospitalService, error) {
	return scanService(r.conn(ctx).QueryRow(ctx,
		`SELECT `+serviceColumns+` FROM hospital_services
		 WHERE id = $1 AND hospital_id = $2`, id, hospitalID))
}

func (r *repoPG) ListActive(ctx context.Context, hospitalID uuid.UUID) ([]HospitalService, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+serviceColumns+` FROM hospital_services
		 WHERE hospital_id = $1 AND is_active
		 ORDER BY display_name ASC`,
		hospitalID)
	if err != nil {
		return nil, fmt.Errorf("list hospital services: %w", err)
	}
	defer rows.Close()

	var out []HospitalService
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, s *HospitalService) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE hospital_services
		SET loinc_code = $3, display_name = $4, category = $5, price = $6,
		    is_active = $7, updated_at = now()
		WHERE id = $1 AND hospital_id = $2
		RETURNING updated_at`,
		s.ID, s.HospitalID, s.LoincCode, s.DisplayName, s.Category, s.Price, s.IsActive,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return fmt.Errorf("update hospital service: %w", err)
	}
	return nil
}

func (r *repoPG) Deactivate(ctx context.Context, hospitalID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospital_services
		SET is_active = false, updated_at = now()
		WHERE id = $1 AND hospital_id = $2`,
		id, hospitalID)
	if err != nil {
		return fmt.Errorf("deactivate hospital service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanService(row pgx.Row) (*HospitalService, error) {
	var s HospitalService
	err := row.Scan(&s.ID, &s.HospitalID, &s.LoincCode, &s.DisplayName,
		&s.Category, &s.Price, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan hospital service: %w", err)
	}
	return &s, nil
}
