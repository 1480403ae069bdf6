package hospital

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicompare/medicompare/internal/platform/db"
	"github.com/medicompare/medicompare/pkg/pagination"
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

const hospitalColumns = `id, user_id, name, email, phone, address, longitude, latitude,
	document_id, document_name, status, rejection_reason, is_active,
	verified_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, h *Hospital) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO hospitals (
			id, user_id, name, email, phone, address, longitude, latitude,
			document_id, document_name, status, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`,
		h.ID, h.UserID, h.Name, h.Email, h.Phone, h.Address, h.Longitude, h.Latitude,
		h.DocumentID, h.DocumentName, h.Status, h.IsActive,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("insert hospital: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return r.scanOne(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals WHERE id = $1`, id))
}

func (r *repoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Hospital, error) {
	return r.scanOne(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals WHERE user_id = $1`, userID))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Hospital, error) {
	return r.scanOne(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospitals WHERE email = $1`, email))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string, rejectionReason *string) error {
	verifiedAt := "NULL"
	if status == StatusVerified {
		verifiedAt = "now()"
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospitals
		SET status = $2, rejection_reason = $3, verified_at = `+verifiedAt+`, updated_at = now()
		WHERE id = $1`,
		id, status, rejectionReason,
	)
	if err != nil {
		return fmt.Errorf("update hospital status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListPending(ctx context.Context, p pagination.Params) ([]PendingHospital, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM hospitals WHERE status = $1`, StatusPending).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count pending hospitals: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT h.id, h.user_id, h.name, h.email, h.phone, h.address,
		       h.longitude, h.latitude, h.document_id, h.document_name,
		       h.status, h.rejection_reason, h.is_active, h.verified_at,
		       h.created_at, h.updated_at,
		       u.name, u.email, u.phone
		FROM hospitals h
		JOIN users u ON u.id = h.user_id
		WHERE h.status = $1
		ORDER BY h.created_at ASC
		LIMIT $2 OFFSET $3`,
		StatusPending, p.Limit, p.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list pending hospitals: %w", err)
	}
	defer rows.Close()

	var out []PendingHospital
	for rows.Next() {
		var ph PendingHospital
		if err := rows.Scan(
			&ph.ID, &ph.UserID, &ph.Name, &ph.Email, &ph.Phone, &ph.Address,
			&ph.Longitude, &ph.Latitude, &ph.DocumentID, &ph.DocumentName,
			&ph.Status, &ph.RejectionReason, &ph.IsActive, &ph.VerifiedAt,
			&ph.CreatedAt, &ph.UpdatedAt,
			&ph.OwnerName, &ph.OwnerEmail, &ph.OwnerPhone,
		); err != nil {
			return nil, 0, fmt.Errorf("scan pending hospital: %w", err)
		}
		out = append(out, ph)
	}
	return out, total, rows.Err()
}

func (r *repoPG) ListVerifiedLocations(ctx context.Context) ([]Location, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT h.id, h.name, h.longitude, h.latitude,
		       min(s.price) FILTER (WHERE s.is_active)
		FROM hospitals h
		LEFT JOIN hospital_services s ON s.hospital_id = h.id
		WHERE h.status = $1 AND h.is_active
		GROUP BY h.id, h.name, h.longitude, h.latitude
		ORDER BY h.name ASC`,
		StatusVerified,
	)
	if err != nil {
		return nil, fmt.Errorf("list hospital locations: %w", err)
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var loc Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Lng, &loc.Lat, &loc.MinFees); err != nil {
			return nil, fmt.Errorf("scan hospital location: %w", err)
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

func (r *repoPG) scanOne(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(
		&h.ID, &h.UserID, &h.Name, &h.Email, &h.Phone, &h.Address,
		&h.Longitude, &h.Latitude, &h.DocumentID, &h.DocumentName,
		&h.Status, &h.RejectionReason, &h.IsActive, &h.VerifiedAt,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan hospital: %w", err)
	}
	return &h, nil
}
