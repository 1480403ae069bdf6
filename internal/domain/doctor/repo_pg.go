package doctor

import (
	"context"
	"encoding/json"
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

const doctorColumns = `id, hospital_id, name, gender, qualifications, specialization,
	experience_years, registration_number, consultation_type, consultation_fee,
	availability, description, is_active, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	availability, err := json.Marshal(d.Availability)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}
	err = r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (
			id, hospital_id, name, gender, qualifications, specialization,
			experience_years, registration_number, consultation_type,
			consultation_fee, availability, description, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		d.ID, d.HospitalID, d.Name, d.Gender, d.Qualifications, d.Specialization,
		d.ExperienceYears, d.RegistrationNumber, d.ConsultationType,
		d.ConsultationFee, availability, d.Description, d.IsActive,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*Doctor, error) {
	return r.scanOne(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorColumns+` FROM doctors WHERE id = $1 AND hospital_id = $2`,
		id, hospitalID))
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorColumns+` FROM doctors
		 WHERE hospital_id = $1
		 ORDER BY created_at DESC`,
		hospitalID)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var out []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	availability, err := json.Marshal(d.Availability)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}
	err = r.conn(ctx).QueryRow(ctx, `
		UPDATE doctors
		SET name = $3, gender = $4, qualifications = $5, specialization = $6,
		    experience_years = $7, registration_number = $8,
		    consultation_type = $9, consultation_fee = $10, availability = $11,
		    description = $12, is_active = $13, updated_at = now()
		WHERE id = $1 AND hospital_id = $2
		RETURNING updated_at`,
		d.ID, d.HospitalID, d.Name, d.Gender, d.Qualifications, d.Specialization,
		d.ExperienceYears, d.RegistrationNumber, d.ConsultationType,
		d.ConsultationFee, availability, d.Description, d.IsActive,
	).Scan(&d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update doctor: %w", err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM doctors WHERE id = $1 AND hospital_id = $2`, id, hospitalID)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) scanOne(row pgx.Row) (*Doctor, error) {
	return scanDoctor(row)
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var availability []byte
	err := row.Scan(
		&d.ID, &d.HospitalID, &d.Name, &d.Gender, &d.Qualifications,
		&d.Specialization, &d.ExperienceYears, &d.RegistrationNumber,
		&d.ConsultationType, &d.ConsultationFee, &availability,
		&d.Description, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan doctor: %w", err)
	}
	if len(availability) > 0 {
		if err := json.Unmarshal(availability, &d.Availability); err != nil {
			return nil, fmt.Errorf("unmarshal availability: %w", err)
		}
	}
	return &d, nil
}
