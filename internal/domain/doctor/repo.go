package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no doctor matches the id within the
// hospital scope.
var ErrNotFound = errors.New("doctor not found")

// Repository is the persistence port for doctors. Every lookup is scoped
// by hospital id so one hospital can never touch another's roster.
type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*Doctor, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, hospitalID, id uuid.UUID) error
}
