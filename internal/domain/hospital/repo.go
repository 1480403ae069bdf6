package hospital

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medicompare/medicompare/pkg/pagination"
)

// ErrNotFound is returned when no hospital matches the lookup.
var ErrNotFound = errors.New("hospital not found")

// ErrDuplicate is returned when a hospital already exists for the email
// or owning user.
var ErrDuplicate = errors.New("hospital already exists")

// Repository is the persistence port for hospital profiles.
type Repository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Hospital, error)
	GetByEmail(ctx context.Context, email string) (*Hospital, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, rejectionReason *string) error
	ListPending(ctx context.Context, p pagination.Params) ([]PendingHospital, int, error)
	ListVerifiedLocations(ctx context.Context) ([]Location, error)
}
