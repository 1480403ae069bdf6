package servicecatalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no service matches the id within the
// hospital scope.
var ErrNotFound = errors.New("service not found")

// ErrDuplicateCode is returned when the hospital already lists the LOINC
// code.
var ErrDuplicateCode = errors.New("service already exists for this hospital")

// Repository is the persistence port for hospital services. Lookups are
// scoped by hospital id.
type Repository interface {
	Create(ctx context.Context, s *HospitalService) error
	GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*HospitalService, error)
	ListActive(ctx context.Context, hospitalID uuid.UUID) ([]HospitalService, error)
	Update(ctx context.Context, s *HospitalService) error
	Deactivate(ctx context.Context, hospitalID, id uuid.UUID) error
}
