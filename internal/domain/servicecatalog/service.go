package servicecatalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/medicompare/medicompare/internal/domain/loinc"
)

// ErrValidation covers missing or malformed service fields.
var ErrValidation = errors.New("invalid service fields")

// Input carries the writable fields for create and update.
type Input struct {
	LoincCode   string  `json:"loincCode"`
	DisplayName string  `json:"displayName"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

func (in *Input) validate() error {
	in.LoincCode = strings.TrimSpace(in.LoincCode)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Category = strings.TrimSpace(in.Category)
	if in.LoincCode == "" || in.DisplayName == "" || in.Price < 0 {
		return ErrValidation
	}
	if in.Category != "" {
		if _, ok := loinc.ResolveCategory(in.Category); !ok {
			return ErrValidation
		}
	}
	return nil
}

// Service implements the hospital-scoped catalog operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create lists a new diagnostic for the hospital. The same LOINC code can
// only appear once per hospital.
func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, in Input) (*HospitalService, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	hs := &HospitalService{
		HospitalID:  hospitalID,
		LoincCode:   in.LoincCode,
		DisplayName: in.DisplayName,
		Category:    in.Category,
		Price:       in.Price,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, hs); err != nil {
		return nil, err
	}
	return hs, nil
}

// Get returns one service within the hospital scope.
func (s *Service) Get(ctx context.Context, hospitalID, id uuid.UUID) (*HospitalService, error) {
	return s.repo.GetByID(ctx, hospitalID, id)
}

// ListActive returns the hospital's active offerings.
func (s *Service) ListActive(ctx context.Context, hospitalID uuid.UUID) ([]HospitalService, error) {
	return s.repo.ListActive(ctx, hospitalID)
}

// Update replaces the writable fields of a service.
func (s *Service) Update(ctx context.Context, hospitalID, id uuid.UUID, in Input) (*HospitalService, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}

	existing.LoincCode = in.LoincCode
	existing.DisplayName = in.DisplayName
	existing.Category = in.Category
	existing.Price = in.Price

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Deactivate soft deletes a service. The row stays for billing history but
// disappears from listings and price aggregation.
func (s *Service) Deactivate(ctx context.Context, hospitalID, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, hospitalID, id)
}
