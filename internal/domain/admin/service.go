// Package admin implements the hospital verification workflow: reviewing
// pending onboarding requests, inspecting their documents and moving them
// to VERIFIED or REJECTED.
package admin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicompare/medicompare/internal/domain/hospital"
	"github.com/medicompare/medicompare/internal/platform/blobstore"
	"github.com/medicompare/medicompare/pkg/pagination"
)

// TransitionError reports an attempt to verify or reject a hospital that
// is not PENDING.
type TransitionError struct {
	Current string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("hospital is %s, only PENDING hospitals can transition", e.Current)
}

// Service implements the admin review operations.
type Service struct {
	hospitals hospital.Repository
	docs      blobstore.DocumentStore
	logger    zerolog.Logger
}

func NewService(hospitals hospital.Repository, docs blobstore.DocumentStore, logger zerolog.Logger) *Service {
	return &Service{
		hospitals: hospitals,
		docs:      docs,
		logger:    logger.With().Str("component", "admin_service").Logger(),
	}
}

// ListPending returns the pending onboarding queue with owner contact info.
func (s *Service) ListPending(ctx context.Context, p pagination.Params) ([]hospital.PendingHospital, int, error) {
	return s.hospitals.ListPending(ctx, p)
}

// Verify moves a PENDING hospital to VERIFIED.
func (s *Service) Verify(ctx context.Context, id uuid.UUID) error {
	h, err := s.hospitals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if h.Status != hospital.StatusPending {
		return &TransitionError{Current: h.Status}
	}
	if err := s.hospitals.UpdateStatus(ctx, id, hospital.StatusVerified, nil); err != nil {
		return err
	}
	s.logger.Info().Str("hospital_id", id.String()).Msg("hospital verified")
	return nil
}

// Reject moves a PENDING hospital to REJECTED with an optional reason.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	h, err := s.hospitals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if h.Status != hospital.StatusPending {
		return &TransitionError{Current: h.Status}
	}
	var reasonPtr *string
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		reasonPtr = &trimmed
	}
	if err := s.hospitals.UpdateStatus(ctx, id, hospital.StatusRejected, reasonPtr); err != nil {
		return err
	}
	s.logger.Info().Str("hospital_id", id.String()).Msg("hospital rejected")
	return nil
}

// Document streams a hospital's verification document for review.
func (s *Service) Document(ctx context.Context, id uuid.UUID) (io.ReadCloser, *blobstore.DocumentMetadata, error) {
	h, err := s.hospitals.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return s.docs.Download(ctx, h.DocumentID)
}
