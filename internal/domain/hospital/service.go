package hospital

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/medicompare/medicompare/internal/platform/auth"
	"github.com/medicompare/medicompare/internal/platform/blobstore"
	"github.com/medicompare/medicompare/internal/platform/db"
)

// ErrValidation covers missing onboarding fields.
var ErrValidation = errors.New("all hospital fields are required")

// ErrNotVerified is returned when a hospital-scoped operation is attempted
// before the hospital has been verified.
var ErrNotVerified = errors.New("hospital is not verified")

// AccountCreator creates the owning user account during onboarding. It is
// implemented by the identity service and wired in at startup.
type AccountCreator interface {
	CreateAccount(ctx context.Context, name, email, password, phone, role string) (uuid.UUID, error)
}

// Service implements hospital onboarding and the public directory.
type Service struct {
	repo     Repository
	accounts AccountCreator
	docs     blobstore.DocumentStore
	pool     *pgxpool.Pool
	logger   zerolog.Logger
}

func NewService(repo Repository, accounts AccountCreator, docs blobstore.DocumentStore, pool *pgxpool.Pool, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		docs:     docs,
		pool:     pool,
		logger:   logger.With().Str("component", "hospital_service").Logger(),
	}
}

// RegisterInput carries the onboarding fields plus the verification
// document stream.
type RegisterInput struct {
	HospitalName string
	Email        string
	Password     string
	Phone        string
	Address      string
	Longitude    float64
	Latitude     float64

	DocumentName        string
	DocumentContentType string
	Document            io.Reader
}

// Register stores the verification document, then atomically creates the
// owning HOSPITAL account and a PENDING hospital row. The new hospital
// cannot log in until an admin verifies it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Hospital, error) {
	in.HospitalName = strings.TrimSpace(in.HospitalName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	if in.HospitalName == "" || in.Email == "" || in.Password == "" ||
		in.Phone == "" || in.Address == "" || in.Document == nil {
		return nil, ErrValidation
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	meta, err := s.docs.Upload(ctx, blobstore.DocumentMetadata{
		FileName:    in.DocumentName,
		ContentType: in.DocumentContentType,
		UploadedBy:  in.Email,
	}, in.Document)
	if err != nil {
		return nil, err
	}

	h := &Hospital{
		Name:         in.HospitalName,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		Longitude:    in.Longitude,
		Latitude:     in.Latitude,
		DocumentID:   meta.ID,
		DocumentName: meta.FileName,
		Status:       StatusPending,
		IsActive:     true,
	}

	err = db.WithTx(ctx, s.pool, func(txCtx context.Context) error {
		userID, err := s.accounts.CreateAccount(txCtx, in.HospitalName, in.Email, in.Password, in.Phone, auth.RoleHospital)
		if err != nil {
			return err
		}
		h.UserID = userID
		return s.repo.Create(txCtx, h)
	})
	if err != nil {
		if delErr := s.docs.Delete(ctx, meta.ID); delErr != nil {
			s.logger.Warn().Err(delErr).Str("document_id", meta.ID).Msg("orphaned verification document")
		}
		return nil, err
	}

	s.logger.Info().Str("hospital_id", h.ID.String()).Msg("hospital onboarding request created")
	return h, nil
}

// Locations lists verified, active hospitals for the public map.
func (s *Service) Locations(ctx context.Context) ([]Location, error) {
	return s.repo.ListVerifiedLocations(ctx)
}

// ForOwner returns the hospital owned by userID.
func (s *Service) ForOwner(ctx context.Context, userID uuid.UUID) (*Hospital, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// IsVerified reports whether the hospital owned by userID has been
// verified. Login of HOSPITAL accounts is gated on it.
func (s *Service) IsVerified(ctx context.Context, userID uuid.UUID) (bool, error) {
	h, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return h.Status == StatusVerified, nil
}
