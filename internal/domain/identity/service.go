package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/medicompare/medicompare/internal/platform/auth"
)

var (
	// ErrValidation covers missing or malformed registration fields.
	ErrValidation = errors.New("all fields are required")
	// ErrInvalidCredentials covers unknown email and wrong password alike,
	// so login failures do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrHospitalNotVerified blocks hospital owners until an admin approves
	// their onboarding request.
	ErrHospitalNotVerified = errors.New("hospital account is pending verification")
	// ErrAccountDisabled blocks deactivated accounts.
	ErrAccountDisabled = errors.New("account is disabled")
)

// HospitalGate reports whether the hospital owned by a user has been
// verified. Implemented by the hospital service and wired in at startup.
type HospitalGate interface {
	IsVerified(ctx context.Context, ownerID uuid.UUID) (bool, error)
}

// Service implements account registration and login.
type Service struct {
	users     UserRepository
	issuer    *auth.TokenIssuer
	hospitals HospitalGate
}

func NewService(users UserRepository, issuer *auth.TokenIssuer, hospitals HospitalGate) *Service {
	return &Service{users: users, issuer: issuer, hospitals: hospitals}
}

// SetHospitalGate attaches the verification gate after construction. The
// identity and hospital services reference each other, so one link is wired
// late at startup.
func (s *Service) SetHospitalGate(hospitals HospitalGate) {
	s.hospitals = hospitals
}

// RegisterInput carries the fields accepted by POST /auth/register.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Register creates a USER account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", ErrValidation
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         auth.RoleUser,
		Phone:        strings.TrimSpace(in.Phone),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// CreateAccount creates an account with an explicit role on behalf of
// another domain. Hospital onboarding uses it inside its transaction.
func (s *Service) CreateAccount(ctx context.Context, name, email, password, phone, role string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrValidation
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        strings.TrimSpace(phone),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns the account with a signed token.
// Hospital owners are held back until their hospital is verified.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, "", ErrAccountDisabled
	}

	if u.Role == auth.RoleHospital && s.hospitals != nil {
		verified, err := s.hospitals.IsVerified(ctx, u.ID)
		if err != nil {
			return nil, "", err
		}
		if !verified {
			return nil, "", ErrHospitalNotVerified
		}
	}

	token, err := s.issuer.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// NormalizeEmail lowercases and trims an email address. Uniqueness in the
// users table is enforced on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
