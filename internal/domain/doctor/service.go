package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxDescriptionLength = 500

// ValidationError carries a field-level message back to the handler.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var validGenders = map[string]bool{
	"":           true, // optional
	GenderMale:   true,
	GenderFemale: true,
	GenderOther:  true,
}

var validConsultationTypes = map[string]bool{
	ConsultationOPD:  true,
	ConsultationIPD:  true,
	ConsultationBoth: true,
}

// Input carries the writable doctor fields for create and update.
type Input struct {
	Name               string       `json:"name"`
	Gender             string       `json:"gender"`
	Qualifications     []string     `json:"qualifications"`
	Specialization     string       `json:"specialization"`
	ExperienceYears    int          `json:"experience_years"`
	RegistrationNumber string       `json:"registration_number"`
	ConsultationType   string       `json:"consultation_type"`
	ConsultationFee    float64      `json:"consultation_fee"`
	Availability       Availability `json:"availability"`
	Description        string       `json:"description"`
}

func (in *Input) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Specialization = strings.TrimSpace(in.Specialization)
	in.RegistrationNumber = strings.TrimSpace(in.RegistrationNumber)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.Name == "":
		return invalidf("Doctor name is required")
	case len(in.Qualifications) == 0:
		return invalidf("At least one qualification is required")
	case in.Specialization == "":
		return invalidf("Specialization is required")
	case in.ExperienceYears < 0:
		return invalidf("Experience cannot be negative")
	case in.RegistrationNumber == "":
		return invalidf("Registration number is required")
	case !validConsultationTypes[in.ConsultationType]:
		return invalidf("Consultation type must be OPD, IPD or BOTH")
	case in.ConsultationFee < 0:
		return invalidf("Consultation fee cannot be negative")
	case !validGenders[in.Gender]:
		return invalidf("Gender must be MALE, FEMALE or OTHER")
	case len(in.Availability.Days) == 0:
		return invalidf("Availability days are required")
	case len(in.Description) > maxDescriptionLength:
		return invalidf("Description cannot exceed %d characters", maxDescriptionLength)
	}
	for _, slot := range in.Availability.TimeSlots {
		if slot.Start == "" || slot.End == "" {
			return invalidf("Time slots need a start and an end")
		}
	}
	return nil
}

// Service implements the hospital-scoped doctor roster operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a doctor to the hospital's roster.
func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, in Input) (*Doctor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	d := &Doctor{
		HospitalID:         hospitalID,
		Name:               in.Name,
		Gender:             in.Gender,
		Qualifications:     in.Qualifications,
		Specialization:     in.Specialization,
		ExperienceYears:    in.ExperienceYears,
		RegistrationNumber: in.RegistrationNumber,
		ConsultationType:   in.ConsultationType,
		ConsultationFee:    in.ConsultationFee,
		Availability:       in.Availability,
		Description:        in.Description,
		IsActive:           true,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns one doctor within the hospital scope.
func (s *Service) Get(ctx context.Context, hospitalID, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, hospitalID, id)
}

// List returns the hospital's roster, newest first.
func (s *Service) List(ctx context.Context, hospitalID uuid.UUID) ([]Doctor, error) {
	return s.repo.ListByHospital(ctx, hospitalID)
}

// Update replaces the writable fields of a doctor. The hospital link is
// taken from the authenticated scope and can never be changed by input.
func (s *Service) Update(ctx context.Context, hospitalID, id uuid.UUID, in Input) (*Doctor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.Gender = in.Gender
	existing.Qualifications = in.Qualifications
	existing.Specialization = in.Specialization
	existing.ExperienceYears = in.ExperienceYears
	existing.RegistrationNumber = in.RegistrationNumber
	existing.ConsultationType = in.ConsultationType
	existing.ConsultationFee = in.ConsultationFee
	existing.Availability = in.Availability
	existing.Description = in.Description

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a doctor from the roster.
func (s *Service) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	return s.repo.Delete(ctx, hospitalID, id)
}
