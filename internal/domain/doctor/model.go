// Package doctor implements the hospital-scoped doctor roster.
package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Gender values accepted for a doctor profile.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// Consultation types offered by a doctor.
const (
	ConsultationOPD  = "OPD"
	ConsultationIPD  = "IPD"
	ConsultationBoth = "BOTH"
)

// TimeSlot is one bookable window within an available day.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability describes when a doctor consults. Stored as JSONB.
type Availability struct {
	Days      []string   `json:"days"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// Doctor is a practitioner attached to a hospital.
type Doctor struct {
	ID                 uuid.UUID    `db:"id" json:"id"`
	HospitalID         uuid.UUID    `db:"hospital_id" json:"hospital_id"`
	Name               string       `db:"name" json:"name"`
	Gender             string       `db:"gender" json:"gender,omitempty"`
	Qualifications     []string     `db:"qualifications" json:"qualifications"`
	Specialization     string       `db:"specialization" json:"specialization"`
	ExperienceYears    int          `db:"experience_years" json:"experience_years"`
	RegistrationNumber string       `db:"registration_number" json:"registration_number"`
	ConsultationType   string       `db:"consultation_type" json:"consultation_type"`
	ConsultationFee    float64      `db:"consultation_fee" json:"consultation_fee"`
	Availability       Availability `db:"availability" json:"availability"`
	Description        string       `db:"description" json:"description"`
	IsActive           bool         `db:"is_active" json:"is_active"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}
