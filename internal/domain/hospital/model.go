// Package hospital implements provider onboarding, the verification state
// machine and the public map directory.
package hospital

import (
	"time"

	"github.com/google/uuid"
)

// Verification states of a hospital. Only PENDING rows can transition.
const (
	StatusPending  = "PENDING"
	StatusVerified = "VERIFIED"
	StatusRejected = "REJECTED"
)

// Hospital is a provider profile owned by a HOSPITAL user account.
type Hospital struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	UserID          uuid.UUID  `db:"user_id" json:"user_id"`
	Name            string     `db:"name" json:"name"`
	Email           string     `db:"email" json:"email"`
	Phone           string     `db:"phone" json:"phone"`
	Address         string     `db:"address" json:"address"`
	Longitude       float64    `db:"longitude" json:"longitude"`
	Latitude        float64    `db:"latitude" json:"latitude"`
	DocumentID      string     `db:"document_id" json:"-"`
	DocumentName    string     `db:"document_name" json:"-"`
	Status          string     `db:"status" json:"status"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	VerifiedAt      *time.Time `db:"verified_at" json:"verified_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Location is the directory projection rendered on the public map.
// MinFees is the cheapest active service offered, nil when none exist.
type Location struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Lng     float64   `json:"lng"`
	Lat     float64   `json:"lat"`
	MinFees *float64  `json:"minFees,omitempty"`
}

// PendingHospital is a pending row joined with its owner's contact info,
// as shown in the admin review queue.
type PendingHospital struct {
	Hospital
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
	OwnerPhone string `json:"owner_phone"`
}
