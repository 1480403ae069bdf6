// Package servicecatalog manages the billable diagnostics a hospital
// offers. Each entry carries the LOINC code picked via the test search, so
// prices are comparable across hospitals.
package servicecatalog

import (
	"time"

	"github.com/google/uuid"
)

// HospitalService is one priced diagnostic offering. A hospital can list
// each LOINC code at most once.
type HospitalService struct {
	ID          uuid.UUID `db:"id" json:"id"`
	HospitalID  uuid.UUID `db:"hospital_id" json:"hospital_id"`
	LoincCode   string    `db:"loinc_code" json:"loincCode"`
	DisplayName string    `db:"display_name" json:"displayName"`
	Category    string    `db:"category" json:"category,omitempty"`
	Price       float64   `db:"price" json:"price"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
