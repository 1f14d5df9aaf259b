package model

import (
	"time"

	"github.com/google/uuid"
)

// Medication is a daily-recurring scheduled dose for one patient.
// Discontinuing flips Active to false; rows are never hard-deleted so
// the medication history stays intact.
type Medication struct {
	Base
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	Name       string    `db:"name" json:"name"`
	Dosage     string    `db:"dosage" json:"dosage"`
	TimeOfDay  TimeOfDay `db:"time_of_day" json:"time_of_day"`
	Route      string    `db:"route" json:"route"`
	Frequency  string    `db:"frequency" json:"frequency"`
	Prescriber string    `db:"prescriber" json:"prescriber"`
	Purpose    string    `db:"purpose" json:"purpose"`
	Active     bool      `db:"active" json:"active"`
	StartDate  string    `db:"start_date" json:"start_date"`
	EndDate    *string   `db:"end_date" json:"end_date,omitempty"`
}

type CreateMedicationRequest struct {
	Name       string `json:"name" binding:"required"`
	Dosage     string `json:"dosage"`
	TimeOfDay  string `json:"time_of_day" binding:"required,timeofday"`
	Route      string `json:"route"`
	Frequency  string `json:"frequency"`
	Prescriber string `json:"prescriber"`
	Purpose    string `json:"purpose"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// MedicationAlert is one entry of the upcoming-dose view. MinutesUntil
// is a plain same-day difference; a dose whose time has passed today is
// not alerted again.
type MedicationAlert struct {
	PatientID    uuid.UUID `json:"patient_id"`
	PatientName  string    `json:"patient_name"`
	MedicationID uuid.UUID `json:"medication_id"`
	Medication   string    `json:"medication"`
	Dosage       string    `json:"dosage"`
	ScheduledAt  TimeOfDay `json:"scheduled_at"`
	MinutesUntil int       `json:"minutes_until"`
}

// Administration records a dose actually given. Kept as log data,
// separate from the medication row itself.
type Administration struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	MedicationID uuid.UUID `db:"medication_id" json:"medication_id"`
	Medication   string    `db:"medication" json:"medication"`
	Dosage       string    `db:"dosage" json:"dosage"`
	ScheduledAt  TimeOfDay `db:"scheduled_at" json:"scheduled_at"`
	GivenDate    string    `db:"given_date" json:"given_date"`
	GivenAt      TimeOfDay `db:"given_at" json:"given_at"`
	GivenBy      string    `db:"given_by" json:"given_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
