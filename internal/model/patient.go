package model

import (
	"github.com/google/uuid"
)

// DementiaStage is the enumerated progression stage of a patient's
// condition. "Middle" appears in some older records and is normalised
// to "Mid" at the model boundary.
type DementiaStage string

const (
	StageEarly DementiaStage = "Early"
	StageMid   DementiaStage = "Mid"
	StageLate  DementiaStage = "Late"
)

// NormalizeStage maps accepted stage spellings to the canonical value.
func NormalizeStage(s string) (DementiaStage, bool) {
	switch s {
	case "Early":
		return StageEarly, true
	case "Mid", "Middle":
		return StageMid, true
	case "Late":
		return StageLate, true
	}
	return "", false
}

// Patient is the demographic and medical record for one resident.
// Patients are never hard-deleted; all child entities reference ID.
type Patient struct {
	Base
	PatientNumber       string        `db:"patient_number" json:"patient_number"`
	FirstName           string        `db:"first_name" json:"first_name"`
	LastName            string        `db:"last_name" json:"last_name"`
	DateOfBirth         string        `db:"date_of_birth" json:"date_of_birth"`
	Gender              string        `db:"gender" json:"gender"`
	RoomNumber          string        `db:"room_number" json:"room_number"`
	DementiaType        string        `db:"dementia_type" json:"dementia_type"`
	DementiaStage       DementiaStage `db:"dementia_stage" json:"dementia_stage"`
	ResidenceType       string        `db:"residence_type" json:"residence_type"`
	Address             string        `db:"address" json:"address"`
	GPName              string        `db:"gp_name" json:"gp_name"`
	GPPhone             string        `db:"gp_phone" json:"gp_phone"`
	GPPractice          string        `db:"gp_practice" json:"gp_practice"`
	Allergies           string        `db:"allergies" json:"allergies"`
	MedicalConditions   string        `db:"medical_conditions" json:"medical_conditions"`
	Mobility            string        `db:"mobility" json:"mobility"`
	DietaryRequirements string        `db:"dietary_requirements" json:"dietary_requirements"`
	CareNotes           string        `db:"care_notes" json:"care_notes"`

	EmergencyContacts []*EmergencyContact `db:"-" json:"emergency_contacts"`
}

// DisplayName is the name shown in alerts and listings.
func (p *Patient) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

// EmergencyContact belongs to exactly one patient.
type EmergencyContact struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	Name         string    `db:"name" json:"name"`
	Relationship string    `db:"relationship" json:"relationship"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email,omitempty"`
	IsPrimary    bool      `db:"is_primary" json:"is_primary"`
}

type CreatePatientRequest struct {
	PatientNumber       string                    `json:"patient_number" binding:"required"`
	FirstName           string                    `json:"first_name" binding:"required"`
	LastName            string                    `json:"last_name" binding:"required"`
	DateOfBirth         string                    `json:"date_of_birth"`
	Gender              string                    `json:"gender"`
	RoomNumber          string                    `json:"room_number"`
	DementiaType        string                    `json:"dementia_type"`
	DementiaStage       string                    `json:"dementia_stage"`
	ResidenceType       string                    `json:"residence_type"`
	Address             string                    `json:"address"`
	GPName              string                    `json:"gp_name"`
	GPPhone             string                    `json:"gp_phone"`
	GPPractice          string                    `json:"gp_practice"`
	Allergies           string                    `json:"allergies"`
	MedicalConditions   string                    `json:"medical_conditions"`
	Mobility            string                    `json:"mobility"`
	DietaryRequirements string                    `json:"dietary_requirements"`
	CareNotes           string                    `json:"care_notes"`
	EmergencyContacts   []CreateEmergencyContact  `json:"emergency_contacts"`
}

type CreateEmergencyContact struct {
	Name         string `json:"name" binding:"required"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	IsPrimary    bool   `json:"is_primary"`
}

// PatientFilters narrows patient listings.
type PatientFilters struct {
	SearchTerm string        `json:"search_term" form:"search_term"`
	Stage      DementiaStage `json:"stage" form:"stage"`
}
