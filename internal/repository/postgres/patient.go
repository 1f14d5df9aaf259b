package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	apperrors "github.com/oakfield/care-api/pkg/errors"
)

const pqUniqueViolation = "23505"

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO patients (
			id, patient_number, first_name, last_name, date_of_birth, gender,
			room_number, dementia_type, dementia_stage, residence_type, address,
			gp_name, gp_phone, gp_practice, allergies, medical_conditions,
			mobility, dietary_requirements, care_notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)
	`
	_, err = tx.ExecContext(ctx, query,
		patient.ID,
		patient.PatientNumber,
		patient.FirstName,
		patient.LastName,
		patient.DateOfBirth,
		patient.Gender,
		patient.RoomNumber,
		patient.DementiaType,
		patient.DementiaStage,
		patient.ResidenceType,
		patient.Address,
		patient.GPName,
		patient.GPPhone,
		patient.GPPractice,
		patient.Allergies,
		patient.MedicalConditions,
		patient.Mobility,
		patient.DietaryRequirements,
		patient.CareNotes,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return apperrors.Conflict(fmt.Sprintf("patient number %s already registered", patient.PatientNumber))
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}

	for _, contact := range patient.EmergencyContacts {
		contact.PatientID = patient.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO emergency_contacts (id, patient_id, name, relationship, phone, email, is_primary)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, contact.ID, contact.PatientID, contact.Name, contact.Relationship, contact.Phone, contact.Email, contact.IsPrimary)
		if err != nil {
			return fmt.Errorf("failed to create emergency contact: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if err := r.loadContacts(ctx, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT * FROM patients ORDER BY last_name, first_name`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	for _, p := range patients {
		if err := r.loadContacts(ctx, p); err != nil {
			return nil, err
		}
	}
	return patients, nil
}

func (r *patientRepository) Search(ctx context.Context, term string) ([]*model.Patient, error) {
	query := `
		SELECT * FROM patients
		WHERE patient_number ILIKE $1
		   OR first_name ILIKE $1
		   OR last_name ILIKE $1
		   OR room_number ILIKE $1
		ORDER BY last_name, first_name
	`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, "%"+term+"%"); err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	for _, p := range patients {
		if err := r.loadContacts(ctx, p); err != nil {
			return nil, err
		}
	}
	return patients, nil
}

func (r *patientRepository) FilterByStage(ctx context.Context, stage model.DementiaStage) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE dementia_stage = $1 ORDER BY last_name, first_name`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, stage); err != nil {
		return nil, fmt.Errorf("failed to filter patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check patient existence: %w", err)
	}
	return exists, nil
}

func (r *patientRepository) loadContacts(ctx context.Context, patient *model.Patient) error {
	query := `SELECT * FROM emergency_contacts WHERE patient_id = $1 ORDER BY is_primary DESC, name`
	if err := r.db.SelectContext(ctx, &patient.EmergencyContacts, query, patient.ID); err != nil {
		return fmt.Errorf("failed to load emergency contacts: %w", err)
	}
	return nil
}
