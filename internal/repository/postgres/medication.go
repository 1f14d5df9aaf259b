package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	apperrors "github.com/oakfield/care-api/pkg/errors"
)

type medicationRepository struct {
	db *sqlx.DB
}

func NewMedicationRepository(db *sqlx.DB) repository.MedicationRepository {
	return &medicationRepository{db: db}
}

func (r *medicationRepository) Create(ctx context.Context, med *model.Medication) error {
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()

	query := `
		INSERT INTO medications (
			id, patient_id, name, dosage, time_of_day, route, frequency,
			prescriber, purpose, active, start_date, end_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		med.ID,
		med.PatientID,
		med.Name,
		med.Dosage,
		med.TimeOfDay,
		med.Route,
		med.Frequency,
		med.Prescriber,
		med.Purpose,
		med.Active,
		med.StartDate,
		med.EndDate,
		med.CreatedAt,
		med.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medication: %w", err)
	}
	return nil
}

func (r *medicationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Medication, error) {
	var med model.Medication
	err := r.db.GetContext(ctx, &med, `SELECT * FROM medications WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("medication")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return &med, nil
}

func (r *medicationRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE medications SET active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update medication status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("medication")
	}
	return nil
}

func (r *medicationRepository) ListForPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*model.Medication, error) {
	// Ties on time_of_day fall back to insertion order.
	query := `SELECT * FROM medications WHERE patient_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY time_of_day, created_at`

	var meds []*model.Medication
	if err := r.db.SelectContext(ctx, &meds, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return meds, nil
}

func (r *medicationRepository) ListActive(ctx context.Context) ([]*model.Medication, error) {
	var meds []*model.Medication
	query := `SELECT * FROM medications WHERE active ORDER BY time_of_day, created_at`
	if err := r.db.SelectContext(ctx, &meds, query); err != nil {
		return nil, fmt.Errorf("failed to list active medications: %w", err)
	}
	return meds, nil
}

func (r *medicationRepository) CreateAdministration(ctx context.Context, adm *model.Administration) error {
	adm.CreatedAt = time.Now()
	query := `
		INSERT INTO medication_administrations (
			id, patient_id, medication_id, medication, dosage,
			scheduled_at, given_date, given_at, given_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		adm.ID,
		adm.PatientID,
		adm.MedicationID,
		adm.Medication,
		adm.Dosage,
		adm.ScheduledAt,
		adm.GivenDate,
		adm.GivenAt,
		adm.GivenBy,
		adm.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record administration: %w", err)
	}
	return nil
}

func (r *medicationRepository) ListAdministrations(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange) ([]*model.Administration, error) {
	var adms []*model.Administration
	var err error
	if dateRange != nil && !dateRange.IsZero() {
		query := `
			SELECT * FROM medication_administrations
			WHERE patient_id = $1 AND given_date BETWEEN $2 AND $3
			ORDER BY given_date, given_at
		`
		err = r.db.SelectContext(ctx, &adms, query, patientID, dateRange.Start, dateRange.End)
	} else {
		query := `
			SELECT * FROM medication_administrations
			WHERE patient_id = $1
			ORDER BY given_date, given_at
		`
		err = r.db.SelectContext(ctx, &adms, query, patientID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list administrations: %w", err)
	}
	return adms, nil
}
