package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/model"
)

// All repository interfaces in one file
type (
	// PatientRepository handles the patient registry. Patients are
	// never deleted, so no Delete is exposed.
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		List(ctx context.Context) ([]*model.Patient, error)
		Search(ctx context.Context, term string) ([]*model.Patient, error)
		FilterByStage(ctx context.Context, stage model.DementiaStage) ([]*model.Patient, error)
		Exists(ctx context.Context, id uuid.UUID) (bool, error)
	}

	MedicationRepository interface {
		Create(ctx context.Context, med *model.Medication) error
		Get(ctx context.Context, id uuid.UUID) (*model.Medication, error)
		SetActive(ctx context.Context, id uuid.UUID, active bool) error
		ListForPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*model.Medication, error)
		ListActive(ctx context.Context) ([]*model.Medication, error)
		CreateAdministration(ctx context.Context, adm *model.Administration) error
		ListAdministrations(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange) ([]*model.Administration, error)
	}

	TaskRepository interface {
		Create(ctx context.Context, task *model.Task) error
		Get(ctx context.Context, id uuid.UUID) (*model.Task, error)
		Update(ctx context.Context, task *model.Task) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Task, error)
		ResetRecurring(ctx context.Context, patientID uuid.UUID) (int64, error)
		MarkAllComplete(ctx context.Context, patientID uuid.UUID, actor string) (int64, error)
	}

	DailyLogRepository interface {
		Create(ctx context.Context, log *model.DailyLog) error
		Get(ctx context.Context, id uuid.UUID) (*model.DailyLog, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange) ([]*model.DailyLog, error)
	}

	MemoryRepository interface {
		Create(ctx context.Context, item *model.MemoryItem) error
		Get(ctx context.Context, id uuid.UUID) (*model.MemoryItem, error)
		List(ctx context.Context, patientID uuid.UUID, category string) ([]*model.MemoryItem, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		CreateFamilyLink(ctx context.Context, link *model.FamilyLink) error
		HasFamilyLink(ctx context.Context, userID, patientID uuid.UUID) (bool, error)
		ListFamilyPatients(ctx context.Context, userID uuid.UUID) ([]*model.Patient, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	}

	// DashboardRepository serves the headline counters.
	DashboardRepository interface {
		Stats(ctx context.Context) (*model.DashboardStats, error)
	}
)
