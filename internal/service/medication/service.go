package medication

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	apperrors "github.com/oakfield/care-api/pkg/errors"
	"github.com/oakfield/care-api/pkg/metrics"
)

// DefaultAlertWindow is the number of minutes before a scheduled dose
// during which it is surfaced as upcoming.
const DefaultAlertWindow = 30

type MedicationService interface {
	Add(ctx context.Context, patientID uuid.UUID, req *model.CreateMedicationRequest) (*model.Medication, error)
	Discontinue(ctx context.Context, id uuid.UUID) error
	ListForPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*model.Medication, error)
	UpcomingAlerts(ctx context.Context, now time.Time, windowMinutes int) ([]*model.MedicationAlert, error)
	RecordGiven(ctx context.Context, patientID, medicationID uuid.UUID, actor string, now time.Time) (*model.Administration, error)
	ListAdministrations(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange) ([]*model.Administration, error)
}

type Service struct {
	repo        repository.MedicationRepository
	patientRepo repository.PatientRepository
	metrics     *metrics.Metrics
}

func NewService(repo repository.MedicationRepository, patientRepo repository.PatientRepository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, patientRepo: patientRepo, metrics: m}
}

func (s *Service) Add(ctx context.Context, patientID uuid.UUID, req *model.CreateMedicationRequest) (*model.Medication, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Validation("medication name is required")
	}
	if strings.TrimSpace(req.Dosage) == "" {
		return nil, apperrors.Validation("dosage is required")
	}
	timeOfDay, err := model.ParseTimeOfDay(req.TimeOfDay)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}

	startDate := req.StartDate
	if startDate == "" {
		startDate = time.Now().Format("2006-01-02")
	}
	var endDate *string
	if req.EndDate != "" {
		endDate = &req.EndDate
	}

	med := &model.Medication{
		Base:       model.Base{ID: uuid.New()},
		PatientID:  patientID,
		Name:       strings.TrimSpace(req.Name),
		Dosage:     strings.TrimSpace(req.Dosage),
		TimeOfDay:  timeOfDay,
		Route:      req.Route,
		Frequency:  req.Frequency,
		Prescriber: req.Prescriber,
		Purpose:    req.Purpose,
		Active:     true,
		StartDate:  startDate,
		EndDate:    endDate,
	}

	if err := s.repo.Create(ctx, med); err != nil {
		return nil, fmt.Errorf("failed to add medication: %w", err)
	}
	return med, nil
}

// Discontinue flips the active flag off. Idempotent; discontinuing an
// already-inactive medication is not an error. Rows are never deleted.
func (s *Service) Discontinue(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if apperrors.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to discontinue medication: %w", err)
	}
	return nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*model.Medication, error) {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListForPatient(ctx, patientID, activeOnly)
}

// UpcomingAlerts returns every active medication across all patients
// whose scheduled time falls within the window after now. The minute
// difference is a plain subtraction with no midnight wraparound: a
// dose at 00:05 is never alerted at 23:50, and a dose whose time has
// passed today is not alerted again. The window means "later today".
func (s *Service) UpcomingAlerts(ctx context.Context, now time.Time, windowMinutes int) ([]*model.MedicationAlert, error) {
	if windowMinutes <= 0 {
		windowMinutes = DefaultAlertWindow
	}

	meds, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active medications: %w", err)
	}

	patients, err := s.patientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load patients: %w", err)
	}
	names := make(map[uuid.UUID]string, len(patients))
	for _, p := range patients {
		names[p.ID] = p.DisplayName()
	}

	nowMinutes := now.Hour()*60 + now.Minute()

	alerts := make([]*model.MedicationAlert, 0)
	for _, med := range meds {
		diff := med.TimeOfDay.MinuteOfDay() - nowMinutes
		if diff < 0 || diff > windowMinutes {
			continue
		}
		alerts = append(alerts, &model.MedicationAlert{
			PatientID:    med.PatientID,
			PatientName:  names[med.PatientID],
			MedicationID: med.ID,
			Medication:   med.Name,
			Dosage:       med.Dosage,
			ScheduledAt:  med.TimeOfDay,
			MinutesUntil: diff,
		})
	}

	if s.metrics != nil {
		s.metrics.MedicationAlertsComputed.Inc()
	}
	return alerts, nil
}

// RecordGiven appends an administration entry; the medication row
// itself is never mutated by a dose being given.
func (s *Service) RecordGiven(ctx context.Context, patientID, medicationID uuid.UUID, actor string, now time.Time) (*model.Administration, error) {
	med, err := s.repo.Get(ctx, medicationID)
	if err != nil {
		return nil, err
	}
	if med.PatientID != patientID {
		return nil, apperrors.NotFound("medication")
	}

	given, _ := model.ParseTimeOfDay(now.Format("15:04"))
	adm := &model.Administration{
		ID:           uuid.New(),
		PatientID:    patientID,
		MedicationID: medicationID,
		Medication:   med.Name,
		Dosage:       med.Dosage,
		ScheduledAt:  med.TimeOfDay,
		GivenDate:    now.Format("2006-01-02"),
		GivenAt:      given,
		GivenBy:      actor,
	}
	if err := s.repo.CreateAdministration(ctx, adm); err != nil {
		return nil, fmt.Errorf("failed to record administration: %w", err)
	}
	return adm, nil
}

func (s *Service) ListAdministrations(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange) ([]*model.Administration, error) {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListAdministrations(ctx, patientID, dateRange)
}

func (s *Service) requirePatient(ctx context.Context, patientID uuid.UUID) error {
	exists, err := s.patientRepo.Exists(ctx, patientID)
	if err != nil {
		return fmt.Errorf("failed to check patient: %w", err)
	}
	if !exists {
		return apperrors.NotFound("patient")
	}
	return nil
}
