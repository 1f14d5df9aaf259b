package medication

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository/mocks"
	apperrors "github.com/oakfield/care-api/pkg/errors"
)

func newTestService(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()
	patients := mocks.NewPatientRepository()
	meds := mocks.NewMedicationRepository()

	p := &model.Patient{
		Base:          model.Base{ID: uuid.New()},
		PatientNumber: "P001",
		FirstName:     "Margaret",
		LastName:      "Hughes",
	}
	require.NoError(t, patients.Create(context.Background(), p))

	return NewService(meds, patients, nil), p.ID
}

func addMed(t *testing.T, svc *Service, patientID uuid.UUID, name, timeOfDay string) *model.Medication {
	t.Helper()
	med, err := svc.Add(context.Background(), patientID, &model.CreateMedicationRequest{
		Name:      name,
		Dosage:    "10mg",
		TimeOfDay: timeOfDay,
	})
	require.NoError(t, err)
	return med
}

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", "2026-03-10 "+clock)
	require.NoError(t, err)
	return parsed
}

func TestAddValidation(t *testing.T) {
	svc, patientID := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, patientID, &model.CreateMedicationRequest{Dosage: "10mg", TimeOfDay: "08:00"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Add(ctx, patientID, &model.CreateMedicationRequest{Name: "Donepezil", TimeOfDay: "08:00"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Add(ctx, patientID, &model.CreateMedicationRequest{Name: "Donepezil", Dosage: "10mg", TimeOfDay: "25:00"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Add(ctx, uuid.New(), &model.CreateMedicationRequest{Name: "Donepezil", Dosage: "10mg", TimeOfDay: "08:00"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAddCanonicalisesTime(t *testing.T) {
	svc, patientID := newTestService(t)

	med := addMed(t, svc, patientID, "Donepezil", "8:5")
	assert.Equal(t, model.TimeOfDay("08:05"), med.TimeOfDay)
	assert.True(t, med.Active)
	assert.NotEmpty(t, med.StartDate)
}

func TestUpcomingAlertsWindow(t *testing.T) {
	svc, patientID := newTestService(t)
	ctx := context.Background()

	addMed(t, svc, patientID, "Donepezil", "08:00")

	// Inside a 15-minute window.
	alerts, err := svc.UpcomingAlerts(ctx, at(t, "07:45"), 15)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Donepezil", alerts[0].Medication)
	assert.Equal(t, "Margaret Hughes", alerts[0].PatientName)
	assert.Equal(t, 15, alerts[0].MinutesUntil)

	// Exactly due counts as zero minutes away.
	alerts, err = svc.UpcomingAlerts(ctx, at(t, "08:00"), 15)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 0, alerts[0].MinutesUntil)

	// One minute past is no longer upcoming.
	alerts, err = svc.UpcomingAlerts(ctx, at(t, "08:01"), 15)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	// One minute outside the window is too early.
	alerts, err = svc.UpcomingAlerts(ctx, at(t, "07:44"), 15)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestUpcomingAlertsNoMidnightWraparound(t *testing.T) {
	svc, patientID := newTestService(t)
	ctx := context.Background()

	addMed(t, svc, patientID, "Melatonin", "00:05")

	// 23:50 to 00:05 looks like 15 minutes on a clock face, but the
	// dose belongs to tomorrow and must not alert tonight.
	alerts, err := svc.UpcomingAlerts(ctx, at(t, "23:50"), 30)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	alerts, err = svc.UpcomingAlerts(ctx, at(t, "00:00"), 30)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestUpcomingAlertsSkipsDiscontinued(t *testing.T) {
	svc, patientID := newTestService(t)
	ctx := context.Background()

	med := addMed(t, svc, patientID, "Donepezil", "08:00")
	require.NoError(t, svc.Discontinue(ctx, med.ID))

	alerts, err := svc.UpcomingAlerts(ctx, at(t, "07:45"), 30)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestUpcomingAlertsDefaultWindow(t *testing.T) {
	svc, patientID := newTestService(t)
	ctx := context.Background()

	addMed(t, svc, patientID, "Donepezil", "08:30")

	alerts, err := svc.UpcomingAlerts(ctx, at(t, "08:00"), 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 30, alerts[0].MinutesUntil)
}

func TestDiscontinueIdempotent(t *testing.T) {
	svc, patientID := newTestService(t)
	ctx := context.Background()

	med := addMed(t, svc, patientID, "Donepezil", "08:00")
	require.NoError(t, svc.Discontinue(ctx, med.ID))
	require.NoError(t, svc.Discontinue(ctx, med.ID))

	err := svc.Discontinue(ctx, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))

	// History survives discontinuation.
	all, err := svc.ListForPatient(ctx, patientID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	active, err := svc.ListForPatient(ctx, patientID, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestListForPatientOrdersByTime(t *testing.T) {
	svc, patientID := newTestService(t)
	ctx := context.Background()

	addMed(t, svc, patientID, "Evening dose", "20:00")
	addMed(t, svc, patientID, "Morning dose", "08:00")
	addMed(t, svc, patientID, "Second morning dose", "08:00")

	meds, err := svc.ListForPatient(ctx, patientID, true)
	require.NoError(t, err)
	require.Len(t, meds, 3)
	assert.Equal(t, "Morning dose", meds[0].Name)
	assert.Equal(t, "Second morning dose", meds[1].Name)
	assert.Equal(t, "Evening dose", meds[2].Name)
}

func TestRecordGiven(t *testing.T) {
	svc, patientID := newTestService(t)
	ctx := context.Background()

	med := addMed(t, svc, patientID, "Donepezil", "08:00")

	adm, err := svc.RecordGiven(ctx, patientID, med.ID, "Nurse Patel", at(t, "08:10"))
	require.NoError(t, err)
	assert.Equal(t, "Donepezil", adm.Medication)
	assert.Equal(t, model.TimeOfDay("08:10"), adm.GivenAt)
	assert.Equal(t, "2026-03-10", adm.GivenDate)
	assert.Equal(t, "Nurse Patel", adm.GivenBy)

	// Wrong patient for the medication reads as not found.
	_, err = svc.RecordGiven(ctx, uuid.New(), med.ID, "Nurse Patel", at(t, "08:10"))
	assert.True(t, apperrors.IsNotFound(err))

	adms, err := svc.ListAdministrations(ctx, patientID, nil)
	require.NoError(t, err)
	assert.Len(t, adms, 1)
}
