package dailylog

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository/mocks"
	apperrors "github.com/oakfield/care-api/pkg/errors"
)

type fixture struct {
	svc       *Service
	meds      *mocks.MedicationRepository
	patientID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	patients := mocks.NewPatientRepository()
	logs := mocks.NewDailyLogRepository()
	meds := mocks.NewMedicationRepository()

	p := &model.Patient{
		Base:          model.Base{ID: uuid.New()},
		PatientNumber: "P001",
		FirstName:     "Margaret",
		LastName:      "Hughes",
	}
	require.NoError(t, patients.Create(context.Background(), p))

	return &fixture{
		svc:       NewService(logs, meds, patients, nil),
		meds:      meds,
		patientID: p.ID,
	}
}

func (f *fixture) addLog(t *testing.T, date, clock string, meals map[string]model.Meal) *model.DailyLog {
	t.Helper()
	log, err := f.svc.Add(context.Background(), f.patientID, &model.CreateDailyLogRequest{
		LogDate: date,
		LogTime: clock,
		Meals:   meals,
	}, "Nurse Patel")
	require.NoError(t, err)
	return log
}

func TestAddTotalsCalories(t *testing.T) {
	f := newFixture(t)

	log := f.addLog(t, "2026-03-10", "09:00", map[string]model.Meal{
		"Breakfast": {Amount: "100%", Calories: 350},
		"Lunch":     {Amount: "75%", Calories: 520},
		"Dinner":    {Amount: "50%", Calories: 410},
	})
	assert.Equal(t, 1280, log.TotalCalories)
}

func TestAddEmptyMealsTotalsZero(t *testing.T) {
	f := newFixture(t)

	log := f.addLog(t, "2026-03-10", "09:00", nil)
	assert.Equal(t, 0, log.TotalCalories)
}

func TestAddValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, f.patientID, &model.CreateDailyLogRequest{LogDate: "10/03/2026"}, "Nurse Patel")
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Add(ctx, f.patientID, &model.CreateDailyLogRequest{
		Meals: map[string]model.Meal{"Supper": {Calories: 100}},
	}, "Nurse Patel")
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Add(ctx, f.patientID, &model.CreateDailyLogRequest{
		Meals: map[string]model.Meal{"Lunch": {Calories: -5}},
	}, "Nurse Patel")
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Add(ctx, f.patientID, &model.CreateDailyLogRequest{
		Status: model.Status{Mood: "Ecstatic"},
	}, "Nurse Patel")
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Add(ctx, uuid.New(), &model.CreateDailyLogRequest{}, "Nurse Patel")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListRangeIsInclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addLog(t, "2026-03-09", "09:00", nil)
	f.addLog(t, "2026-03-10", "09:00", nil)
	f.addLog(t, "2026-03-12", "09:00", nil)
	f.addLog(t, "2026-03-13", "09:00", nil)

	logs, err := f.svc.ListForPatient(ctx, f.patientID, &model.DateRange{
		Start: "2026-03-10",
		End:   "2026-03-12",
	})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	// Both boundary dates are included, newest first.
	assert.Equal(t, "2026-03-12", logs[0].LogDate)
	assert.Equal(t, "2026-03-10", logs[1].LogDate)
}

func TestListRejectsInvertedRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListForPatient(context.Background(), f.patientID, &model.DateRange{
		Start: "2026-03-12",
		End:   "2026-03-10",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestGroupByMonthCoversEveryDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addLog(t, "2026-02-01", "09:00", nil)
	f.addLog(t, "2026-02-14", "09:00", nil)
	f.addLog(t, "2026-02-14", "18:00", nil)
	f.addLog(t, "2026-03-01", "09:00", nil)

	calendar, err := f.svc.GroupByMonth(ctx, f.patientID, 2026, time.February)
	require.NoError(t, err)

	// 2026 is not a leap year.
	assert.Len(t, calendar, 28)
	assert.Len(t, calendar["2026-02-01"], 1)
	assert.Len(t, calendar["2026-02-14"], 2)
	assert.Empty(t, calendar["2026-02-02"])
	_, hasMarch := calendar["2026-03-01"]
	assert.False(t, hasMarch)
}

func TestExportRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	log, err := f.svc.Add(ctx, f.patientID, &model.CreateDailyLogRequest{
		LogDate: "2026-03-10",
		LogTime: "09:30",
		Vitals:  model.Vitals{Temperature: 36.8, BloodPressure: "120/80", HeartRate: 72, OxygenSaturation: 97},
		Status:  model.Status{Mood: "Good", SleepQuality: "Fair", Appetite: "Good"},
		Meals: map[string]model.Meal{
			"Breakfast": {Amount: "100%", Calories: 350},
		},
		TotalFluidsML: 1200,
		GeneralNotes:  "Settled morning",
		Incidents:     "",
	}, "Nurse Patel")
	require.NoError(t, err)
	f.addLog(t, "2026-03-11", "10:00", nil)

	require.NoError(t, f.meds.CreateAdministration(ctx, &model.Administration{
		ID:         uuid.New(),
		PatientID:  f.patientID,
		Medication: "Donepezil",
		Dosage:     "10mg",
		GivenDate:  "2026-03-10",
		GivenAt:    "08:05",
		GivenBy:    "Nurse Patel",
	}))

	var buf bytes.Buffer
	n, err := f.svc.ExportRange(ctx, f.patientID, &model.DateRange{Start: "2026-03-10", End: "2026-03-11"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Date", "Time", "Temperature", "Blood Pressure", "Heart Rate",
		"Oxygen", "Mood", "Sleep", "Appetite", "Total Calories",
		"Total Fluids", "Medications Given", "Notes", "Incidents", "Logged By",
	}, rows[0])

	// Oldest first in the export.
	first := rows[1]
	assert.Equal(t, "2026-03-10", first[0])
	assert.Equal(t, "09:30", first[1])
	assert.Equal(t, "36.8", first[2])
	assert.Equal(t, "120/80", first[3])
	assert.Equal(t, "350", first[9])
	assert.Equal(t, "1200", first[10])
	assert.Equal(t, "Donepezil (10mg) at 08:05", first[11])
	assert.Equal(t, "Nurse Patel", first[14])

	assert.Equal(t, "2026-03-11", rows[2][0])
	assert.Equal(t, "", rows[2][11])

	_ = log
}
