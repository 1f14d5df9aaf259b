package dailylog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	apperrors "github.com/oakfield/care-api/pkg/errors"
	"github.com/oakfield/care-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

// exportHeader is the fixed column order of the CSV export.
var exportHeader = []string{
	"Date", "Time", "Temperature", "Blood Pressure", "Heart Rate",
	"Oxygen", "Mood", "Sleep", "Appetite", "Total Calories",
	"Total Fluids", "Medications Given", "Notes", "Incidents", "Logged By",
}

type DailyLogService interface {
	Add(ctx context.Context, patientID uuid.UUID, req *model.CreateDailyLogRequest, loggedBy string) (*model.DailyLog, error)
	Get(ctx context.Context, id uuid.UUID) (*model.DailyLog, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange) ([]*model.DailyLog, error)
	GroupByMonth(ctx context.Context, patientID uuid.UUID, year int, month time.Month) (map[string][]*model.DailyLog, error)
	ExportRange(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange, w io.Writer) (int, error)
}

type Service struct {
	repo        repository.DailyLogRepository
	medRepo     repository.MedicationRepository
	patientRepo repository.PatientRepository
	metrics     *metrics.Metrics
}

func NewService(repo repository.DailyLogRepository, medRepo repository.MedicationRepository, patientRepo repository.PatientRepository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, medRepo: medRepo, patientRepo: patientRepo, metrics: m}
}

// Add validates the scales and meal slots, totals the meal calories and
// stores the log. The stored total is always the sum of the meal
// entries, never a caller-supplied figure.
func (s *Service) Add(ctx context.Context, patientID uuid.UUID, req *model.CreateDailyLogRequest, loggedBy string) (*model.DailyLog, error) {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}

	logDate := req.LogDate
	if logDate == "" {
		logDate = time.Now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, logDate); err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("invalid log date %q, want YYYY-MM-DD", req.LogDate))
	}

	logTime := model.TimeOfDay(time.Now().Format("15:04"))
	if req.LogTime != "" {
		t, err := model.ParseTimeOfDay(req.LogTime)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		logTime = t
	}

	if err := validateStatus(&req.Status); err != nil {
		return nil, err
	}

	meals := make(map[model.MealSlot]model.Meal, len(req.Meals))
	total := 0
	for slot, meal := range req.Meals {
		if !model.ValidMealSlot(slot) {
			return nil, apperrors.Validation(fmt.Sprintf("unknown meal slot %q", slot))
		}
		if meal.Calories < 0 {
			return nil, apperrors.Validation("meal calories cannot be negative")
		}
		if meal.Amount != "" && !model.OnScale(model.MealAmounts, meal.Amount) {
			return nil, apperrors.Validation(fmt.Sprintf("unknown meal amount %q", meal.Amount))
		}
		meals[model.MealSlot(slot)] = meal
		total += meal.Calories
	}

	if req.TotalFluidsML < 0 {
		return nil, apperrors.Validation("fluid intake cannot be negative")
	}

	log := &model.DailyLog{
		Base:          model.Base{ID: uuid.New()},
		PatientID:     patientID,
		LogDate:       logDate,
		LogTime:       logTime,
		Vitals:        req.Vitals,
		Status:        req.Status,
		Meals:         meals,
		TotalCalories: total,
		TotalFluidsML: req.TotalFluidsML,
		GeneralNotes:  req.GeneralNotes,
		Incidents:     req.Incidents,
		LoggedBy:      loggedBy,
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create daily log: %w", err)
	}
	return log, nil
}

func validateStatus(st *model.Status) error {
	checks := []struct {
		scale []string
		value string
		name  string
	}{
		{model.MoodScale, st.Mood, "mood"},
		{model.SleepScale, st.SleepQuality, "sleep quality"},
		{model.AppetiteScale, st.Appetite, "appetite"},
		{model.ActivityScale, st.ActivityLevel, "activity level"},
		{model.SocialScale, st.SocialEngagement, "social engagement"},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		if !model.OnScale(c.scale, c.value) {
			return apperrors.Validation(fmt.Sprintf("invalid %s %q", c.name, c.value))
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.DailyLog, error) {
	return s.repo.Get(ctx, id)
}

// ListForPatient returns logs newest first. The date range, when set,
// is inclusive at both ends.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange) ([]*model.DailyLog, error) {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}
	if dateRange != nil && !dateRange.IsZero() {
		if err := validateRange(dateRange); err != nil {
			return nil, err
		}
	}
	return s.repo.ListForPatient(ctx, patientID, dateRange)
}

// GroupByMonth returns a calendar view: every day of the month keyed by
// its ISO date, days without logs mapping to an empty slice.
func (s *Service) GroupByMonth(ctx context.Context, patientID uuid.UUID, year int, month time.Month) (map[string][]*model.DailyLog, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	dateRange := &model.DateRange{
		Start: first.Format(dateLayout),
		End:   last.Format(dateLayout),
	}

	logs, err := s.ListForPatient(ctx, patientID, dateRange)
	if err != nil {
		return nil, err
	}

	calendar := make(map[string][]*model.DailyLog, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		calendar[d.Format(dateLayout)] = []*model.DailyLog{}
	}
	for _, log := range logs {
		calendar[log.LogDate] = append(calendar[log.LogDate], log)
	}
	return calendar, nil
}

// ExportRange writes the logs in the range as CSV, oldest first, one
// row per log, and returns the row count. Medications given on each
// log's date are flattened into a single column.
func (s *Service) ExportRange(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange, w io.Writer) (int, error) {
	logs, err := s.ListForPatient(ctx, patientID, dateRange)
	if err != nil {
		return 0, err
	}

	administered, err := s.medRepo.ListAdministrations(ctx, patientID, dateRange)
	if err != nil {
		return 0, fmt.Errorf("failed to load administrations: %w", err)
	}
	byDate := make(map[string][]*model.Administration)
	for _, adm := range administered {
		byDate[adm.GivenDate] = append(byDate[adm.GivenDate], adm)
	}

	// Repo order is newest first; the export reads oldest first.
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].LogDate != logs[j].LogDate {
			return logs[i].LogDate < logs[j].LogDate
		}
		return logs[i].LogTime < logs[j].LogTime
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("failed to write export header: %w", err)
	}

	for _, log := range logs {
		row := []string{
			log.LogDate,
			log.LogTime.String(),
			formatFloat(log.Vitals.Temperature),
			log.Vitals.BloodPressure,
			strconv.Itoa(log.Vitals.HeartRate),
			strconv.Itoa(log.Vitals.OxygenSaturation),
			log.Status.Mood,
			log.Status.SleepQuality,
			log.Status.Appetite,
			strconv.Itoa(log.TotalCalories),
			strconv.Itoa(log.TotalFluidsML),
			formatAdministrations(byDate[log.LogDate]),
			log.GeneralNotes,
			log.Incidents,
			log.LoggedBy,
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write export row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush export: %w", err)
	}

	if s.metrics != nil {
		s.metrics.LogsExported.Add(float64(len(logs)))
	}
	return len(logs), nil
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// formatAdministrations flattens the medications given on one day into
// "Name (dosage) at HH:MM; ...".
func formatAdministrations(adms []*model.Administration) string {
	if len(adms) == 0 {
		return ""
	}
	parts := make([]string, 0, len(adms))
	for _, a := range adms {
		parts = append(parts, fmt.Sprintf("%s (%s) at %s", a.Medication, a.Dosage, a.GivenAt))
	}
	return strings.Join(parts, "; ")
}

func validateRange(r *model.DateRange) error {
	if _, err := time.Parse(dateLayout, r.Start); err != nil {
		return apperrors.Validation(fmt.Sprintf("invalid start date %q", r.Start))
	}
	if _, err := time.Parse(dateLayout, r.End); err != nil {
		return apperrors.Validation(fmt.Sprintf("invalid end date %q", r.End))
	}
	if r.End < r.Start {
		return apperrors.Validation("end date precedes start date")
	}
	return nil
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
