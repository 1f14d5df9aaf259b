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

type dailyLogRepository struct {
	db *sqlx.DB
}

func NewDailyLogRepository(db *sqlx.DB) repository.DailyLogRepository {
	return &dailyLogRepository{db: db}
}

// dailyLogRow is the flat scan target; vitals and status blocks live
// in columns on the daily_logs table, meals in their own table.
type dailyLogRow struct {
	ID               uuid.UUID       `db:"id"`
	PatientID        uuid.UUID       `db:"patient_id"`
	LogDate          string          `db:"log_date"`
	LogTime          model.TimeOfDay `db:"log_time"`
	Temperature      float64         `db:"temperature"`
	BloodPressure    string          `db:"blood_pressure"`
	HeartRate        int             `db:"heart_rate"`
	OxygenSaturation int             `db:"oxygen_saturation"`
	Weight           float64         `db:"weight"`
	Mood             string          `db:"mood"`
	SleepQuality     string          `db:"sleep_quality"`
	Appetite         string          `db:"appetite"`
	ActivityLevel    string          `db:"activity_level"`
	SocialEngagement string          `db:"social_engagement"`
	TotalCalories    int             `db:"total_calories"`
	TotalFluidsML    int             `db:"total_fluids_ml"`
	GeneralNotes     string          `db:"general_notes"`
	Incidents        string          `db:"incidents"`
	LoggedBy         string          `db:"logged_by"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

type mealRow struct {
	LogID    uuid.UUID `db:"log_id"`
	MealSlot string    `db:"meal_slot"`
	Amount   string    `db:"amount"`
	Calories int       `db:"calories"`
}

func (r *dailyLogRepository) Create(ctx context.Context, log *model.DailyLog) error {
	log.CreatedAt = time.Now()
	log.UpdatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO daily_logs (
			id, patient_id, log_date, log_time,
			temperature, blood_pressure, heart_rate, oxygen_saturation, weight,
			mood, sleep_quality, appetite, activity_level, social_engagement,
			total_calories, total_fluids_ml, general_notes, incidents, logged_by,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)
	`
	_, err = tx.ExecContext(ctx, query,
		log.ID,
		log.PatientID,
		log.LogDate,
		log.LogTime,
		log.Vitals.Temperature,
		log.Vitals.BloodPressure,
		log.Vitals.HeartRate,
		log.Vitals.OxygenSaturation,
		log.Vitals.Weight,
		log.Status.Mood,
		log.Status.SleepQuality,
		log.Status.Appetite,
		log.Status.ActivityLevel,
		log.Status.SocialEngagement,
		log.TotalCalories,
		log.TotalFluidsML,
		log.GeneralNotes,
		log.Incidents,
		log.LoggedBy,
		log.CreatedAt,
		log.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create daily log: %w", err)
	}

	for _, slot := range model.MealSlots {
		meal, ok := log.Meals[slot]
		if !ok {
			continue
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO meals (log_id, meal_slot, amount, calories)
			VALUES ($1, $2, $3, $4)
		`, log.ID, slot, meal.Amount, meal.Calories)
		if err != nil {
			return fmt.Errorf("failed to create meal entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit daily log: %w", err)
	}
	return nil
}

func (r *dailyLogRepository) Get(ctx context.Context, id uuid.UUID) (*model.DailyLog, error) {
	var row dailyLogRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM daily_logs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("daily log")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily log: %w", err)
	}

	log := row.toModel()
	if err := r.loadMeals(ctx, []*model.DailyLog{log}); err != nil {
		return nil, err
	}
	return log, nil
}

func (r *dailyLogRepository) ListForPatient(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange) ([]*model.DailyLog, error) {
	var rows []dailyLogRow
	var err error
	if dateRange != nil && !dateRange.IsZero() {
		query := `
			SELECT * FROM daily_logs
			WHERE patient_id = $1 AND log_date BETWEEN $2 AND $3
			ORDER BY log_date DESC, log_time DESC
		`
		err = r.db.SelectContext(ctx, &rows, query, patientID, dateRange.Start, dateRange.End)
	} else {
		query := `
			SELECT * FROM daily_logs
			WHERE patient_id = $1
			ORDER BY log_date DESC, log_time DESC
		`
		err = r.db.SelectContext(ctx, &rows, query, patientID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", err)
	}

	logs := make([]*model.DailyLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, row.toModel())
	}
	if err := r.loadMeals(ctx, logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *dailyLogRepository) loadMeals(ctx context.Context, logs []*model.DailyLog) error {
	if len(logs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(logs))
	byID := make(map[uuid.UUID]*model.DailyLog, len(logs))
	for _, log := range logs {
		ids = append(ids, log.ID)
		byID[log.ID] = log
	}

	query, args, err := sqlx.In(`SELECT log_id, meal_slot, amount, calories FROM meals WHERE log_id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("failed to build meals query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []mealRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return fmt.Errorf("failed to load meals: %w", err)
	}

	for _, row := range rows {
		log := byID[row.LogID]
		if log == nil {
			continue
		}
		log.Meals[model.MealSlot(row.MealSlot)] = model.Meal{
			Amount:   row.Amount,
			Calories: row.Calories,
		}
	}
	return nil
}

func (row dailyLogRow) toModel() *model.DailyLog {
	return &model.DailyLog{
		Base: model.Base{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
		PatientID: row.PatientID,
		LogDate:   row.LogDate,
		LogTime:   row.LogTime,
		Vitals: model.Vitals{
			Temperature:      row.Temperature,
			BloodPressure:    row.BloodPressure,
			HeartRate:        row.HeartRate,
			OxygenSaturation: row.OxygenSaturation,
			Weight:           row.Weight,
		},
		Status: model.Status{
			Mood:             row.Mood,
			SleepQuality:     row.SleepQuality,
			Appetite:         row.Appetite,
			ActivityLevel:    row.ActivityLevel,
			SocialEngagement: row.SocialEngagement,
		},
		Meals:         make(map[model.MealSlot]model.Meal),
		TotalCalories: row.TotalCalories,
		TotalFluidsML: row.TotalFluidsML,
		GeneralNotes:  row.GeneralNotes,
		Incidents:     row.Incidents,
		LoggedBy:      row.LoggedBy,
	}
}
