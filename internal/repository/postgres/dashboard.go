package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
)

type dashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) repository.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) Stats(ctx context.Context) (*model.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM patients) AS total_patients,
			(SELECT COUNT(*) FROM tasks WHERE NOT completed) AS pending_tasks,
			(SELECT COUNT(*) FROM medications WHERE active) AS active_medications,
			(SELECT COUNT(*) FROM daily_logs WHERE log_date = $1) AS logs_today
	`
	var stats model.DashboardStats
	today := time.Now().Format("2006-01-02")
	if err := r.db.GetContext(ctx, &stats, query, today); err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return &stats, nil
}
