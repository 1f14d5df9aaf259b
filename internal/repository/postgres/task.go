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

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	query := `
		INSERT INTO tasks (
			id, patient_id, name, notes, priority, scheduled_time,
			recurring, completed, completed_at, completed_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.PatientID,
		task.Name,
		task.Notes,
		task.Priority,
		task.ScheduledTime,
		task.Recurring,
		task.Completed,
		task.CompletedAt,
		task.CompletedBy,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *taskRepository) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.GetContext(ctx, &task, `SELECT * FROM tasks WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("task")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now()
	query := `
		UPDATE tasks
		SET name = $1, notes = $2, priority = $3, scheduled_time = $4,
			recurring = $5, completed = $6, completed_at = $7, completed_by = $8,
			updated_at = $9
		WHERE id = $10
	`
	res, err := r.db.ExecContext(ctx, query,
		task.Name,
		task.Notes,
		task.Priority,
		task.ScheduledTime,
		task.Recurring,
		task.Completed,
		task.CompletedAt,
		task.CompletedBy,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("task")
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("task")
	}
	return nil
}

func (r *taskRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Task, error) {
	var tasks []*model.Task
	query := `SELECT * FROM tasks WHERE patient_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &tasks, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskRepository) ResetRecurring(ctx context.Context, patientID uuid.UUID) (int64, error) {
	query := `
		UPDATE tasks
		SET completed = FALSE, completed_at = NULL, completed_by = NULL, updated_at = $1
		WHERE patient_id = $2 AND recurring AND completed
	`
	res, err := r.db.ExecContext(ctx, query, time.Now(), patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to reset recurring tasks: %w", err)
	}
	return res.RowsAffected()
}

func (r *taskRepository) MarkAllComplete(ctx context.Context, patientID uuid.UUID, actor string) (int64, error) {
	query := `
		UPDATE tasks
		SET completed = TRUE, completed_at = $1, completed_by = $2, updated_at = $1
		WHERE patient_id = $3 AND NOT completed
	`
	res, err := r.db.ExecContext(ctx, query, time.Now(), actor, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark tasks complete: %w", err)
	}
	return res.RowsAffected()
}
