package task

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	apperrors "github.com/oakfield/care-api/pkg/errors"
)

type TaskService interface {
	Add(ctx context.Context, patientID uuid.UUID, req *model.CreateTaskRequest) (*model.Task, error)
	ToggleCompletion(ctx context.Context, id uuid.UUID, completed bool, actor string) (*model.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListForPatient(ctx context.Context, patientID uuid.UUID, filters *model.TaskFilters) ([]*model.Task, error)
	ResetRecurring(ctx context.Context, patientID uuid.UUID) (int64, error)
	MarkAllComplete(ctx context.Context, patientID uuid.UUID, actor string) (int64, error)
	Stats(ctx context.Context, patientID uuid.UUID) (*model.TaskStats, error)
}

type Service struct {
	repo        repository.TaskRepository
	patientRepo repository.PatientRepository
}

func NewService(repo repository.TaskRepository, patientRepo repository.PatientRepository) *Service {
	return &Service{repo: repo, patientRepo: patientRepo}
}

func (s *Service) Add(ctx context.Context, patientID uuid.UUID, req *model.CreateTaskRequest) (*model.Task, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Validation("task name is required")
	}

	priority := model.PriorityMedium
	if req.Priority != "" {
		if !model.ValidPriority(req.Priority) {
			return nil, apperrors.Validation(fmt.Sprintf("unknown priority %q", req.Priority))
		}
		priority = model.Priority(req.Priority)
	}

	var scheduled *model.TimeOfDay
	if req.ScheduledTime != "" {
		t, err := model.ParseTimeOfDay(req.ScheduledTime)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		scheduled = &t
	}

	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}

	task := &model.Task{
		Base:          model.Base{ID: uuid.New()},
		PatientID:     patientID,
		Name:          strings.TrimSpace(req.Name),
		Notes:         req.Notes,
		Priority:      priority,
		ScheduledTime: scheduled,
		Recurring:     req.Recurring,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ToggleCompletion sets the completed flag. Transitioning to complete
// stamps the completion time and actor; transitioning back clears
// both. Re-applying the current state changes nothing.
func (s *Service) ToggleCompletion(ctx context.Context, id uuid.UUID, completed bool, actor string) (*model.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Completed == completed {
		return task, nil
	}

	task.Completed = completed
	if completed {
		now := time.Now()
		task.CompletedAt = &now
		task.CompletedBy = &actor
	} else {
		task.CompletedAt = nil
		task.CompletedBy = nil
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListForPatient filters by completion visibility and priority
// membership, then groups by priority in the fixed order Urgent, High,
// Medium, Low. Within a group tasks run by scheduled time ascending,
// unscheduled tasks last.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, filters *model.TaskFilters) ([]*model.Task, error) {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if filters == nil {
		filters = &model.TaskFilters{ShowCompleted: true}
	}

	allowed := map[model.Priority]bool{}
	if len(filters.Priorities) == 0 {
		for _, p := range model.PriorityGroups {
			allowed[p] = true
		}
	} else {
		for _, p := range filters.Priorities {
			if !model.ValidPriority(string(p)) {
				return nil, apperrors.Validation(fmt.Sprintf("unknown priority %q", p))
			}
			allowed[p] = true
		}
	}

	filtered := make([]*model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !filters.ShowCompleted && t.Completed {
			continue
		}
		if !allowed[t.Priority] {
			continue
		}
		filtered = append(filtered, t)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if model.PriorityOrder[a.Priority] != model.PriorityOrder[b.Priority] {
			return model.PriorityOrder[a.Priority] < model.PriorityOrder[b.Priority]
		}
		return scheduleKey(a) < scheduleKey(b)
	})

	return filtered, nil
}

// scheduleKey sorts unscheduled tasks after any real time of day.
func scheduleKey(t *model.Task) string {
	if t.ScheduledTime == nil {
		return "99:99"
	}
	return t.ScheduledTime.String()
}

// ResetRecurring clears completion on every recurring task regardless
// of current state. Run at the day boundary by an explicit carer
// action; there is deliberately no background timer.
func (s *Service) ResetRecurring(ctx context.Context, patientID uuid.UUID) (int64, error) {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return 0, err
	}
	return s.repo.ResetRecurring(ctx, patientID)
}

func (s *Service) MarkAllComplete(ctx context.Context, patientID uuid.UUID, actor string) (int64, error) {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return 0, err
	}
	return s.repo.MarkAllComplete(ctx, patientID, actor)
}

func (s *Service) Stats(ctx context.Context, patientID uuid.UUID) (*model.TaskStats, error) {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	stats := &model.TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
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
