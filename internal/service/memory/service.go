package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	apperrors "github.com/oakfield/care-api/pkg/errors"
)

type MemoryService interface {
	Add(ctx context.Context, patientID uuid.UUID, item *model.MemoryItem) (*model.MemoryItem, error)
	Get(ctx context.Context, id uuid.UUID) (*model.MemoryItem, error)
	List(ctx context.Context, patientID uuid.UUID, category string) ([]*model.MemoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo        repository.MemoryRepository
	patientRepo repository.PatientRepository
}

func NewService(repo repository.MemoryRepository, patientRepo repository.PatientRepository) *Service {
	return &Service{repo: repo, patientRepo: patientRepo}
}

func (s *Service) Add(ctx context.Context, patientID uuid.UUID, item *model.MemoryItem) (*model.MemoryItem, error) {
	if strings.TrimSpace(item.Title) == "" {
		return nil, apperrors.Validation("memory title is required")
	}
	if !model.ValidMediaKind(string(item.MediaKind)) {
		return nil, apperrors.Validation(fmt.Sprintf("unknown media kind %q", item.MediaKind))
	}
	if item.Category == "" {
		item.Category = "Other"
	}
	if !model.ValidMemoryCategory(item.Category) {
		return nil, apperrors.Validation(fmt.Sprintf("unknown category %q", item.Category))
	}

	exists, err := s.patientRepo.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check patient: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("patient")
	}

	item.ID = uuid.New()
	item.PatientID = patientID
	item.Title = strings.TrimSpace(item.Title)
	item.UploadedAt = time.Now()
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create memory item: %w", err)
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.MemoryItem, error) {
	return s.repo.Get(ctx, id)
}

// List returns items newest first, without file payloads. Category
// filters only when it names a real category; "All" and "" mean no
// filter.
func (s *Service) List(ctx context.Context, patientID uuid.UUID, category string) ([]*model.MemoryItem, error) {
	exists, err := s.patientRepo.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check patient: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("patient")
	}
	if category != "" && category != "All" && !model.ValidMemoryCategory(category) {
		return nil, apperrors.Validation(fmt.Sprintf("unknown category %q", category))
	}
	return s.repo.List(ctx, patientID, category)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
