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

type memoryRepository struct {
	db *sqlx.DB
}

func NewMemoryRepository(db *sqlx.DB) repository.MemoryRepository {
	return &memoryRepository{db: db}
}

func (r *memoryRepository) Create(ctx context.Context, item *model.MemoryItem) error {
	item.UploadedAt = time.Now()
	query := `
		INSERT INTO memory_items (
			id, patient_id, title, media_kind, category, description,
			people_tagged, file_name, file_type, file_data, uploaded_by, uploaded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.PatientID,
		item.Title,
		item.MediaKind,
		item.Category,
		item.Description,
		item.PeopleTagged,
		item.FileName,
		item.FileType,
		item.FileData,
		item.UploadedBy,
		item.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create memory item: %w", err)
	}
	return nil
}

func (r *memoryRepository) Get(ctx context.Context, id uuid.UUID) (*model.MemoryItem, error) {
	var item model.MemoryItem
	err := r.db.GetContext(ctx, &item, `SELECT * FROM memory_items WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("memory item")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory item: %w", err)
	}
	return &item, nil
}

func (r *memoryRepository) List(ctx context.Context, patientID uuid.UUID, category string) ([]*model.MemoryItem, error) {
	// Listings omit file_data; content is fetched per item on download.
	const columns = `id, patient_id, title, media_kind, category, description,
		people_tagged, file_name, file_type, uploaded_by, uploaded_at`

	var items []*model.MemoryItem
	var err error
	if category != "" && category != "All" {
		query := `SELECT ` + columns + ` FROM memory_items
			WHERE patient_id = $1 AND category = $2 ORDER BY uploaded_at DESC`
		err = r.db.SelectContext(ctx, &items, query, patientID, category)
	} else {
		query := `SELECT ` + columns + ` FROM memory_items
			WHERE patient_id = $1 ORDER BY uploaded_at DESC`
		err = r.db.SelectContext(ctx, &items, query, patientID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list memory items: %w", err)
	}
	return items, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM memory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete memory item: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("memory item")
	}
	return nil
}
