package memory

import (
	"context"
	"testing"

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
	items := mocks.NewMemoryRepository()

	p := &model.Patient{
		Base:          model.Base{ID: uuid.New()},
		PatientNumber: "P001",
		FirstName:     "Margaret",
		LastName:      "Hughes",
	}
	require.NoError(t, patients.Create(context.Background(), p))

	return NewService(items, patients), p.ID
}

func TestAddValidation(t *testing.T) {
	svc, patientID := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, patientID, &model.MemoryItem{MediaKind: model.MediaPhoto})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Add(ctx, patientID, &model.MemoryItem{Title: "Wedding day", MediaKind: "Document"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Add(ctx, patientID, &model.MemoryItem{Title: "Wedding day", MediaKind: model.MediaPhoto, Category: "Holidays"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Add(ctx, uuid.New(), &model.MemoryItem{Title: "Wedding day", MediaKind: model.MediaPhoto})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAddDefaultsCategory(t *testing.T) {
	svc, patientID := newTestService(t)

	item, err := svc.Add(context.Background(), patientID, &model.MemoryItem{
		Title:     "  Wedding day ",
		MediaKind: model.MediaPhoto,
	})
	require.NoError(t, err)
	assert.Equal(t, "Other", item.Category)
	assert.Equal(t, "Wedding day", item.Title)
	assert.False(t, item.UploadedAt.IsZero())
}

func TestListByCategory(t *testing.T) {
	svc, patientID := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, patientID, &model.MemoryItem{Title: "Wedding day", MediaKind: model.MediaPhoto, Category: "Family"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, patientID, &model.MemoryItem{Title: "Favourite song", MediaKind: model.MediaAudio, Category: "Music"})
	require.NoError(t, err)

	family, err := svc.List(ctx, patientID, "Family")
	require.NoError(t, err)
	require.Len(t, family, 1)
	assert.Equal(t, "Wedding day", family[0].Title)

	all, err := svc.List(ctx, patientID, "All")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(ctx, patientID, "Holidays")
	assert.True(t, apperrors.IsValidation(err))
}

func TestDeleteIsHard(t *testing.T) {
	svc, patientID := newTestService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, patientID, &model.MemoryItem{Title: "Wedding day", MediaKind: model.MediaPhoto})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID))
	_, err = svc.Get(ctx, item.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(svc.Delete(ctx, item.ID)))
}
