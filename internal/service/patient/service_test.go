package patient

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

func registerReq(number, first, last string) *model.CreatePatientRequest {
	return &model.CreatePatientRequest{
		PatientNumber: number,
		FirstName:     first,
		LastName:      last,
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(mocks.NewPatientRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("", "Margaret", "Hughes"))
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Register(ctx, registerReq("P001", " ", "Hughes"))
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Register(ctx, registerReq("P001", "Margaret", ""))
	assert.True(t, apperrors.IsValidation(err))

	req := registerReq("P001", "Margaret", "Hughes")
	req.DementiaStage = "Terminal"
	_, err = svc.Register(ctx, req)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRegisterDuplicateNumberConflicts(t *testing.T) {
	svc := NewService(mocks.NewPatientRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("P001", "Margaret", "Hughes"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("P001", "Arthur", "Doyle"))
	assert.True(t, apperrors.IsConflict(err))
}

func TestRegisterNormalisesStageAndDefaults(t *testing.T) {
	svc := NewService(mocks.NewPatientRepository())

	req := registerReq("P001", "Margaret", "Hughes")
	req.DementiaStage = "Middle"
	p, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.StageMid, p.DementiaStage)
	assert.Equal(t, "Care Home", p.ResidenceType)
	assert.Equal(t, "Margaret Hughes", p.DisplayName())
}

func TestRegisterKeepsSinglePrimaryContact(t *testing.T) {
	svc := NewService(mocks.NewPatientRepository())

	req := registerReq("P001", "Margaret", "Hughes")
	req.EmergencyContacts = []model.CreateEmergencyContact{
		{Name: "Sarah Hughes", Phone: "07700900001", IsPrimary: true},
		{Name: "Tom Hughes", Phone: "07700900002", IsPrimary: true},
	}
	p, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, p.EmergencyContacts, 2)
	assert.True(t, p.EmergencyContacts[0].IsPrimary)
	assert.False(t, p.EmergencyContacts[1].IsPrimary)
}

func TestGetUnknownPatient(t *testing.T) {
	svc := NewService(mocks.NewPatientRepository())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListFilters(t *testing.T) {
	svc := NewService(mocks.NewPatientRepository())
	ctx := context.Background()

	early := registerReq("P001", "Margaret", "Hughes")
	early.DementiaStage = "Early"
	early.RoomNumber = "12"
	_, err := svc.Register(ctx, early)
	require.NoError(t, err)

	late := registerReq("P002", "Arthur", "Doyle")
	late.DementiaStage = "Late"
	_, err = svc.Register(ctx, late)
	require.NoError(t, err)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Stage accepts the legacy spelling too.
	staged, err := svc.List(ctx, &model.PatientFilters{Stage: "Late"})
	require.NoError(t, err)
	require.Len(t, staged, 1)
	assert.Equal(t, "Doyle", staged[0].LastName)

	_, err = svc.List(ctx, &model.PatientFilters{Stage: "Severe"})
	assert.True(t, apperrors.IsValidation(err))

	byRoom, err := svc.List(ctx, &model.PatientFilters{SearchTerm: "12"})
	require.NoError(t, err)
	require.Len(t, byRoom, 1)
	assert.Equal(t, "Hughes", byRoom[0].LastName)

	byName, err := svc.List(ctx, &model.PatientFilters{SearchTerm: "marg"})
	require.NoError(t, err)
	assert.Len(t, byName, 1)
}
