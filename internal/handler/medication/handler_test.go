package medication

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield/care-api/internal/model"
)

// stubService records the window each alert call was made with.
type stubService struct {
	windows []int
}

func (s *stubService) Add(context.Context, uuid.UUID, *model.CreateMedicationRequest) (*model.Medication, error) {
	return nil, nil
}

func (s *stubService) Discontinue(context.Context, uuid.UUID) error { return nil }

func (s *stubService) ListForPatient(context.Context, uuid.UUID, bool) ([]*model.Medication, error) {
	return nil, nil
}

func (s *stubService) UpcomingAlerts(_ context.Context, _ time.Time, windowMinutes int) ([]*model.MedicationAlert, error) {
	s.windows = append(s.windows, windowMinutes)
	return []*model.MedicationAlert{}, nil
}

func (s *stubService) RecordGiven(context.Context, uuid.UUID, uuid.UUID, string, time.Time) (*model.Administration, error) {
	return nil, nil
}

func (s *stubService) ListAdministrations(context.Context, uuid.UUID, *model.DateRange) ([]*model.Administration, error) {
	return nil, nil
}

func newAlertRouter(stub *stubService, alertWindow int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewHandler(stub, alertWindow, nil)
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestUpcomingAlertsWindowDefaultsFromConfig(t *testing.T) {
	stub := &stubService{}
	engine := newAlertRouter(stub, 45)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/medications", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, stub.windows, 1)
	assert.Equal(t, 45, stub.windows[0])
}

func TestUpcomingAlertsWindowQueryOverridesConfig(t *testing.T) {
	stub := &stubService{}
	engine := newAlertRouter(stub, 45)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/medications?window=10", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, stub.windows, 1)
	assert.Equal(t, 10, stub.windows[0])
}

func TestUpcomingAlertsRejectsBadWindow(t *testing.T) {
	stub := &stubService{}
	engine := newAlertRouter(stub, 45)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/medications?window=-5", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, stub.windows)
}
