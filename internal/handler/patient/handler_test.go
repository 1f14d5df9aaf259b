package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository/mocks"
	patientservice "github.com/oakfield/care-api/internal/service/patient"
)

type patientList struct {
	Status string           `json:"status"`
	Data   []*model.Patient `json:"data"`
}

func newMyPatientsRouter(t *testing.T) (*gin.Engine, *mocks.PatientRepository, *mocks.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	patientRepo := mocks.NewPatientRepository()
	userRepo := mocks.NewUserRepository()
	userRepo.Patients = patientRepo

	h := NewHandler(patientservice.NewService(patientRepo), userRepo, nil)

	engine := gin.New()
	group := engine.Group("/api/v1")
	group.Use(func(c *gin.Context) {
		c.Set("user_role", c.GetHeader("X-Test-Role"))
		c.Set("user_id", c.GetHeader("X-Test-User"))
		c.Next()
	})
	h.RegisterProtectedRoutes(group)
	return engine, patientRepo, userRepo
}

func addPatient(t *testing.T, repo *mocks.PatientRepository, number, first, last string) *model.Patient {
	t.Helper()
	p := &model.Patient{
		Base:          model.Base{ID: uuid.New()},
		PatientNumber: number,
		FirstName:     first,
		LastName:      last,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func listMyPatients(t *testing.T, engine *gin.Engine, role string, userID uuid.UUID) (int, []*model.Patient) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/patients", nil)
	req.Header.Set("X-Test-Role", role)
	req.Header.Set("X-Test-User", userID.String())
	engine.ServeHTTP(w, req)

	var body patientList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body.Data
}

func TestListMyPatientsFamilySeesOnlyLinked(t *testing.T) {
	engine, patientRepo, userRepo := newMyPatientsRouter(t)

	linked := addPatient(t, patientRepo, "P-001", "Margaret", "Hughes")
	addPatient(t, patientRepo, "P-002", "Arthur", "Bell")

	familyID := uuid.New()
	require.NoError(t, userRepo.CreateFamilyLink(context.Background(), &model.FamilyLink{
		UserID:    familyID,
		PatientID: linked.ID,
	}))

	code, patients := listMyPatients(t, engine, string(model.RoleFamily), familyID)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, patients, 1)
	assert.Equal(t, linked.ID, patients[0].ID)
}

func TestListMyPatientsCarerSeesAll(t *testing.T) {
	engine, patientRepo, _ := newMyPatientsRouter(t)

	addPatient(t, patientRepo, "P-001", "Margaret", "Hughes")
	addPatient(t, patientRepo, "P-002", "Arthur", "Bell")

	code, patients := listMyPatients(t, engine, string(model.RoleCarer), uuid.New())
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, patients, 2)
}

func TestListMyPatientsFamilyWithNoLinksGetsEmptyList(t *testing.T) {
	engine, patientRepo, _ := newMyPatientsRouter(t)
	addPatient(t, patientRepo, "P-001", "Margaret", "Hughes")

	code, patients := listMyPatients(t, engine, string(model.RoleFamily), uuid.New())
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, patients)
}
