package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/handler"
	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	"github.com/oakfield/care-api/internal/service/patient"
)

type Handler struct {
	service  patient.PatientService
	userRepo repository.UserRepository
	*handler.BaseHandler
}

func NewHandler(service patient.PatientService, userRepo repository.UserRepository, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:     service,
		userRepo:    userRepo,
		BaseHandler: &handler.BaseHandler{OutboxRepo: outboxRepo},
	}
}

// RegisterCarerRoutes mounts registration and the full listing, which
// family accounts never see.
func (h *Handler) RegisterCarerRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.RegisterPatient)
		patients.GET("", h.ListPatients)
	}
}

// RegisterSharedRoutes mounts the single-patient read for carers and
// linked family members.
func (h *Handler) RegisterSharedRoutes(r *gin.RouterGroup) {
	r.GET("/patients/:id", h.GetPatient)
}

// RegisterProtectedRoutes mounts the caller-scoped listing: carers see
// every patient, family members see the patients they are linked to.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/me/patients", h.ListMyPatients)
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	p, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.EmitEvent(c, model.EventPatientCreate, p)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) ListPatients(c *gin.Context) {
	var filters model.PatientFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patients, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) ListMyPatients(c *gin.Context) {
	if c.GetString("user_role") == string(model.RoleCarer) {
		patients, err := h.service.List(c.Request.Context(), &model.PatientFilters{})
		if err != nil {
			handler.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
		return
	}

	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid user"))
		return
	}
	patients, err := h.userRepo.ListFamilyPatients(c.Request.Context(), userID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}
