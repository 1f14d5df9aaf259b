package medication

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/handler"
	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	"github.com/oakfield/care-api/internal/service/medication"
)

type Handler struct {
	service medication.MedicationService
	// alertWindow is the configured default for /alerts/medications,
	// used when the request carries no window parameter.
	alertWindow int
	*handler.BaseHandler
}

func NewHandler(service medication.MedicationService, alertWindow int, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:     service,
		alertWindow: alertWindow,
		BaseHandler: &handler.BaseHandler{OutboxRepo: outboxRepo},
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients/:id")
	{
		patients.POST("/medications", h.AddMedication)
		patients.GET("/medications", h.ListMedications)
		patients.POST("/medications/:medId/given", h.RecordGiven)
		patients.GET("/administrations", h.ListAdministrations)
	}
	r.DELETE("/medications/:medId", h.Discontinue)
	r.GET("/alerts/medications", h.UpcomingAlerts)
}

func (h *Handler) AddMedication(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req model.CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	med, err := h.service.Add(c.Request.Context(), patientID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.EmitEvent(c, model.EventMedicationCreate, med)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(med))
}

func (h *Handler) ListMedications(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}
	activeOnly := c.DefaultQuery("active", "true") == "true"

	meds, err := h.service.ListForPatient(c.Request.Context(), patientID, activeOnly)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(meds))
}

func (h *Handler) Discontinue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("medId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid medication ID"))
		return
	}

	if err := h.service.Discontinue(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	h.EmitEvent(c, model.EventMedicationStop, gin.H{"medication_id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RecordGiven(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}
	medID, err := uuid.Parse(c.Param("medId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid medication ID"))
		return
	}

	adm, err := h.service.RecordGiven(c.Request.Context(), patientID, medID, handler.Actor(c), time.Now())
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.EmitEvent(c, model.EventMedicationGiven, adm)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(adm))
}

func (h *Handler) UpcomingAlerts(c *gin.Context) {
	window := h.alertWindow
	if raw := c.Query("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid window"))
			return
		}
		window = parsed
	}

	alerts, err := h.service.UpcomingAlerts(c.Request.Context(), time.Now(), window)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(alerts))
}

func (h *Handler) ListAdministrations(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var dateRange model.DateRange
	if err := c.ShouldBindQuery(&dateRange); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	adms, err := h.service.ListAdministrations(c.Request.Context(), patientID, &dateRange)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(adms))
}
