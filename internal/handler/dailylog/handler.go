package dailylog

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/handler"
	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	"github.com/oakfield/care-api/internal/service/dailylog"
)

type Handler struct {
	service dailylog.DailyLogService
	*handler.BaseHandler
}

func NewHandler(service dailylog.DailyLogService, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:     service,
		BaseHandler: &handler.BaseHandler{OutboxRepo: outboxRepo},
	}
}

// RegisterCarerRoutes mounts the write endpoints; only carers log.
func (h *Handler) RegisterCarerRoutes(r *gin.RouterGroup) {
	r.POST("/patients/:id/logs", h.AddLog)
	r.GET("/logs/:logId", h.GetLog)
}

// RegisterSharedRoutes mounts the read endpoints family members may
// use for their linked patients.
func (h *Handler) RegisterSharedRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients/:id")
	{
		patients.GET("/logs", h.ListLogs)
		patients.GET("/logs/calendar", h.Calendar)
		patients.GET("/logs/export", h.ExportLogs)
	}
}

func (h *Handler) AddLog(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req model.CreateDailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	log, err := h.service.Add(c.Request.Context(), patientID, &req, handler.Actor(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.EmitEvent(c, model.EventDailyLogCreate, log)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(log))
}

func (h *Handler) GetLog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("logId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid log ID"))
		return
	}

	log, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(log))
}

func (h *Handler) ListLogs(c *gin.Context) {
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

	logs, err := h.service.ListForPatient(c.Request.Context(), patientID, &dateRange)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(logs))
}

func (h *Handler) Calendar(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	now := time.Now()
	year := now.Year()
	month := int(now.Month())
	if raw := c.Query("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid year"))
			return
		}
	}
	if raw := c.Query("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid month"))
			return
		}
	}

	calendar, err := h.service.GroupByMonth(c.Request.Context(), patientID, year, time.Month(month))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(calendar))
}

func (h *Handler) ExportLogs(c *gin.Context) {
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

	filename := fmt.Sprintf("care_logs_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := h.service.ExportRange(c.Request.Context(), patientID, &dateRange, c.Writer); err != nil {
		handler.Error(c, err)
		return
	}
}
