package task

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/handler"
	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	"github.com/oakfield/care-api/internal/service/task"
)

type Handler struct {
	service task.TaskService
	*handler.BaseHandler
}

func NewHandler(service task.TaskService, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:     service,
		BaseHandler: &handler.BaseHandler{OutboxRepo: outboxRepo},
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients/:id")
	{
		patients.POST("/tasks", h.AddTask)
		patients.GET("/tasks", h.ListTasks)
		patients.GET("/tasks/stats", h.TaskStats)
		patients.POST("/tasks/reset-recurring", h.ResetRecurring)
		patients.POST("/tasks/complete-all", h.CompleteAll)
	}
	r.PATCH("/tasks/:taskId", h.ToggleTask)
	r.DELETE("/tasks/:taskId", h.DeleteTask)
	r.GET("/tasks/templates", h.Templates)
}

func (h *Handler) AddTask(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req model.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	t, err := h.service.Add(c.Request.Context(), patientID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.EmitEvent(c, model.EventTaskCreate, t)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(t))
}

func (h *Handler) ListTasks(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	filters := model.TaskFilters{ShowCompleted: true}
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tasks, err := h.service.ListForPatient(c.Request.Context(), patientID, &filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tasks))
}

func (h *Handler) ToggleTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid task ID"))
		return
	}

	var req model.ToggleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	t, err := h.service.ToggleCompletion(c.Request.Context(), id, req.Completed, handler.Actor(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	if req.Completed {
		h.EmitEvent(c, model.EventTaskComplete, t)
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(t))
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid task ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	h.EmitEvent(c, model.EventTaskDelete, gin.H{"task_id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ResetRecurring(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	n, err := h.service.ResetRecurring(c.Request.Context(), patientID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"reset": n}))
}

func (h *Handler) CompleteAll(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	n, err := h.service.MarkAllComplete(c.Request.Context(), patientID, handler.Actor(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"completed": n}))
}

func (h *Handler) TaskStats(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), patientID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.TaskTemplates))
}
