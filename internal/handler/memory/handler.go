package memory

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/handler"
	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	"github.com/oakfield/care-api/internal/service/memory"
)

// maxUploadBytes caps memory book uploads at 32 MiB.
const maxUploadBytes = 32 << 20

type Handler struct {
	service  memory.MemoryService
	userRepo repository.UserRepository
	*handler.BaseHandler
}

func NewHandler(service memory.MemoryService, userRepo repository.UserRepository, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:     service,
		userRepo:    userRepo,
		BaseHandler: &handler.BaseHandler{OutboxRepo: outboxRepo},
	}
}

// RegisterSharedRoutes mounts the per-patient memory book endpoints.
func (h *Handler) RegisterSharedRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients/:id")
	{
		patients.POST("/memories", h.AddMemory)
		patients.GET("/memories", h.ListMemories)
	}
}

// RegisterItemRoutes mounts the endpoints addressed by memory ID.
// These check access against the item's patient inside the handler.
func (h *Handler) RegisterItemRoutes(r *gin.RouterGroup) {
	r.GET("/memories/:memoryId/file", h.DownloadFile)
	r.DELETE("/memories/:memoryId", h.DeleteMemory)
}

// canAccess checks item-level access for routes addressed by memory ID
// rather than patient ID. Carers always pass; family members need a
// link to the item's patient.
func (h *Handler) canAccess(c *gin.Context, item *model.MemoryItem) bool {
	if c.GetString("user_role") == string(model.RoleCarer) {
		return true
	}
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return false
	}
	linked, err := h.userRepo.HasFamilyLink(c.Request.Context(), userID, item.PatientID)
	return err == nil && linked
}

// AddMemory accepts a multipart form: metadata fields plus an optional
// media file.
func (h *Handler) AddMemory(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	item := &model.MemoryItem{
		Title:        c.PostForm("title"),
		MediaKind:    model.MediaKind(c.PostForm("media_kind")),
		Category:     c.PostForm("category"),
		Description:  c.PostForm("description"),
		PeopleTagged: c.PostForm("people_tagged"),
		UploadedBy:   handler.Actor(c),
	}

	if file, err := c.FormFile("file"); err == nil {
		if file.Size > maxUploadBytes {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("file too large"))
			return
		}
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read file"))
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read file"))
			return
		}
		item.FileName = file.Filename
		item.FileType = file.Header.Get("Content-Type")
		item.FileData = data
	}

	item, err = h.service.Add(c.Request.Context(), patientID, item)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.EmitEvent(c, model.EventMemoryCreate, gin.H{
		"memory_id":  item.ID,
		"patient_id": item.PatientID,
		"title":      item.Title,
		"category":   item.Category,
	})
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(item))
}

func (h *Handler) ListMemories(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	items, err := h.service.List(c.Request.Context(), patientID, c.Query("category"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(items))
}

func (h *Handler) DownloadFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("memoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid memory ID"))
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !h.canAccess(c, item) {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("no access to this patient"))
		return
	}
	if len(item.FileData) == 0 {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("memory has no file"))
		return
	}

	contentType := item.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", "attachment; filename="+item.FileName)
	c.Data(http.StatusOK, contentType, item.FileData)
}

func (h *Handler) DeleteMemory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("memoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid memory ID"))
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !h.canAccess(c, item) {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("no access to this patient"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	h.EmitEvent(c, model.EventMemoryDelete, gin.H{"memory_id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
