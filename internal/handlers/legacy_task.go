package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskdesk/taskdesk-api/internal/dto"
	apierrors "github.com/taskdesk/taskdesk-api/internal/errors"
	"github.com/taskdesk/taskdesk-api/internal/middleware"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/policy"
	"github.com/taskdesk/taskdesk-api/internal/services"
)

// LegacyTaskHandler serves the role-agnostic task endpoints kept for
// backward compatibility: every operation is scoped purely by creator.
type LegacyTaskHandler struct {
	taskService *services.TaskService
}

// NewLegacyTaskHandler creates a new LegacyTaskHandler.
func NewLegacyTaskHandler(taskService *services.TaskService) *LegacyTaskHandler {
	return &LegacyTaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks the principal created, newest first.
func (h *LegacyTaskHandler) ListTasks(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListCreatedTasks(p)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a creator-scoped task. Status is client-settable on
// this path only.
func (h *LegacyTaskHandler) CreateTask(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required,max=255"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := parseOptionalStatus(req.Status)
	if !ok {
		apierrors.BadRequest(c, "Status must be one of: pending, in-progress, completed")
		return
	}

	task, err := h.taskService.CreateLegacyTask(p, services.CreateLegacyTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task the principal created.
func (h *LegacyTaskHandler) GetTask(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(p, policy.TaskScopeLegacy, id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask partially updates a task the principal created.
func (h *LegacyTaskHandler) UpdateTask(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type UpdateTaskRequest struct {
		Title       *string    `json:"title" binding:"omitempty,max=255"`
		Description *string    `json:"description"`
		Status      string     `json:"status"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := parseOptionalStatus(req.Status)
	if !ok {
		apierrors.BadRequest(c, "Status must be one of: pending, in-progress, completed")
		return
	}

	task, err := h.taskService.UpdateLegacyTask(p, id, services.UpdateLegacyTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task the principal created.
func (h *LegacyTaskHandler) DeleteTask(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(p, policy.TaskScopeLegacy, id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// parseOptionalStatus decodes an optional status string. Empty means "not
// provided"; anything outside the closed enum is rejected.
func parseOptionalStatus(s string) (*models.TaskStatus, bool) {
	if s == "" {
		return nil, true
	}
	status, ok := models.ParseTaskStatus(s)
	if !ok {
		return nil, false
	}
	return &status, true
}
