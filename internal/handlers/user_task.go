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
	"github.com/taskdesk/taskdesk-api/internal/utils"
)

// UserTaskHandler serves the user self-service task endpoints.
type UserTaskHandler struct {
	taskService *services.TaskService
}

// NewUserTaskHandler creates a new UserTaskHandler.
func NewUserTaskHandler(taskService *services.TaskService) *UserTaskHandler {
	return &UserTaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks assigned to the principal.
func (h *UserTaskHandler) ListTasks(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListAssignedTasks(p, params.Page, params.Limit)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateTask creates a self-assigned task.
func (h *UserTaskHandler) CreateTask(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required,max=255"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		Priority    string     `json:"priority"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	priority, ok := parseOptionalPriority(req.Priority)
	if !ok {
		apierrors.BadRequest(c, "Priority must be one of: low, medium, high")
		return
	}

	task, err := h.taskService.CreateSelfTask(p, services.CreateSelfTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    priority,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// GetTask returns one of the principal's assigned tasks.
func (h *UserTaskHandler) GetTask(c *gin.Context) {
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

	task, err := h.taskService.GetTask(p, policy.TaskScopeSelf, id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates one of the principal's assigned tasks, applying the
// completion-timestamp rule on the status change.
func (h *UserTaskHandler) UpdateTask(c *gin.Context) {
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
		Title       string     `json:"title" binding:"required,max=255"`
		Status      string     `json:"status" binding:"required"`
		Description *string    `json:"description"`
		DueDate     *time.Time `json:"due_date"`
		Priority    string     `json:"priority"`
		Notes       *string    `json:"notes"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := models.ParseTaskStatus(req.Status)
	if !ok {
		apierrors.BadRequest(c, "Status must be one of: pending, in-progress, completed")
		return
	}

	priority, ok := parseOptionalPriority(req.Priority)
	if !ok {
		apierrors.BadRequest(c, "Priority must be one of: low, medium, high")
		return
	}

	task, err := h.taskService.UpdateSelfTask(p, id, services.UpdateSelfTaskInput{
		Title:       req.Title,
		Status:      status,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    priority,
		Notes:       req.Notes,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateStatus is the status-only fast path.
func (h *UserTaskHandler) UpdateStatus(c *gin.Context) {
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

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := models.ParseTaskStatus(req.Status)
	if !ok {
		apierrors.BadRequest(c, "Status must be one of: pending, in-progress, completed")
		return
	}

	task, err := h.taskService.UpdateTaskStatus(p, id, status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// ReplaceNotes replaces the task's notes wholesale.
func (h *UserTaskHandler) ReplaceNotes(c *gin.Context) {
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

	type NotesRequest struct {
		Notes string `json:"notes" binding:"required"`
	}

	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.ReplaceNotes(p, id, req.Notes)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notes added successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// DeleteTask removes one of the principal's assigned tasks.
func (h *UserTaskHandler) DeleteTask(c *gin.Context) {
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

	if err := h.taskService.DeleteTask(p, policy.TaskScopeSelf, id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}
