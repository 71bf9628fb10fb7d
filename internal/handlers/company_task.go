package handlers

import (
	"errors"
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

// CompanyTaskHandler serves the company-admin task endpoints.
type CompanyTaskHandler struct {
	taskService *services.TaskService
}

// NewCompanyTaskHandler creates a new CompanyTaskHandler.
func NewCompanyTaskHandler(taskService *services.TaskService) *CompanyTaskHandler {
	return &CompanyTaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the company's tasks with creator and assignee.
func (h *CompanyTaskHandler) ListTasks(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListCompanyTasks(p, params.Page, params.Limit)
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

// CreateTask creates a task assigned to one of the company's plain users.
func (h *CompanyTaskHandler) CreateTask(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required,max=255"`
		Description string     `json:"description"`
		AssignedTo  uint64     `json:"assigned_to" binding:"required"`
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

	task, err := h.taskService.CreateCompanyTask(p, services.CreateCompanyTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
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

// GetTask returns one of the company's tasks.
func (h *CompanyTaskHandler) GetTask(c *gin.Context) {
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

	task, err := h.taskService.GetTask(p, policy.TaskScopeCompany, id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates one of the company's tasks, re-validating the assignee.
func (h *CompanyTaskHandler) UpdateTask(c *gin.Context) {
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
		Description string     `json:"description"`
		AssignedTo  uint64     `json:"assigned_to" binding:"required"`
		DueDate     *time.Time `json:"due_date"`
		Priority    string     `json:"priority"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	priority, ok := parseOptionalPriority(req.Priority)
	if !ok {
		apierrors.BadRequest(c, "Priority must be one of: low, medium, high")
		return
	}

	task, err := h.taskService.UpdateCompanyTask(p, id, services.UpdateCompanyTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Priority:    priority,
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

// DeleteTask removes one of the company's tasks.
func (h *CompanyTaskHandler) DeleteTask(c *gin.Context) {
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

	if err := h.taskService.DeleteTask(p, policy.TaskScopeCompany, id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// respondTaskError maps task service errors onto the HTTP surface. An
// out-of-scope task reads exactly like a missing one so task existence
// never leaks across company boundaries.
func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTaskAccessDenied):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrAssigneeNotInCompany),
		errors.Is(err, services.ErrDueDateNotFuture):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// parseOptionalPriority decodes an optional priority string. Empty means
// "not provided"; anything outside the closed enum is rejected.
func parseOptionalPriority(s string) (*models.TaskPriority, bool) {
	if s == "" {
		return nil, true
	}
	priority, ok := models.ParseTaskPriority(s)
	if !ok {
		return nil, false
	}
	return &priority, true
}
