package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/notify"
	"github.com/taskdesk/taskdesk-api/internal/policy"
	"github.com/taskdesk/taskdesk-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAccessDenied     = errors.New("task is not manageable by the principal")
	ErrTitleRequired        = errors.New("title is required")
	ErrInvalidAssignee      = errors.New("assigned user does not exist")
	ErrAssigneeNotInCompany = errors.New("assigned user is not a plain member of the company")
	ErrDueDateNotFuture     = errors.New("due date must be in the future")
)

// TaskService is the single task service all three route groups share. Each
// method takes the request principal; the scope decides which ownership
// rule from the policy package applies.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	notifier notify.Notifier
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, notifier notify.Notifier) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// ListCompanyTasks returns the principal company's tasks with creator and
// assignee, paginated.
func (s *TaskService) ListCompanyTasks(p policy.Principal, page, pageSize int) ([]models.Task, int64, error) {
	if p.Role != models.RoleCompany || p.CompanyID == nil {
		return nil, 0, ErrTaskAccessDenied
	}

	filter := repository.TaskFilter{
		CompanyID: p.CompanyID,
		Preload:   []string{"Creator", "Assignee"},
		Page:      page,
		PageSize:  pageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// ListAssignedTasks returns the tasks assigned to the principal with
// creator and company, paginated.
func (s *TaskService) ListAssignedTasks(p policy.Principal, page, pageSize int) ([]models.Task, int64, error) {
	if p.Role != models.RoleUser {
		return nil, 0, ErrTaskAccessDenied
	}

	assignedTo := p.ID
	filter := repository.TaskFilter{
		AssignedTo: &assignedTo,
		Preload:    []string{"Creator", "Company"},
		Page:       page,
		PageSize:   pageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// ListCreatedTasks returns the tasks the principal created, newest first.
// The legacy surface has no pagination.
func (s *TaskService) ListCreatedTasks(p policy.Principal) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByCreator(p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateCompanyTaskInput represents input for the company-admin create path.
type CreateCompanyTaskInput struct {
	Title       string
	Description string
	AssignedTo  uint64
	DueDate     *time.Time
	Priority    *models.TaskPriority
}

// CreateCompanyTask creates a task for the principal's company, assigned to
// one of its plain users. The task always starts pending.
func (s *TaskService) CreateCompanyTask(p policy.Principal, input CreateCompanyTaskInput) (*models.Task, error) {
	if p.Role != models.RoleCompany || p.CompanyID == nil {
		return nil, ErrTaskAccessDenied
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := validateFutureDueDate(input.DueDate); err != nil {
		return nil, err
	}

	assignee, err := s.validateAssignee(p, input.AssignedTo)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		CreatorID:   p.ID,
		CompanyID:   p.CompanyID,
		AssignedTo:  &assignee.ID,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusPending,
		DueDate:     input.DueDate,
		Priority:    priorityOrDefault(input.Priority),
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notifier.TaskAssigned(task, assignee)

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// CreateSelfTaskInput represents input for the user self-service create path.
type CreateSelfTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    *models.TaskPriority
}

// CreateSelfTask creates a task assigned to the principal within its own
// company. The task always starts pending.
func (s *TaskService) CreateSelfTask(p policy.Principal, input CreateSelfTaskInput) (*models.Task, error) {
	if p.Role != models.RoleUser {
		return nil, ErrTaskAccessDenied
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := validateFutureDueDate(input.DueDate); err != nil {
		return nil, err
	}

	assignedTo := p.ID
	task := &models.Task{
		CreatorID:   p.ID,
		CompanyID:   p.CompanyID,
		AssignedTo:  &assignedTo,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusPending,
		DueDate:     input.DueDate,
		Priority:    priorityOrDefault(input.Priority),
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Company")
}

// CreateLegacyTaskInput represents input for the role-agnostic create path.
// Unlike the scoped paths, the initial status is client-settable here.
type CreateLegacyTaskInput struct {
	Title       string
	Description string
	Status      *models.TaskStatus
	DueDate     *time.Time
}

// CreateLegacyTask creates a task scoped solely by its creator: no company,
// no assignee.
func (s *TaskService) CreateLegacyTask(p policy.Principal, input CreateLegacyTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	status := models.TaskStatusPending
	if input.Status != nil {
		status = *input.Status
	}

	task := &models.Task{
		CreatorID:   p.ID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		DueDate:     input.DueDate,
		Priority:    models.TaskPriorityMedium,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task after the scope's ownership check, preloaded with
// the relations the scope's callers render.
func (s *TaskService) GetTask(p policy.Principal, scope policy.TaskScope, id uint64) (*models.Task, error) {
	return s.authorizeTask(p, scope, id, scopePreloads(scope)...)
}

// UpdateCompanyTaskInput represents the company-admin update path. The
// assignee is re-validated on every update; a nil DueDate leaves the
// stored one unchanged.
type UpdateCompanyTaskInput struct {
	Title       string
	Description string
	AssignedTo  uint64
	DueDate     *time.Time
	Priority    *models.TaskPriority
}

// UpdateCompanyTask updates a task of the principal's company.
func (s *TaskService) UpdateCompanyTask(p policy.Principal, id uint64, input UpdateCompanyTaskInput) (*models.Task, error) {
	task, err := s.authorizeTask(p, policy.TaskScopeCompany, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	assignee, err := s.validateAssignee(p, input.AssignedTo)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.AssignedTo = &assignee.ID
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// UpdateSelfTaskInput represents the user self-service update path. Title
// and Status are required; nil pointers leave the field unchanged.
type UpdateSelfTaskInput struct {
	Title       string
	Status      models.TaskStatus
	Description *string
	DueDate     *time.Time
	Priority    *models.TaskPriority
	Notes       *string
}

// UpdateSelfTask updates a task assigned to the principal, applying the
// completion-timestamp rule on the status change.
func (s *TaskService) UpdateSelfTask(p policy.Principal, id uint64, input UpdateSelfTaskInput) (*models.Task, error) {
	task, err := s.authorizeTask(p, policy.TaskScopeSelf, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	task.Title = input.Title
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Notes != nil {
		task.Notes = *input.Notes
	}
	task.ApplyStatus(input.Status, time.Now())

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Company")
}

// UpdateTaskStatus is the status-only fast path of the self-service
// surface, with the same completion-timestamp rule.
func (s *TaskService) UpdateTaskStatus(p policy.Principal, id uint64, status models.TaskStatus) (*models.Task, error) {
	task, err := s.authorizeTask(p, policy.TaskScopeSelf, id)
	if err != nil {
		return nil, err
	}

	task.ApplyStatus(status, time.Now())

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Company")
}

// ReplaceNotes replaces the task's notes wholesale.
func (s *TaskService) ReplaceNotes(p policy.Principal, id uint64, notes string) (*models.Task, error) {
	task, err := s.authorizeTask(p, policy.TaskScopeSelf, id)
	if err != nil {
		return nil, err
	}

	task.Notes = notes

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task notes: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Company")
}

// UpdateLegacyTaskInput represents the role-agnostic partial update: every
// field is optional and nil leaves it unchanged.
type UpdateLegacyTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	DueDate     *time.Time
}

// UpdateLegacyTask partially updates a task the principal created. A
// status change goes through the completion-timestamp rule.
func (s *TaskService) UpdateLegacyTask(p policy.Principal, id uint64, input UpdateLegacyTaskInput) (*models.Task, error) {
	task, err := s.authorizeTask(p, policy.TaskScopeLegacy, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Status != nil {
		task.ApplyStatus(*input.Status, time.Now())
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task after the scope's ownership check.
func (s *TaskService) DeleteTask(p policy.Principal, scope policy.TaskScope, id uint64) error {
	task, err := s.authorizeTask(p, scope, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// authorizeTask loads a task and applies the scope's ownership rule.
// Missing and out-of-scope tasks yield distinct errors internally even
// though scope-sensitive callers surface them identically.
func (s *TaskService) authorizeTask(p policy.Principal, scope policy.TaskScope, id uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if d := policy.CanManageTask(p, scope, *task); !d.Allowed {
		return nil, ErrTaskAccessDenied
	}

	return task, nil
}

// validateAssignee checks the assignee exists (client input error when it
// does not) and is a plain user of the principal's company.
func (s *TaskService) validateAssignee(p policy.Principal, assigneeID uint64) (*models.User, error) {
	assignee, err := s.userRepo.FindByID(assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAssignee
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	if assignee.Role != models.RoleUser || !p.SameCompany(assignee.CompanyID) {
		return nil, ErrAssigneeNotInCompany
	}

	return assignee, nil
}

func validateFutureDueDate(dueDate *time.Time) error {
	if dueDate != nil && !dueDate.After(time.Now()) {
		return ErrDueDateNotFuture
	}
	return nil
}

func scopePreloads(scope policy.TaskScope) []string {
	switch scope {
	case policy.TaskScopeCompany:
		return []string{"Creator", "Assignee", "Company"}
	case policy.TaskScopeSelf:
		return []string{"Creator", "Company"}
	default:
		return nil
	}
}

func priorityOrDefault(p *models.TaskPriority) models.TaskPriority {
	if p == nil {
		return models.TaskPriorityMedium
	}
	return *p
}
