package repository

import (
	"github.com/taskdesk/taskdesk-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListByCreator lists tasks created by a user, newest first, unpaginated
	ListByCreator(creatorID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete hard deletes a task
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks. Scope filters are
// applied before counting so pagination totals are always scope-correct.
type TaskFilter struct {
	CompanyID  *uint64
	AssignedTo *uint64
	CreatorID  *uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	Preload    []string
	Page       int
	PageSize   int
}

// CompanyRepository defines the interface for company data access
type CompanyRepository interface {
	// CreateWithAdmin creates a company and its company-admin user within
	// a single transaction: both rows are created or neither is.
	CreateWithAdmin(company *models.Company, admin *models.User) error

	// FindByID finds a company by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Company, error)

	// List retrieves companies with their users, paginated
	List(page, pageSize int) ([]models.Company, int64, error)

	// Update updates a company
	Update(company *models.Company) error

	// Delete deletes a company and cascades to its users and tasks
	Delete(id uint64) error

	// EmailTaken reports whether another company already uses the email
	EmailTaken(email string, excludeID uint64) (bool, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// EmailTaken reports whether another user already uses the email
	EmailTaken(email string, excludeID uint64) (bool, error)

	// ListByCompany lists users of a company with the given role
	ListByCompany(companyID uint64, role models.Role) ([]models.User, error)

	// ListByCompanyPaged lists users of a company with the given role, paginated
	ListByCompanyPaged(companyID uint64, role models.Role, page, pageSize int) ([]models.User, int64, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete hard deletes a user; tasks assigned to them keep their rows
	// with the assignee cleared.
	Delete(id uint64) error
}
