package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskdesk/taskdesk-api/internal/constants"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/policy"
	"github.com/taskdesk/taskdesk-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrUserAccessDenied is returned when a principal targets a user outside
// its scope. Callers surface it exactly like a missing record.
var ErrUserAccessDenied = errors.New("user is not manageable by the principal")

// UserService implements the company-admin view of its own plain users.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// ListCompanyUsers returns the plain users of the principal's company.
func (s *UserService) ListCompanyUsers(p policy.Principal) ([]models.User, error) {
	if p.Role != models.RoleCompany || p.CompanyID == nil {
		return nil, ErrUserAccessDenied
	}

	users, err := s.userRepo.ListByCompany(*p.CompanyID, models.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to list company users: %w", err)
	}

	return users, nil
}

// CreateCompanyUserInput represents parameters to provision a plain user.
type CreateCompanyUserInput struct {
	Name     string
	Email    string
	Password string
}

// CreateCompanyUser provisions a plain user under the principal's company.
func (s *UserService) CreateCompanyUser(p policy.Principal, input CreateCompanyUserInput) (*models.User, error) {
	// The prospective record must fall inside the principal's scope.
	prospective := models.User{Role: models.RoleUser, CompanyID: p.CompanyID}
	if d := policy.CanManageCompanyScopedUser(p, prospective); !d.Allowed {
		return nil, ErrUserAccessDenied
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.userRepo.EmailTaken(input.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
		CompanyID:    p.CompanyID,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetCompanyUser returns one of the principal's plain users.
func (s *UserService) GetCompanyUser(p policy.Principal, id uint64) (*models.User, error) {
	return s.authorizeUser(p, id)
}

// UpdateCompanyUserInput represents the mutable user fields. A nil
// Password leaves the stored hash unchanged.
type UpdateCompanyUserInput struct {
	Name     string
	Email    string
	Password *string
}

// UpdateCompanyUser updates one of the principal's plain users, re-checking
// email uniqueness against every other user.
func (s *UserService) UpdateCompanyUser(p policy.Principal, id uint64, input UpdateCompanyUserInput) (*models.User, error) {
	user, err := s.authorizeUser(p, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	taken, err := s.userRepo.EmailTaken(input.Email, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	user.Name = name
	user.Email = input.Email

	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteCompanyUser removes one of the principal's plain users. Tasks
// assigned to them survive with the assignee cleared.
func (s *UserService) DeleteCompanyUser(p policy.Principal, id uint64) error {
	user, err := s.authorizeUser(p, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// authorizeUser loads a user and checks it falls inside the principal's
// scope. Missing and out-of-scope records yield distinct errors internally
// even though callers surface them identically.
func (s *UserService) authorizeUser(p policy.Principal, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if d := policy.CanManageCompanyScopedUser(p, *user); !d.Allowed {
		return nil, ErrUserAccessDenied
	}

	return user, nil
}
