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

var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrCompanyAccessDenied = errors.New("principal may not manage companies")
	ErrCompanyNameRequired = errors.New("company name is required")
	ErrCompanyEmailTaken   = errors.New("company email already in use")
)

// CompanyService implements the platform-admin view of companies: listing,
// provisioning, updates and cascade deletion.
type CompanyService struct {
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
	}
}

// ListCompanies returns all companies with their users, paginated.
func (s *CompanyService) ListCompanies(p policy.Principal, page, pageSize int) ([]models.Company, int64, error) {
	if d := policy.CanManageCompany(p, models.Company{}); !d.Allowed {
		return nil, 0, ErrCompanyAccessDenied
	}

	companies, total, err := s.companyRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}

	return companies, total, nil
}

// CreateCompanyInput represents parameters to provision a company together
// with its company-admin user.
type CreateCompanyInput struct {
	Name          string
	Email         string
	Phone         string
	Address       string
	Website       string
	Logo          string
	Status        models.CompanyStatus
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// CreateCompany provisions a company and its admin user as a single
// transactional unit: either both rows are created or neither is.
func (s *CompanyService) CreateCompany(p policy.Principal, input CreateCompanyInput) (*models.Company, error) {
	if d := policy.CanManageCompany(p, models.Company{}); !d.Allowed {
		return nil, ErrCompanyAccessDenied
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrCompanyNameRequired
	}
	if strings.TrimSpace(input.AdminName) == "" {
		return nil, ErrNameRequired
	}
	if len(input.AdminPassword) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.companyRepo.EmailTaken(input.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check company email: %w", err)
	}
	if taken {
		return nil, ErrCompanyEmailTaken
	}

	taken, err = s.userRepo.EmailTaken(input.AdminEmail, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	company := &models.Company{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		Website: input.Website,
		Logo:    input.Logo,
		Status:  input.Status,
	}

	admin := &models.User{
		Name:         input.AdminName,
		Email:        input.AdminEmail,
		PasswordHash: string(hashedPassword),
	}

	if err := s.companyRepo.CreateWithAdmin(company, admin); err != nil {
		return nil, fmt.Errorf("failed to provision company: %w", err)
	}

	return s.companyRepo.FindByID(company.ID, "Users")
}

// GetCompany returns a company with its users and tasks.
func (s *CompanyService) GetCompany(p policy.Principal, id uint64) (*models.Company, error) {
	if d := policy.CanManageCompany(p, models.Company{}); !d.Allowed {
		return nil, ErrCompanyAccessDenied
	}

	company, err := s.companyRepo.FindByID(id, "Users", "Tasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}

	return company, nil
}

// UpdateCompanyInput represents the mutable company fields.
type UpdateCompanyInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Website string
	Logo    string
	Status  models.CompanyStatus
}

// UpdateCompany updates a company, re-checking email uniqueness against
// every other company.
func (s *CompanyService) UpdateCompany(p policy.Principal, id uint64, input UpdateCompanyInput) (*models.Company, error) {
	if d := policy.CanManageCompany(p, models.Company{}); !d.Allowed {
		return nil, ErrCompanyAccessDenied
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrCompanyNameRequired
	}

	company, err := s.companyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to find company: %w", err)
	}

	taken, err := s.companyRepo.EmailTaken(input.Email, company.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check company email: %w", err)
	}
	if taken {
		return nil, ErrCompanyEmailTaken
	}

	company.Name = input.Name
	company.Email = input.Email
	company.Phone = input.Phone
	company.Address = input.Address
	company.Website = input.Website
	company.Logo = input.Logo
	company.Status = input.Status

	if err := s.companyRepo.Update(company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	return company, nil
}

// DeleteCompany removes a company and everything scoped to it.
func (s *CompanyService) DeleteCompany(p policy.Principal, id uint64) error {
	if d := policy.CanManageCompany(p, models.Company{}); !d.Allowed {
		return ErrCompanyAccessDenied
	}

	if _, err := s.companyRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("failed to find company: %w", err)
	}

	if err := s.companyRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	return nil
}

// ListCustomers returns the plain users of a company, paginated.
func (s *CompanyService) ListCustomers(p policy.Principal, companyID uint64, page, pageSize int) ([]models.User, int64, error) {
	if d := policy.CanManageCompany(p, models.Company{}); !d.Allowed {
		return nil, 0, ErrCompanyAccessDenied
	}

	if _, err := s.companyRepo.FindByID(companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCompanyNotFound
		}
		return nil, 0, fmt.Errorf("failed to find company: %w", err)
	}

	users, total, err := s.userRepo.ListByCompanyPaged(companyID, models.RoleUser, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	return users, total, nil
}
