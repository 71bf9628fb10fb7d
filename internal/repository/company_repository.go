package repository

import (
	"errors"
	"fmt"

	"github.com/taskdesk/taskdesk-api/internal/database"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateCompany is returned when the company row cannot be created
	// inside the provisioning transaction.
	ErrCreateCompany = errors.New("company repository: create company failed")
	// ErrCreateCompanyAdmin is returned when the admin user row cannot be
	// created inside the provisioning transaction.
	ErrCreateCompanyAdmin = errors.New("company repository: create company admin failed")
)

// GormCompanyRepository is a GORM implementation of CompanyRepository
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &GormCompanyRepository{db: db}
}

// CreateWithAdmin creates the company and its company-admin user atomically.
func (r *GormCompanyRepository) CreateWithAdmin(company *models.Company, admin *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateCompany, err)
		}

		admin.Role = models.RoleCompany
		admin.CompanyID = &company.ID

		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateCompanyAdmin, err)
		}

		return nil
	})
}

// FindByID finds a company by ID with optional preloading
func (r *GormCompanyRepository) FindByID(id uint64, preload ...string) (*models.Company, error) {
	var company models.Company
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&company, id).Error; err != nil {
		return nil, err
	}

	return &company, nil
}

// List retrieves companies with their users, paginated
func (r *GormCompanyRepository) List(page, pageSize int) ([]models.Company, int64, error) {
	var companies []models.Company

	query := r.db.Model(&models.Company{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("companies.created_at DESC").
		Scopes(database.Paginate(page, pageSize))

	if err := listQuery.Preload("Users").Find(&companies).Error; err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}

// Update updates a company
func (r *GormCompanyRepository) Update(company *models.Company) error {
	return r.db.Save(company).Error
}

// Delete deletes a company and all data scoped to it in a transaction
func (r *GormCompanyRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("company_id = ?", id).Delete(&models.User{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Company{}, id).Error
	})
}

// EmailTaken reports whether another company already uses the email
func (r *GormCompanyRepository) EmailTaken(email string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Company{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}
