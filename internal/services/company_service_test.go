package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/policy"
	"github.com/taskdesk/taskdesk-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CompanyServiceTestSuite defines the test suite for CompanyService
type CompanyServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CompanyService

	admin policy.Principal
}

// SetupTest runs before each test
func (suite *CompanyServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	suite.service = NewCompanyService(
		repository.NewCompanyRepository(suite.db),
		repository.NewUserRepository(suite.db),
	)

	platformAdmin := &models.User{
		Name:         "Platform Admin",
		Email:        "root@example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleAdmin,
	}
	suite.Require().NoError(suite.db.Create(platformAdmin).Error)
	suite.admin = policy.Principal{ID: platformAdmin.ID, Role: models.RoleAdmin}
}

// TearDownTest runs after each test
func (suite *CompanyServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CompanyServiceTestSuite) provisionCompany(name, email, adminEmail string) *models.Company {
	company, err := suite.service.CreateCompany(suite.admin, CreateCompanyInput{
		Name:          name,
		Email:         email,
		Status:        models.CompanyStatusActive,
		AdminName:     name + " Admin",
		AdminEmail:    adminEmail,
		AdminPassword: "password123",
	})
	suite.Require().NoError(err)
	return company
}

// TestCreateCompany_ProvisionsAdmin tests that the company and its admin
// user are created together
func (suite *CompanyServiceTestSuite) TestCreateCompany_ProvisionsAdmin() {
	company := suite.provisionCompany("Acme", "acme@example.com", "admin@acme.example.com")

	suite.Require().Len(company.Users, 1)
	admin := company.Users[0]
	assert.Equal(suite.T(), models.RoleCompany, admin.Role)
	suite.Require().NotNil(admin.CompanyID)
	assert.Equal(suite.T(), company.ID, *admin.CompanyID)

	// The admin password is stored hashed.
	var stored models.User
	suite.Require().NoError(suite.db.First(&stored, admin.ID).Error)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

// TestCreateCompany_DuplicateAdminEmailLeavesNothing tests atomicity: a
// rejected admin email must not leave an orphan company behind
func (suite *CompanyServiceTestSuite) TestCreateCompany_DuplicateAdminEmailLeavesNothing() {
	suite.provisionCompany("Acme", "acme@example.com", "admin@acme.example.com")

	_, err := suite.service.CreateCompany(suite.admin, CreateCompanyInput{
		Name:          "Globex",
		Email:         "globex@example.com",
		Status:        models.CompanyStatusActive,
		AdminName:     "Globex Admin",
		AdminEmail:    "admin@acme.example.com",
		AdminPassword: "password123",
	})
	assert.ErrorIs(suite.T(), err, ErrEmailTaken)

	var count int64
	suite.db.Model(&models.Company{}).Where("name = ?", "Globex").Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateCompany_DuplicateCompanyEmail tests company email uniqueness
func (suite *CompanyServiceTestSuite) TestCreateCompany_DuplicateCompanyEmail() {
	suite.provisionCompany("Acme", "acme@example.com", "admin@acme.example.com")

	_, err := suite.service.CreateCompany(suite.admin, CreateCompanyInput{
		Name:          "Acme Clone",
		Email:         "acme@example.com",
		Status:        models.CompanyStatusActive,
		AdminName:     "Clone Admin",
		AdminEmail:    "admin@clone.example.com",
		AdminPassword: "password123",
	})

	assert.ErrorIs(suite.T(), err, ErrCompanyEmailTaken)
}

// TestCreateCompany_NonAdminDenied tests that only platform admins may
// provision companies
func (suite *CompanyServiceTestSuite) TestCreateCompany_NonAdminDenied() {
	companyID := uint64(1)
	p := policy.Principal{ID: 2, Role: models.RoleCompany, CompanyID: &companyID}

	_, err := suite.service.CreateCompany(p, CreateCompanyInput{
		Name:          "Rogue",
		Email:         "rogue@example.com",
		AdminName:     "Rogue Admin",
		AdminEmail:    "admin@rogue.example.com",
		AdminPassword: "password123",
	})

	assert.ErrorIs(suite.T(), err, ErrCompanyAccessDenied)
}

// TestCreateCompany_ShortPassword tests the admin password length rule
func (suite *CompanyServiceTestSuite) TestCreateCompany_ShortPassword() {
	_, err := suite.service.CreateCompany(suite.admin, CreateCompanyInput{
		Name:          "Acme",
		Email:         "acme@example.com",
		AdminName:     "Acme Admin",
		AdminEmail:    "admin@acme.example.com",
		AdminPassword: "short",
	})

	assert.ErrorIs(suite.T(), err, ErrPasswordTooShort)
}

// TestUpdateCompany_EmailTakenExcludesSelf tests that a company keeping
// its own email is not a conflict
func (suite *CompanyServiceTestSuite) TestUpdateCompany_EmailTakenExcludesSelf() {
	company := suite.provisionCompany("Acme", "acme@example.com", "admin@acme.example.com")
	suite.provisionCompany("Globex", "globex@example.com", "admin@globex.example.com")

	updated, err := suite.service.UpdateCompany(suite.admin, company.ID, UpdateCompanyInput{
		Name:   "Acme Renamed",
		Email:  "acme@example.com",
		Status: models.CompanyStatusInactive,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Acme Renamed", updated.Name)
	assert.Equal(suite.T(), models.CompanyStatusInactive, updated.Status)

	_, err = suite.service.UpdateCompany(suite.admin, company.ID, UpdateCompanyInput{
		Name:  "Acme Renamed",
		Email: "globex@example.com",
	})
	assert.ErrorIs(suite.T(), err, ErrCompanyEmailTaken)
}

// TestDeleteCompany_Cascades tests that users and tasks scoped to the
// company are removed with it
func (suite *CompanyServiceTestSuite) TestDeleteCompany_Cascades() {
	company := suite.provisionCompany("Acme", "acme@example.com", "admin@acme.example.com")
	survivor := suite.provisionCompany("Globex", "globex@example.com", "admin@globex.example.com")

	task := &models.Task{
		CreatorID: company.Users[0].ID,
		CompanyID: &company.ID,
		Title:     "Doomed task",
		Status:    models.TaskStatusPending,
		Priority:  models.TaskPriorityMedium,
	}
	suite.Require().NoError(suite.db.Create(task).Error)

	err := suite.service.DeleteCompany(suite.admin, company.ID)
	suite.Require().NoError(err)

	var companies, users, tasks int64
	suite.db.Model(&models.Company{}).Where("id = ?", company.ID).Count(&companies)
	suite.db.Model(&models.User{}).Where("company_id = ?", company.ID).Count(&users)
	suite.db.Model(&models.Task{}).Where("company_id = ?", company.ID).Count(&tasks)
	assert.Equal(suite.T(), int64(0), companies)
	assert.Equal(suite.T(), int64(0), users)
	assert.Equal(suite.T(), int64(0), tasks)

	// The other company is untouched.
	var survivorUsers int64
	suite.db.Model(&models.User{}).Where("company_id = ?", survivor.ID).Count(&survivorUsers)
	assert.Equal(suite.T(), int64(1), survivorUsers)
}

// TestDeleteCompany_NotFound tests deleting a missing company
func (suite *CompanyServiceTestSuite) TestDeleteCompany_NotFound() {
	err := suite.service.DeleteCompany(suite.admin, 9999)
	assert.ErrorIs(suite.T(), err, ErrCompanyNotFound)
}

// TestListCustomers_PlainUsersOnly tests that the customer list excludes
// the company admin
func (suite *CompanyServiceTestSuite) TestListCustomers_PlainUsersOnly() {
	company := suite.provisionCompany("Acme", "acme@example.com", "admin@acme.example.com")

	customer := &models.User{
		Name:         "Customer",
		Email:        "customer@acme.example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleUser,
		CompanyID:    &company.ID,
	}
	suite.Require().NoError(suite.db.Create(customer).Error)

	users, total, err := suite.service.ListCustomers(suite.admin, company.ID, 1, 10)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	suite.Require().Len(users, 1)
	assert.Equal(suite.T(), customer.ID, users[0].ID)
}

// TestListCompanies_Paginated tests listing with totals
func (suite *CompanyServiceTestSuite) TestListCompanies_Paginated() {
	suite.provisionCompany("Acme", "acme@example.com", "admin@acme.example.com")
	suite.provisionCompany("Globex", "globex@example.com", "admin@globex.example.com")
	suite.provisionCompany("Initech", "initech@example.com", "admin@initech.example.com")

	companies, total, err := suite.service.ListCompanies(suite.admin, 1, 2)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(3), total)
	assert.Len(suite.T(), companies, 2)
}

// TestSuite runs the test suite
func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
