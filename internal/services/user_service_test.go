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

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *UserService

	company      *models.Company
	otherCompany *models.Company
	admin        policy.Principal
	otherAdmin   policy.Principal
}

// SetupTest runs before each test
func (suite *UserServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	suite.service = NewUserService(repository.NewUserRepository(suite.db))

	suite.company = suite.createCompany("Acme", "acme@example.com")
	suite.otherCompany = suite.createCompany("Globex", "globex@example.com")

	acmeAdmin := suite.createUser("admin@acme.example.com", models.RoleCompany, &suite.company.ID)
	globexAdmin := suite.createUser("admin@globex.example.com", models.RoleCompany, &suite.otherCompany.ID)
	suite.admin = policy.Principal{ID: acmeAdmin.ID, Role: models.RoleCompany, CompanyID: acmeAdmin.CompanyID}
	suite.otherAdmin = policy.Principal{ID: globexAdmin.ID, Role: models.RoleCompany, CompanyID: globexAdmin.CompanyID}
}

// TearDownTest runs after each test
func (suite *UserServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserServiceTestSuite) createCompany(name, email string) *models.Company {
	company := &models.Company{
		Name:   name,
		Email:  email,
		Status: models.CompanyStatusActive,
	}
	suite.Require().NoError(suite.db.Create(company).Error)
	return company
}

func (suite *UserServiceTestSuite) createUser(email string, role models.Role, companyID *uint64) *models.User {
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		CompanyID:    companyID,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

// TestCreateCompanyUser_Success tests provisioning a plain user
func (suite *UserServiceTestSuite) TestCreateCompanyUser_Success() {
	user, err := suite.service.CreateCompanyUser(suite.admin, CreateCompanyUserInput{
		Name:     "Worker",
		Email:    "worker@acme.example.com",
		Password: "password123",
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.RoleUser, user.Role)
	suite.Require().NotNil(user.CompanyID)
	assert.Equal(suite.T(), suite.company.ID, *user.CompanyID)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

// TestCreateCompanyUser_DuplicateEmail tests email uniqueness at creation
func (suite *UserServiceTestSuite) TestCreateCompanyUser_DuplicateEmail() {
	suite.createUser("worker@acme.example.com", models.RoleUser, &suite.company.ID)

	_, err := suite.service.CreateCompanyUser(suite.admin, CreateCompanyUserInput{
		Name:     "Worker",
		Email:    "worker@acme.example.com",
		Password: "password123",
	})

	assert.ErrorIs(suite.T(), err, ErrEmailTaken)
}

// TestGetCompanyUser_CrossCompanyReadsAsDenied tests that a user of
// another company is denied rather than reported missing
func (suite *UserServiceTestSuite) TestGetCompanyUser_CrossCompanyReadsAsDenied() {
	foreign := suite.createUser("worker@globex.example.com", models.RoleUser, &suite.otherCompany.ID)

	_, err := suite.service.GetCompanyUser(suite.admin, foreign.ID)
	assert.ErrorIs(suite.T(), err, ErrUserAccessDenied)

	_, err = suite.service.GetCompanyUser(suite.admin, 9999)
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

// TestGetCompanyUser_AdminNotVisible tests that the company surface never
// exposes admin accounts
func (suite *UserServiceTestSuite) TestGetCompanyUser_AdminNotVisible() {
	_, err := suite.service.GetCompanyUser(suite.admin, suite.admin.ID)
	assert.ErrorIs(suite.T(), err, ErrUserAccessDenied)
}

// TestUpdateCompanyUser_KeepOwnEmail tests the uniqueness check excluding
// the user itself
func (suite *UserServiceTestSuite) TestUpdateCompanyUser_KeepOwnEmail() {
	worker := suite.createUser("worker@acme.example.com", models.RoleUser, &suite.company.ID)
	suite.createUser("other@acme.example.com", models.RoleUser, &suite.company.ID)

	updated, err := suite.service.UpdateCompanyUser(suite.admin, worker.ID, UpdateCompanyUserInput{
		Name:  "Worker Renamed",
		Email: "worker@acme.example.com",
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Worker Renamed", updated.Name)

	_, err = suite.service.UpdateCompanyUser(suite.admin, worker.ID, UpdateCompanyUserInput{
		Name:  "Worker Renamed",
		Email: "other@acme.example.com",
	})
	assert.ErrorIs(suite.T(), err, ErrEmailTaken)
}

// TestUpdateCompanyUser_PasswordOptional tests that a nil password keeps
// the stored hash
func (suite *UserServiceTestSuite) TestUpdateCompanyUser_PasswordOptional() {
	worker := suite.createUser("worker@acme.example.com", models.RoleUser, &suite.company.ID)
	originalHash := worker.PasswordHash

	updated, err := suite.service.UpdateCompanyUser(suite.admin, worker.ID, UpdateCompanyUserInput{
		Name:  "Worker",
		Email: "worker@acme.example.com",
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), originalHash, updated.PasswordHash)

	newPassword := "newpassword123"
	updated, err = suite.service.UpdateCompanyUser(suite.admin, worker.ID, UpdateCompanyUserInput{
		Name:     "Worker",
		Email:    "worker@acme.example.com",
		Password: &newPassword,
	})
	suite.Require().NoError(err)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(newPassword)))
}

// TestDeleteCompanyUser_ClearsAssignee tests that the user's tasks survive
// with the assignee cleared
func (suite *UserServiceTestSuite) TestDeleteCompanyUser_ClearsAssignee() {
	worker := suite.createUser("worker@acme.example.com", models.RoleUser, &suite.company.ID)

	task := &models.Task{
		CreatorID:  suite.admin.ID,
		CompanyID:  &suite.company.ID,
		AssignedTo: &worker.ID,
		Title:      "Orphaned task",
		Status:     models.TaskStatusPending,
		Priority:   models.TaskPriorityMedium,
	}
	suite.Require().NoError(suite.db.Create(task).Error)

	err := suite.service.DeleteCompanyUser(suite.admin, worker.ID)
	suite.Require().NoError(err)

	var gone int64
	suite.db.Model(&models.User{}).Where("id = ?", worker.ID).Count(&gone)
	assert.Equal(suite.T(), int64(0), gone)

	var reloaded models.Task
	suite.Require().NoError(suite.db.First(&reloaded, task.ID).Error)
	assert.Nil(suite.T(), reloaded.AssignedTo)
}

// TestDeleteCompanyUser_CrossCompanyDenied tests deletion scoping
func (suite *UserServiceTestSuite) TestDeleteCompanyUser_CrossCompanyDenied() {
	worker := suite.createUser("worker@acme.example.com", models.RoleUser, &suite.company.ID)

	err := suite.service.DeleteCompanyUser(suite.otherAdmin, worker.ID)
	assert.ErrorIs(suite.T(), err, ErrUserAccessDenied)
}

// TestListCompanyUsers_OwnPlainUsersOnly tests the list scope
func (suite *UserServiceTestSuite) TestListCompanyUsers_OwnPlainUsersOnly() {
	suite.createUser("worker@acme.example.com", models.RoleUser, &suite.company.ID)
	suite.createUser("worker@globex.example.com", models.RoleUser, &suite.otherCompany.ID)

	users, err := suite.service.ListCompanyUsers(suite.admin)
	suite.Require().NoError(err)
	suite.Require().Len(users, 1)
	assert.Equal(suite.T(), "worker@acme.example.com", users[0].Email)
}

// TestSuite runs the test suite
func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
