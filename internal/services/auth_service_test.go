package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AuthServiceTestSuite defines the test suite for AuthService
type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

// SetupTest runs before each test
func (suite *AuthServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	suite.service = NewAuthService(repository.NewUserRepository(suite.db))
}

// TearDownTest runs after each test
func (suite *AuthServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// TestRegister_Success tests successful registration
func (suite *AuthServiceTestSuite) TestRegister_Success() {
	user, err := suite.service.Register(RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.RoleUser, user.Role)
	assert.Nil(suite.T(), user.CompanyID, "self-registered users have no company")
	assert.NotEqual(suite.T(), "password123", user.PasswordHash)
}

// TestRegister_TrimsName tests name trimming
func (suite *AuthServiceTestSuite) TestRegister_TrimsName() {
	user, err := suite.service.Register(RegisterInput{
		Name:     "  Test User  ",
		Email:    "test@example.com",
		Password: "password123",
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Test User", user.Name)
}

// TestRegister_BlankName tests the name requirement
func (suite *AuthServiceTestSuite) TestRegister_BlankName() {
	_, err := suite.service.Register(RegisterInput{
		Name:     "   ",
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.ErrorIs(suite.T(), err, ErrNameRequired)
}

// TestRegister_ShortPassword tests the password length rule
func (suite *AuthServiceTestSuite) TestRegister_ShortPassword() {
	_, err := suite.service.Register(RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "short",
	})

	assert.ErrorIs(suite.T(), err, ErrPasswordTooShort)
}

// TestRegister_DuplicateEmail tests email uniqueness across all roles
func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	_, err := suite.service.Register(RegisterInput{
		Name:     "First",
		Email:    "test@example.com",
		Password: "password123",
	})
	suite.Require().NoError(err)

	_, err = suite.service.Register(RegisterInput{
		Name:     "Second",
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.ErrorIs(suite.T(), err, ErrEmailTaken)
}

// TestLogin_Success tests successful login
func (suite *AuthServiceTestSuite) TestLogin_Success() {
	registered, err := suite.service.Register(RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})
	suite.Require().NoError(err)

	user, err := suite.service.Login(LoginInput{
		Email:    "test@example.com",
		Password: "password123",
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), registered.ID, user.ID)
}

// TestLogin_WrongPassword tests login with an incorrect password
func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	_, err := suite.service.Register(RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})
	suite.Require().NoError(err)

	_, err = suite.service.Login(LoginInput{
		Email:    "test@example.com",
		Password: "wrongpassword",
	})

	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

// TestLogin_UnknownEmail tests that unknown emails read like bad passwords
func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	_, err := suite.service.Login(LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})

	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

// TestGetUser_NotFound tests user lookup for a missing ID
func (suite *AuthServiceTestSuite) TestGetUser_NotFound() {
	_, err := suite.service.GetUser(9999)
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

// TestSuite runs the test suite
func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
