package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB opens a GORM connection backed by sqlmock so the transaction
// shape of the provisioning path can be asserted statement by statement.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestCreateWithAdmin_CommitsBothRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "companies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	company := &models.Company{Name: "Acme", Email: "acme@example.com", Status: models.CompanyStatusActive}
	admin := &models.User{Name: "Acme Admin", Email: "admin@acme.example.com", PasswordHash: "hash"}

	err := repo.CreateWithAdmin(company, admin)
	require.NoError(t, err)

	assert.Equal(t, models.RoleCompany, admin.Role)
	require.NotNil(t, admin.CompanyID)
	assert.Equal(t, company.ID, *admin.CompanyID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithAdmin_RollsBackWhenAdminInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "companies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))
	mock.ExpectRollback()

	company := &models.Company{Name: "Acme", Email: "acme@example.com", Status: models.CompanyStatusActive}
	admin := &models.User{Name: "Acme Admin", Email: "admin@acme.example.com", PasswordHash: "hash"}

	err := repo.CreateWithAdmin(company, admin)
	assert.ErrorIs(t, err, ErrCreateCompanyAdmin)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithAdmin_RollsBackWhenCompanyInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "companies"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	company := &models.Company{Name: "Acme", Email: "acme@example.com", Status: models.CompanyStatusActive}
	admin := &models.User{Name: "Acme Admin", Email: "admin@acme.example.com", PasswordHash: "hash"}

	err := repo.CreateWithAdmin(company, admin)
	assert.ErrorIs(t, err, ErrCreateCompany)

	assert.NoError(t, mock.ExpectationsWereMet())
}
