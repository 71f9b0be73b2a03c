package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGroupRepository_GetGroupByName(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGroupRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "groups" WHERE name = $1`)).
		WithArgs("ENG-101", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "kurs"}).
			AddRow(uint(1), "ENG-101", "2"))

	group, err := repo.GetGroupByName(context.Background(), "ENG-101")
	require.NoError(t, err)
	assert.Equal(t, uint(1), group.ID)
	assert.Equal(t, "ENG-101", group.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetGroupByName_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGroupRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "groups" WHERE name = $1`)).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "kurs"}))

	_, err := repo.GetGroupByName(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_DeleteGroup(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGroupRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "groups" WHERE "groups"."id" = $1`)).
		WithArgs(uint(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteGroup(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
