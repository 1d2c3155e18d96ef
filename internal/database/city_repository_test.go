package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var cityColumns = []string{"id", "name", "is_active", "created_at", "updated_at"}

func TestCityCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCityRepository(db)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO cities`).
			WithArgs("Colombo").
			WillReturnRows(sqlmock.NewRows(cityColumns).AddRow(1, "Colombo", true, now, now))

		city, err := repo.Create("Colombo")
		require.NoError(t, err)
		assert.Equal(t, int64(1), city.ID)
		assert.Equal(t, "Colombo", city.Name)
		assert.True(t, city.IsActive)
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO cities`).
			WithArgs("Kandy").
			WillReturnError(assert.AnError)

		city, err := repo.Create("Kandy")
		assert.Error(t, err)
		assert.Nil(t, city)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCityGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCityRepository(db)

	t.Run("Found", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`FROM cities`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(cityColumns).AddRow(1, "Colombo", true, now, now))

		city, err := repo.GetByID(1)
		require.NoError(t, err)
		require.NotNil(t, city)
		assert.Equal(t, "Colombo", city.Name)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`FROM cities`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		city, err := repo.GetByID(99)
		require.NoError(t, err)
		assert.Nil(t, city)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCityList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCityRepository(db)

	now := time.Now()

	mock.ExpectQuery(`FROM cities`).
		WillReturnRows(sqlmock.NewRows(cityColumns).
			AddRow(2, "Galle", true, now, now).
			AddRow(1, "Colombo", false, now, now))

	cities, err := repo.List()
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Galle", cities[0].Name)
	assert.False(t, cities[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCitySetActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCityRepository(db)

	t.Run("Updated", func(t *testing.T) {
		mock.ExpectExec(`UPDATE cities`).
			WithArgs(int64(1), false).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.SetActive(1, false)
		require.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectExec(`UPDATE cities`).
			WithArgs(int64(99), true).
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.SetActive(99, true)
		require.NoError(t, err)
		assert.False(t, updated)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCityDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCityRepository(db)

	mock.ExpectExec(`DELETE FROM cities`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(1)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
