package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katha/models"
)

func expectDefaultCategories(mock sqlmock.Sqlmock, userID uint) {
	for i, d := range models.DefaultCategories() {
		expectCategoryResolve(mock, int64(i+1), 0, d.Name, string(d.Type), userID)
	}
}

func TestUserService_GetOrCreate_MissingSubject(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	svc := NewUserService(db, NewCategoryService(db), nil)
	_, err := svc.GetOrCreate(context.Background(), Profile{})
	assert.ErrorIs(t, err, ErrMissingSubject)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetOrCreate_NewUser(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "user_abc", "a@example.com", "Asha", "Rao", "", "INR", 0, time.Now(), time.Now()))
	expectDefaultCategories(mock, 7)

	svc := NewUserService(db, NewCategoryService(db), nil)
	user, err := svc.GetOrCreate(context.Background(), Profile{
		ExternalID: "user_abc",
		Email:      "a@example.com",
		FirstName:  "Asha",
		LastName:   "Rao",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "INR", user.Currency)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetOrCreate_Existing(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "user_abc", "old@example.com", "Asha", "", "", "USD", 5000, time.Now(), time.Now()))
	expectDefaultCategories(mock, 7)

	svc := NewUserService(db, NewCategoryService(db), nil)
	user, err := svc.GetOrCreate(context.Background(), Profile{ExternalID: "user_abc", Email: "new@example.com"})
	require.NoError(t, err)
	// 已存在的用户资料不会被覆盖
	assert.Equal(t, "old@example.com", user.Email)
	assert.Equal(t, 5000.0, user.MonthlyIncome)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetOrCreate_RereadMiss(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns))

	svc := NewUserService(db, NewCategoryService(db), nil)
	_, err := svc.GetOrCreate(context.Background(), Profile{ExternalID: "user_abc"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_FindByExternalID_NotFound(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := NewUserService(db, NewCategoryService(db), nil).FindByExternalID(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
