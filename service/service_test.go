package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, func() {
		sqlDB.Close()
	}
}

var categoryColumns = []string{"id", "name", "icon", "color", "type", "is_default", "user_id", "created_at", "updated_at"}

var userColumns = []string{"id", "external_id", "email", "first_name", "last_name", "avatar", "currency", "monthly_income", "created_at", "updated_at"}

// expectCategoryResolve 一次类别解析：INSERT IGNORE 风格的插入加一次读取
func expectCategoryResolve(mock sqlmock.Sqlmock, id int64, affected int64, name, typ string, userID uint) {
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnResult(sqlmock.NewResult(id, affected))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(id, name, "", "", typ, true, userID, time.Now(), time.Now()))
}
