package api

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"katha/config"
	"katha/middleware"
)

var (
	userColumns     = []string{"id", "external_id", "email", "first_name", "last_name", "avatar", "currency", "monthly_income", "created_at", "updated_at"}
	categoryColumns = []string{"id", "name", "icon", "color", "type", "is_default", "user_id", "created_at", "updated_at"}
	expenseColumns  = []string{"id", "user_id", "category_id", "amount", "description", "merchant", "location", "date", "created_at", "updated_at"}
	incomeColumns   = []string{"id", "user_id", "category_id", "amount", "description", "source", "date", "created_at", "updated_at"}
	savingsColumns  = []string{"id", "user_id", "amount", "description", "date", "created_at", "updated_at"}
	debtColumns     = []string{"id", "user_id", "type", "person", "amount", "description", "category", "date", "due_date", "status", "created_at", "updated_at"}
)

// fixedNow 测试中的“当前时间”
var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		Katha:  config.KathaConfig{ReminderWindowDays: 3},
	}
}

func setupMockDB(t *testing.T) (*Deps, sqlmock.Sqlmock, func()) {
	return setupMockDBWithConfig(t, testConfig())
}

func setupMockDBWithConfig(t *testing.T, cfg *config.Config) (*Deps, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	deps := NewDeps(gormDB, cfg, nil)
	deps.Now = func() time.Time { return fixedNow }
	return deps, mock, func() {
		sqlDB.Close()
	}
}

// setSubjectMiddleware 模拟已通过会话校验的请求
func setSubjectMiddleware(subject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("subject", subject)
		c.Set("claims", &middleware.Claims{
			Email:            "asha@example.com",
			FirstName:        "Asha",
			RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		})
		c.Next()
	}
}

// expectCurrentUser 当前用户查询
func expectCurrentUser(mock sqlmock.Sqlmock, id uint) {
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id, "user_abc", "asha@example.com", "Asha", "Rao", "", "INR", 0, fixedNow, fixedNow))
}

func expectCategoryResolve(mock sqlmock.Sqlmock, id int64, affected int64, name, typ string, userID uint) {
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnResult(sqlmock.NewResult(id, affected))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(id, name, "", "", typ, true, userID, fixedNow, fixedNow))
}

func newRouter(subject string) *gin.Engine {
	router := gin.New()
	if subject != "" {
		router.Use(setSubjectMiddleware(subject))
	}
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
