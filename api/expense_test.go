package api

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseHandler_Create(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	// 校验类别归属
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	// INSERT expense
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()
	// 重新读取并预加载类别
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(11, 1, 3, 150.5, "Lunch", "Cafe", nil, fixedNow, fixedNow, fixedNow))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(3, "Food & Dining", "🍽️", "", "EXPENSE", true, 1, fixedNow, fixedNow))

	router := newRouter("user_abc")
	router.POST("/api/expenses", NewExpenseHandler(deps).Create)

	body := `{"amount":"150.50","description":"Lunch","merchant":"Cafe","categoryId":"3","date":"2024-06-14"}`
	w := doJSON(router, "POST", "/api/expenses", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"expense":{"id":11`)
	assert.Contains(t, w.Body.String(), `"name":"Food & Dining"`)
	assert.Contains(t, w.Body.String(), `"location":null`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_MissingFields(t *testing.T) {
	for _, body := range []string{`{"categoryId":3}`, `{"amount":10}`, `{"amount":0,"categoryId":3}`, `{"amount":"","categoryId":3}`, `{"amount":"NaN","categoryId":3}`, `{"amount":"Infinity","categoryId":3}`} {
		deps, mock, cleanup := setupMockDB(t)

		expectCurrentUser(mock, 1)

		router := newRouter("user_abc")
		router.POST("/api/expenses", NewExpenseHandler(deps).Create)

		w := doJSON(router, "POST", "/api/expenses", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"Amount and category are required"}`, w.Body.String())
		require.NoError(t, mock.ExpectationsWereMet())
		cleanup()
	}
}

func TestExpenseHandler_Create_InvalidCategory(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	router := newRouter("user_abc")
	router.POST("/api/expenses", NewExpenseHandler(deps).Create)

	w := doJSON(router, "POST", "/api/expenses", `{"amount":10,"categoryId":99}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_InvalidDate(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)

	router := newRouter("user_abc")
	router.POST("/api/expenses", NewExpenseHandler(deps).Create)

	w := doJSON(router, "POST", "/api/expenses", `{"amount":10,"categoryId":3,"date":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid date"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_List_MonthFilter(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	mock.ExpectQuery("SELECT .* FROM `expenses` WHERE user_id = \\? AND .*date >= \\? AND date < \\?.* ORDER BY date DESC").
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(2, 1, 3, 50, nil, nil, nil, fixedNow, fixedNow, fixedNow).
			AddRow(1, 1, 3, 100, nil, nil, nil, fixedNow.AddDate(0, 0, -1), fixedNow, fixedNow))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(3, "Shopping", "🛍️", "", "EXPENSE", true, 1, fixedNow, fixedNow))

	router := newRouter("user_abc")
	router.GET("/api/expenses", NewExpenseHandler(deps).List)

	w := doJSON(router, "GET", "/api/expenses?month=6&year=2024", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"expenses":[{"id":2`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_List_Empty(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	// 只给 month 不给 year 时不按月份过滤
	mock.ExpectQuery("SELECT .* FROM `expenses` WHERE user_id = \\? ORDER BY date DESC").
		WillReturnRows(sqlmock.NewRows(expenseColumns))

	router := newRouter("user_abc")
	router.GET("/api/expenses", NewExpenseHandler(deps).List)

	w := doJSON(router, "GET", "/api/expenses?month=6", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"expenses":[]}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
