package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler_Get(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	// 三个查询并发执行，不校验顺序
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(1, 1, 3, 100, nil, nil, nil, fixedNow, fixedNow, fixedNow).
			AddRow(2, 1, 3, 50, nil, nil, nil, fixedNow.AddDate(0, 0, -1), fixedNow, fixedNow).
			AddRow(3, 1, 4, 200, nil, nil, nil, fixedNow.AddDate(0, -1, -5), fixedNow, fixedNow))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(3, "Food & Dining", "🍽️", "", "EXPENSE", true, 1, fixedNow, fixedNow).
			AddRow(4, "Shopping", "🛍️", "", "EXPENSE", true, 1, fixedNow, fixedNow))
	mock.ExpectQuery("SELECT .* FROM `incomes`").
		WillReturnRows(sqlmock.NewRows(incomeColumns).
			AddRow(1, 1, 9, 1000, nil, nil, fixedNow.AddDate(0, 0, -14), fixedNow, fixedNow))
	mock.ExpectQuery("SELECT .* FROM `savings`").
		WillReturnRows(sqlmock.NewRows(savingsColumns).
			AddRow(1, 1, 300, nil, fixedNow.AddDate(0, -1, 0), fixedNow, fixedNow).
			AddRow(2, 1, 200, nil, fixedNow.AddDate(0, 0, -13), fixedNow, fixedNow))

	router := newRouter("user_abc")
	router.GET("/api/dashboard", NewDashboardHandler(deps).Get)

	w := doJSON(router, "GET", "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Dashboard Dashboard `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	d := resp.Dashboard

	assert.Equal(t, 6, d.Month)
	assert.Equal(t, 2024, d.Year)
	assert.Equal(t, 1000.0, d.Income)
	assert.Equal(t, 150.0, d.Expenses)
	assert.Equal(t, 850.0, d.Balance)
	assert.Equal(t, "85.0", d.SavingsRate)
	// 储蓄合计不限月份
	assert.Equal(t, 500.0, d.TotalSavings)

	assert.Equal(t, 2, d.Streak)
	assert.Equal(t, []bool{false, false, false, false, false, true, true}, d.StreakDays)

	require.Len(t, d.ByCategory, 1)
	assert.Equal(t, "Food & Dining", d.ByCategory[0].Name)
	assert.Equal(t, 150.0, d.ByCategory[0].Amount)

	require.Len(t, d.Trend, 6)
	last := d.Trend[5]
	assert.Equal(t, "Jun", last.Label)
	assert.Equal(t, 1000.0, last.Income)
	assert.Equal(t, 150.0, last.Expenses)
	assert.Equal(t, 200.0, d.Trend[4].Expenses)

	require.Len(t, d.Recent, 3)
	assert.Equal(t, uint(1), d.Recent[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardHandler_OtherMonth(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns))
	mock.ExpectQuery("SELECT .* FROM `incomes`").
		WillReturnRows(sqlmock.NewRows(incomeColumns))
	mock.ExpectQuery("SELECT .* FROM `savings`").
		WillReturnRows(sqlmock.NewRows(savingsColumns))

	router := newRouter("user_abc")
	router.GET("/api/dashboard", NewDashboardHandler(deps).Get)

	w := doJSON(router, "GET", "/api/dashboard?month=1&year=2023", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"month":1`)
	assert.Contains(t, body, `"year":2023`)
	assert.Contains(t, body, `"savingsRate":"0.0"`)
	assert.Contains(t, body, `"byCategory":[]`)
	assert.Contains(t, body, `"streak":0`)
	require.NoError(t, mock.ExpectationsWereMet())
}
