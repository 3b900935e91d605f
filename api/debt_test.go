package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debtRows() *sqlmock.Rows {
	overdue := fixedNow.AddDate(0, 0, -2)
	soon := fixedNow.AddDate(0, 0, 1)
	return sqlmock.NewRows(debtColumns).
		AddRow(1, 1, "LENT", "Ravi", 500, nil, nil, fixedNow.AddDate(0, 0, -10), overdue, "PENDING", fixedNow, fixedNow).
		AddRow(2, 1, "BORROWED", "Meera", 200, nil, nil, fixedNow.AddDate(0, 0, -5), soon, "PENDING", fixedNow, fixedNow).
		AddRow(3, 1, "LENT", "Kiran", 300, nil, nil, fixedNow.AddDate(0, 0, -1), nil, "SETTLED", fixedNow, fixedNow)
}

type debtSummaryBody struct {
	Summary struct {
		TotalLent     float64 `json:"totalLent"`
		TotalBorrowed float64 `json:"totalBorrowed"`
		NetAmount     float64 `json:"netAmount"`
		PendingCount  int     `json:"pendingCount"`
	} `json:"summary"`
	Debts []struct {
		ID           uint   `json:"id"`
		Status       string `json:"status"`
		DaysUntilDue *int   `json:"daysUntilDue"`
		Overdue      bool   `json:"overdue"`
		DueSoon      bool   `json:"dueSoon"`
	} `json:"debts"`
}

func TestDebtHandler_Create(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `debts`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	router := newRouter("user_abc")
	router.POST("/api/debts", NewDebtHandler(deps).Create)

	w := doJSON(router, "POST", "/api/debts", `{"type":"lent","person":" Ravi ","amount":"500","dueDate":"2024-06-20","category":"Food"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"id":5`)
	assert.Contains(t, body, `"type":"LENT"`)
	assert.Contains(t, body, `"person":"Ravi"`)
	assert.Contains(t, body, `"status":"PENDING"`)
	assert.Contains(t, body, `"category":"Food"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_Create_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"缺少类型", `{"person":"Ravi","amount":500}`},
		{"非法类型", `{"type":"GIFT","person":"Ravi","amount":500}`},
		{"缺少对方", `{"type":"LENT","amount":500}`},
		{"缺少金额", `{"type":"LENT","person":"Ravi"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, mock, cleanup := setupMockDB(t)
			defer cleanup()

			expectCurrentUser(mock, 1)

			router := newRouter("user_abc")
			router.POST("/api/debts", NewDebtHandler(deps).Create)

			w := doJSON(router, "POST", "/api/debts", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Type, person, and amount are required"}`, w.Body.String())
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDebtHandler_Update_Status(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	mock.ExpectQuery("SELECT .* FROM `debts` WHERE id = \\? AND user_id = \\?").
		WillReturnRows(sqlmock.NewRows(debtColumns).
			AddRow(1, 1, "LENT", "Ravi", 500, nil, nil, fixedNow, nil, "PENDING", fixedNow, fixedNow))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `debts` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `debts`").
		WillReturnRows(sqlmock.NewRows(debtColumns).
			AddRow(1, 1, "LENT", "Ravi", 500, nil, nil, fixedNow, nil, "SETTLED", fixedNow, fixedNow))

	router := newRouter("user_abc")
	router.PATCH("/api/debts/:id", NewDebtHandler(deps).Update)

	w := doJSON(router, "PATCH", "/api/debts/1", `{"status":"settled"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"SETTLED"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_Update_InvalidStatus(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	mock.ExpectQuery("SELECT .* FROM `debts`").
		WillReturnRows(sqlmock.NewRows(debtColumns).
			AddRow(1, 1, "LENT", "Ravi", 500, nil, nil, fixedNow, nil, "PENDING", fixedNow, fixedNow))

	router := newRouter("user_abc")
	router.PATCH("/api/debts/:id", NewDebtHandler(deps).Update)

	w := doJSON(router, "PATCH", "/api/debts/1", `{"status":"FORGIVEN"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid status"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_Update_NotFound(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	// 其他用户的记录同样查不到
	mock.ExpectQuery("SELECT .* FROM `debts`").
		WillReturnRows(sqlmock.NewRows(debtColumns))

	router := newRouter("user_abc")
	router.PATCH("/api/debts/:id", NewDebtHandler(deps).Update)

	w := doJSON(router, "PATCH", "/api/debts/42", `{"status":"SETTLED"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Debt not found"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_Delete(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	mock.ExpectQuery("SELECT .* FROM `debts`").
		WillReturnRows(sqlmock.NewRows(debtColumns).
			AddRow(1, 1, "LENT", "Ravi", 500, nil, nil, fixedNow, nil, "PENDING", fixedNow, fixedNow))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `debts`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := newRouter("user_abc")
	router.DELETE("/api/debts/:id", NewDebtHandler(deps).Delete)

	w := doJSON(router, "DELETE", "/api/debts/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_Delete_BadID(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)

	router := newRouter("user_abc")
	router.DELETE("/api/debts/:id", NewDebtHandler(deps).Delete)

	w := doJSON(router, "DELETE", "/api/debts/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_Summary(t *testing.T) {
	tests := []struct {
		name         string
		pendingFirst bool
		wantOrder    []uint
	}{
		{"默认只按日期倒序", false, []uint{3, 2, 1}},
		{"未结清优先", true, []uint{2, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Katha.PendingFirst = tt.pendingFirst
			deps, mock, cleanup := setupMockDBWithConfig(t, cfg)
			defer cleanup()

			expectCurrentUser(mock, 1)
			mock.ExpectQuery("SELECT .* FROM `debts` WHERE user_id = \\?").
				WillReturnRows(debtRows())

			router := newRouter("user_abc")
			router.GET("/api/debts/summary", NewDebtHandler(deps).Summary)

			w := doJSON(router, "GET", "/api/debts/summary", "")
			require.Equal(t, http.StatusOK, w.Code)

			var resp debtSummaryBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			assert.Equal(t, 500.0, resp.Summary.TotalLent)
			assert.Equal(t, 200.0, resp.Summary.TotalBorrowed)
			assert.Equal(t, 300.0, resp.Summary.NetAmount)
			assert.Equal(t, 2, resp.Summary.PendingCount)

			require.Len(t, resp.Debts, 3)
			var order []uint
			flags := map[uint][2]bool{}
			for _, d := range resp.Debts {
				order = append(order, d.ID)
				flags[d.ID] = [2]bool{d.Overdue, d.DueSoon}
			}
			assert.Equal(t, tt.wantOrder, order)
			assert.Equal(t, [2]bool{true, false}, flags[1])
			assert.Equal(t, [2]bool{false, true}, flags[2])
			assert.Equal(t, [2]bool{false, false}, flags[3])
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDebtHandler_List_Filters(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)
	mock.ExpectQuery("SELECT .* FROM `debts` WHERE user_id = \\? AND type = \\? AND status = \\? ORDER BY date DESC").
		WithArgs(1, "LENT", "PENDING").
		WillReturnRows(sqlmock.NewRows(debtColumns))

	router := newRouter("user_abc")
	router.GET("/api/debts", NewDebtHandler(deps).List)

	w := doJSON(router, "GET", "/api/debts?type=lent&status=pending", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"debts":[]}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_SendReminders_Disabled(t *testing.T) {
	deps, mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectCurrentUser(mock, 1)

	router := newRouter("user_abc")
	router.POST("/api/debts/reminders", NewDebtHandler(deps).SendReminders)

	w := doJSON(router, "POST", "/api/debts/reminders", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"Mail service disabled"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtHandler_SendReminders_NothingDue(t *testing.T) {
	cfg := testConfig()
	cfg.Email.Enabled = true
	cfg.Email.Host = "smtp.example.com"
	deps, mock, cleanup := setupMockDBWithConfig(t, cfg)
	defer cleanup()

	expectCurrentUser(mock, 1)
	far := fixedNow.AddDate(0, 1, 0)
	mock.ExpectQuery("SELECT .* FROM `debts` WHERE user_id = \\? AND status = \\? AND due_date IS NOT NULL").
		WillReturnRows(sqlmock.NewRows(debtColumns).
			AddRow(1, 1, "LENT", "Ravi", 500, nil, nil, fixedNow, far, "PENDING", fixedNow, fixedNow))

	router := newRouter("user_abc")
	router.POST("/api/debts/reminders", NewDebtHandler(deps).SendReminders)

	w := doJSON(router, "POST", "/api/debts/reminders", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sent":0}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
