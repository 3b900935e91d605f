package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"katha/middleware"
	"katha/models"
)

// ExpenseHandler 支出处理器
type ExpenseHandler struct {
	*Deps
}

// NewExpenseHandler 创建支出处理器
func NewExpenseHandler(d *Deps) *ExpenseHandler {
	return &ExpenseHandler{Deps: d}
}

// CreateExpenseRequest 创建支出请求，amount 可以是数字或数字字符串
type CreateExpenseRequest struct {
	Amount      Amount `json:"amount" swaggertype:"number" example:"150.50"`
	Description string `json:"description" example:"Lunch"`
	Merchant    string `json:"merchant" example:"Cafe Coffee Day"`
	Location    string `json:"location" example:"Bengaluru"`
	CategoryID  ID     `json:"categoryId" swaggertype:"integer" example:"1"`
	Date        string `json:"date" example:"2024-01-15"`
}

// List 获取支出列表
// @Summary 获取支出列表
// @Description 同时提供 month 和 year 时只返回该月记录，按日期倒序，附带类别
// @Tags 支出
// @Produce json
// @Security BearerAuth
// @Param month query int false "月份 1-12"
// @Param year query int false "年份"
// @Param categoryId query int false "类别ID"
// @Success 200 {object} map[string][]models.Expense "expenses"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	query := h.DB.WithContext(c.Request.Context()).Where("user_id = ?", user.ID)
	if start, end, ok := monthFilter(c); ok {
		query = query.Where("date >= ? AND date < ?", start, end)
	}
	if categoryID := c.Query("categoryId"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	expenses := []models.Expense{}
	if err := query.Preload("Category").Order("date DESC").Find(&expenses).Error; err != nil {
		InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// Create 创建支出
// @Summary 创建支出
// @Description 未提供 date 时使用当前时间
// @Tags 支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "支出信息"
// @Success 201 {object} map[string]models.Expense "expense"
// @Failure 400 {object} ErrorResponse "Amount and category are required"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Amount and category are required")
		return
	}
	if req.Amount == 0 || req.CategoryID == 0 {
		BadRequest(c, "Amount and category are required")
		return
	}
	date, err := dateOrNow(req.Date, h.now())
	if err != nil {
		BadRequest(c, "Invalid date")
		return
	}

	ctx := c.Request.Context()
	owned, err := h.Categories.Owned(ctx, user.ID, uint(req.CategoryID))
	if err != nil {
		InternalError(c, err)
		return
	}
	if !owned {
		BadRequest(c, "Invalid category")
		return
	}

	expense := models.Expense{
		UserID:      user.ID,
		CategoryID:  uint(req.CategoryID),
		Amount:      float64(req.Amount),
		Description: optional(req.Description),
		Merchant:    optional(req.Merchant),
		Location:    optional(req.Location),
		Date:        date,
	}
	db := h.DB.WithContext(ctx)
	if err := db.Create(&expense).Error; err != nil {
		InternalError(c, err)
		return
	}
	middleware.RecordsCreated.WithLabelValues("expense").Inc()

	if err := db.Preload("Category").First(&expense, expense.ID).Error; err != nil {
		InternalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}
