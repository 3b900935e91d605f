package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"katha/middleware"
	"katha/models"
)

// IncomeHandler 收入处理器
type IncomeHandler struct {
	*Deps
}

// NewIncomeHandler 创建收入处理器
func NewIncomeHandler(d *Deps) *IncomeHandler {
	return &IncomeHandler{Deps: d}
}

// CreateIncomeRequest 创建收入请求，merchant 存为收入来源
type CreateIncomeRequest struct {
	Amount      Amount `json:"amount" swaggertype:"number" example:"85000"`
	Description string `json:"description" example:"January salary"`
	Merchant    string `json:"merchant" example:"Acme Corp"`
	CategoryID  ID     `json:"categoryId" swaggertype:"integer" example:"9"`
	Date        string `json:"date" example:"2024-01-31"`
}

// List 获取收入列表
// @Summary 获取收入列表
// @Tags 收入
// @Produce json
// @Security BearerAuth
// @Param month query int false "月份 1-12"
// @Param year query int false "年份"
// @Param categoryId query int false "类别ID"
// @Success 200 {object} map[string][]models.Income "incomes"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/incomes [get]
func (h *IncomeHandler) List(c *gin.Context) {
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

	incomes := []models.Income{}
	if err := query.Preload("Category").Order("date DESC").Find(&incomes).Error; err != nil {
		InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"incomes": incomes})
}

// Create 创建收入
// @Summary 创建收入
// @Tags 收入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateIncomeRequest true "收入信息"
// @Success 201 {object} map[string]models.Income "income"
// @Failure 400 {object} ErrorResponse "Amount and category are required"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/incomes [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req CreateIncomeRequest
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

	income := models.Income{
		UserID:      user.ID,
		CategoryID:  uint(req.CategoryID),
		Amount:      float64(req.Amount),
		Description: optional(req.Description),
		Source:      optional(req.Merchant),
		Date:        date,
	}
	db := h.DB.WithContext(ctx)
	if err := db.Create(&income).Error; err != nil {
		InternalError(c, err)
		return
	}
	middleware.RecordsCreated.WithLabelValues("income").Inc()

	if err := db.Preload("Category").First(&income, income.ID).Error; err != nil {
		InternalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"income": income})
}
