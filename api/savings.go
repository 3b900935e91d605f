package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"katha/middleware"
	"katha/models"
)

// SavingsHandler 储蓄处理器
type SavingsHandler struct {
	*Deps
}

// NewSavingsHandler 创建储蓄处理器
func NewSavingsHandler(d *Deps) *SavingsHandler {
	return &SavingsHandler{Deps: d}
}

// CreateSavingsRequest 创建储蓄请求
type CreateSavingsRequest struct {
	Amount      Amount `json:"amount" swaggertype:"number" example:"5000"`
	Description string `json:"description" example:"Emergency fund"`
	Date        string `json:"date" example:"2024-01-31"`
}

// List 获取储蓄列表
// @Summary 获取储蓄列表
// @Tags 储蓄
// @Produce json
// @Security BearerAuth
// @Param month query int false "月份 1-12"
// @Param year query int false "年份"
// @Success 200 {object} map[string][]models.Savings "savings"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/savings [get]
func (h *SavingsHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	query := h.DB.WithContext(c.Request.Context()).Where("user_id = ?", user.ID)
	if start, end, ok := monthFilter(c); ok {
		query = query.Where("date >= ? AND date < ?", start, end)
	}

	savings := []models.Savings{}
	if err := query.Order("date DESC").Find(&savings).Error; err != nil {
		InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"savings": savings})
}

// Create 创建储蓄
// @Summary 创建储蓄
// @Tags 储蓄
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSavingsRequest true "储蓄信息"
// @Success 201 {object} map[string]models.Savings "savings"
// @Failure 400 {object} ErrorResponse "Amount is required"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/savings [post]
func (h *SavingsHandler) Create(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req CreateSavingsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == 0 {
		BadRequest(c, "Amount is required")
		return
	}
	date, err := dateOrNow(req.Date, h.now())
	if err != nil {
		BadRequest(c, "Invalid date")
		return
	}

	savings := models.Savings{
		UserID:      user.ID,
		Amount:      float64(req.Amount),
		Description: optional(req.Description),
		Date:        date,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&savings).Error; err != nil {
		InternalError(c, err)
		return
	}
	middleware.RecordsCreated.WithLabelValues("savings").Inc()

	c.JSON(http.StatusCreated, gin.H{"savings": savings})
}
