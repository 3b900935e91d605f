package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"katha/middleware"
	"katha/models"
	"katha/service"
	"katha/stats"
)

// DebtHandler 借贷（Katha）处理器
type DebtHandler struct {
	*Deps
}

// NewDebtHandler 创建借贷处理器
func NewDebtHandler(d *Deps) *DebtHandler {
	return &DebtHandler{Deps: d}
}

// CreateDebtRequest 创建借贷请求
type CreateDebtRequest struct {
	Type        string `json:"type" example:"LENT"`
	Person      string `json:"person" example:"Ravi"`
	Amount      Amount `json:"amount" swaggertype:"number" example:"500"`
	Description string `json:"description" example:"Dinner split"`
	DueDate     string `json:"dueDate" example:"2024-02-15"`
	Category    string `json:"category" example:"Food"`
}

// UpdateDebtRequest 更新借贷请求，只应用非空字段
type UpdateDebtRequest struct {
	Status      string `json:"status" example:"SETTLED"`
	Amount      Amount `json:"amount" swaggertype:"number" example:"300"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" example:"2024-03-01"`
}

// DebtSummaryResponse 借贷汇总响应
type DebtSummaryResponse struct {
	Summary stats.DebtSummary `json:"summary"`
	Debts   []stats.DebtView  `json:"debts"`
}

func (h *DebtHandler) dueSoonDays() int {
	if h.Config != nil && h.Config.Katha.ReminderWindowDays > 0 {
		return h.Config.Katha.ReminderWindowDays
	}
	return stats.DefaultDueSoonDays
}

func (h *DebtHandler) pendingFirst() bool {
	return h.Config != nil && h.Config.Katha.PendingFirst
}

// List 获取借贷列表
// @Summary 获取借贷列表
// @Tags 借贷
// @Produce json
// @Security BearerAuth
// @Param type query string false "LENT 或 BORROWED"
// @Param status query string false "PENDING 或 SETTLED"
// @Success 200 {object} map[string][]models.Debt "debts"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/debts [get]
func (h *DebtHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	query := h.DB.WithContext(c.Request.Context()).Where("user_id = ?", user.ID)
	if typ := strings.ToUpper(c.Query("type")); typ != "" {
		query = query.Where("type = ?", typ)
	}
	if status := strings.ToUpper(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}

	debts := []models.Debt{}
	if err := query.Order("date DESC").Find(&debts).Error; err != nil {
		InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debts": debts})
}

// Create 创建借贷
// @Summary 创建借贷
// @Description 新记录状态为 PENDING，日期为当前时间
// @Tags 借贷
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDebtRequest true "借贷信息"
// @Success 201 {object} map[string]models.Debt "debt"
// @Failure 400 {object} ErrorResponse "Type, person, and amount are required"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/debts [post]
func (h *DebtHandler) Create(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Type, person, and amount are required")
		return
	}
	typ := models.DebtType(strings.ToUpper(strings.TrimSpace(req.Type)))
	person := strings.TrimSpace(req.Person)
	if !typ.Valid() || person == "" || req.Amount == 0 {
		BadRequest(c, "Type, person, and amount are required")
		return
	}

	debt := models.Debt{
		UserID:      user.ID,
		Type:        typ,
		Person:      person,
		Amount:      float64(req.Amount),
		Description: optional(req.Description),
		Category:    optional(req.Category),
		Date:        h.now(),
		Status:      models.DebtStatusPending,
	}
	if strings.TrimSpace(req.DueDate) != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			BadRequest(c, "Invalid date")
			return
		}
		debt.DueDate = &due
	}

	if err := h.DB.WithContext(c.Request.Context()).Create(&debt).Error; err != nil {
		InternalError(c, err)
		return
	}
	middleware.RecordsCreated.WithLabelValues("debt").Inc()

	c.JSON(http.StatusCreated, gin.H{"debt": debt})
}

// findOwned 查找当前用户的借贷记录，失败时已写入响应
func (h *DebtHandler) findOwned(c *gin.Context, userID uint) (*models.Debt, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		NotFound(c, "Debt not found")
		return nil, false
	}

	var debt models.Debt
	err = h.DB.WithContext(c.Request.Context()).Where("id = ? AND user_id = ?", id, userID).First(&debt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "Debt not found")
		return nil, false
	}
	if err != nil {
		InternalError(c, err)
		return nil, false
	}
	return &debt, true
}

// Update 更新借贷
// @Summary 更新借贷
// @Description 部分更新 status/amount/description/dueDate，空字段保持不变
// @Tags 借贷
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "借贷ID"
// @Param request body UpdateDebtRequest true "更新内容"
// @Success 200 {object} map[string]models.Debt "debt"
// @Failure 400 {object} ErrorResponse "参数错误"
// @Failure 404 {object} ErrorResponse "Debt not found"
// @Router /api/debts/{id} [patch]
func (h *DebtHandler) Update(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	debt, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	var req UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	updates := make(map[string]interface{})
	if s := strings.TrimSpace(req.Status); s != "" {
		status := models.DebtStatus(strings.ToUpper(s))
		if !status.Valid() {
			BadRequest(c, "Invalid status")
			return
		}
		updates["status"] = status
	}
	if req.Amount != 0 {
		updates["amount"] = float64(req.Amount)
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		updates["description"] = d
	}
	if strings.TrimSpace(req.DueDate) != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			BadRequest(c, "Invalid date")
			return
		}
		updates["due_date"] = due
	}

	if len(updates) > 0 {
		db := h.DB.WithContext(c.Request.Context())
		if err := db.Model(debt).Updates(updates).Error; err != nil {
			InternalError(c, err)
			return
		}
		// 重新获取更新后的记录
		if err := db.First(debt, debt.ID).Error; err != nil {
			InternalError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

// Delete 删除借贷
// @Summary 删除借贷
// @Tags 借贷
// @Produce json
// @Security BearerAuth
// @Param id path int true "借贷ID"
// @Success 200 {object} map[string]bool "success"
// @Failure 404 {object} ErrorResponse "Debt not found"
// @Router /api/debts/{id} [delete]
func (h *DebtHandler) Delete(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	debt, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	if err := h.DB.WithContext(c.Request.Context()).Delete(debt).Error; err != nil {
		InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Summary 借贷汇总
// @Summary 借贷汇总
// @Description 只统计未结清记录；返回排序后的列表，附带逾期和即将到期标记
// @Tags 借贷
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DebtSummaryResponse "汇总"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/debts/summary [get]
func (h *DebtHandler) Summary(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var debts []models.Debt
	if err := h.DB.WithContext(c.Request.Context()).Where("user_id = ?", user.ID).Find(&debts).Error; err != nil {
		InternalError(c, err)
		return
	}

	sorted := stats.SortDebts(debts, h.pendingFirst())
	c.JSON(http.StatusOK, DebtSummaryResponse{
		Summary: stats.SummarizeDebts(debts),
		Debts:   stats.AnnotateDebts(sorted, h.now(), h.dueSoonDays()),
	})
}

// SendReminders 发送到期提醒邮件
// @Summary 发送借贷到期提醒
// @Description 把逾期或即将到期的未结清借贷发送到当前用户邮箱
// @Tags 借贷
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int "sent"
// @Failure 503 {object} ErrorResponse "邮件服务未启用"
// @Router /api/debts/reminders [post]
func (h *DebtHandler) SendReminders(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if !h.Mail.Enabled() {
		Error(c, http.StatusServiceUnavailable, "Mail service disabled")
		return
	}

	var debts []models.Debt
	err := h.DB.WithContext(c.Request.Context()).
		Where("user_id = ? AND status = ? AND due_date IS NOT NULL", user.ID, models.DebtStatusPending).
		Find(&debts).Error
	if err != nil {
		InternalError(c, err)
		return
	}

	items := stats.Reminders(debts, h.now(), h.dueSoonDays())
	if len(items) == 0 {
		c.JSON(http.StatusOK, gin.H{"sent": 0})
		return
	}

	if err := h.Mail.SendDebtReminder(user, items, user.Currency); err != nil {
		if errors.Is(err, service.ErrMailDisabled) {
			Error(c, http.StatusServiceUnavailable, "Mail service disabled")
			return
		}
		InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": len(items)})
}
