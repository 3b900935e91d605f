package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"katha/models"
	"katha/stats"
)

const (
	trendMonths = 6
	recentLimit = 5
)

// DashboardHandler 首页概览处理器
type DashboardHandler struct {
	*Deps
}

// NewDashboardHandler 创建概览处理器
func NewDashboardHandler(d *Deps) *DashboardHandler {
	return &DashboardHandler{Deps: d}
}

// Dashboard 首页概览
type Dashboard struct {
	Month        int                   `json:"month"`
	Year         int                   `json:"year"`
	Income       float64               `json:"income"`
	Expenses     float64               `json:"expenses"`
	Balance      float64               `json:"balance"`
	SavingsRate  string                `json:"savingsRate" example:"85.0"`
	TotalSavings float64               `json:"totalSavings"`
	Streak       int                   `json:"streak"`
	StreakDays   []bool                `json:"streakDays"`
	ByCategory   []stats.CategoryTotal `json:"byCategory"`
	Trend        []stats.TrendPoint    `json:"trend"`
	Recent       []models.Expense      `json:"recent"`
}

// Get 获取首页概览
// @Summary 首页概览
// @Description 月度收支、结余、储蓄率、累计储蓄、最近 7 天连续记账、分类占比、近 6 个月趋势和最近 5 笔支出。month/year 缺省为当前月份。
// @Tags 概览
// @Produce json
// @Security BearerAuth
// @Param month query int false "月份 1-12"
// @Param year query int false "年份"
// @Success 200 {object} map[string]Dashboard "dashboard"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var (
		expenses []models.Expense
		incomes  []models.Income
		savings  []models.Savings
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		return h.DB.WithContext(ctx).Preload("Category").Where("user_id = ?", user.ID).Find(&expenses).Error
	})
	g.Go(func() error {
		return h.DB.WithContext(ctx).Where("user_id = ?", user.ID).Find(&incomes).Error
	})
	g.Go(func() error {
		return h.DB.WithContext(ctx).Where("user_id = ?", user.ID).Find(&savings).Error
	})
	if err := g.Wait(); err != nil {
		InternalError(c, err)
		return
	}

	now := h.now()
	month, year := monthOrCurrent(c, now)
	summary := stats.Monthly(incomes, expenses, month, year)
	streak := stats.Streak(stats.ActivityDates(expenses, incomes), now)

	var monthExpenses []models.Expense
	for _, e := range expenses {
		if stats.InMonth(e.Date, month, year) {
			monthExpenses = append(monthExpenses, e)
		}
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": Dashboard{
		Month:        month,
		Year:         year,
		Income:       summary.Income,
		Expenses:     summary.Expenses,
		Balance:      summary.Balance,
		SavingsRate:  summary.SavingsRate,
		TotalSavings: stats.Total(savings),
		Streak:       streak.Streak,
		StreakDays:   streak.Days,
		ByCategory:   stats.ByCategory(monthExpenses),
		Trend:        stats.Trend(incomes, expenses, trendMonths, now),
		Recent:       stats.Recent(expenses, recentLimit),
	}})
}
