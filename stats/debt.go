package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"katha/models"
)

// DefaultDueSoonDays 默认的即将到期天数
const DefaultDueSoonDays = 3

// DebtSummary 借贷汇总，只统计未结清记录
type DebtSummary struct {
	TotalLent     float64 `json:"totalLent"`
	TotalBorrowed float64 `json:"totalBorrowed"`
	NetAmount     float64 `json:"netAmount"`
	PendingCount  int     `json:"pendingCount"`
}

// SummarizeDebts 汇总借出、借入和净额
// 已结清的记录不影响任何金额
func SummarizeDebts(debts []models.Debt) DebtSummary {
	var s DebtSummary
	for _, d := range debts {
		if !d.IsPending() {
			continue
		}
		s.PendingCount++
		switch d.Type {
		case models.DebtTypeLent:
			s.TotalLent += d.Amount
		case models.DebtTypeBorrowed:
			s.TotalBorrowed += d.Amount
		}
	}
	s.NetAmount = s.TotalLent - s.TotalBorrowed
	return s
}

// SortDebts 返回排序后的副本：先按状态分组，再按日期倒序，排序稳定
//
// pendingFirst 为 false 时沿用历史行为：状态与小写 "pending" 比较，
// 库里存的是大写值，所以所有记录同组，实际只按日期排序。
func SortDebts(debts []models.Debt, pendingFirst bool) []models.Debt {
	sorted := make([]models.Debt, len(debts))
	copy(sorted, debts)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := statusRank(sorted[i].Status, pendingFirst), statusRank(sorted[j].Status, pendingFirst)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}

func statusRank(status models.DebtStatus, pendingFirst bool) int {
	if pendingFirst {
		if models.DebtStatus(strings.ToUpper(string(status))) == models.DebtStatusPending {
			return 0
		}
		return 1
	}
	if string(status) == "pending" {
		return 0
	}
	return 1
}

// DueInfo 到期状态
type DueInfo struct {
	DaysUntilDue *int `json:"daysUntilDue,omitempty"`
	Overdue      bool `json:"overdue"`
	DueSoon      bool `json:"dueSoon"`
}

// DueState 计算距到期日的天数（向上取整）以及是否逾期、是否即将到期
// 只有未结清且设置了到期日的记录才可能逾期或即将到期
func DueState(d models.Debt, now time.Time, window int) DueInfo {
	if d.DueDate == nil {
		return DueInfo{}
	}
	days := int(math.Ceil(d.DueDate.Sub(now).Hours() / 24))
	info := DueInfo{DaysUntilDue: &days}
	if d.IsPending() {
		info.Overdue = days < 0
		info.DueSoon = days >= 0 && days <= window
	}
	return info
}

// DebtView 带到期标记的借贷记录
type DebtView struct {
	models.Debt
	DueInfo
}

// AnnotateDebts 为每条记录附加到期标记，保持原有顺序
func AnnotateDebts(debts []models.Debt, now time.Time, window int) []DebtView {
	views := make([]DebtView, 0, len(debts))
	for _, d := range debts {
		views = append(views, DebtView{Debt: d, DueInfo: DueState(d, now, window)})
	}
	return views
}

// Reminders 筛选需要提醒的记录：未结清且已逾期或即将到期，按到期日升序
func Reminders(debts []models.Debt, now time.Time, window int) []DebtView {
	var out []DebtView
	for _, v := range AnnotateDebts(debts, now, window) {
		if v.Overdue || v.DueSoon {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return out
}
