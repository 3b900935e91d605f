package stats

import (
	"sort"
	"time"

	"github.com/jinzhu/now"

	"katha/models"
)

// CategoryTotal 单个类别的支出合计
type CategoryTotal struct {
	Name       string  `json:"name"`
	Icon       string  `json:"icon,omitempty"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// ByCategory 按类别汇总支出，金额倒序，金额相同按名称排序
// 未预加载类别的记录归入 "Other"
func ByCategory(expenses []models.Expense) []CategoryTotal {
	idx := make(map[string]int)
	out := []CategoryTotal{}
	var total float64
	for _, e := range expenses {
		name, icon := "Other", ""
		if e.Category != nil {
			name, icon = e.Category.Name, e.Category.Icon
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, CategoryTotal{Name: name, Icon: icon})
		}
		out[i].Amount += e.Amount
		total += e.Amount
	}
	if total > 0 {
		for i := range out {
			out[i].Percentage = out[i].Amount / total * 100
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TrendPoint 趋势图中的一个月
type TrendPoint struct {
	Label    string  `json:"label"`
	Month    int     `json:"month"`
	Year     int     `json:"year"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// Trend 最近 months 个月（含当月）的收支，最早的月份在前
func Trend(incomes []models.Income, expenses []models.Expense, months int, today time.Time) []TrendPoint {
	if months <= 0 {
		return []TrendPoint{}
	}
	first := now.With(today.Local()).BeginningOfMonth()
	points := make([]TrendPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		month, year := int(m.Month()), m.Year()
		points = append(points, TrendPoint{
			Label:    m.Format("Jan"),
			Month:    month,
			Year:     year,
			Income:   MonthlyTotal(incomes, month, year),
			Expenses: MonthlyTotal(expenses, month, year),
		})
	}
	return points
}

// Recent 最近的 n 条支出，日期倒序
func Recent(expenses []models.Expense, n int) []models.Expense {
	sorted := make([]models.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
