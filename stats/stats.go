// Package stats 汇总计算：按月合计、结余、储蓄率、连续记账天数和借贷汇总。
// 所有函数都是纯函数，只处理调用方已经查询出来的记录。
package stats

import (
	"strconv"
	"time"

	"github.com/jinzhu/now"
)

// Entry 可参与汇总的记录
type Entry interface {
	EntryAmount() float64
	EntryDate() time.Time
}

// MonthRange 返回本地时间下某月的半开区间 [start, end)
func MonthRange(month, year int) (start, end time.Time) {
	start = now.With(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)).BeginningOfMonth()
	return start, start.AddDate(0, 1, 0)
}

// InMonth 判断时间点是否落在本地时间的 month/year 内
func InMonth(t time.Time, month, year int) bool {
	start, end := MonthRange(month, year)
	return !t.Before(start) && t.Before(end)
}

// MonthlyTotal 统计指定月份的金额合计，每条记录只计一次
func MonthlyTotal[T Entry](records []T, month, year int) float64 {
	start, end := MonthRange(month, year)
	var total float64
	for _, r := range records {
		d := r.EntryDate()
		if !d.Before(start) && d.Before(end) {
			total += r.EntryAmount()
		}
	}
	return total
}

// Total 不区分时间的金额合计
func Total[T Entry](records []T) float64 {
	var total float64
	for _, r := range records {
		total += r.EntryAmount()
	}
	return total
}

// TotalBalance 月结余 = 月收入 - 月支出
func TotalBalance[I Entry, E Entry](incomes []I, expenses []E, month, year int) float64 {
	return MonthlyTotal(incomes, month, year) - MonthlyTotal(expenses, month, year)
}

// SavingsRate 储蓄率（百分比，保留一位小数）
// 收入为 0 时约定返回 "0.0"
func SavingsRate(incomeTotal, expenseTotal float64) string {
	if incomeTotal <= 0 {
		return "0.0"
	}
	rate := (incomeTotal - expenseTotal) / incomeTotal * 100
	return strconv.FormatFloat(rate, 'f', 1, 64)
}

// MonthSummary 月度汇总
type MonthSummary struct {
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	Balance     float64 `json:"balance"`
	SavingsRate string  `json:"savingsRate"`
}

// Monthly 一次算出某月的收入、支出、结余和储蓄率
func Monthly[I Entry, E Entry](incomes []I, expenses []E, month, year int) MonthSummary {
	income := MonthlyTotal(incomes, month, year)
	expense := MonthlyTotal(expenses, month, year)
	return MonthSummary{
		Month:       month,
		Year:        year,
		Income:      income,
		Expenses:    expense,
		Balance:     income - expense,
		SavingsRate: SavingsRate(income, expense),
	}
}
