package stats

import (
	"time"

	"github.com/jinzhu/now"
)

// StreakWindow 连续记账统计的天数窗口（含今天）
const StreakWindow = 7

// StreakResult 连续记账结果
type StreakResult struct {
	// Streak 从今天往前连续有记录的天数，今天没有记录则为 0
	Streak int `json:"streak"`
	// Days 最近 7 天是否有记录，下标 0 为最早的一天，最后一个元素为今天
	Days []bool `json:"streakDays"`
}

// Streak 根据记录日期计算最近 7 天的活跃情况和当前连续天数
func Streak(activity []time.Time, today time.Time) StreakResult {
	active := make(map[string]bool, len(activity))
	for _, t := range activity {
		active[dayKey(t)] = true
	}

	base := now.With(today.Local()).BeginningOfDay()
	days := make([]bool, StreakWindow)
	for i := range days {
		d := base.AddDate(0, 0, i-(StreakWindow-1))
		days[i] = active[dayKey(d)]
	}

	streak := 0
	for i := len(days) - 1; i >= 0 && days[i]; i-- {
		streak++
	}
	return StreakResult{Streak: streak, Days: days}
}

// ActivityDates 收集支出和收入的日期，储蓄不计入活跃
func ActivityDates[E Entry, I Entry](expenses []E, incomes []I) []time.Time {
	dates := make([]time.Time, 0, len(expenses)+len(incomes))
	for _, e := range expenses {
		dates = append(dates, e.EntryDate())
	}
	for _, i := range incomes {
		dates = append(dates, i.EntryDate())
	}
	return dates
}

func dayKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}
