package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"katha/stats"
)

// Amount 金额，兼容 JSON 数字和数字字符串
type Amount float64

// UnmarshalJSON 实现 json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	v, err := parseNumber(data)
	if err != nil {
		return errors.Wrap(err, "invalid amount")
	}
	*a = Amount(v)
	return nil
}

// ID 记录 ID，兼容 JSON 数字和数字字符串
type ID uint

// UnmarshalJSON 实现 json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	v, err := parseNumber(data)
	if err != nil || v < 0 || v != float64(uint(v)) {
		return errors.New("invalid id")
	}
	*id = ID(v)
	return nil
}

// parseNumber 解析数字或数字字符串，拒绝 NaN 和 Inf
func parseNumber(data []byte) (float64, error) {
	v, err := parseRawNumber(data)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("non-finite number %s", data)
	}
	return v, nil
}

func parseRawNumber(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return 0, nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	}
	return strconv.ParseFloat(string(data), 64)
}

// dateLayouts 依次尝试的日期格式，不带时区的按本地时间解析
var dateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// parseDate 解析请求中的日期
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("invalid date %q", s)
}

// dateOrNow 空字符串返回当前时间
func dateOrNow(s string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return now, nil
	}
	return parseDate(s)
}

// optional 空字符串存为 NULL
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// monthFilter 同时给出合法的 month 和 year 时返回对应区间
func monthFilter(c *gin.Context) (start, end time.Time, ok bool) {
	month, errM := strconv.Atoi(c.Query("month"))
	year, errY := strconv.Atoi(c.Query("year"))
	if errM != nil || errY != nil || month < 1 || month > 12 || year < 1 {
		return time.Time{}, time.Time{}, false
	}
	start, end = stats.MonthRange(month, year)
	return start, end, true
}

// monthOrCurrent 解析 month/year，缺省为当前月份
func monthOrCurrent(c *gin.Context, now time.Time) (month, year int) {
	month, year = int(now.Month()), now.Year()
	if m, err := strconv.Atoi(c.Query("month")); err == nil && m >= 1 && m <= 12 {
		month = m
	}
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y > 0 {
		year = y
	}
	return month, year
}
