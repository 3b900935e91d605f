package models

import "time"

// DefaultCurrency 新用户默认币种
const DefaultCurrency = "INR"

// User 用户模型，ExternalID 为身份服务签发的 subject
type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ExternalID    string    `json:"-" gorm:"size:191;uniqueIndex;not null"`
	Email         string    `json:"email" gorm:"size:255"`
	FirstName     string    `json:"firstName" gorm:"size:100"`
	LastName      string    `json:"lastName" gorm:"size:100"`
	Avatar        string    `json:"avatar" gorm:"size:512"`
	Currency      string    `json:"currency" gorm:"size:8;default:INR"`
	MonthlyIncome float64   `json:"monthlyIncome" gorm:"type:decimal(12,2);default:0"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
