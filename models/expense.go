package models

import (
	"time"
)

// Expense 支出记录
type Expense struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"index;not null"`
	CategoryID  uint      `json:"categoryId" gorm:"index;not null"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Amount      float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description *string   `json:"description" gorm:"size:255"`
	Merchant    *string   `json:"merchant" gorm:"size:255"`
	Location    *string   `json:"location" gorm:"size:255"`
	Date        time.Time `json:"date" gorm:"index;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

func (e Expense) EntryAmount() float64 { return e.Amount }
func (e Expense) EntryDate() time.Time { return e.Date }

// CategoryName 类别名称，未预加载类别时返回空字符串
func (e Expense) CategoryName() string {
	if e.Category == nil {
		return ""
	}
	return e.Category.Name
}
