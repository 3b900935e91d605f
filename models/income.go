package models

import (
	"time"
)

// Income 收入记录，Source 对应请求中的 merchant 字段
type Income struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"index;not null"`
	CategoryID  uint      `json:"categoryId" gorm:"index;not null"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Amount      float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description *string   `json:"description" gorm:"size:255"`
	Source      *string   `json:"source" gorm:"size:255"`
	Date        time.Time `json:"date" gorm:"index;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Income) TableName() string {
	return "incomes"
}

func (i Income) EntryAmount() float64 { return i.Amount }
func (i Income) EntryDate() time.Time { return i.Date }
