package models

import "time"

// Savings 储蓄记录，不区分类别
type Savings struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"index;not null"`
	Amount      float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description *string   `json:"description" gorm:"size:255"`
	Date        time.Time `json:"date" gorm:"index;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Savings) TableName() string {
	return "savings"
}

func (s Savings) EntryAmount() float64 { return s.Amount }
func (s Savings) EntryDate() time.Time { return s.Date }
