package models

import "time"

// DebtType 借贷方向
type DebtType string

const (
	// DebtTypeLent 借出：对方欠我
	DebtTypeLent DebtType = "LENT"
	// DebtTypeBorrowed 借入：我欠对方
	DebtTypeBorrowed DebtType = "BORROWED"
)

func (t DebtType) Valid() bool {
	return t == DebtTypeLent || t == DebtTypeBorrowed
}

// DebtStatus 借贷状态
type DebtStatus string

const (
	DebtStatusPending DebtStatus = "PENDING"
	DebtStatusSettled DebtStatus = "SETTLED"
)

func (s DebtStatus) Valid() bool {
	return s == DebtStatusPending || s == DebtStatusSettled
}

// Debt 借贷记录（Katha）
type Debt struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"userId" gorm:"index;not null"`
	Type        DebtType   `json:"type" gorm:"size:16;not null;index"`
	Person      string     `json:"person" gorm:"size:100;not null"`
	Amount      float64    `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description *string    `json:"description" gorm:"size:255"`
	Category    *string    `json:"category" gorm:"size:50"`
	Date        time.Time  `json:"date" gorm:"not null"`
	DueDate     *time.Time `json:"dueDate"`
	Status      DebtStatus `json:"status" gorm:"size:16;not null;default:PENDING;index"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Debt) TableName() string {
	return "debts"
}

func (d Debt) EntryAmount() float64 { return d.Amount }
func (d Debt) EntryDate() time.Time { return d.Date }

// IsPending 是否未结清
func (d Debt) IsPending() bool {
	return d.Status == DebtStatusPending
}
