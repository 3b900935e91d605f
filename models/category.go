package models

import "time"

// CategoryType 类别类型
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "EXPENSE"
	CategoryTypeIncome  CategoryType = "INCOME"
)

// Valid 是否为合法的类别类型
func (t CategoryType) Valid() bool {
	return t == CategoryTypeExpense || t == CategoryTypeIncome
}

// Category 收支类别，UserID 为空表示全局默认类别
type Category struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"size:100;not null;uniqueIndex:idx_category_owner_name_type,priority:2"`
	Icon      string       `json:"icon" gorm:"size:32"`
	Color     string       `json:"color" gorm:"size:20"`
	Type      CategoryType `json:"type" gorm:"size:16;not null;uniqueIndex:idx_category_owner_name_type,priority:3"`
	IsDefault bool         `json:"isDefault" gorm:"default:false"`
	UserID    *uint        `json:"userId" gorm:"uniqueIndex:idx_category_owner_name_type,priority:1"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}

// DefaultCategory 默认类别模板
type DefaultCategory struct {
	Name string
	Icon string
	Type CategoryType
}

// DefaultCategories 每个用户首次同步时初始化的类别（8 个支出类别 + 4 个收入类别）
func DefaultCategories() []DefaultCategory {
	return []DefaultCategory{
		{"Food & Dining", "🍽️", CategoryTypeExpense},
		{"Transportation", "🚗", CategoryTypeExpense},
		{"Shopping", "🛍️", CategoryTypeExpense},
		{"Bills & Utilities", "💡", CategoryTypeExpense},
		{"Entertainment", "🎬", CategoryTypeExpense},
		{"Healthcare", "🏥", CategoryTypeExpense},
		{"Education", "📚", CategoryTypeExpense},
		{"Other", "📦", CategoryTypeExpense},
		{"Salary", "💰", CategoryTypeIncome},
		{"Freelance", "💼", CategoryTypeIncome},
		{"Investment", "📈", CategoryTypeIncome},
		{"Other Income", "💵", CategoryTypeIncome},
	}
}
