package service

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"katha/models"
)

// CategoryInput 创建类别参数
type CategoryInput struct {
	Name      string
	Icon      string
	Color     string
	Type      models.CategoryType
	IsDefault bool
}

// CategoryService 类别解析
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService 创建类别服务
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// FindOrCreate 按 (用户, 名称, 类型) 查找或创建类别
// 用户类别先 INSERT ... ON CONFLICT DO NOTHING，再按唯一键读取，并发调用返回同一行。
// 全局类别 (userID 为 nil) 的 user_id 为 NULL，唯一索引不生效，先查再插。
// created 表示本次调用插入了新行。
func (s *CategoryService) FindOrCreate(ctx context.Context, userID *uint, in CategoryInput) (*models.Category, bool, error) {
	candidate := models.Category{
		Name:      in.Name,
		Icon:      in.Icon,
		Color:     in.Color,
		Type:      in.Type,
		IsDefault: in.IsDefault,
		UserID:    userID,
	}

	if userID == nil {
		cat, err := s.find(ctx, nil, in)
		if err == nil {
			return cat, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, errors.Wrapf(err, "load category %q", in.Name)
		}
		if err := s.db.WithContext(ctx).Create(&candidate).Error; err != nil {
			return nil, false, errors.Wrapf(err, "insert category %q", in.Name)
		}
		return &candidate, true, nil
	}

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&candidate)
	if res.Error != nil {
		return nil, false, errors.Wrapf(res.Error, "insert category %q", in.Name)
	}

	cat, err := s.find(ctx, userID, in)
	if err != nil {
		return nil, false, errors.Wrapf(err, "load category %q", in.Name)
	}
	return cat, res.RowsAffected > 0, nil
}

// find 按唯一键读取类别
func (s *CategoryService) find(ctx context.Context, userID *uint, in CategoryInput) (*models.Category, error) {
	var cat models.Category
	q := s.db.WithContext(ctx).Where("name = ? AND type = ?", in.Name, in.Type)
	if userID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// EnsureDefaults 为用户补齐默认类别，逐个解析，已存在的不会重复创建
func (s *CategoryService) EnsureDefaults(ctx context.Context, userID uint) error {
	for _, d := range models.DefaultCategories() {
		_, _, err := s.FindOrCreate(ctx, &userID, CategoryInput{
			Name:      d.Name,
			Icon:      d.Icon,
			Type:      d.Type,
			IsDefault: true,
		})
		if err != nil {
			return errors.Wrap(err, "ensure default categories")
		}
	}
	return nil
}

// List 用户自己的类别加上全局默认类别，可按类型过滤
func (s *CategoryService) List(ctx context.Context, userID uint, typ models.CategoryType) ([]models.Category, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ? OR (is_default = ? AND user_id IS NULL)", userID, true)
	if typ != "" {
		q = q.Where("type = ?", typ)
	}

	cats := []models.Category{}
	if err := q.Order("is_default DESC, name ASC").Find(&cats).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return cats, nil
}

// Owned 判断类别是否可被用户使用（自己的或全局默认）
func (s *CategoryService) Owned(ctx context.Context, userID, categoryID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ? AND (user_id = ? OR user_id IS NULL)", categoryID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "check category owner")
	}
	return count > 0, nil
}
