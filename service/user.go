package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"katha/models"
)

// Profile 身份服务返回的用户资料
type Profile struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	Avatar     string
}

// UserService 身份桥接：外部身份 -> 内部用户
type UserService struct {
	db         *gorm.DB
	categories *CategoryService
	log        *zap.Logger
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB, categories *CategoryService, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{db: db, categories: categories, log: log}
}

// FindByExternalID 按外部身份标识查找用户，不存在返回 ErrUserNotFound
func (s *UserService) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

// GetOrCreate 查找或创建内部用户，并确保默认类别存在
// 已存在的用户不会用新资料覆盖
func (s *UserService) GetOrCreate(ctx context.Context, p Profile) (*models.User, error) {
	if p.ExternalID == "" {
		return nil, ErrMissingSubject
	}

	user, err := s.FindByExternalID(ctx, p.ExternalID)
	switch {
	case err == nil:
	case errors.Is(err, ErrUserNotFound):
		candidate := models.User{
			ExternalID: p.ExternalID,
			Email:      p.Email,
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			Avatar:     p.Avatar,
			Currency:   models.DefaultCurrency,
		}
		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&candidate)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "create user")
		}
		if res.RowsAffected > 0 {
			s.log.Info("user created", zap.String("external_id", p.ExternalID))
		}
		if user, err = s.FindByExternalID(ctx, p.ExternalID); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.categories.EnsureDefaults(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}
