package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"katha/config"
	"katha/middleware"
	"katha/models"
	"katha/service"
)

// Deps 处理器依赖，由 router 统一注入
type Deps struct {
	DB         *gorm.DB
	Config     *config.Config
	Log        *zap.Logger
	Users      *service.UserService
	Categories *service.CategoryService
	Identity   *service.IdentityClient
	Mail       *service.EmailService
	// Now 当前时间，测试中可替换
	Now func() time.Time
}

// NewDeps 按配置组装服务
func NewDeps(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Deps {
	if log == nil {
		log = zap.NewNop()
	}
	categories := service.NewCategoryService(db)
	return &Deps{
		DB:         db,
		Config:     cfg,
		Log:        log,
		Users:      service.NewUserService(db, categories, log),
		Categories: categories,
		Identity:   service.NewIdentityClient(cfg.Identity),
		Mail:       service.NewEmailService(&cfg.Email),
		Now:        time.Now,
	}
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// currentUser 根据会话解析内部用户，失败时已写入响应
func (d *Deps) currentUser(c *gin.Context) (*models.User, bool) {
	subject := middleware.GetCurrentSubject(c)
	if subject == "" {
		Unauthorized(c)
		return nil, false
	}
	user, err := d.Users.FindByExternalID(c.Request.Context(), subject)
	if errors.Is(err, service.ErrUserNotFound) {
		NotFound(c, "User not found")
		return nil, false
	}
	if err != nil {
		InternalError(c, err)
		return nil, false
	}
	return user, true
}
