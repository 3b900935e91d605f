package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"katha/middleware"
	"katha/models"
	"katha/service"
)

// AuthHandler 身份同步处理器
type AuthHandler struct {
	*Deps
}

// NewAuthHandler 创建身份同步处理器
func NewAuthHandler(d *Deps) *AuthHandler {
	return &AuthHandler{Deps: d}
}

// SyncUser 同步后返回的用户信息
type SyncUser struct {
	ID            uint    `json:"id" example:"1"`
	Email         string  `json:"email" example:"asha@example.com"`
	FirstName     string  `json:"firstName" example:"Asha"`
	LastName      string  `json:"lastName" example:"Rao"`
	Avatar        string  `json:"avatar"`
	Currency      string  `json:"currency" example:"INR"`
	MonthlyIncome float64 `json:"monthlyIncome" example:"0"`
}

// SyncResponse 同步响应
type SyncResponse struct {
	Success bool     `json:"success"`
	User    SyncUser `json:"user"`
}

func newSyncUser(u *models.User) SyncUser {
	return SyncUser{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Avatar:        u.Avatar,
		Currency:      u.Currency,
		MonthlyIncome: u.MonthlyIncome,
	}
}

// Sync 同步当前登录用户
// @Summary 同步用户
// @Description 根据会话令牌查找或创建内部用户，并补齐默认类别。配置了身份服务时从身份服务拉取资料，否则使用令牌中的资料。
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SyncResponse "同步成功"
// @Failure 401 {object} ErrorResponse "未授权"
// @Failure 404 {object} ErrorResponse "用户创建失败"
// @Failure 429 {object} ErrorResponse "请求过于频繁"
// @Router /api/auth/sync [post]
func (h *AuthHandler) Sync(c *gin.Context) {
	claims := middleware.GetCurrentClaims(c)
	if claims == nil || claims.Subject == "" {
		Unauthorized(c)
		return
	}
	ctx := c.Request.Context()

	profile := service.Profile{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		FirstName:  claims.FirstName,
		LastName:   claims.LastName,
		Avatar:     claims.ImageURL,
	}
	if h.Identity.Enabled() {
		p, err := h.Identity.FetchProfile(ctx, claims.Subject)
		if err != nil {
			h.Log.Error("fetch identity profile", zap.String("subject", claims.Subject), zap.Error(err))
			InternalError(c, err)
			return
		}
		profile = *p
		profile.ExternalID = claims.Subject
	}

	user, err := h.Users.GetOrCreate(ctx, profile)
	if errors.Is(err, service.ErrUserNotFound) {
		NotFound(c, "User not found")
		return
	}
	if err != nil {
		InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, SyncResponse{Success: true, User: newSyncUser(user)})
}
