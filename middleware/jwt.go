package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"katha/config"
)

const (
	ctxSubjectKey = "subject"
	ctxClaimsKey  = "claims"
)

// Claims 会话令牌负载，Subject 为身份服务的用户标识
type Claims struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	jwt.RegisteredClaims
}

// Sessions 会话令牌的签发与校验，由 router 按配置创建后注入
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

// NewSessions 创建会话令牌服务，ttl 取 jwt.expire_hours
func NewSessions(cfg config.JWTConfig) *Sessions {
	ttl := cfg.ExpireTime
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{secret: []byte(cfg.Secret), ttl: ttl}
}

// Generate 签发会话令牌，ttl 不大于 0 时使用配置的有效期
func (s *Sessions) Generate(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse 解析并校验令牌，只接受 HS256
func (s *Sessions) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// Auth 会话校验中间件，失败统一返回 401 {"error":"Unauthorized"}
func (s *Sessions) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := s.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ctxSubjectKey, claims.Subject)
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// GetCurrentSubject 当前会话的身份标识，未登录返回空字符串
func GetCurrentSubject(c *gin.Context) string {
	return c.GetString(ctxSubjectKey)
}

// GetCurrentClaims 当前会话的令牌负载
func GetCurrentClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(ctxClaimsKey); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}
