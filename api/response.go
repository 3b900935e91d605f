package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"katha/config"
)

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Error   string `json:"error" example:"Unauthorized"`
	Details string `json:"details,omitempty"`
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500 错误响应，生产环境不返回 details
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal server error",
		Details: config.SafeErrorMessage(err, ""),
	})
}
