package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"katha/middleware"
	"katha/models"
	"katha/service"
)

// CategoryHandler 类别处理器
type CategoryHandler struct {
	*Deps
}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler(d *Deps) *CategoryHandler {
	return &CategoryHandler{Deps: d}
}

// CreateCategoryRequest 创建类别请求
type CreateCategoryRequest struct {
	Name  string `json:"name" example:"Coffee"`
	Icon  string `json:"icon" example:"☕"`
	Color string `json:"color" example:"#8B4513"`
	Type  string `json:"type" example:"EXPENSE"`
}

// List 获取类别列表
// @Summary 获取类别列表
// @Description 返回当前用户的类别和全局默认类别，默认类别在前，同组内按名称排序
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param type query string false "EXPENSE 或 INCOME"
// @Success 200 {object} map[string][]models.Category "categories"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	typ := models.CategoryType(strings.ToUpper(strings.TrimSpace(c.Query("type"))))
	if typ != "" && !typ.Valid() {
		BadRequest(c, "Invalid category type")
		return
	}

	cats, err := h.Categories.List(c.Request.Context(), user.ID, typ)
	if err != nil {
		InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// Create 创建类别
// @Summary 创建类别
// @Description 同一用户下 (名称, 类型) 唯一。新建返回 201，已存在返回 200 和已有记录。
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "类别信息"
// @Success 201 {object} map[string]models.Category "category"
// @Success 200 {object} map[string]models.Category "已存在"
// @Failure 400 {object} ErrorResponse "Name and type are required"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Name and type are required")
		return
	}
	name := strings.TrimSpace(req.Name)
	typ := models.CategoryType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if name == "" || !typ.Valid() {
		BadRequest(c, "Name and type are required")
		return
	}

	cat, created, err := h.Categories.FindOrCreate(c.Request.Context(), &user.ID, service.CategoryInput{
		Name:  name,
		Icon:  req.Icon,
		Color: req.Color,
		Type:  typ,
	})
	if err != nil {
		InternalError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		middleware.RecordsCreated.WithLabelValues("category").Inc()
	}
	c.JSON(status, gin.H{"category": cat})
}
