package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"katha/api"
	"katha/config"
	_ "katha/docs"
	"katha/middleware"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())

	// CORS 中间件
	r.Use(CORSMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	deps := api.NewDeps(db, cfg, log)
	sessions := middleware.NewSessions(cfg.JWT)

	// 身份同步先按 IP 限流再校验令牌
	authHandler := api.NewAuthHandler(deps)
	r.POST("/api/auth/sync",
		middleware.RateLimit(cfg.RateLimit.SyncMaxAttempts, cfg.RateLimit.SyncWindow),
		sessions.Auth(),
		authHandler.Sync)

	// 以下路由都需要会话令牌
	authorized := r.Group("/api")
	authorized.Use(sessions.Auth())
	{
		categoryHandler := api.NewCategoryHandler(deps)
		authorized.GET("/categories", categoryHandler.List)
		authorized.POST("/categories", categoryHandler.Create)

		expenseHandler := api.NewExpenseHandler(deps)
		authorized.GET("/expenses", expenseHandler.List)
		authorized.POST("/expenses", expenseHandler.Create)

		incomeHandler := api.NewIncomeHandler(deps)
		authorized.GET("/incomes", incomeHandler.List)
		authorized.POST("/incomes", incomeHandler.Create)

		savingsHandler := api.NewSavingsHandler(deps)
		authorized.GET("/savings", savingsHandler.List)
		authorized.POST("/savings", savingsHandler.Create)

		// 借贷（Katha）
		debtHandler := api.NewDebtHandler(deps)
		debts := authorized.Group("/debts")
		{
			debts.GET("", debtHandler.List)
			debts.POST("", debtHandler.Create)
			debts.GET("/summary", debtHandler.Summary)
			debts.POST("/reminders", debtHandler.SendReminders)
			debts.PATCH("/:id", debtHandler.Update)
			debts.DELETE("/:id", debtHandler.Delete)
		}

		dashboardHandler := api.NewDashboardHandler(deps)
		authorized.GET("/dashboard", dashboardHandler.Get)

		// 导出相关
		exportHandler := api.NewExportHandler(deps)
		export := authorized.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/excel", exportHandler.ExportExcel)
		}
	}

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
