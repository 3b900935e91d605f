package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"katha/config"
	"katha/database"
	"katha/logger"
	"katha/middleware"
	"katha/router"
)

// @title Katha 记账 API
// @version 1.0
// @description 个人记账服务：收入、支出、储蓄、借贷（Katha）记录与月度统计
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "v1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
	tokenFor    string
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
	flag.StringVar(&tokenFor, "token", "", "为指定 subject 签发本地调试用的会话令牌后退出")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println("Katha " + version)
		return
	}

	// .env 不存在时忽略
	_ = godotenv.Load()

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置校验失败: %v", err)
	}

	if tokenFor != "" {
		token, err := middleware.NewSessions(cfg.JWT).Generate(middleware.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: tokenFor},
		}, 0)
		if err != nil {
			log.Fatalf("签发令牌失败: %v", err)
		}
		fmt.Println(token)
		return
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zl.Sync()

	for _, line := range cfg.Summary() {
		zl.Info("配置", zap.String("item", line))
	}

	// 初始化数据库
	db, err := database.Open(cfg.Database)
	if err != nil {
		zl.Fatal("数据库初始化失败", zap.Error(err))
	}

	// 设置路由
	r := router.SetupRouter(cfg, db, zl)

	zl.Info("Katha 已启动",
		zap.String("version", version),
		zap.String("api", fmt.Sprintf("http://localhost%s/api/", cfg.Server.Port)),
		zap.String("swagger", fmt.Sprintf("http://localhost%s/swagger/index.html", cfg.Server.Port)),
	)

	if err := r.Run(cfg.Server.Port); err != nil {
		zl.Fatal("服务器启动失败", zap.Error(err))
	}
}
