package logger

import (
	"fmt"

	"katha/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 根据配置创建 zap 日志器
// env 为 prod 时使用 JSON 输出，其余情况使用开发模式
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	switch cfg.Env {
	case "prod", "production":
		zc = zap.NewProductionConfig()
	default:
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}

	return zc.Build()
}
