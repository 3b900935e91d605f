package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigYAML 内置默认配置
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Identity  IdentityConfig  `mapstructure:"identity"`
	Log       LogConfig       `mapstructure:"log"`
	Email     EmailConfig     `mapstructure:"email"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Katha     KathaConfig     `mapstructure:"katha"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 数据库配置
// driver 为 mysql 时使用 host/port 等连接参数，为 sqlite 时使用 path
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Charset      string `mapstructure:"charset"`
	Path         string `mapstructure:"path"`
	LogLevel     string `mapstructure:"log_level"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// JWTConfig 会话令牌配置
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// IdentityConfig 身份服务配置，api_url 为空时直接使用令牌中的资料
type IdentityConfig struct {
	APIURL         string        `mapstructure:"api_url"`
	SecretKey      string        `mapstructure:"secret_key"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	Timeout        time.Duration `mapstructure:"-"`
}

// LogConfig 日志配置
type LogConfig struct {
	Env   string `mapstructure:"env"`
	Level string `mapstructure:"level"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	SyncMaxAttempts   int           `mapstructure:"sync_max_attempts"`
	SyncWindowSeconds int           `mapstructure:"sync_window_seconds"`
	SyncWindow        time.Duration `mapstructure:"-"`
}

// KathaConfig 借贷记账相关配置
type KathaConfig struct {
	// PendingFirst 借贷列表是否把未结清记录排在前面
	PendingFirst       bool `mapstructure:"pending_first"`
	ReminderWindowDays int  `mapstructure:"reminder_window_days"`
}

// DefaultJWTSecret default.yaml 中的占位密钥
const DefaultJWTSecret = "change-me-in-production"

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("警告: 无法读取指定配置文件 %s: %v", configPath, err)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/katha")
		externalViper.AddConfigPath("$HOME/.katha")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("警告: 合并外部配置失败: %v", err)
			}
		}
	}

	// 3. 环境变量覆盖，例如 KATHA_DATABASE_DRIVER=sqlite
	v.SetEnvPrefix("KATHA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	applyDefaults(&cfg)

	GlobalConfig = &cfg

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	if cfg.Identity.TimeoutSeconds <= 0 {
		cfg.Identity.TimeoutSeconds = 10
	}
	cfg.Identity.Timeout = time.Duration(cfg.Identity.TimeoutSeconds) * time.Second

	if cfg.RateLimit.SyncMaxAttempts <= 0 {
		cfg.RateLimit.SyncMaxAttempts = 30
	}
	if cfg.RateLimit.SyncWindowSeconds <= 0 {
		cfg.RateLimit.SyncWindowSeconds = 60
	}
	cfg.RateLimit.SyncWindow = time.Duration(cfg.RateLimit.SyncWindowSeconds) * time.Second

	if cfg.Katha.ReminderWindowDays <= 0 {
		cfg.Katha.ReminderWindowDays = 3
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
}

// Validate 启动前检查配置，release 模式不允许使用内置的默认密钥
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("未配置 jwt.secret")
	}
	if c.IsRelease() && c.JWT.Secret == DefaultJWTSecret {
		return fmt.Errorf("release 模式必须修改 jwt.secret，不能使用默认值")
	}
	return nil
}

// IsRelease 是否为生产模式
func (c *Config) IsRelease() bool {
	return c != nil && c.Server.Mode == "release"
}

// SafeErrorMessage 生产环境下返回 fallback，开发环境返回原始错误便于排查
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig.IsRelease() {
		return fallback
	}
	return err.Error()
}

// Summary 返回当前配置的摘要（隐藏敏感信息）
func (c *Config) Summary() []string {
	db := fmt.Sprintf("%s %s@%s:%s/%s", c.Database.Driver, c.Database.Username, c.Database.Host, c.Database.Port, c.Database.DBName)
	if c.Database.Driver == "sqlite" {
		db = "sqlite " + c.Database.Path
	}
	identity := "token claims"
	if c.Identity.APIURL != "" {
		identity = c.Identity.APIURL
	}
	return []string{
		fmt.Sprintf("server=%s mode=%s", c.Server.Port, c.Server.Mode),
		"database=" + db,
		"identity=" + identity,
		fmt.Sprintf("email=%v", c.Email.Enabled),
		fmt.Sprintf("pending_first=%v", c.Katha.PendingFirst),
	}
}
