package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/postdesk/internal/logger"
	"github.com/postdesk/internal/models"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server       ServerConfig            `mapstructure:"server"`
	Log          LogConfig               `mapstructure:"log"`
	ContentStore ContentStoreConfig      `mapstructure:"content_store"`
	Categories   []models.CategoryOption `mapstructure:"categories"`
	Redis        RedisConfig             `mapstructure:"redis"`
	Dashboard    DashboardConfig         `mapstructure:"dashboard"`
	Upload       UploadConfig            `mapstructure:"upload"`
	Export       ExportConfig            `mapstructure:"export"`
	CORS         CORSConfig              `mapstructure:"cors"`
	Security     SecurityConfig          `mapstructure:"security"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir              string   `mapstructure:"dir"`
	Filename         string   `mapstructure:"filename"`
	MaxSizeMB        int      `mapstructure:"max_size_mb"`
	MaxBackups       int      `mapstructure:"max_backups"`
	MaxAgeDays       int      `mapstructure:"max_age_days"`
	Compress         bool     `mapstructure:"compress"`
	Level            string   `mapstructure:"level"`
	Console          bool     `mapstructure:"console"`
	SuppressPatterns []string `mapstructure:"suppress_patterns"` // 仪表盘组件内屏蔽的日志片段
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Level:      c.Level,
		Console:    c.Console,
		Service:    "postdesk",
	}
}

// 内容平台驱动
const (
	ContentStoreDriverRemote = "remote"
	ContentStoreDriverMemory = "memory"
)

// ContentStoreConfig 远端内容平台配置
type ContentStoreConfig struct {
	Driver           string `mapstructure:"driver"` // remote / memory
	ProjectID        string `mapstructure:"project_id"`
	Dataset          string `mapstructure:"dataset"`
	WriteToken       string `mapstructure:"write_token"`
	APIVersion       string `mapstructure:"api_version"`
	APIHost          string `mapstructure:"api_host"` // 为空时使用 https://{project_id}.api.sanity.io
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
	MaxPatchAttempts int    `mapstructure:"max_patch_attempts"`
}

// Timeout 单次请求超时
func (c ContentStoreConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// DashboardConfig 仪表盘会话配置
type DashboardConfig struct {
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes"`
}

// SessionTTL 会话过期时间
func (c DashboardConfig) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// UploadConfig 文件上传配置
type UploadConfig struct {
	MaxSize           int64    `mapstructure:"max_size"`
	AllowedTypes      []string `mapstructure:"allowed_types"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	MaxWidth          int      `mapstructure:"max_width"`
	MaxHeight         int      `mapstructure:"max_height"`
}

// ExportConfig 导出配置
type ExportConfig struct {
	FilenamePrefix string `mapstructure:"filename_prefix"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig 导入/上传接口限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// DefaultCategories 默认分类词表
func DefaultCategories() []models.CategoryOption {
	return []models.CategoryOption{
		{Value: "controllers", Label: "Controllers"},
		{Value: "games", Label: "Games"},
		{Value: "swedish", Label: "Swedish"},
		{Value: "cinematic", Label: "Cinematic"},
		{Value: "music", Label: "Music"},
		{Value: "misc", Label: "Misc"},
	}
}

// Load 从 config.yml 加载配置
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")     // 从当前目录查找
	v.AddConfigPath("../")   // 如果从 cmd/server 运行
	v.AddConfigPath("./etc") // etc 文件夹

	cfg, err := loadFrom(v)
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

func loadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// 环境变量支持
	v.AutomaticEnv()                                   // 自动读取环境变量
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 server.port -> SERVER_PORT)
	bindContentStoreEnv(v)

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories()
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.level", "")
	v.SetDefault("log.console", false)
	v.SetDefault("log.suppress_patterns", []string{})
	v.SetDefault("content_store.driver", ContentStoreDriverRemote)
	v.SetDefault("content_store.project_id", "")
	v.SetDefault("content_store.dataset", "")
	v.SetDefault("content_store.write_token", "")
	v.SetDefault("content_store.api_version", "v2024-12-01")
	v.SetDefault("content_store.api_host", "")
	v.SetDefault("content_store.timeout_seconds", 15)
	v.SetDefault("content_store.max_patch_attempts", 3)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "pd")
	v.SetDefault("dashboard.session_ttl_minutes", 720)
	v.SetDefault("upload.max_size", 10485760)
	v.SetDefault("upload.allowed_types", []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	})
	v.SetDefault("upload.allowed_extensions", []string{
		".jpg",
		".jpeg",
		".png",
		".gif",
		".webp",
	})
	v.SetDefault("upload.max_width", 4096)
	v.SetDefault("upload.max_height", 4096)
	v.SetDefault("export.filename_prefix", "content")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
		"X-Dashboard-Session",
	})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.rate_limit.window_seconds", 60)
	v.SetDefault("security.rate_limit.max_requests", 30)
}

// bindContentStoreEnv 兼容历史部署使用的环境变量名
func bindContentStoreEnv(v *viper.Viper) {
	_ = v.BindEnv("content_store.project_id", "CONTENT_STORE_PROJECT_ID", "SANITY_PROJECT_ID", "NEXT_PUBLIC_SANITY_PROJECT_ID")
	_ = v.BindEnv("content_store.dataset", "CONTENT_STORE_DATASET", "SANITY_DATASET", "NEXT_PUBLIC_SANITY_DATASET")
	_ = v.BindEnv("content_store.write_token", "CONTENT_STORE_WRITE_TOKEN", "SANITY_API_WRITE_TOKEN")
}
