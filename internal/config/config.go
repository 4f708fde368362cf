package config

import (
	"fmt"
	"strings"
	"time"

	"critique/pkg/config"
)

type AppConfig struct {
	// 验证链接的前缀，例如 https://api.critique.dev
	ServerURL   string `yaml:"server_url"`
	FrontendURL string `yaml:"frontend_url"`
	LogLevel    string `yaml:"log_level"`
	// production 下 cookie 带 Secure
	Production bool `yaml:"production"`
}

type WorkerConfig struct {
	Backoff       time.Duration `yaml:"backoff"`
	PopTimeout    time.Duration `yaml:"pop_timeout"`
	DepthInterval time.Duration `yaml:"depth_interval"`
	HealthPort    string        `yaml:"health_port"`
}

type Config struct {
	App     AppConfig            `yaml:"app"`
	DB      config.DBConfig      `yaml:"db"`
	Redis   config.RedisConfig   `yaml:"redis"`
	JWT     config.JWTConfig     `yaml:"jwt"`
	Server  config.ServerConfig  `yaml:"server"`
	Email   config.EmailConfig   `yaml:"email"`
	Storage config.StorageConfig `yaml:"storage"`
	Worker  WorkerConfig         `yaml:"worker"`
}

// Load reads config/<env>.yaml over config/base.yaml, then applies env overrides.
func Load() (*Config, error) {
	// 使用统一配置中心
	env := config.GetConfigEnv()
	configDir := config.GetEnv("CONFIG_DIR", "config")

	var cfg Config
	if err := config.Decode(env, configDir, &cfg); err != nil {
		return nil, err
	}

	// 环境变量覆盖（优先级最高）
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideJWTFromEnv(&cfg.JWT)
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideEmailFromEnv(&cfg.Email)
	config.OverrideStorageFromEnv(&cfg.Storage)
	cfg.App.ServerURL = config.GetEnv("SERVER_URL", cfg.App.ServerURL)
	cfg.App.FrontendURL = config.GetEnv("FRONTEND_URL", cfg.App.FrontendURL)
	cfg.App.LogLevel = config.GetEnv("LOG_LEVEL", cfg.App.LogLevel)
	if env == "production" {
		cfg.App.Production = true
	}

	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.App.ServerURL == "" {
		cfg.App.ServerURL = "http://localhost" + cfg.Server.Port
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Worker.Backoff <= 0 {
		cfg.Worker.Backoff = 5 * time.Second
	}
	if cfg.Worker.PopTimeout <= 0 {
		cfg.Worker.PopTimeout = 5 * time.Second
	}
	if cfg.Worker.DepthInterval <= 0 {
		cfg.Worker.DepthInterval = 15 * time.Second
	}
	if cfg.Worker.HealthPort == "" {
		cfg.Worker.HealthPort = ":9090"
	}
	if cfg.Email.Provider == "" {
		cfg.Email.Provider = "resend"
	}
}

func (c *Config) validate() error {
	var missing []string
	if c.JWT.Secret == "" {
		missing = append(missing, "jwt.secret")
	}
	if c.Email.From == "" {
		missing = append(missing, "email.from")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}
