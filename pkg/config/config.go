package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DBConfig 数据库配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN 返回 postgres 连接串
func (c DBConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		sslMode,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 启动时连接失败后的重试间隔
	ConnectRetry time.Duration `yaml:"connect_retry"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string `yaml:"port"`
}

// EmailConfig 邮件服务商配置
type EmailConfig struct {
	// resend | mailgun | log
	Provider           string        `yaml:"provider"`
	From               string        `yaml:"from"`
	ResendAPIKey       string        `yaml:"resend_api_key"`
	MailgunDomain      string        `yaml:"mailgun_domain"`
	MailgunAPIKey      string        `yaml:"mailgun_api_key"`
	RateLimitPerSecond float64       `yaml:"rate_limit_per_second"`
	SendTimeout        time.Duration `yaml:"send_timeout"`
}

// StorageConfig S3 对象存储配置
type StorageConfig struct {
	Region        string        `yaml:"region"`
	Bucket        string        `yaml:"bucket"`
	Endpoint      string        `yaml:"endpoint"`
	AccessKey     string        `yaml:"access_key"`
	SecretKey     string        `yaml:"secret_key"`
	PresignExpiry time.Duration `yaml:"presign_expiry"`
}

// OverrideDBFromEnv 从环境变量覆盖数据库配置
func OverrideDBFromEnv(cfg *DBConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
	if sslMode := os.Getenv("DB_SSLMODE"); sslMode != "" {
		cfg.SSLMode = sslMode
	}
}

// OverrideRedisFromEnv 从环境变量覆盖Redis配置
func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if d, err := strconv.Atoi(db); err == nil {
			cfg.DB = d
		}
	}
}

// OverrideJWTFromEnv 从环境变量覆盖JWT配置
func OverrideJWTFromEnv(cfg *JWTConfig) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Secret = secret
	}
}

// OverrideServerFromEnv 从环境变量覆盖服务器配置
func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
}

// OverrideEmailFromEnv 从环境变量覆盖邮件配置
func OverrideEmailFromEnv(cfg *EmailConfig) {
	if provider := os.Getenv("EMAIL_PROVIDER"); provider != "" {
		cfg.Provider = provider
	}
	if from := os.Getenv("EMAIL_FROM"); from != "" {
		cfg.From = from
	}
	if key := os.Getenv("RESEND_API_KEY"); key != "" {
		cfg.ResendAPIKey = key
	}
	if domain := os.Getenv("MAILGUN_DOMAIN"); domain != "" {
		cfg.MailgunDomain = domain
	}
	if key := os.Getenv("MAILGUN_API_KEY"); key != "" {
		cfg.MailgunAPIKey = key
	}
}

// OverrideStorageFromEnv 从环境变量覆盖对象存储配置
func OverrideStorageFromEnv(cfg *StorageConfig) {
	if region := os.Getenv("S3_REGION"); region != "" {
		cfg.Region = region
	}
	if bucket := os.Getenv("S3_BUCKET_NAME"); bucket != "" {
		cfg.Bucket = bucket
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if key := os.Getenv("S3_ACCESS_KEY"); key != "" {
		cfg.AccessKey = key
	}
	if secret := os.Getenv("S3_SECRET_KEY"); secret != "" {
		cfg.SecretKey = secret
	}
}
