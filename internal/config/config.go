package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	AI       AIConfig       `mapstructure:"ai"`
	Email    EmailConfig    `mapstructure:"email"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Log      LogConfig      `mapstructure:"log"`
	Timezone string         `mapstructure:"timezone"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	SecureCookies  bool     `mapstructure:"secure_cookies"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"` // sqlite, postgres, mysql, redis or memory
	Path      string `mapstructure:"path"`    // sqlite file
	URL       string `mapstructure:"url"`     // postgres/mysql DSN
	KeyPrefix string `mapstructure:"key_prefix"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SessionConfig struct {
	Secret   string        `mapstructure:"secret"`
	Duration time.Duration `mapstructure:"duration"`
}

// AIConfig configures the help provider. Provider "none" disables it.
type AIConfig struct {
	Provider string        `mapstructure:"provider"` // none, ollama or openai
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type EmailConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	FromEmail  string `mapstructure:"from_email"`
	FromName   string `mapstructure:"from_name"`
	AWSRegion  string `mapstructure:"aws_region"`
	AppBaseURL string `mapstructure:"app_base_url"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"` // empty uses the embedded catalog
}

type LogConfig struct {
	Mode string `mapstructure:"mode"` // development or production
}

// Location resolves the configured timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load reads config.yaml (optional) and SPARK_* environment variables on
// top of the defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.BindEnv("server.port", "SPARK_SERVER_PORT", "PORT")
	v.BindEnv("storage.url", "SPARK_DATABASE_URL", "DATABASE_URL")
	v.BindEnv("ai.api_key", "SPARK_AI_API_KEY", "OPENAI_API_KEY")

	// Allow environment variables
	v.SetEnvPrefix("SPARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.secure_cookies", false)

	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "./spark-academy.db")
	v.SetDefault("storage.url", "")
	v.SetDefault("storage.key_prefix", "spark-ai-academy-")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.secret", "change-me-in-production")
	v.SetDefault("session.duration", 30*24*time.Hour)

	v.SetDefault("ai.provider", "none")
	v.SetDefault("ai.model", "llama3.2")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.timeout", 20*time.Second)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.from_email", "noreply@sparkacademy.app")
	v.SetDefault("email.from_name", "Spark AI Academy")
	v.SetDefault("email.aws_region", "us-east-1")
	v.SetDefault("email.app_base_url", "http://localhost:8080")

	v.SetDefault("catalog.path", "")
	v.SetDefault("log.mode", "development")
	v.SetDefault("timezone", "")
}
