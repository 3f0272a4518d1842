package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Dashboard DashboardConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type DashboardConfig struct {
	FallbackMode       string // auto, live or synthetic
	UserNotFoundPolicy string // synthetic or absent
	RevenueSeries      string // synthetic or orders
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

func (c *DashboardConfig) RevenueFromOrders() bool {
	return c.RevenueSeries == "orders"
}

func Load() *Config {
	// Make .env values visible to code reading the process environment
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env into environment: %v", err)
	}

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("UPSTREAM_BASE_URL", "http://localhost:8000/api/v1")
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 15)
	viper.SetDefault("FALLBACK_MODE", "auto")
	viper.SetDefault("USER_NOT_FOUND_POLICY", "synthetic")
	viper.SetDefault("REVENUE_SERIES", "synthetic")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 120)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			LogLevel:       viper.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Upstream: UpstreamConfig{
			BaseURL: viper.GetString("UPSTREAM_BASE_URL"),
			Timeout: time.Duration(viper.GetInt("UPSTREAM_TIMEOUT_SECONDS")) * time.Second,
		},
		Dashboard: DashboardConfig{
			FallbackMode:       viper.GetString("FALLBACK_MODE"),
			UserNotFoundPolicy: viper.GetString("USER_NOT_FOUND_POLICY"),
			RevenueSeries:      viper.GetString("REVENUE_SERIES"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  viper.GetBool("RATE_LIMIT_ENABLED"),
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
