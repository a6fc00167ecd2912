package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	// TrustedProxies lists the proxy CIDRs allowed to set X-Forwarded-For.
	// Empty means the client address is always the TCP peer.
	TrustedProxies []string

	AuthJWTSecret  string
	AuthTokenTTL   time.Duration
	BootstrapAdmin BootstrapAdminConfig

	OTLPEndpoint string

	DB db.Config

	RateLimit RateLimitConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Email     EmailConfig
}

// BootstrapAdminConfig seeds the first back-office account on an empty database.
type BootstrapAdminConfig struct {
	Username string
	Password string
	Name     string
}

type RateLimitConfig struct {
	Enabled     bool
	Window      time.Duration
	MaxRequests int
	MaxKeys     int
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	OrderCacheTTL time.Duration
}

func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type KafkaConfig struct {
	Brokers     []string
	OrdersTopic string
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

func (c EmailConfig) Enabled() bool {
	return strings.TrimSpace(c.SMTPHost) != ""
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:        getenv("APP_SERVICE", "casa-e-lar"),
		AppVersion:     getenv("APP_VERSION", "0.1.0"),
		Environment:    getenv("ENVIRONMENT", "development"),
		HTTPAddr:       getenv("HTTP_ADDR", ":5000"),
		TrustedProxies: parseList(getenv("TRUSTED_PROXIES", "")),
		AuthJWTSecret:  strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		AuthTokenTTL:   getenvDuration("AUTH_TOKEN_TTL", time.Hour),
		BootstrapAdmin: BootstrapAdminConfig{
			Username: strings.TrimSpace(getenv("ADMIN_BOOTSTRAP_USERNAME", "")),
			Password: getenv("ADMIN_BOOTSTRAP_PASSWORD", ""),
			Name:     getenv("ADMIN_BOOTSTRAP_NAME", "Administrador"),
		},
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),
		DB: db.Config{
			Type:            getenv("DATABASE_TYPE", "postgres"),
			Host:            getenv("DATABASE_HOST", "localhost"),
			Port:            getenv("DATABASE_PORT", "5432"),
			Name:            getenv("DATABASE_NAME", "loja_utilidades"),
			User:            getenv("DATABASE_USER", "postgres"),
			Password:        getenv("DATABASE_PASSWORD", ""),
			SSLMode:         getenv("DATABASE_SSLMODE", "disable"),
			SQLitePath:      getenv("DATABASE_SQLITE_PATH", "loja.db"),
			MaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
			MaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
			ConnMaxLifetime: getenvDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getenvDuration("DATABASE_CONN_MAX_IDLE_TIME", 30*time.Second),
			SlowQuery:       getenvDuration("DATABASE_SLOW_QUERY", 200*time.Millisecond),
			LogSQL:          getenvBool("DATABASE_LOG_SQL", false),
		},
		RateLimit: RateLimitConfig{
			Enabled:     getenvBool("RATE_LIMIT_ENABLED", true),
			Window:      getenvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			MaxRequests: getenvInt("RATE_LIMIT_MAX_REQUESTS", 100),
			MaxKeys:     getenvInt("RATE_LIMIT_MAX_KEYS", 10000),
		},
		Redis: RedisConfig{
			Addr:          strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password:      getenv("REDIS_PASSWORD", ""),
			DB:            getenvInt("REDIS_DB", 0),
			OrderCacheTTL: getenvDuration("ORDER_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:     parseList(getenv("KAFKA_BROKERS", "")),
			OrdersTopic: getenv("KAFKA_ORDERS_TOPIC", "orders"),
		},
		Email: EmailConfig{
			SMTPHost:     strings.TrimSpace(getenv("SMTP_HOST", "")),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "pedidos@casaelar.com.br"),
		},
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
