package config

import (
	"fmt"
	"strconv"
	"time"

	"cosmos-server/internal/shared/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Cosmos    CosmosConfig
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

type ServerConfig struct {
	Port         string
	URL          string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	// TrustProxy reads the client address from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
}

// CosmosConfig drives catalog loading and generation limits.
type CosmosConfig struct {
	StarPropertiesPath string
	StarNamesPath      string
	DefaultStarMin     int
	DefaultStarMax     int
	// MaxStarCount caps star_count_max on create and preview requests.
	MaxStarCount int
	// MaxPreviewStarCount is the lower cap applied to unauthenticated previews.
	MaxPreviewStarCount int
	MaxBatches          int
	Workers             int
	CacheTTL            time.Duration
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

// Load builds a validated Config from the process environment.
func Load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Cosmos:    loadCosmosConfig(),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:  utils.GetEnv("REDIS_ENABLED", "true") == "true",
		URL:      utils.GetEnv("REDIS_URL", ""),
		Host:     utils.GetEnv("REDIS_HOST", "localhost"),
		Port:     utils.GetEnv("REDIS_PORT", "6379"),
		Password: utils.GetEnv("REDIS_PASSWORD", ""),
		DB:       utils.GetEnvInt("REDIS_DB", 0),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:         utils.GetEnv("SERVER_PORT", "8080"),
		URL:          utils.GetEnv("SERVER_URL", "http://localhost:8080"),
		Environment:  utils.GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:  utils.GetEnvSeconds("SERVER_READ_TIMEOUT_SECONDS", 15*time.Second),
		WriteTimeout: utils.GetEnvSeconds("SERVER_WRITE_TIMEOUT_SECONDS", 60*time.Second),
		IdleTimeout:  utils.GetEnvSeconds("SERVER_IDLE_TIMEOUT_SECONDS", 60*time.Second),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	connMaxLifetime := utils.GetEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	return DatabaseConfig{
		Host:            utils.GetEnv("DB_HOST", "localhost"),
		Port:            utils.GetEnv("DB_PORT", "5432"),
		User:            utils.GetEnv("DB_USER", "postgres"),
		Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
		Name:            utils.GetEnv("DB_NAME", "cosmos"),
		SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(connMaxLifetime) * time.Minute,
		MigrationsPath:  utils.GetEnv("DB_MIGRATIONS_PATH", "migrations"),
	}
}

func loadAuthConfig() AuthConfig {
	tokenExpiration := utils.GetEnvInt("JWT_EXPIRATION_HOURS", 24)

	return AuthConfig{
		JWTSecret:       utils.GetEnv("JWT_SECRET", ""),
		TokenExpiration: time.Duration(tokenExpiration) * time.Hour,
	}
}

func loadFrontendConfig() FrontendConfig {
	return FrontendConfig{
		URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSDebug: utils.GetEnv("CORS_DEBUG", "") == "true",
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		JSONFormat: utils.GetEnvBool("LOG_JSON", environment == "production"),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	requestsPerSecond, _ := strconv.ParseFloat(utils.GetEnv("RATE_LIMIT_REQUESTS_PER_SECOND", "2"), 64)

	return RateLimitConfig{
		Enabled:           utils.GetEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RequestsPerSecond: requestsPerSecond,
		BurstSize:         utils.GetEnvInt("RATE_LIMIT_BURST_SIZE", 5),
		TrustProxy:        utils.GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
	}
}

func loadCosmosConfig() CosmosConfig {
	return CosmosConfig{
		StarPropertiesPath:  utils.GetEnv("COSMOS_STAR_PROPERTIES_PATH", "configs/star_properties.yaml"),
		StarNamesPath:       utils.GetEnv("COSMOS_STAR_NAMES_PATH", "configs/star_names.yaml"),
		DefaultStarMin:      utils.GetEnvInt("COSMOS_DEFAULT_STAR_MIN", 10),
		DefaultStarMax:      utils.GetEnvInt("COSMOS_DEFAULT_STAR_MAX", 50),
		MaxStarCount:        utils.GetEnvInt("COSMOS_MAX_STAR_COUNT", 2000),
		MaxPreviewStarCount: utils.GetEnvInt("COSMOS_MAX_PREVIEW_STAR_COUNT", 50),
		MaxBatches:          utils.GetEnvInt("COSMOS_SAMPLER_MAX_BATCHES", 1_000_000),
		Workers:             utils.GetEnvInt("COSMOS_WORKERS", 0),
		CacheTTL:            utils.GetEnvSeconds("COSMOS_CACHE_TTL_SECONDS", time.Hour),
	}
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if c.Cosmos.StarPropertiesPath == "" {
		return fmt.Errorf("COSMOS_STAR_PROPERTIES_PATH is required")
	}

	if c.Cosmos.DefaultStarMin < 1 || c.Cosmos.DefaultStarMax <= c.Cosmos.DefaultStarMin {
		return fmt.Errorf("COSMOS_DEFAULT_STAR_MIN must be at least 1 and below COSMOS_DEFAULT_STAR_MAX")
	}

	if c.Cosmos.MaxStarCount < c.Cosmos.DefaultStarMax {
		return fmt.Errorf("COSMOS_MAX_STAR_COUNT must not be below COSMOS_DEFAULT_STAR_MAX")
	}

	if c.Cosmos.MaxBatches < 0 || c.Cosmos.Workers < 0 {
		return fmt.Errorf("COSMOS_SAMPLER_MAX_BATCHES and COSMOS_WORKERS must not be negative")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
