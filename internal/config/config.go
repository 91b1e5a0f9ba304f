package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	RateLimit RateLimitConfig
	Sync      SyncConfig
	LogLevel  string
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Store picks the snapshot backend: auto, memory, mongo, redis or sqlite.
	// auto means mongo when MONGODB_URI is set, memory otherwise.
	Store      string
	SQLitePath string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr is host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

// MinIOConfig holds MinIO connection configuration. An empty Endpoint
// disables snapshot backups.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type RateLimitConfig struct {
	Enabled  bool
	RPS      float64
	Burst    int
	UseRedis bool
	Window   time.Duration
}

// SyncConfig is the client side: where the CLI keeps its local copy and
// which sync server it talks to.
type SyncConfig struct {
	RemoteURL     string
	LocalKey      string
	LocalPath     string
	RemoteTimeout time.Duration
	RemoteRetries int
	// RemoteRPS throttles remote saves; 0 disables throttling.
	RemoteRPS float64
}

var stores = map[string]bool{"auto": true, "memory": true, "mongo": true, "redis": true, "sqlite": true}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("SERVER_STORE", "auto")
	viper.SetDefault("SERVER_SQLITE_PATH", "data/server.db")
	viper.SetDefault("MONGODB_DATABASE", "organizer")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("MINIO_BUCKET", "organizer-backups")
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW", 1)
	viper.SetDefault("LOCAL_KEY", "carpetaDigital")
	viper.SetDefault("LOCAL_PATH", "organizer.db")
	viper.SetDefault("REMOTE_TIMEOUT", 10)
	viper.SetDefault("REMOTE_RETRIES", 0)
	viper.SetDefault("REMOTE_RPS", 0)
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			Store:        viper.GetString("SERVER_STORE"),
			SQLitePath:   viper.GetString("SERVER_SQLITE_PATH"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:      viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:    viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis: viper.GetBool("RATE_LIMIT_USE_REDIS"),
			Window:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW")) * time.Second,
		},
		Sync: SyncConfig{
			RemoteURL:     viper.GetString("REMOTE_URL"),
			LocalKey:      viper.GetString("LOCAL_KEY"),
			LocalPath:     viper.GetString("LOCAL_PATH"),
			RemoteTimeout: time.Duration(viper.GetInt("REMOTE_TIMEOUT")) * time.Second,
			RemoteRetries: viper.GetInt("REMOTE_RETRIES"),
			RemoteRPS:     viper.GetFloat64("REMOTE_RPS"),
		},
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if !stores[cfg.Server.Store] {
		return nil, fmt.Errorf("SERVER_STORE %q: want auto, memory, mongo, redis or sqlite", cfg.Server.Store)
	}
	if cfg.Server.Store == "mongo" && cfg.MongoDB.URI == "" {
		return nil, fmt.Errorf("SERVER_STORE=mongo requires MONGODB_URI")
	}
	if cfg.Server.Store == "redis" && cfg.Redis.Host == "" {
		return nil, fmt.Errorf("SERVER_STORE=redis requires REDIS_HOST")
	}
	if cfg.RateLimit.UseRedis && cfg.Redis.Host == "" {
		return nil, fmt.Errorf("RATE_LIMIT_USE_REDIS requires REDIS_HOST")
	}
	if cfg.Sync.RemoteRetries < 0 {
		return nil, fmt.Errorf("REMOTE_RETRIES must not be negative")
	}
	return cfg, nil
}

// ResolvedStore turns "auto" into the concrete backend name.
func (c *Config) ResolvedStore() string {
	if c.Server.Store != "auto" {
		return c.Server.Store
	}
	if c.MongoDB.URI != "" {
		return "mongo"
	}
	return "memory"
}
