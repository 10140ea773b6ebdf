package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Realtime RealtimeConfig
}

type ServerConfig struct {
	Port          string
	AllowedOrigin string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTLMin  int
}

// RealtimeConfig 即時層後端選擇：單機用 memory，多實例用 redis
type RealtimeConfig struct {
	PresenceBackend string // "memory" or "redis"
	QueueBackend    string // "memory" or "redis"
	InstanceID      string
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Auth:     GetAuthConfig(),
		Realtime: GetRealtimeConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server: ServerConfig{
			Port:          "8081",
			AllowedOrigin: "*",
		},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Auth: AuthConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessTTLMin:  15,
		},
		Realtime: RealtimeConfig{
			PresenceBackend: "memory",
			QueueBackend:    "memory",
			InstanceID:      "test",
		},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:          getEnv("SERVER_PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetAuthConfig() AuthConfig {
	ttl, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MIN", "15"))
	if err != nil {
		panic(err)
	}

	return AuthConfig{
		AccessSecret:  getEnv("ACCESS_TOKEN_SECRET", "dev-access-secret"),
		RefreshSecret: getEnv("REFRESH_TOKEN_SECRET", "dev-refresh-secret"),
		AccessTTLMin:  ttl,
	}
}

func GetRealtimeConfig() RealtimeConfig {
	return RealtimeConfig{
		PresenceBackend: getEnv("PRESENCE_BACKEND", "memory"),
		QueueBackend:    getEnv("QUEUE_BACKEND", "memory"),
		InstanceID:      getEnv("INSTANCE_ID", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
