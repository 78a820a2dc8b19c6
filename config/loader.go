package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables as raw strings.
// A .env file in the working directory is applied first when present; real
// environment variables always win over it.
// Components handle validation and defaults during initialization
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         os.Getenv("SERVER_PORT"),
			Environment:  os.Getenv("SERVER_ENV"),
			ReadTimeout:  os.Getenv("SERVER_READ_TIMEOUT"),
			WriteTimeout: os.Getenv("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:   os.Getenv("DB_DRIVER"),
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
			Path:     os.Getenv("DB_PATH"),
		},
		Cache: CacheConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       os.Getenv("REDIS_DB"),
			TTL:      os.Getenv("CACHE_TTL"),
			Prefix:   os.Getenv("CACHE_PREFIX"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			APIKey: os.Getenv("API_KEY"),
		},
		Worker: WorkerConfig{
			PurgeInterval: os.Getenv("WORKER_PURGE_INTERVAL"),
		},
		Logging: LoggingConfig{
			Level:       os.Getenv("LOG_LEVEL"),
			Format:      os.Getenv("LOG_FORMAT"),
			ServiceName: os.Getenv("SERVICE_NAME"),
		},
	}
}
