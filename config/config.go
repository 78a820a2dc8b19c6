package config

// Config contains all configuration grouped by domain
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	JWT      JWTConfig
	Worker   WorkerConfig
	Logging  LoggingConfig
}

// All config structs use string fields only - packages handle conversion during initialization
type ServerConfig struct {
	Port         string
	Environment  string
	ReadTimeout  string
	WriteTimeout string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string
}

// CacheConfig configures the redis-backed response cache. An empty Addr disables caching.
type CacheConfig struct {
	Addr     string
	Password string
	DB       string
	TTL      string
	Prefix   string
}

type JWTConfig struct {
	Secret string
	APIKey string
}

type WorkerConfig struct {
	PurgeInterval string
}

type LoggingConfig struct {
	Level       string
	Format      string
	ServiceName string
}
