package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// ScanRateLimit is the per-device budget of scans per minute.
	ScanRateLimit int `yaml:"scan_rate_limit" env:"SERVER_SCAN_RATE_LIMIT" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig holds the scan event bus connection. An empty Addr disables
// cross-instance fan-out and scan events stay in-process.
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// AuthConfig holds access token validation settings. Tokens are issued by
// the identity provider; this service only verifies them.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"aerotrack"`
}

// LedgerConfig holds daily ledger rollover settings.
type LedgerConfig struct {
	Timezone           string        `yaml:"timezone"              env:"LEDGER_TIMEZONE"              env-default:"UTC"`
	OpenAt             string        `yaml:"open_at"               env:"LEDGER_OPEN_AT"               env-default:"06:00"`
	CloseAt            string        `yaml:"close_at"              env:"LEDGER_CLOSE_AT"              env-default:"22:00"`
	CatchUpInterval    time.Duration `yaml:"catch_up_interval"     env:"LEDGER_CATCH_UP_INTERVAL"     env-default:"5m"`
	MaxCatchUpAttempts int           `yaml:"max_catch_up_attempts" env:"LEDGER_MAX_CATCH_UP_ATTEMPTS" env-default:"12"`

	// Location is parsed from Timezone during validation.
	Location *time.Location `yaml:"-" env:"-"`
}

// BroadcastConfig holds scan event fan-out settings.
type BroadcastConfig struct {
	BufferSize int    `yaml:"buffer_size" env:"BROADCAST_BUFFER_SIZE" env-default:"64"`
	Channel    string `yaml:"channel"     env:"BROADCAST_CHANNEL"     env-default:"partledger:scans"`
	// ClaimTTL bounds how long a consumed scan event stays claimed in Redis.
	ClaimTTL time.Duration `yaml:"claim_ttl" env:"BROADCAST_CLAIM_TTL" env-default:"10m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
