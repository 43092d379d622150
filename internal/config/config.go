package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Engine     EngineConfig     `toml:"engine"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
	Migrations MigrationsConfig `toml:"migrations"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения в формате postgres://
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// EngineConfig настройки движка бронирования
type EngineConfig struct {
	// LockTimeoutMs сколько ждать блокировку ресурса до ответа Busy
	LockTimeoutMs int `toml:"lock_timeout_ms"`
}

// LockTimeout таймаут блокировки ресурса
func (e EngineConfig) LockTimeout() time.Duration {
	return time.Duration(e.LockTimeoutMs) * time.Millisecond
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

type MigrationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Значения по умолчанию
const (
	defaultHTTPPort        = 8080
	defaultReadTimeout     = 10
	defaultWriteTimeout    = 10
	defaultIdleTimeout     = 60
	defaultShutdownTimeout = 15

	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultSSLMode         = "disable"
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 300

	defaultLogLevel = "info"

	defaultMetricsPath = "/metrics"
	defaultServiceName = "club-booking-service"

	defaultLockTimeoutMs = 2000

	defaultRateLimitRPS   = 20
	defaultRateLimitBurst = 40

	defaultMigrationsPath = "migrations"
)

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Load читает TOML файл, подставляет значения по умолчанию и переменные окружения
// Файл .env загружается, если существует
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, defaultHTTPPort)
	setDefault(&c.Server.ReadTimeout, defaultReadTimeout)
	setDefault(&c.Server.WriteTimeout, defaultWriteTimeout)
	setDefault(&c.Server.IdleTimeout, defaultIdleTimeout)
	setDefault(&c.Server.ShutdownTimeout, defaultShutdownTimeout)

	setDefault(&c.Database.Host, defaultDBHost)
	setDefault(&c.Database.Port, defaultDBPort)
	setDefault(&c.Database.SSLMode, defaultSSLMode)
	setDefault(&c.Database.MaxOpenConns, defaultMaxOpenConns)
	setDefault(&c.Database.MaxIdleConns, defaultMaxIdleConns)
	setDefault(&c.Database.ConnMaxLifetime, defaultConnMaxLifetime)

	setDefault(&c.Logs.Level, defaultLogLevel)

	setDefault(&c.Metrics.Path, defaultMetricsPath)
	setDefault(&c.Metrics.ServiceName, defaultServiceName)

	setDefault(&c.Engine.LockTimeoutMs, defaultLockTimeoutMs)

	setDefault(&c.RateLimit.RPS, defaultRateLimitRPS)
	setDefault(&c.RateLimit.Burst, defaultRateLimitBurst)

	setDefault(&c.Migrations.Path, defaultMigrationsPath)
}

// applyEnv переопределяет настройки БД стандартными переменными libpq
func (c *Config) applyEnv() error {
	if v := os.Getenv("PGHOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("PGPORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PGPORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Database.Port = port
	}
	if v := os.Getenv("PGDATABASE"); v != "" {
		c.Database.DBName = v
	}
	if v := os.Getenv("PGUSER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("PGPASSWORD"); v != "" {
		c.Database.Password = v
	}
	return nil
}

// Validate проверяет, что значения конфигурации допустимы
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	case c.Database.DBName == "":
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	case c.Database.User == "":
		return fmt.Errorf("%w: database.user is required", ErrInvalidConfig)
	case c.Database.MaxIdleConns > c.Database.MaxOpenConns:
		return fmt.Errorf("%w: database.max_idle_conns exceeds max_open_conns", ErrInvalidConfig)
	case c.Engine.LockTimeoutMs < 0:
		return fmt.Errorf("%w: engine.lock_timeout_ms must not be negative", ErrInvalidConfig)
	case c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0):
		return fmt.Errorf("%w: rate_limit.rps and rate_limit.burst must be positive", ErrInvalidConfig)
	}
	return nil
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
