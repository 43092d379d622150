package database

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// PoolConfig настройки пула соединений
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var (
	ErrConnect = errors.New("database: failed to connect")
	ErrMigrate = errors.New("database: failed to run migrations")
)

// Open открывает пул соединений к PostgreSQL и проверяет соединение
func Open(dsn string, pool PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrConnect, err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrConnect, err)
	}

	return db, nil
}

// RunMigrations применяет миграции из каталога migrationsPath
// Отсутствие новых миграций не считается ошибкой
func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("%w: create postgres driver: %v", ErrMigrate, err)
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("%w: resolve path %s: %v", ErrMigrate, migrationsPath, err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL(absPath), "postgres", driver)
	if err != nil {
		return fmt.Errorf("%w: create migrate instance: %v", ErrMigrate, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: %v", ErrMigrate, err)
	}

	return nil
}

func sourceURL(absPath string) string {
	return "file://" + filepath.ToSlash(absPath)
}
