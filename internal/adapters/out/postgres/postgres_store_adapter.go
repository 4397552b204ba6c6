package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/clinicore/medical-automation-api/internal/config"
	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// PostgresStoreAdapter - хранилище на pgxpool. Миграции выполняются
// при старте через golang-migrate поверх встроенных sql-файлов
type PostgresStoreAdapter struct {
	pool   *pgxpool.Pool
	logger out.LoggerPort
}

func NewPostgresStoreAdapter(ctx context.Context, cfg *config.Config, logger out.LoggerPort) (*PostgresStoreAdapter, error) {
	moduleLogger := logger.WithModule("postgres_store")
	dsn := cfg.PostgresDSN()

	if err := runMigrations(dsn, moduleLogger); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.Store.Postgres.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	moduleLogger.Info("store.connected", out.LogFields{
		"host":     cfg.Store.Postgres.Host,
		"database": cfg.Store.Postgres.Database,
	})

	return &PostgresStoreAdapter{
		pool:   pool,
		logger: moduleLogger,
	}, nil
}

func (r *PostgresStoreAdapter) Close() {
	r.pool.Close()
	r.logger.Info("store.closed", out.LogFields{})
}

func (r *PostgresStoreAdapter) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", domain.ErrStoreFailure, err)
	}

	return nil
}

// qb - squirrel-билдер с postgres-плейсхолдерами $1, $2, ...
func (r *PostgresStoreAdapter) qb() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (r *PostgresStoreAdapter) logSQL(op string, sqlStr string, args []interface{}) {
	r.logger.Debug("store.query", out.LogFields{
		"op":   op,
		"sql":  sqlStr,
		"args": fmt.Sprintf("%v", args),
	})
}

// Миграции запускаются через отдельное pgx/stdlib соединение,
// pgxpool для них не используется
func runMigrations(dsn string, logger out.LoggerPort) error {
	sqldb, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open pgx: %w", err)
	}
	defer sqldb.Close()

	driver, err := migratepg.WithInstance(sqldb, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("postgres driver: %w", err)
	}

	src, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate.New: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("store.migrations.up_to_date", out.LogFields{})
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("store.migrations.applied", out.LogFields{})
	return nil
}
