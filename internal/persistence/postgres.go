package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/starbite-api/internal/config"
)

// ErrNoDSN is returned when neither POSTGRES_DSN nor DB_URL is set.
var ErrNoDSN = errors.New("postgres dsn not configured")

// Postgres owns the pgx pool shared by the repositories.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens the pool and verifies the server answers.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, ErrNoDSN
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("connected to postgres",
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns))
	return &Postgres{pool: pool}, nil
}

// RequireExtensions fails unless every named extension is installed.
// Geo search depends on postgis.
func (p *Postgres) RequireExtensions(ctx context.Context, names ...string) error {
	for _, name := range names {
		var installed bool
		err := p.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = $1)`, name,
		).Scan(&installed)
		if err != nil {
			return fmt.Errorf("check extension %s: %w", name, err)
		}
		if !installed {
			return fmt.Errorf("postgres extension %q is not installed", name)
		}
	}
	return nil
}

// Ping is used by the readiness probe.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// PoolHandle returns the underlying pgx pool.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	return p.pool
}

// Close releases pool resources.
func (p *Postgres) Close() {
	p.pool.Close()
}
