// Package sqlclient is a lightweight pgx pool used for read-only aggregate queries
// that do not need the ORM.
package sqlclient

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/angelmondragon/giftshop-backend/pkg/config"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

const pingTimeout = 5 * time.Second

var errClientNotInitialized = errors.New("sql client not initialized")

// Querier is the subset of the pool used by repositories.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Client struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating pgx pool: %w", err)
	}

	client := &Client{pool: pool}
	if err := client.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("sql client ping failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "sql client initialized")
	}
	return client, nil
}

func poolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	// the ORM owns most connections; this pool stays small
	maxConns := cfg.MaxIdleConns
	if maxConns <= 0 {
		maxConns = 4
	}
	if maxConns > math.MaxInt32 {
		maxConns = math.MaxInt32
	}
	poolCfg.MaxConns = int32(maxConns)
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}
	return poolCfg, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.pool == nil {
		return errClientNotInitialized
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.pool.Ping(ctx)
}

func (c *Client) Close() error {
	if c == nil || c.pool == nil {
		return nil
	}
	c.pool.Close()
	return nil
}

func (c *Client) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.pool.QueryRow(ctx, sql, args...)
}

func (c *Client) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if c == nil || c.pool == nil {
		return nil, errClientNotInitialized
	}
	return c.pool.Query(ctx, sql, args...)
}

func (c *Client) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if c == nil || c.pool == nil {
		return pgconn.CommandTag{}, errClientNotInitialized
	}
	return c.pool.Exec(ctx, sql, args...)
}
