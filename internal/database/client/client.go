package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/GoArmGo/LibraryApp/internal/config"
)

// Client пул соединений sqlx, через него работают журнал выдач, health-check и миграции
type Client struct {
	DB     *sqlx.DB
	logger *slog.Logger
}

// NewClient открывает подключение к PostgreSQL и проверяет его
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open PostgreSQL connection", "error", err)
		return nil, fmt.Errorf("ошибка открытия соединения с БД: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("PostgreSQL connection established successfully",
		"host", cfg.Postgres.Host,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Client{DB: db, logger: logger}, nil
}

// Ping используется в /healthz
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Client) Close() error {
	start := time.Now()
	err := c.DB.Close()
	if err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
