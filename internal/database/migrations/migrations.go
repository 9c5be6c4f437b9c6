package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Apply применяет все доступные миграции к бд через уже открытое соединение
func Apply(db *sql.DB, logger *slog.Logger) error {
	start := time.Now()

	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migrations are up to date", "duration_ms", time.Since(start).Milliseconds())
		return nil
	case err != nil:
		logger.Error("failed to apply migrations", "error", err)
		return fmt.Errorf("ошибка выполнения миграций: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("migrations applied",
		"version", version,
		"dirty", dirty,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть встроенные миграции: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать драйвер миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать экземпляр мигратора: %w", err)
	}
	return m, nil
}
