package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/database/migrations"
)

// runMigrations режим migrate: накатывает схему и завершается
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	if db == nil {
		return fmt.Errorf("миграции: нет подключения к БД")
	}
	start := time.Now()
	if err := migrations.Apply(db, logger); err != nil {
		return err
	}
	logger.Info("migrate mode finished", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
