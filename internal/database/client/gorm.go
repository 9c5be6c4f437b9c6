package client

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoArmGo/LibraryApp/internal/config"
)

// OpenGorm открывает отдельный пул через pgx для каталога и пользователей.
// TranslateError превращает ошибки драйвера в gorm.ErrDuplicatedKey и gorm.ErrForeignKeyViolated
func OpenGorm(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	start := time.Now()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("failed to open gorm connection", "error", err)
		return nil, fmt.Errorf("ошибка открытия GORM соединения: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm: не удалось получить *sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("gorm connection established", "duration_ms", time.Since(start).Milliseconds())
	return db, nil
}

// CloseGorm закрывает пул под gorm.DB
func CloseGorm(db *gorm.DB, logger *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to get gorm pool", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("failed to close gorm pool", "error", err)
	}
}
