package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/LibraryApp/internal/config"
)

const (
	ModeServer  = "server"
	ModeMigrate = "migrate"
)

type App struct {
	Config  *config.Config
	logger  *slog.Logger
	handler http.Handler
	// schemaDB пул, через который идут миграции
	schemaDB *sql.DB
	closers  []func()
}

// NewApp closers вызываются в Shutdown в обратном порядке
func NewApp(cfg *config.Config, logger *slog.Logger, h http.Handler, schemaDB *sql.DB, closers ...func()) *App {
	return &App{
		Config:   cfg,
		logger:   logger,
		handler:  h,
		schemaDB: schemaDB,
		closers:  closers,
	}
}

// LoggerIns основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до сигнала завершения
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.Shutdown()

	a.logger.Info("running application", "mode", mode)

	switch mode {
	case ModeServer:
		if a.Config.AutoMigrate {
			if err := runMigrations(a.schemaDB, a.logger); err != nil {
				return err
			}
		}
		return runServer(ctx, ":"+a.Config.ServerPort, a.handler, a.logger)
	case ModeMigrate:
		return runMigrations(a.schemaDB, a.logger)
	default:
		return fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'migrate')", mode)
	}
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	a.logger.Info("application resources released")
}
