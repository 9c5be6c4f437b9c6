package di

import (
	"context"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/LibraryApp/internal/adapter/workflow"
	"github.com/GoArmGo/LibraryApp/internal/app"
	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/GoArmGo/LibraryApp/internal/config"
	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/database/client"
	"github.com/GoArmGo/LibraryApp/internal/database/storage"
	"github.com/GoArmGo/LibraryApp/internal/handler"
	"github.com/GoArmGo/LibraryApp/internal/logger"
	"github.com/GoArmGo/LibraryApp/internal/rabbitmq"
	"github.com/GoArmGo/LibraryApp/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	start := time.Now()

	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// 2. Два пула PostgreSQL: sqlx для журнала выдач и миграций, gorm для остального
	dbClient, err := client.NewClient(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, func() { _ = dbClient.Close() })

	gormDB, err := client.OpenGorm(cfg, slogger)
	if err != nil {
		cleanup()
		return nil, err
	}
	closers = append(closers, func() { client.CloseGorm(gormDB, slogger) })

	// 3. Инициализация хранилищ
	userStorage := storage.NewUserStorage(gormDB, slogger)
	loanStorage := storage.NewLoanStorage(dbClient.DB, slogger)
	bookStorage := storage.NewBookStorage(gormDB, slogger)
	libraryStorage := storage.NewLibraryStorage(gormDB, slogger)
	copyStorage := storage.NewCopyStorage(gormDB, slogger)

	// 4. Внешние сервисы. Интерфейс оставляем nil, а не типизированный nil-указатель
	var fileStorage ports.FileStorage
	if cfg.MinioEnabled() {
		minioClient, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			cleanup()
			return nil, err
		}
		fileStorage = minioClient
	} else {
		slogger.Warn("MinIO is not configured, cover upload disabled")
	}

	var publisher ports.LoanEventPublisher = rabbitmq.NopPublisher{}
	if cfg.RabbitMQEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			cleanup()
			return nil, err
		}
		closers = append(closers, rabbitMQClient.Close)
		publisher = rabbitMQClient
	} else {
		slogger.Warn("RabbitMQ is not configured, loan events are not published")
	}

	recommendClient := workflow.NewClient("recommend", cfg.Workflow.Timeout, slogger)
	searchClient := workflow.NewClient("search", cfg.Workflow.Timeout, slogger)

	// 5. Бизнес-логика
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager(cfg.JWTSecretKey, cfg.TokenLifetime, time.Now)

	authUseCase := usecase.NewAuthUseCase(userStorage, hasher, tokens, slogger)
	loanUseCase := usecase.NewLoanUseCase(loanStorage, publisher, slogger)
	recommendationUseCase := usecase.NewRecommendationUseCase(loanStorage, recommendClient, cfg.Workflow.RecommendURL, slogger)
	searchUseCase := usecase.NewSearchUseCase(searchClient, cfg.Workflow.BasicSearchURL, cfg.Workflow.AdvancedSearchURL)
	catalogUseCase := usecase.NewCatalogUseCase(bookStorage, libraryStorage, copyStorage, fileStorage, slogger)

	// 6. HTTP слой
	router := app.NewRouter(app.RouterDeps{
		Auth:               handler.NewAuthHandler(authUseCase, slogger),
		Loans:              handler.NewLoanHandler(loanUseCase, slogger),
		Gateway:            handler.NewGatewayHandler(recommendationUseCase, searchUseCase, slogger),
		Books:              handler.NewBookHandler(catalogUseCase, slogger),
		Libraries:          handler.NewLibraryHandler(catalogUseCase, slogger),
		Copies:             handler.NewCopyHandler(catalogUseCase, slogger),
		Tokens:             tokens,
		SearchLimiter:      handler.NewIPRateLimiter(cfg.SearchRateLimit, cfg.SearchRateBurst, slogger),
		Health:             dbClient,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
		RequestTimeout:     cfg.RequestTimeout,
		Logger:             slogger,
	})

	application := app.NewApp(cfg, slogger, router, dbClient.DB.DB, closers...)

	slogger.Info("all dependencies initialized",
		"minio", cfg.MinioEnabled(),
		"rabbitmq", cfg.RabbitMQEnabled(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return application, nil
}

// compile-time проверки адаптеров
var (
	_ ports.FileStorage        = (*minio.Client)(nil)
	_ ports.LoanEventPublisher = (*rabbitmq.Client)(nil)
	_ ports.WorkflowClient     = (*workflow.Client)(nil)
	_ handler.TokenVerifier    = (*auth.TokenManager)(nil)
	_ usecase.PasswordHasher   = (*auth.PasswordHasher)(nil)
	_ app.Pinger               = (*client.Client)(nil)
)
