package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/GoArmGo/LibraryApp/internal/handler"
	"github.com/GoArmGo/LibraryApp/internal/metrics"
)

// Pinger проверка доступности БД для /healthz
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps всё, что нужно для сборки HTTP роутера
type RouterDeps struct {
	Auth      *handler.AuthHandler
	Loans     *handler.LoanHandler
	Gateway   *handler.GatewayHandler
	Books     *handler.BookHandler
	Libraries *handler.LibraryHandler
	Copies    *handler.CopyHandler

	Tokens        handler.TokenVerifier
	SearchLimiter *handler.IPRateLimiter
	Health        Pinger

	CORSAllowedOrigins []string
	// TrustProxyHeaders включает middleware.RealIP; без него лимитер видит адрес TCP соединения
	TrustProxyHeaders  bool
	RequestTimeout     time.Duration
	Logger             *slog.Logger
}

// NewRouter собирает таблицу маршрутов
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if deps.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(handler.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}
	r.Use(metrics.InstrumentHandler)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   deps.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.Get("/", welcome(deps.Logger))
	r.Get("/healthz", healthz(deps.Health, deps.Logger))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", deps.Auth.Register)
		r.Post("/login", deps.Auth.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(handler.AuthGate(deps.Tokens, deps.Logger))

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", deps.Loans.CreateLoan)
			r.Get("/my", deps.Loans.ListMyLoans)
			r.Post("/{id}/return", deps.Loans.ReturnLoan)
		})
		r.Post("/recommend/", deps.Gateway.Recommend)
	})

	r.Route("/search", func(r chi.Router) {
		if deps.SearchLimiter != nil {
			r.Use(deps.SearchLimiter.Handler)
		}
		r.Post("/basic", deps.Gateway.BasicSearch)
		r.Post("/advanced", deps.Gateway.AdvancedSearch)
	})

	r.Route("/books", func(r chi.Router) {
		r.Get("/", deps.Books.ListBooks)
		r.Post("/", deps.Books.CreateBook)
		r.Get("/{id}", deps.Books.GetBook)
		r.Put("/{id}", deps.Books.UpdateBook)
		r.Delete("/{id}", deps.Books.DeleteBook)
		r.Get("/{id}/copies", deps.Books.ListBookCopies)
		r.Put("/{id}/cover", deps.Books.UploadCover)
	})

	r.Route("/libraries", func(r chi.Router) {
		r.Get("/", deps.Libraries.ListLibraries)
		r.Post("/", deps.Libraries.CreateLibrary)
		r.Get("/{id}", deps.Libraries.GetLibrary)
		r.Put("/{id}", deps.Libraries.UpdateLibrary)
		r.Delete("/{id}", deps.Libraries.DeleteLibrary)
		r.Get("/{id}/copies", deps.Libraries.ListLibraryCopies)
	})

	r.Route("/copies", func(r chi.Router) {
		r.Get("/", deps.Copies.ListCopies)
		r.Post("/", deps.Copies.CreateCopy)
		r.Get("/{id}", deps.Copies.GetCopy)
		r.Put("/{id}", deps.Copies.UpdateCopy)
		r.Delete("/{id}", deps.Copies.DeleteCopy)
	})

	return r
}

func welcome(logger *slog.Logger) http.HandlerFunc {
	body := []byte(`{"message":"Welcome to the Library API","status":"ok"}`)
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			logger.Error("failed to write HTTP response", "error", err)
		}
	}
}

func healthz(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				logger.Error("health check failed", "error", err)
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
