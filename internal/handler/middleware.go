package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/GoArmGo/LibraryApp/internal/auth"
)

// RequestLogger middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"request_id", middleware.GetReqID(r.Context()),
				"remote_ip", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// TokenVerifier проверка access-токена (реализация auth.TokenManager)
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

type ctxKey int

const userIDKey ctxKey = iota

// UserIDFromContext id пользователя, положенный AuthGate
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// AuthGate пропускает запрос дальше только с валидным Bearer токеном.
// Состояния не хранит, на каждый запрос одна проверка подписи
func AuthGate(verifier TokenVerifier, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "missing or malformed authorization header", logger)
				return
			}

			userID, err := verifier.Verify(token)
			switch {
			case errors.Is(err, auth.ErrMalformedSubject):
				logger.Warn("token with malformed subject", "path", r.URL.Path)
				respondWithError(w, http.StatusUnprocessableEntity, err.Error(), logger)
				return
			case err != nil:
				respondWithError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error(), logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// maxTrackedClients после этого порога таблица лимитеров сбрасывается
const maxTrackedClients = 10000

// IPRateLimiter token bucket на каждый IP клиента
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	logger   *slog.Logger
}

// NewIPRateLimiter rps <= 0 отключает ограничение
func NewIPRateLimiter(rps float64, burst int, logger *slog.Logger) *IPRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		logger:   logger,
	}
}

func (rl *IPRateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		if len(rl.limiters) >= maxTrackedClients {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// Handler middleware, отвечает 429 при исчерпании лимита
func (rl *IPRateLimiter) Handler(next http.Handler) http.Handler {
	if rl.rate <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !rl.getLimiter(key).Allow() {
			rl.logger.Warn("rate limit exceeded", "client_ip", key, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded", rl.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP адрес без порта. X-Forwarded-For попадает сюда только если роутер доверяет прокси и подключил middleware.RealIP
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
