package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/usecase"
)

// GatewayHandler проксирует рекомендации и поиск во внешний workflow-движок
type GatewayHandler struct {
	recommendations usecase.RecommendationUseCase
	search          usecase.SearchUseCase
	logger          *slog.Logger
}

func NewGatewayHandler(rec usecase.RecommendationUseCase, search usecase.SearchUseCase, logger *slog.Logger) *GatewayHandler {
	return &GatewayHandler{recommendations: rec, search: search, logger: logger}
}

// Recommend обрабатывает POST /recommend/
func (h *GatewayHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return
	}

	rec, err := h.recommendations.GetRecommendations(r.Context(), userID)
	if err != nil {
		h.respondRecommendationError(w, err)
		return
	}
	if rec.NoHistory {
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "no loan history yet, cannot recommend"}, h.logger)
		return
	}

	respondWithUpstream(w, rec.Upstream, h.logger)
}

func (h *GatewayHandler) respondRecommendationError(w http.ResponseWriter, err error) {
	var statusErr *domain.UpstreamStatusError

	switch {
	case errors.Is(err, domain.ErrUpstreamNotConfigured):
		respondWithError(w, http.StatusServiceUnavailable, "recommendation service is not configured", h.logger)
	case errors.Is(err, domain.ErrUpstreamTimeout):
		respondWithError(w, http.StatusGatewayTimeout, "recommendation service timed out", h.logger)
	case errors.Is(err, domain.ErrUpstreamUnreachable):
		respondWithError(w, http.StatusGatewayTimeout, "cannot connect to recommendation service", h.logger)
	case errors.As(err, &statusErr):
		respondWithJSON(w, statusErr.StatusCode, map[string]string{
			"error":             "recommendation service returned an error",
			"upstream_response": string(statusErr.Body),
		}, h.logger)
	default:
		h.logger.Error("recommendation gateway failed", "error", err)
		respondWithJSON(w, http.StatusInternalServerError, errorBody{Error: "unexpected gateway error", Message: err.Error()}, h.logger)
	}
}

// BasicSearch обрабатывает POST /search/basic
func (h *GatewayHandler) BasicSearch(w http.ResponseWriter, r *http.Request) {
	h.forwardSearch(w, r, "basic search", h.search.BasicSearch)
}

// AdvancedSearch обрабатывает POST /search/advanced
func (h *GatewayHandler) AdvancedSearch(w http.ResponseWriter, r *http.Request) {
	h.forwardSearch(w, r, "advanced search", h.search.AdvancedSearch)
}

func (h *GatewayHandler) forwardSearch(
	w http.ResponseWriter,
	r *http.Request,
	module string,
	search func(ctx context.Context, body json.RawMessage) (*domain.UpstreamResponse, error),
) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		respondWithDomainError(w, domain.NewValidationError("body", "json"), h.logger)
		return
	}

	resp, err := search(r.Context(), body)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			respondWithDomainError(w, err, h.logger)
			return
		}
		h.logger.Warn("search gateway failed", "module", module, "error", err)
		respondWithJSON(w, http.StatusServiceUnavailable, errorBody{
			Error:   module + " service is not responding",
			Message: err.Error(),
		}, h.logger)
		return
	}

	respondWithUpstream(w, resp, h.logger)
}
