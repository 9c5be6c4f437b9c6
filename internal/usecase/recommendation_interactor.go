package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// recommendationRequest тело запроса к вебхуку рекомендаций
type recommendationRequest struct {
	UserID      int64    `json:"user_id"`
	LoanHistory []string `json:"loan_history"`
}

type recommendationUseCase struct {
	loans    ports.LoanStorage
	workflow ports.WorkflowClient
	endpoint string
	logger   *slog.Logger
}

// NewRecommendationUseCase endpoint может быть пустым, тогда каждый запрос получит ErrUpstreamNotConfigured
func NewRecommendationUseCase(loans ports.LoanStorage, workflow ports.WorkflowClient, endpoint string, logger *slog.Logger) RecommendationUseCase {
	return &recommendationUseCase{loans: loans, workflow: workflow, endpoint: endpoint, logger: logger}
}

func (uc *recommendationUseCase) GetRecommendations(ctx context.Context, userID int64) (*Recommendation, error) {
	titles, err := uc.loans.RecentLoanTitles(ctx, userID, domain.LoanHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения истории займов: %w", err)
	}
	if len(titles) == 0 {
		uc.logger.Info("recommendation skipped, no loan history", "user_id", userID)
		return &Recommendation{NoHistory: true}, nil
	}
	if uc.endpoint == "" {
		return nil, domain.ErrUpstreamNotConfigured
	}

	resp, err := uc.workflow.PostJSON(ctx, uc.endpoint, recommendationRequest{UserID: userID, LoanHistory: titles})
	if err != nil {
		return nil, fmt.Errorf("usecase: recommendation request: %w", err)
	}
	return &Recommendation{Upstream: resp}, nil
}
