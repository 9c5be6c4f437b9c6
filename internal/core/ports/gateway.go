package ports

import (
	"context"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// WorkflowClient отправляет JSON во внешний workflow-движок (n8n вебхуки)
type WorkflowClient interface {
	// PostJSON возвращает ответ только для 2xx с корректным JSON телом.
	// Остальные исходы типизированы ошибками из пакета domain
	PostJSON(ctx context.Context, endpoint string, payload any) (*domain.UpstreamResponse, error)
}
