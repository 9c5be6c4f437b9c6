package ports

import (
	"context"

	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
)

// LoanEventPublisher публикует события о выдаче и возврате книг
type LoanEventPublisher interface {
	PublishLoanEvent(ctx context.Context, payload payloads.LoanEventPayload) error
}
