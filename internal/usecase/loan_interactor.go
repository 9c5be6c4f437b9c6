package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
)

// loanUseCase implements LoanUseCase
type loanUseCase struct {
	loans     ports.LoanStorage
	publisher ports.LoanEventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewLoanUseCase создает новый экземпляр LoanUseCase.
// События публикуются после записи в БД, ошибка публикации только логируется
func NewLoanUseCase(loans ports.LoanStorage, publisher ports.LoanEventPublisher, logger *slog.Logger) LoanUseCase {
	return &loanUseCase{loans: loans, publisher: publisher, logger: logger, now: time.Now}
}

func (uc *loanUseCase) CreateLoan(ctx context.Context, userID int64, bookTitle string, bookISBN *string) (*domain.Loan, error) {
	loan := &domain.Loan{UserID: userID, BookTitle: bookTitle, BookISBN: bookISBN}
	if err := uc.loans.CreateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("usecase: ошибка создания займа: %w", err)
	}

	uc.publish(ctx, payloads.LoanCreated, loan, loan.LoanDate)
	return loan, nil
}

func (uc *loanUseCase) ListMyLoans(ctx context.Context, userID int64) ([]domain.Loan, error) {
	loans, err := uc.loans.ListLoansByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения займов: %w", err)
	}
	return loans, nil
}

func (uc *loanUseCase) ReturnLoan(ctx context.Context, userID, loanID int64) (*domain.Loan, error) {
	at := uc.now().UTC()
	loan, err := uc.loans.MarkLoanReturned(ctx, loanID, userID, at)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка возврата займа: %w", err)
	}

	uc.publish(ctx, payloads.LoanReturned, loan, at)
	return loan, nil
}

func (uc *loanUseCase) publish(ctx context.Context, event string, loan *domain.Loan, at time.Time) {
	if err := uc.publisher.PublishLoanEvent(ctx, payloads.NewLoanEvent(event, loan, at)); err != nil {
		uc.logger.Error("failed to publish loan event",
			"event", event,
			"loan_id", loan.ID,
			"error", err,
		)
	}
}
