package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// Типы событий журнала выдач
const (
	LoanCreated  = "loan.created"
	LoanReturned = "loan.returned"
)

// LoanEventPayload сообщение о выдаче или возврате книги, уходит в RabbitMQ
type LoanEventPayload struct {
	EventID    uuid.UUID `json:"event_id"`
	Event      string    `json:"event"`
	LoanID     int64     `json:"loan_id"`
	UserID     int64     `json:"user_id"`
	BookTitle  string    `json:"book_title"`
	BookISBN   *string   `json:"book_isbn,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewLoanEvent собирает событие по записи займа
func NewLoanEvent(event string, loan *domain.Loan, at time.Time) LoanEventPayload {
	return LoanEventPayload{
		EventID:    uuid.New(),
		Event:      event,
		LoanID:     loan.ID,
		UserID:     loan.UserID,
		BookTitle:  loan.BookTitle,
		BookISBN:   loan.BookISBN,
		OccurredAt: at.UTC(),
	}
}
