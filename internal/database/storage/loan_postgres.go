package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

const loanColumns = `id, user_id, book_title, book_isbn, loan_date, return_date`

// LoanStorage журнал выдач поверх sqlx
type LoanStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewLoanStorage(db *sqlx.DB, logger *slog.Logger) *LoanStorage {
	return &LoanStorage{db: db, logger: logger}
}

// CreateLoan вставляет запись, loan_date выставляет сервер БД
func (s *LoanStorage) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	start := time.Now()

	query, args, err := sqlx.Named(`
	INSERT INTO loans (user_id, book_title, book_isbn)
	VALUES (:user_id, :book_title, :book_isbn)
	RETURNING id, loan_date`, loan)
	if err != nil {
		return fmt.Errorf("bind insert loan: %w", err)
	}

	err = s.db.QueryRowxContext(ctx, s.db.Rebind(query), args...).Scan(&loan.ID, &loan.LoanDate)
	if err != nil {
		s.logger.Error("failed to insert loan", "user_id", loan.UserID, "error", err)
		return translatePQError("insert loan", err)
	}

	s.logger.Info("loan created",
		"loan_id", loan.ID,
		"user_id", loan.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ListLoansByUser отдаёт все займы пользователя, новые первыми
func (s *LoanStorage) ListLoansByUser(ctx context.Context, userID int64) ([]domain.Loan, error) {
	start := time.Now()

	loans := []domain.Loan{}
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 ORDER BY loan_date DESC, id DESC`
	if err := s.db.SelectContext(ctx, &loans, query, userID); err != nil {
		s.logger.Error("failed to list loans", "user_id", userID, "error", err)
		return nil, fmt.Errorf("select loans: %w", err)
	}

	s.logger.Debug("loans listed",
		"user_id", userID,
		"count", len(loans),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return loans, nil
}

// RecentLoanTitles последние limit названий для запроса рекомендаций
func (s *LoanStorage) RecentLoanTitles(ctx context.Context, userID int64, limit int) ([]string, error) {
	titles := []string{}
	query := `SELECT book_title FROM loans WHERE user_id = $1 ORDER BY loan_date DESC, id DESC LIMIT $2`
	if err := s.db.SelectContext(ctx, &titles, query, userID, limit); err != nil {
		s.logger.Error("failed to select loan history", "user_id", userID, "error", err)
		return nil, fmt.Errorf("select loan history: %w", err)
	}
	return titles, nil
}

// GetLoan ищет займ среди займов пользователя. Чужой займ неотличим от отсутствующего
func (s *LoanStorage) GetLoan(ctx context.Context, loanID, userID int64) (*domain.Loan, error) {
	var loan domain.Loan
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 AND user_id = $2`
	if err := s.db.GetContext(ctx, &loan, query, loanID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("select loan %d: %w", loanID, domain.ErrNotFound)
		}
		s.logger.Error("failed to select loan", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf("select loan: %w", err)
	}
	return &loan, nil
}

// MarkLoanReturned закрывает открытый займ. Для уже закрытого возвращает domain.ErrAlreadyReturned
func (s *LoanStorage) MarkLoanReturned(ctx context.Context, loanID, userID int64, at time.Time) (*domain.Loan, error) {
	start := time.Now()

	var loan domain.Loan
	query := `
	UPDATE loans SET return_date = $3
	WHERE id = $1 AND user_id = $2 AND return_date IS NULL
	RETURNING ` + loanColumns
	err := s.db.GetContext(ctx, &loan, query, loanID, userID, at)
	if errors.Is(err, sql.ErrNoRows) {
		// либо займа нет, либо он уже закрыт
		if _, getErr := s.GetLoan(ctx, loanID, userID); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("return loan %d: %w", loanID, domain.ErrAlreadyReturned)
	}
	if err != nil {
		s.logger.Error("failed to mark loan returned", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf("update loan: %w", err)
	}

	s.logger.Info("loan returned",
		"loan_id", loan.ID,
		"user_id", userID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &loan, nil
}
