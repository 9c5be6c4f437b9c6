package storage

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// коды ошибок PostgreSQL, которые переводятся в доменные
const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// translateGormError переводит ошибки GORM (TranslateError: true) в доменные sentinel-ошибки
func translateGormError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// ссылка на несуществующую запись
		return fmt.Errorf("%s: referenced record: %w", op, domain.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// translatePQError то же самое для запросов через sqlx/lib/pq
func translatePQError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: referenced record: %w", op, domain.ErrNotFound)
		case pqUniqueViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
