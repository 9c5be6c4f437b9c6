package storage

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// BookStorage каталог книг на GORM
type BookStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewBookStorage(db *gorm.DB, logger *slog.Logger) *BookStorage {
	return &BookStorage{db: db, logger: logger}
}

func (s *BookStorage) ListBooks(ctx context.Context) ([]domain.Book, error) {
	start := time.Now()

	books := []domain.Book{}
	if err := s.db.WithContext(ctx).Order("id").Find(&books).Error; err != nil {
		s.logger.Error("failed to list books", "error", err)
		return nil, translateGormError("select books", err)
	}

	s.logger.Debug("books listed", "count", len(books), "duration_ms", time.Since(start).Milliseconds())
	return books, nil
}

func (s *BookStorage) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	var book domain.Book
	if err := s.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, translateGormError("select book", err)
	}
	return &book, nil
}

func (s *BookStorage) CreateBook(ctx context.Context, book *domain.Book) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(book).Error; err != nil {
		s.logger.Error("failed to insert book", "isbn", book.ISBN, "error", err)
		return translateGormError("insert book", err)
	}

	s.logger.Info("book created", "book_id", book.ID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// UpdateBook перезаписывает все поля, включая пустые
func (s *BookStorage) UpdateBook(ctx context.Context, book *domain.Book) error {
	start := time.Now()

	res := s.db.WithContext(ctx).Model(book).Select("*").Omit("id").Updates(book)
	if res.Error != nil {
		s.logger.Error("failed to update book", "book_id", book.ID, "error", res.Error)
		return translateGormError("update book", res.Error)
	}
	if res.RowsAffected == 0 {
		return translateGormError("update book", gorm.ErrRecordNotFound)
	}

	s.logger.Info("book updated", "book_id", book.ID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *BookStorage) DeleteBook(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&domain.Book{}, id)
	if res.Error != nil {
		s.logger.Error("failed to delete book", "book_id", id, "error", res.Error)
		return translateGormError("delete book", res.Error)
	}
	if res.RowsAffected == 0 {
		return translateGormError("delete book", gorm.ErrRecordNotFound)
	}

	s.logger.Info("book deleted", "book_id", id)
	return nil
}
