package storage

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// CopyStorage экземпляры книг. Чтение идёт через join с books и libraries
type CopyStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCopyStorage(db *gorm.DB, logger *slog.Logger) *CopyStorage {
	return &CopyStorage{db: db, logger: logger}
}

func (s *CopyStorage) views(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("book_copies AS c").
		Select("c.id, c.book_id, c.library_id, c.call_number, c.status, b.name AS book_name, l.name AS library_name").
		Joins("JOIN books b ON b.id = c.book_id").
		Joins("JOIN libraries l ON l.id = c.library_id")
}

func (s *CopyStorage) listViews(ctx context.Context, op string, where string, args ...any) ([]domain.CopyView, error) {
	start := time.Now()

	q := s.views(ctx)
	if where != "" {
		q = q.Where(where, args...)
	}

	copies := []domain.CopyView{}
	if err := q.Order("c.id").Scan(&copies).Error; err != nil {
		s.logger.Error("failed to list copies", "op", op, "error", err)
		return nil, translateGormError(op, err)
	}

	s.logger.Debug("copies listed", "op", op, "count", len(copies), "duration_ms", time.Since(start).Milliseconds())
	return copies, nil
}

func (s *CopyStorage) ListCopies(ctx context.Context) ([]domain.CopyView, error) {
	return s.listViews(ctx, "select copies", "")
}

func (s *CopyStorage) ListCopiesByBook(ctx context.Context, bookID int64) ([]domain.CopyView, error) {
	return s.listViews(ctx, "select copies by book", "c.book_id = ?", bookID)
}

func (s *CopyStorage) ListCopiesByLibrary(ctx context.Context, libraryID int64) ([]domain.CopyView, error) {
	return s.listViews(ctx, "select copies by library", "c.library_id = ?", libraryID)
}

func (s *CopyStorage) GetCopy(ctx context.Context, id int64) (*domain.CopyView, error) {
	var view domain.CopyView
	res := s.views(ctx).Where("c.id = ?", id).Limit(1).Scan(&view)
	if res.Error != nil {
		return nil, translateGormError("select copy", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, translateGormError("select copy", gorm.ErrRecordNotFound)
	}
	return &view, nil
}

func (s *CopyStorage) CreateCopy(ctx context.Context, c *domain.BookCopy) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		s.logger.Error("failed to insert copy", "book_id", c.BookID, "library_id", c.LibraryID, "error", err)
		return translateGormError("insert copy", err)
	}
	s.logger.Info("copy created", "copy_id", c.ID, "book_id", c.BookID, "library_id", c.LibraryID)
	return nil
}

func (s *CopyStorage) UpdateCopy(ctx context.Context, c *domain.BookCopy) error {
	res := s.db.WithContext(ctx).Model(c).Select("*").Omit("id").Updates(c)
	if res.Error != nil {
		s.logger.Error("failed to update copy", "copy_id", c.ID, "error", res.Error)
		return translateGormError("update copy", res.Error)
	}
	if res.RowsAffected == 0 {
		return translateGormError("update copy", gorm.ErrRecordNotFound)
	}
	s.logger.Info("copy updated", "copy_id", c.ID)
	return nil
}

func (s *CopyStorage) DeleteCopy(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&domain.BookCopy{}, id)
	if res.Error != nil {
		s.logger.Error("failed to delete copy", "copy_id", id, "error", res.Error)
		return translateGormError("delete copy", res.Error)
	}
	if res.RowsAffected == 0 {
		return translateGormError("delete copy", gorm.ErrRecordNotFound)
	}
	s.logger.Info("copy deleted", "copy_id", id)
	return nil
}
