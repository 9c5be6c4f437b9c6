package storage

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// LibraryStorage справочник библиотек на GORM
type LibraryStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewLibraryStorage(db *gorm.DB, logger *slog.Logger) *LibraryStorage {
	return &LibraryStorage{db: db, logger: logger}
}

func (s *LibraryStorage) ListLibraries(ctx context.Context) ([]domain.Library, error) {
	libraries := []domain.Library{}
	if err := s.db.WithContext(ctx).Order("id").Find(&libraries).Error; err != nil {
		s.logger.Error("failed to list libraries", "error", err)
		return nil, translateGormError("select libraries", err)
	}
	return libraries, nil
}

func (s *LibraryStorage) GetLibrary(ctx context.Context, id int64) (*domain.Library, error) {
	var library domain.Library
	if err := s.db.WithContext(ctx).First(&library, id).Error; err != nil {
		return nil, translateGormError("select library", err)
	}
	return &library, nil
}

func (s *LibraryStorage) CreateLibrary(ctx context.Context, library *domain.Library) error {
	if err := s.db.WithContext(ctx).Create(library).Error; err != nil {
		s.logger.Error("failed to insert library", "name", library.Name, "error", err)
		return translateGormError("insert library", err)
	}
	s.logger.Info("library created", "library_id", library.ID)
	return nil
}

func (s *LibraryStorage) UpdateLibrary(ctx context.Context, library *domain.Library) error {
	res := s.db.WithContext(ctx).Model(library).Select("*").Omit("id").Updates(library)
	if res.Error != nil {
		s.logger.Error("failed to update library", "library_id", library.ID, "error", res.Error)
		return translateGormError("update library", res.Error)
	}
	if res.RowsAffected == 0 {
		return translateGormError("update library", gorm.ErrRecordNotFound)
	}
	s.logger.Info("library updated", "library_id", library.ID)
	return nil
}

func (s *LibraryStorage) DeleteLibrary(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&domain.Library{}, id)
	if res.Error != nil {
		s.logger.Error("failed to delete library", "library_id", id, "error", res.Error)
		return translateGormError("delete library", res.Error)
	}
	if res.RowsAffected == 0 {
		return translateGormError("delete library", gorm.ErrRecordNotFound)
	}
	s.logger.Info("library deleted", "library_id", id)
	return nil
}
