package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// UserStorage реализует ports.UserStorage с использованием GORM
type UserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *gorm.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser сохраняет пользователя одной вставкой, ID заполняет база
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		s.logger.Error("failed to insert user", "username", user.Username, "error", err)
		return translateGormError("insert user", err)
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"username", user.Username,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByUsername возвращает domain.ErrNotFound, если пользователя нет
func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("failed to select user", "username", username, "error", err)
		}
		return nil, translateGormError("select user", err)
	}

	s.logger.Debug("user found",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}

func (s *UserStorage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "username = ?", username)
}

func (s *UserStorage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email = ?", email)
}

func (s *UserStorage) exists(ctx context.Context, cond string, value string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where(cond, value).Count(&n).Error; err != nil {
		s.logger.Error("failed to count users", "error", err)
		return false, translateGormError("count users", err)
	}
	return n > 0, nil
}
