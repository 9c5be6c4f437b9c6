package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// authUseCase implements AuthUseCase
type authUseCase struct {
	users  ports.UserStorage
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
}

// NewAuthUseCase создает новый экземпляр AuthUseCase
func NewAuthUseCase(users ports.UserStorage, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) AuthUseCase {
	return &authUseCase{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

func (uc *authUseCase) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	start := time.Now()

	taken, err := uc.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка проверки username: %w", err)
	}
	if taken {
		return nil, &domain.ConflictError{Field: "username"}
	}

	taken, err = uc.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка проверки email: %w", err)
	}
	if taken {
		return nil, &domain.ConflictError{Field: "email"}
	}

	digest, err := uc.hasher.Hash(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		// bcrypt считает байты, а валидатор в handler считает символы
		return nil, domain.NewValidationError("password", "max_bytes=72")
	}
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}

	user := &domain.User{Username: username, Email: email, PasswordHash: digest}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		// гонка: другой запрос успел занять имя между проверкой и вставкой
		if errors.Is(err, domain.ErrConflict) {
			return nil, &domain.ConflictError{Field: "username or email"}
		}
		return nil, fmt.Errorf("usecase: ошибка сохранения пользователя: %w", err)
	}

	uc.logger.Info("user registered",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return user, nil
}

func (uc *authUseCase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := uc.users.GetUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		uc.logger.Info("login rejected", "reason", "unknown user")
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка поиска пользователя: %w", err)
	}

	if !uc.hasher.Verify(password, user.PasswordHash) {
		uc.logger.Info("login rejected", "reason", "bad password", "user_id", user.ID)
		return "", domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("usecase: %w", err)
	}

	uc.logger.Info("user logged in", "user_id", user.ID)
	return token, nil
}
