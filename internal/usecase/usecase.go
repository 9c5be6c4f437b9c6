package usecase

import (
	"context"
	"encoding/json"
	"io"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// PasswordHasher хэширование паролей (реализация в пакете auth)
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer выпуск access-токенов
type TokenIssuer interface {
	Issue(subjectID int64) (string, error)
}

// AuthUseCase регистрация и вход
type AuthUseCase interface {
	// Register создаёт пользователя. Занятый username или email дают *domain.ConflictError
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	// Login возвращает подписанный токен или domain.ErrInvalidCredentials
	Login(ctx context.Context, username, password string) (string, error)
}

// LoanUseCase журнал выдач текущего пользователя
type LoanUseCase interface {
	CreateLoan(ctx context.Context, userID int64, bookTitle string, bookISBN *string) (*domain.Loan, error)
	ListMyLoans(ctx context.Context, userID int64) ([]domain.Loan, error)
	ReturnLoan(ctx context.Context, userID, loanID int64) (*domain.Loan, error)
}

// Recommendation результат запроса рекомендаций: либо ответ движка, либо отсутствие истории
type Recommendation struct {
	NoHistory bool
	Upstream  *domain.UpstreamResponse
}

// RecommendationUseCase проксирует историю выдач в workflow-движок
type RecommendationUseCase interface {
	GetRecommendations(ctx context.Context, userID int64) (*Recommendation, error)
}

// SearchUseCase пробрасывает поисковый запрос без изменений
type SearchUseCase interface {
	BasicSearch(ctx context.Context, body json.RawMessage) (*domain.UpstreamResponse, error)
	AdvancedSearch(ctx context.Context, body json.RawMessage) (*domain.UpstreamResponse, error)
}

// CatalogUseCase CRUD книг, библиотек и экземпляров
type CatalogUseCase interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	CreateBook(ctx context.Context, book *domain.Book) error
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id int64) error
	// UploadCover сохраняет изображение в объектное хранилище и пишет URL в cover_image_url
	UploadCover(ctx context.Context, bookID int64, image io.Reader, contentType string) (*domain.Book, error)

	ListLibraries(ctx context.Context) ([]domain.Library, error)
	GetLibrary(ctx context.Context, id int64) (*domain.Library, error)
	CreateLibrary(ctx context.Context, library *domain.Library) error
	UpdateLibrary(ctx context.Context, library *domain.Library) error
	DeleteLibrary(ctx context.Context, id int64) error

	ListCopies(ctx context.Context) ([]domain.CopyView, error)
	ListCopiesByBook(ctx context.Context, bookID int64) ([]domain.CopyView, error)
	ListCopiesByLibrary(ctx context.Context, libraryID int64) ([]domain.CopyView, error)
	GetCopy(ctx context.Context, id int64) (*domain.CopyView, error)
	CreateCopy(ctx context.Context, c *domain.BookCopy) (*domain.CopyView, error)
	UpdateCopy(ctx context.Context, c *domain.BookCopy) (*domain.CopyView, error)
	DeleteCopy(ctx context.Context, id int64) error
}
