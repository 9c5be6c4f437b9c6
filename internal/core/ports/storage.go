package ports

import (
	"context"
	"io"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	// CreateUser сохраняет пользователя и заполняет ID. Нарушение уникальности даёт domain.ErrConflict
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// LoanStorage журнал выдач
type LoanStorage interface {
	// CreateLoan вставляет строку с loan_date = now() на стороне сервера БД
	CreateLoan(ctx context.Context, loan *domain.Loan) error
	// ListLoansByUser займы пользователя, новые первыми
	ListLoansByUser(ctx context.Context, userID int64) ([]domain.Loan, error)
	// RecentLoanTitles последние limit названий, новые первыми
	RecentLoanTitles(ctx context.Context, userID int64, limit int) ([]string, error)
	GetLoan(ctx context.Context, loanID, userID int64) (*domain.Loan, error)
	// MarkLoanReturned ставит return_date только открытому займу этого пользователя
	MarkLoanReturned(ctx context.Context, loanID, userID int64, at time.Time) (*domain.Loan, error)
}

// BookStorage каталог книг
type BookStorage interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	CreateBook(ctx context.Context, book *domain.Book) error
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id int64) error
}

// LibraryStorage справочник библиотек
type LibraryStorage interface {
	ListLibraries(ctx context.Context) ([]domain.Library, error)
	GetLibrary(ctx context.Context, id int64) (*domain.Library, error)
	CreateLibrary(ctx context.Context, library *domain.Library) error
	UpdateLibrary(ctx context.Context, library *domain.Library) error
	DeleteLibrary(ctx context.Context, id int64) error
}

// CopyStorage физические экземпляры. Чтение всегда возвращает CopyView с именами книги и библиотеки
type CopyStorage interface {
	ListCopies(ctx context.Context) ([]domain.CopyView, error)
	ListCopiesByBook(ctx context.Context, bookID int64) ([]domain.CopyView, error)
	ListCopiesByLibrary(ctx context.Context, libraryID int64) ([]domain.CopyView, error)
	GetCopy(ctx context.Context, id int64) (*domain.CopyView, error)
	CreateCopy(ctx context.Context, c *domain.BookCopy) error
	UpdateCopy(ctx context.Context, c *domain.BookCopy) error
	DeleteCopy(ctx context.Context, id int64) error
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (MinIO)
type FileStorage interface {
	// UploadFile загружает файл и возвращает его публичный URL
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}
