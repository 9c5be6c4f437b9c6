package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"

	"github.com/google/uuid"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// catalogUseCase implements CatalogUseCase
type catalogUseCase struct {
	books     ports.BookStorage
	libraries ports.LibraryStorage
	copies    ports.CopyStorage
	files     ports.FileStorage
	logger    *slog.Logger
}

// NewCatalogUseCase files может быть nil, если объектное хранилище не настроено
func NewCatalogUseCase(
	books ports.BookStorage,
	libraries ports.LibraryStorage,
	copies ports.CopyStorage,
	files ports.FileStorage,
	logger *slog.Logger,
) CatalogUseCase {
	return &catalogUseCase{
		books:     books,
		libraries: libraries,
		copies:    copies,
		files:     files,
		logger:    logger,
	}
}

func (uc *catalogUseCase) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return uc.books.ListBooks(ctx)
}

func (uc *catalogUseCase) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	return uc.books.GetBook(ctx, id)
}

func (uc *catalogUseCase) CreateBook(ctx context.Context, book *domain.Book) error {
	return uc.books.CreateBook(ctx, book)
}

func (uc *catalogUseCase) UpdateBook(ctx context.Context, book *domain.Book) error {
	return uc.books.UpdateBook(ctx, book)
}

func (uc *catalogUseCase) DeleteBook(ctx context.Context, id int64) error {
	return uc.books.DeleteBook(ctx, id)
}

func (uc *catalogUseCase) UploadCover(ctx context.Context, bookID int64, image io.Reader, contentType string) (*domain.Book, error) {
	if uc.files == nil {
		return nil, domain.ErrStorageNotConfigured
	}

	book, err := uc.books.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	key := coverKey(bookID, contentType)
	url, err := uc.files.UploadFile(ctx, key, image, contentType)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка загрузки обложки: %w", err)
	}

	book.CoverImageURL = &url
	if err := uc.books.UpdateBook(ctx, book); err != nil {
		uc.logger.Error("cover uploaded but not linked to book, object is orphaned",
			"book_id", bookID,
			"key", key,
			"url", url,
			"error", err,
		)
		return nil, fmt.Errorf("usecase: ошибка сохранения обложки: %w", err)
	}

	uc.logger.Info("book cover uploaded", "book_id", bookID, "key", key)
	return book, nil
}

// coverKey <book id>/<uuid><ext>
func coverKey(bookID int64, contentType string) string {
	ext := ""
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	return fmt.Sprintf("%d/%s%s", bookID, uuid.NewString(), strings.ToLower(ext))
}

func (uc *catalogUseCase) ListLibraries(ctx context.Context) ([]domain.Library, error) {
	return uc.libraries.ListLibraries(ctx)
}

func (uc *catalogUseCase) GetLibrary(ctx context.Context, id int64) (*domain.Library, error) {
	return uc.libraries.GetLibrary(ctx, id)
}

func (uc *catalogUseCase) CreateLibrary(ctx context.Context, library *domain.Library) error {
	return uc.libraries.CreateLibrary(ctx, library)
}

func (uc *catalogUseCase) UpdateLibrary(ctx context.Context, library *domain.Library) error {
	return uc.libraries.UpdateLibrary(ctx, library)
}

func (uc *catalogUseCase) DeleteLibrary(ctx context.Context, id int64) error {
	return uc.libraries.DeleteLibrary(ctx, id)
}

func (uc *catalogUseCase) ListCopies(ctx context.Context) ([]domain.CopyView, error) {
	return uc.copies.ListCopies(ctx)
}

func (uc *catalogUseCase) ListCopiesByBook(ctx context.Context, bookID int64) ([]domain.CopyView, error) {
	if _, err := uc.books.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return uc.copies.ListCopiesByBook(ctx, bookID)
}

func (uc *catalogUseCase) ListCopiesByLibrary(ctx context.Context, libraryID int64) ([]domain.CopyView, error) {
	if _, err := uc.libraries.GetLibrary(ctx, libraryID); err != nil {
		return nil, err
	}
	return uc.copies.ListCopiesByLibrary(ctx, libraryID)
}

func (uc *catalogUseCase) GetCopy(ctx context.Context, id int64) (*domain.CopyView, error) {
	return uc.copies.GetCopy(ctx, id)
}

func (uc *catalogUseCase) CreateCopy(ctx context.Context, c *domain.BookCopy) (*domain.CopyView, error) {
	if err := uc.checkCopyRefs(ctx, c); err != nil {
		return nil, err
	}
	if err := uc.copies.CreateCopy(ctx, c); err != nil {
		return nil, err
	}
	return uc.copies.GetCopy(ctx, c.ID)
}

func (uc *catalogUseCase) UpdateCopy(ctx context.Context, c *domain.BookCopy) (*domain.CopyView, error) {
	if _, err := uc.copies.GetCopy(ctx, c.ID); err != nil {
		return nil, err
	}
	if err := uc.checkCopyRefs(ctx, c); err != nil {
		return nil, err
	}
	if err := uc.copies.UpdateCopy(ctx, c); err != nil {
		return nil, err
	}
	return uc.copies.GetCopy(ctx, c.ID)
}

func (uc *catalogUseCase) DeleteCopy(ctx context.Context, id int64) error {
	return uc.copies.DeleteCopy(ctx, id)
}

// checkCopyRefs книга и библиотека должны существовать
func (uc *catalogUseCase) checkCopyRefs(ctx context.Context, c *domain.BookCopy) error {
	if !c.Status.Valid() {
		return domain.NewValidationError("status", "oneof=0 1 2")
	}
	if _, err := uc.books.GetBook(ctx, c.BookID); err != nil {
		return fmt.Errorf("book %d: %w", c.BookID, err)
	}
	if _, err := uc.libraries.GetLibrary(ctx, c.LibraryID); err != nil {
		return fmt.Errorf("library %d: %w", c.LibraryID, err)
	}
	return nil
}
