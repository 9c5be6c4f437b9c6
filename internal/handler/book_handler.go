package handler

import (
	"bytes"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/usecase"
)

// maxCoverSize предел размера обложки
const maxCoverSize = 5 << 20

type bookRequest struct {
	Name            string       `json:"name" validate:"required,max=255"`
	ISBN            string       `json:"isbn" validate:"required,max=13"`
	Author          string       `json:"author" validate:"required,max=255"`
	PublicationDate *domain.Date `json:"publication_date"`
	Publisher       *string      `json:"publisher" validate:"omitempty,max=255"`
	Description     *string      `json:"description"`
	Category        *string      `json:"category" validate:"omitempty,max=100"`
	Language        *string      `json:"language" validate:"omitempty,max=50"`
	CoverImageURL   *string      `json:"cover_image_url" validate:"omitempty,max=512"`
}

func (req bookRequest) toDomain(id int64) *domain.Book {
	return &domain.Book{
		ID:              id,
		Name:            req.Name,
		ISBN:            req.ISBN,
		Author:          req.Author,
		PublicationDate: req.PublicationDate,
		Publisher:       req.Publisher,
		Description:     req.Description,
		Category:        req.Category,
		Language:        req.Language,
		CoverImageURL:   req.CoverImageURL,
	}
}

// BookHandler CRUD книг и загрузка обложек
type BookHandler struct {
	catalog usecase.CatalogUseCase
	logger  *slog.Logger
}

func NewBookHandler(uc usecase.CatalogUseCase, logger *slog.Logger) *BookHandler {
	return &BookHandler{catalog: uc, logger: logger}
}

// ListBooks обрабатывает GET /books/
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalog.ListBooks(r.Context())
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, books, h.logger)
}

// CreateBook обрабатывает POST /books/
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	book := req.toDomain(0)
	if err := h.catalog.CreateBook(r.Context(), book); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, book, h.logger)
}

// GetBook обрабатывает GET /books/{id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	book, err := h.catalog.GetBook(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, book, h.logger)
}

// UpdateBook обрабатывает PUT /books/{id}, полная замена полей
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	var req bookRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	book := req.toDomain(id)
	if err := h.catalog.UpdateBook(r.Context(), book); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, book, h.logger)
}

// DeleteBook обрабатывает DELETE /books/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	if err := h.catalog.DeleteBook(r.Context(), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBookCopies обрабатывает GET /books/{id}/copies
func (h *BookHandler) ListBookCopies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	copies, err := h.catalog.ListCopiesByBook(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, copies, h.logger)
}

// UploadCover обрабатывает PUT /books/{id}/cover, тело запроса это само изображение
func (h *BookHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxCoverSize+1))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read request body", h.logger)
		return
	}
	if len(data) == 0 {
		respondWithDomainError(w, domain.NewValidationError("body", "required"), h.logger)
		return
	}
	if len(data) > maxCoverSize {
		respondWithError(w, http.StatusRequestEntityTooLarge, "cover image exceeds 5 MiB", h.logger)
		return
	}

	contentType := coverContentType(r.Header.Get("Content-Type"), data)
	if !strings.HasPrefix(contentType, "image/") {
		respondWithError(w, http.StatusUnsupportedMediaType, "cover must be an image", h.logger)
		return
	}

	book, err := h.catalog.UploadCover(r.Context(), id, bytes.NewReader(data), contentType)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, book, h.logger)
}

// coverContentType берёт тип из заголовка, а без него определяет по содержимому
func coverContentType(header string, data []byte) string {
	if header != "" {
		if mediaType, _, err := mime.ParseMediaType(header); err == nil {
			return mediaType
		}
	}
	return http.DetectContentType(data)
}
