package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/usecase"
)

type copyRequest struct {
	BookID     int64   `json:"book_id" validate:"required,gt=0"`
	LibraryID  int64   `json:"library_id" validate:"required,gt=0"`
	CallNumber *string `json:"call_number" validate:"omitempty,max=100"`
	Status     *int    `json:"status" validate:"omitempty,oneof=0 1 2"`
}

func (req copyRequest) toDomain(id int64) *domain.BookCopy {
	c := &domain.BookCopy{
		ID:         id,
		BookID:     req.BookID,
		LibraryID:  req.LibraryID,
		CallNumber: req.CallNumber,
		Status:     domain.CopyOnShelf,
	}
	if req.Status != nil {
		c.Status = domain.CopyStatus(*req.Status)
	}
	return c
}

// CopyHandler CRUD физических экземпляров
type CopyHandler struct {
	catalog usecase.CatalogUseCase
	logger  *slog.Logger
}

func NewCopyHandler(uc usecase.CatalogUseCase, logger *slog.Logger) *CopyHandler {
	return &CopyHandler{catalog: uc, logger: logger}
}

func (h *CopyHandler) ListCopies(w http.ResponseWriter, r *http.Request) {
	copies, err := h.catalog.ListCopies(r.Context())
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, copies, h.logger)
}

// CreateCopy обрабатывает POST /copies/, книга и библиотека должны существовать
func (h *CopyHandler) CreateCopy(w http.ResponseWriter, r *http.Request) {
	var req copyRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	view, err := h.catalog.CreateCopy(r.Context(), req.toDomain(0))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, view, h.logger)
}

func (h *CopyHandler) GetCopy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	view, err := h.catalog.GetCopy(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, view, h.logger)
}

func (h *CopyHandler) UpdateCopy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	var req copyRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	view, err := h.catalog.UpdateCopy(r.Context(), req.toDomain(id))
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, view, h.logger)
}

func (h *CopyHandler) DeleteCopy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	if err := h.catalog.DeleteCopy(r.Context(), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
