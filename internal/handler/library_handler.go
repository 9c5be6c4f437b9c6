package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/usecase"
)

type libraryRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,max=50"`
}

// LibraryHandler CRUD библиотек
type LibraryHandler struct {
	catalog usecase.CatalogUseCase
	logger  *slog.Logger
}

func NewLibraryHandler(uc usecase.CatalogUseCase, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{catalog: uc, logger: logger}
}

func (h *LibraryHandler) ListLibraries(w http.ResponseWriter, r *http.Request) {
	libraries, err := h.catalog.ListLibraries(r.Context())
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, libraries, h.logger)
}

func (h *LibraryHandler) CreateLibrary(w http.ResponseWriter, r *http.Request) {
	var req libraryRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	library := &domain.Library{Name: req.Name, Address: req.Address, Phone: req.Phone}
	if err := h.catalog.CreateLibrary(r.Context(), library); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, library, h.logger)
}

func (h *LibraryHandler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	library, err := h.catalog.GetLibrary(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, library, h.logger)
}

func (h *LibraryHandler) UpdateLibrary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	var req libraryRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	library := &domain.Library{ID: id, Name: req.Name, Address: req.Address, Phone: req.Phone}
	if err := h.catalog.UpdateLibrary(r.Context(), library); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, library, h.logger)
}

func (h *LibraryHandler) DeleteLibrary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	if err := h.catalog.DeleteLibrary(r.Context(), id); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLibraryCopies обрабатывает GET /libraries/{id}/copies
func (h *LibraryHandler) ListLibraryCopies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	copies, err := h.catalog.ListCopiesByLibrary(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, copies, h.logger)
}
