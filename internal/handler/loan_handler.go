package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/GoArmGo/LibraryApp/internal/usecase"
)

type createLoanRequest struct {
	BookTitle string  `json:"book_title" validate:"required,max=255"`
	BookISBN  *string `json:"book_isbn" validate:"omitempty,max=20"`
}

// LoanHandler журнал выдач текущего пользователя, все маршруты за AuthGate
type LoanHandler struct {
	loanUseCase usecase.LoanUseCase
	logger      *slog.Logger
}

func NewLoanHandler(uc usecase.LoanUseCase, logger *slog.Logger) *LoanHandler {
	return &LoanHandler{loanUseCase: uc, logger: logger}
}

// CreateLoan обрабатывает POST /loans/
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return
	}

	var req createLoanRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}
	req.BookTitle = strings.TrimSpace(req.BookTitle)
	if req.BookTitle == "" {
		respondWithDomainError(w, errBlank("book_title"), h.logger)
		return
	}

	loan, err := h.loanUseCase.CreateLoan(r.Context(), userID, req.BookTitle, req.BookISBN)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, loan, h.logger)
}

// ListMyLoans обрабатывает GET /loans/my
func (h *LoanHandler) ListMyLoans(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return
	}

	loans, err := h.loanUseCase.ListMyLoans(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, loans, h.logger)
}

// ReturnLoan обрабатывает POST /loans/{id}/return
func (h *LoanHandler) ReturnLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return
	}

	loanID, err := pathID(r, "id")
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	loan, err := h.loanUseCase.ReturnLoan(r.Context(), userID, loanID)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, loan, h.logger)
}
