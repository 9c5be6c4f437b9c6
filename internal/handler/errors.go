package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

// errorBody общий вид ошибки в ответе
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// respondWithDomainError переводит ошибку usecase/storage в HTTP статус
func respondWithDomainError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var (
		verr     *domain.ValidationError
		conflict *domain.ConflictError
	)

	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Errors: verr.Fields}, logger)
	case errors.As(err, &conflict):
		respondWithError(w, http.StatusConflict, conflict.Error(), logger)
	case errors.Is(err, domain.ErrConflict):
		respondWithError(w, http.StatusConflict, domain.ErrConflict.Error(), logger)
	case errors.Is(err, domain.ErrAlreadyReturned):
		respondWithError(w, http.StatusConflict, domain.ErrAlreadyReturned.Error(), logger)
	case errors.Is(err, domain.ErrNotFound):
		respondWithJSON(w, http.StatusNotFound, errorBody{Error: "resource not found", Message: err.Error()}, logger)
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error(), logger)
	case errors.Is(err, domain.ErrStorageNotConfigured):
		respondWithError(w, http.StatusServiceUnavailable, domain.ErrStorageNotConfigured.Error(), logger)
	default:
		logger.Error("request failed", "error", err)
		respondWithJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error", Message: err.Error()}, logger)
	}
}
