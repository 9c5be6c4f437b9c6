package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/LibraryApp/internal/usecase"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// AuthHandler регистрация и вход
type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	logger      *slog.Logger
}

func NewAuthHandler(uc usecase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authUseCase: uc, logger: logger}
}

// Register обрабатывает POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	if _, err := h.authUseCase.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		h.logger.Warn("registration failed", "username", req.Username, "error", err)
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "user created"}, h.logger)
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	token, err := h.authUseCase.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithDomainError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{Message: "login successful", AccessToken: token}, h.logger)
}
