package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("record already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAlreadyReturned    = errors.New("loan already returned")
	ErrInvalidDate        = errors.New("invalid date")

	// ошибки обращения к внешнему workflow-движку
	ErrUpstreamNotConfigured = errors.New("upstream url is not configured")
	ErrUpstreamTimeout       = errors.New("upstream request timed out")
	ErrUpstreamUnreachable   = errors.New("upstream is unreachable")
	ErrUpstreamMalformed     = errors.New("upstream returned a malformed response")

	ErrStorageNotConfigured = errors.New("object storage is not configured")
)

// UpstreamStatusError внешний сервис ответил статусом вне 2xx
type UpstreamStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.StatusCode)
}

// UpstreamResponse успешный ответ внешнего сервиса, отдаётся клиенту как есть
type UpstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// ConflictError уточняет, какое поле нарушило уникальность
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " already exists"
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ValidationError ошибки проверки входных данных по полям
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "input payload validation failed"
}

// NewValidationError ошибка для одного поля
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}
