package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken подпись, формат, срок действия или отсутствующие claims
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMalformedSubject токен валиден, но sub не является id пользователя
	ErrMalformedSubject = errors.New("token subject is not a valid user id")
)

// TokenManager выпускает и проверяет HS256 access-токены
type TokenManager struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenManager создаёт менеджер токенов. now может быть nil, тогда используется time.Now
func NewTokenManager(secret string, lifetime time.Duration, now func() time.Time) *TokenManager {
	if now == nil {
		now = time.Now
	}
	return &TokenManager{secret: []byte(secret), lifetime: lifetime, now: now}
}

// Issue подписывает токен с sub = десятичный id пользователя
func (m *TokenManager) Issue(subjectID int64) (string, error) {
	issuedAt := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subjectID, 10),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.lifetime)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify проверяет подпись и срок действия и возвращает id пользователя
func (m *TokenManager) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.Subject == "" {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrMalformedSubject
	}
	return id, nil
}
