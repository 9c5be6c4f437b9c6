package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/GoArmGo/LibraryApp/internal/domain"
)

func TestLoans_CreateAndList(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.store.Now = time.Now
	alice := h.signUp(t, "alice")
	bob := h.signUp(t, "bob")
	aliceID, err := h.tokens.Verify(alice)
	require.NoError(t, err)

	rec := h.do(t, http.MethodPost, "/loans/", map[string]any{"book_title": "Dune", "book_isbn": "9780441013593"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dune domain.Loan
	decodeBody(t, rec, &dune)
	assert.Equal(t, "Dune", dune.BookTitle)
	require.NotNil(t, dune.BookISBN)
	assert.Equal(t, "9780441013593", *dune.BookISBN)
	assert.Nil(t, dune.ReturnDate)
	assert.Equal(t, aliceID, dune.UserID)
	assert.WithinDuration(t, time.Now(), dune.LoanDate, 5*time.Second)

	rec = h.do(t, http.MethodPost, "/loans/", map[string]any{"book_title": "Emma"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(t, http.MethodGet, "/loans/my", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []domain.Loan
	decodeBody(t, rec, &mine)
	require.Len(t, mine, 2)
	assert.Equal(t, "Emma", mine[0].BookTitle)
	assert.Equal(t, "Dune", mine[1].BookTitle)

	rec = h.do(t, http.MethodGet, "/loans/my", nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLoans_Validation(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	alice := h.signUp(t, "alice")

	for _, body := range []any{
		map[string]any{},
		map[string]any{"book_title": "   "},
		map[string]any{"book_title": 42},
		nil,
	} {
		rec := h.do(t, http.MethodPost, "/loans/", body, alice)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %v", body)
	}

	assert.Zero(t, h.store.Loans())
}

func TestLoans_CreateWithoutValidTokenPersistsNothing(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.signUp(t, "alice")

	expired, err := auth.NewTokenManager(testSecret, time.Minute, func() time.Time {
		return time.Now().Add(-time.Hour)
	}).Issue(1)
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-jwt", expired} {
		rec := h.do(t, http.MethodPost, "/loans/", map[string]any{"book_title": "Dune"}, token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "token %q", token)
	}
	assert.Zero(t, h.store.Loans())
}

func TestLoans_Return(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	alice := h.signUp(t, "alice")
	bob := h.signUp(t, "bob")

	rec := h.do(t, http.MethodPost, "/loans/", map[string]any{"book_title": "Dune"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	var loan domain.Loan
	decodeBody(t, rec, &loan)
	path := fmt.Sprintf("/loans/%d/return", loan.ID)

	rec = h.do(t, http.MethodPost, path, nil, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code, "other users cannot see the loan")

	rec = h.do(t, http.MethodPost, path, nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &loan)
	assert.NotNil(t, loan.ReturnDate)

	rec = h.do(t, http.MethodPost, path, nil, alice)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(t, http.MethodPost, "/loans/abc/return", nil, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
