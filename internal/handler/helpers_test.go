package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/logger"
	"github.com/GoArmGo/LibraryApp/internal/testutil"
	"github.com/GoArmGo/LibraryApp/internal/usecase"
)

const testSecret = "handler-test-secret"

type harness struct {
	store    *testutil.Store
	workflow *testutil.MockWorkflow
	tokens   *auth.TokenManager
	router   http.Handler
}

type harnessOptions struct {
	recommendURL string
	basicURL     string
	advancedURL  string
	files        ports.FileStorage
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	log := logger.Discard()
	store := testutil.NewStore()
	wf := &testutil.MockWorkflow{}
	tokens := auth.NewTokenManager(testSecret, 15*time.Minute, nil)

	authUC := usecase.NewAuthUseCase(store, auth.NewPasswordHasher(bcrypt.MinCost), tokens, log)
	loanUC := usecase.NewLoanUseCase(store, &testutil.RecordingPublisher{}, log)
	recUC := usecase.NewRecommendationUseCase(store, wf, opts.recommendURL, log)
	searchUC := usecase.NewSearchUseCase(wf, opts.basicURL, opts.advancedURL)
	catalogUC := usecase.NewCatalogUseCase(store, store, store, opts.files, log)

	authH := NewAuthHandler(authUC, log)
	loanH := NewLoanHandler(loanUC, log)
	gw := NewGatewayHandler(recUC, searchUC, log)
	books := NewBookHandler(catalogUC, log)
	libs := NewLibraryHandler(catalogUC, log)
	copies := NewCopyHandler(catalogUC, log)

	r := chi.NewRouter()
	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)
	r.Group(func(r chi.Router) {
		r.Use(AuthGate(tokens, log))
		r.Post("/loans/", loanH.CreateLoan)
		r.Get("/loans/my", loanH.ListMyLoans)
		r.Post("/loans/{id}/return", loanH.ReturnLoan)
		r.Post("/recommend/", gw.Recommend)
	})
	r.Post("/search/basic", gw.BasicSearch)
	r.Post("/search/advanced", gw.AdvancedSearch)
	r.Get("/books/", books.ListBooks)
	r.Post("/books/", books.CreateBook)
	r.Get("/books/{id}", books.GetBook)
	r.Put("/books/{id}", books.UpdateBook)
	r.Delete("/books/{id}", books.DeleteBook)
	r.Get("/books/{id}/copies", books.ListBookCopies)
	r.Put("/books/{id}/cover", books.UploadCover)
	r.Post("/libraries/", libs.CreateLibrary)
	r.Get("/libraries/{id}", libs.GetLibrary)
	r.Delete("/libraries/{id}", libs.DeleteLibrary)
	r.Get("/libraries/{id}/copies", libs.ListLibraryCopies)
	r.Post("/copies/", copies.CreateCopy)
	r.Get("/copies/{id}", copies.GetCopy)
	r.Put("/copies/{id}", copies.UpdateCopy)
	r.Delete("/copies/{id}", copies.DeleteCopy)

	return &harness{store: store, workflow: wf, tokens: tokens, router: r}
}

func (h *harness) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

// signUp регистрирует пользователя и возвращает его токен
func (h *harness) signUp(t *testing.T, username string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/auth/register", map[string]string{
		"username": username, "email": username + "@x.com", "password": "pw1",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/auth/login", map[string]string{"username": username, "password": "pw1"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}
