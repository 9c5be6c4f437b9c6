package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/LibraryApp/internal/domain"
)

const recommendURL = "http://n8n.test/webhook/recommend"

func TestRecommend_NoHistoryMakesNoOutboundCall(t *testing.T) {
	h := newHarness(t, harnessOptions{recommendURL: recommendURL})
	alice := h.signUp(t, "alice")

	rec := h.do(t, http.MethodPost, "/recommend/", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"no loan history yet, cannot recommend"}`, rec.Body.String())
	assert.Empty(t, h.workflow.Calls())
}

func TestRecommend_PassThrough(t *testing.T) {
	h := newHarness(t, harnessOptions{recommendURL: recommendURL})
	alice := h.signUp(t, "alice")
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/loans/", map[string]any{"book_title": "Dune"}, alice).Code)

	h.workflow.Response = &domain.UpstreamResponse{
		StatusCode:  http.StatusOK,
		ContentType: "application/json; charset=utf-8",
		Body:        []byte(`{"recommendations":["Hyperion"]}`),
	}

	rec := h.do(t, http.MethodPost, "/recommend/", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"recommendations":["Hyperion"]}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	calls := h.workflow.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, recommendURL, calls[0].Endpoint)
}

func TestRecommend_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		err    error
		status int
		body   string
	}{
		{
			name:   "not configured",
			status: http.StatusServiceUnavailable,
			body:   `{"error":"recommendation service is not configured"}`,
		},
		{
			name:   "timeout",
			url:    recommendURL,
			err:    fmt.Errorf("%w: context deadline exceeded", domain.ErrUpstreamTimeout),
			status: http.StatusGatewayTimeout,
			body:   `{"error":"recommendation service timed out"}`,
		},
		{
			name:   "unreachable",
			url:    recommendURL,
			err:    fmt.Errorf("%w: connection refused", domain.ErrUpstreamUnreachable),
			status: http.StatusGatewayTimeout,
			body:   `{"error":"cannot connect to recommendation service"}`,
		},
		{
			name:   "upstream status",
			url:    recommendURL,
			err:    &domain.UpstreamStatusError{StatusCode: http.StatusBadGateway, Body: []byte(`{"message":"boom"}`)},
			status: http.StatusBadGateway,
			body:   `{"error":"recommendation service returned an error","upstream_response":"{\"message\":\"boom\"}"}`,
		},
		{
			name:   "malformed",
			url:    recommendURL,
			err:    domain.ErrUpstreamMalformed,
			status: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, harnessOptions{recommendURL: tt.url})
			alice := h.signUp(t, "alice")
			require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/loans/", map[string]any{"book_title": "Dune"}, alice).Code)
			h.workflow.Err = tt.err

			rec := h.do(t, http.MethodPost, "/recommend/", nil, alice)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRecommend_RequiresToken(t *testing.T) {
	h := newHarness(t, harnessOptions{recommendURL: recommendURL})
	rec := h.do(t, http.MethodPost, "/recommend/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, h.workflow.Calls())
}

func TestSearch_ForwardsBodyVerbatim(t *testing.T) {
	h := newHarness(t, harnessOptions{basicURL: "http://n8n.test/basic", advancedURL: "http://n8n.test/advanced"})
	h.workflow.Response = &domain.UpstreamResponse{StatusCode: http.StatusOK, Body: []byte(`{"results":[]}`)}

	body := `{"query":"dune","filters":{"year":1965}}`
	rec := h.do(t, http.MethodPost, "/search/advanced", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"results":[]}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	calls := h.workflow.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "http://n8n.test/advanced", calls[0].Endpoint)
	assert.JSONEq(t, body, string(calls[0].Payload.(json.RawMessage)))
}

func TestSearch_Errors(t *testing.T) {
	h := newHarness(t, harnessOptions{basicURL: "http://n8n.test/basic"})

	for _, body := range []string{``, `[]`, `{"query":""}`, `{"query":5}`, `{"q":"dune"}`} {
		rec := h.do(t, http.MethodPost, "/search/basic", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
	assert.Empty(t, h.workflow.Calls())

	rec := h.do(t, http.MethodPost, "/search/advanced", `{"query":"dune"}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var eb errorBody
	decodeBody(t, rec, &eb)
	assert.Equal(t, "advanced search service is not responding", eb.Error)
	assert.NotEmpty(t, eb.Message)

	h.workflow.Err = &domain.UpstreamStatusError{StatusCode: http.StatusInternalServerError}
	rec = h.do(t, http.MethodPost, "/search/basic", `{"query":"dune"}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	decodeBody(t, rec, &eb)
	assert.Equal(t, "basic search service is not responding", eb.Error)
}
