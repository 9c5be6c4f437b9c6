package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandler_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/books/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/books/{id}", "404"))

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/books/{id}", "404"))
	assert.Equal(t, before+2, after)
}

func TestRecordUpstreamCall(t *testing.T) {
	before := testutil.ToFloat64(upstreamCalls.WithLabelValues("recommend", "timeout"))
	RecordUpstreamCall("recommend", "timeout", 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(upstreamCalls.WithLabelValues("recommend", "timeout")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordUpstreamCall("search_basic", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "libraryapp_upstream_calls_total")
}
