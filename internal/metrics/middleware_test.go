package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func metricsRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware())
	return r
}

func TestMiddleware_CountsAndTimesRequests(t *testing.T) {
	r := metricsRouter()
	r.Post("/api/v1/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/v1/search", "200"))
	if count < 1 {
		t.Errorf("http_requests_total = %f, want >= 1", count)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds observations")
	}
}

func TestMiddleware_LabelsByStatus(t *testing.T) {
	r := metricsRouter()
	r.Get("/api/v1/analytics", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/api/v1/documents/{documentID}/similar", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	tests := []struct {
		name    string
		url     string
		pattern string
		status  string
	}{
		{"bad request", "/api/v1/analytics", "/api/v1/analytics", "400"},
		{"not found", "/api/v1/documents/doc-1/similar", "/api/v1/documents/{documentID}/similar", "404"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, http.NoBody)
			r.ServeHTTP(httptest.NewRecorder(), req)

			count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.pattern, tc.status))
			if count < 1 {
				t.Errorf("http_requests_total{%s,%s} = %f, want >= 1", tc.pattern, tc.status, count)
			}
		})
	}
}

func TestMiddleware_RoutePatternBoundsCardinality(t *testing.T) {
	r := metricsRouter()
	r.Get("/api/v1/documents/{documentID}/similar", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	for _, id := range []string{"doc-1", "doc-2", "doc-3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+id+"/similar", http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(
		"GET", "/api/v1/documents/{documentID}/similar", "200"))
	if count < 3 {
		t.Errorf("pattern-labeled count = %f, want >= 3 (raw URLs must collapse to one label)", count)
	}
}

func TestMiddleware_ImplicitOKStatus(t *testing.T) {
	r := metricsRouter()
	// Write without an explicit WriteHeader call.
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200"))
	if count < 1 {
		t.Errorf("http_requests_total for implicit 200 = %f, want >= 1", count)
	}
}
