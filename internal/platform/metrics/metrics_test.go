package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeCounter struct {
	n   int
	err error
}

func (f fakeCounter) Count(context.Context) (int, error) { return f.n, f.err }

func newTestRouter(m *Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/v1/entries/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := New()
	r := newTestRouter(m)

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/entries/"+id, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/v1/entries/{id}", "404"))
	if got != 3 {
		t.Fatalf("expected 3 requests on the pattern label, got %v", got)
	}
	if n := testutil.CollectAndCount(m.duration); n != 1 {
		t.Fatalf("expected one histogram series, got %d", n)
	}
}

func TestMiddlewareDefaultsStatusAndUnmatched(t *testing.T) {
	m := New()
	r := newTestRouter(m)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/ok", "200")); got != 1 {
		t.Fatalf("expected 1 request with status 200, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, unmatchedRoute, "404")); got != 1 {
		t.Fatalf("expected 1 unmatched request, got %v", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	if err := m.Register(NewEntriesCollector(fakeCounter{n: 7})); err != nil {
		t.Fatalf("register: %v", err)
	}
	m.requests.WithLabelValues(http.MethodGet, "/", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"journal_entries_total 7",
		"journal_store_up 1",
		`journal_http_requests_total{method="GET",route="/",status="200"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in exposition", want)
		}
	}
}

func TestEntriesCollector(t *testing.T) {
	c := NewEntriesCollector(fakeCounter{n: 3})
	expected := `
# HELP journal_entries_total Number of journal entries currently stored
# TYPE journal_entries_total gauge
journal_entries_total 3
# HELP journal_store_up Whether the last entry count succeeded (1) or failed (0)
# TYPE journal_store_up gauge
journal_store_up 1
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Fatal(err)
	}
}

func TestEntriesCollectorCountError(t *testing.T) {
	c := NewEntriesCollector(fakeCounter{err: errors.New("unavailable")})

	if n := testutil.CollectAndCount(c); n != 1 {
		t.Fatalf("expected only the store_up metric, got %d", n)
	}
	expected := `
# HELP journal_store_up Whether the last entry count succeeded (1) or failed (0)
# TYPE journal_store_up gauge
journal_store_up 0
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected), "journal_store_up"); err != nil {
		t.Fatal(err)
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	m := New()
	if err := m.Register(NewEntriesCollector(fakeCounter{})); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := m.Register(NewEntriesCollector(fakeCounter{})); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}
