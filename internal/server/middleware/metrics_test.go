package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/g0c0de0rd1e/audiomagister/internal/server/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.Get("/files/{file_name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/files/a.mp3", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/files/b.mp3", nil))

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, scrape.Body.String(),
		`audiomagister_http_requests_total{method="GET",route="/files/{file_name}",status="200"} 2`)
}
