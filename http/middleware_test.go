package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	cfghttp "github.com/sagarc03/cfgchain/http"
)

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"region", true},
		{"metadata_service_timeout", true},
		{"api.versions-2", true},
		{"", false},
		{strings.Repeat("x", 128), true},
		{strings.Repeat("x", 129), false},
		{"naïve", false},
		{"tab\there", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, cfghttp.IsValidName(tt.name))
		})
	}
}

func TestNameValidationMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.With(cfghttp.NameValidationMiddleware).Get("/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/region", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+strings.Repeat("a", 200), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_name")
}

func TestMetricsMiddleware_RoutePattern(t *testing.T) {
	m := cfghttp.NewMetrics()
	r := chi.NewRouter()
	r.Use(cfghttp.MetricsMiddleware(m))
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/2", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)

	families, err := m.Registry().Gather()
	assert.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() != "cfgchain_http_request_duration_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["route"] == "/things/{id}" && labels["status"] == "418" {
				found = true
				assert.Equal(t, uint64(2), metric.GetHistogram().GetSampleCount())
			}
		}
	}
	assert.True(t, found)
}
