package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sagarc03/cfgchain"
)

// maxBodyBytes bounds PUT request bodies.
const maxBodyBytes = 1 << 20

// Service is the subset of *cfgchain.ConfigValueStore the API serves.
type Service interface {
	Names() []string
	Provider(name string) (cfgchain.Provider, bool)
	GetConfigVariable(ctx context.Context, name string) (any, bool, error)
	Explain(ctx context.Context, name string) (cfgchain.Resolution, error)
	SetConfigVariable(name string, value any)
	ClearConfigVariable(name string)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" validate:"min=0"`
}

type HandlerConfig struct {
	CORS CORSConfig
	// Metrics enables /metrics and request instrumentation when non-nil.
	Metrics *Metrics
}

// VariableResponse is the body of GET /variables/{name}.
type VariableResponse struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ListEntry is one element of GET /variables. Error is set instead of the
// value when the name failed to resolve.
type ListEntry struct {
	cfgchain.Resolution
	Error string `json:"error,omitempty"`
}

// SetRequest is the body of PUT /variables/{name}.
type SetRequest struct {
	Value any `json:"value"`
}

// Handler serves a ConfigValueStore over HTTP.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns an http.Handler with the variable routes and, when metrics
// are configured, /metrics.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	if h.config.Metrics != nil {
		r.Use(MetricsMiddleware(h.config.Metrics))
		r.Method(http.MethodGet, "/metrics", h.config.Metrics.Handler())
	}

	r.Get("/variables", h.handleList)
	r.Route("/variables/{name}", func(r chi.Router) {
		r.Use(NameValidationMiddleware)
		r.Get("/", h.handleGet)
		r.Get("/explain", h.handleExplain)
		r.Put("/", h.handlePut)
		r.Delete("/", h.handleDelete)
	})

	return r
}

// record counts a resolution. Names without a provider share the
// UnknownName label so request paths cannot grow the series set.
func (h *Handler) record(name string, present bool, err error) {
	if h.config.Metrics == nil {
		return
	}
	if _, ok := h.service.Provider(name); !ok {
		name = UnknownName
	}
	h.config.Metrics.RecordResolution(name, present, err)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	names := h.service.Names()
	entries := make([]ListEntry, 0, len(names))

	for _, name := range names {
		res, err := h.service.Explain(r.Context(), name)
		h.record(name, res.Present, err)
		entry := ListEntry{Resolution: res}
		if err != nil {
			entry.Resolution = cfgchain.Resolution{Name: name, Stage: -1}
			entry.Error = err.Error()
		}
		entries = append(entries, entry)
	}

	_ = WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	value, ok, err := h.service.GetConfigVariable(r.Context(), name)
	h.record(name, ok, err)
	if err != nil {
		HandleError(w, err)
		return
	}
	if !ok {
		WriteError(w, http.StatusNotFound, "not_found", "Variable not set")
		return
	}

	_ = WriteJSON(w, http.StatusOK, VariableResponse{Name: name, Value: value})
}

func (h *Handler) handleExplain(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	res, err := h.service.Explain(r.Context(), name)
	h.record(name, res.Present, err)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	req, err := decodeSetRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		HandleError(w, err)
		return
	}

	h.service.SetConfigVariable(name, req.Value)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	h.service.ClearConfigVariable(chi.URLParam(r, "name"))
	w.WriteHeader(http.StatusNoContent)
}

// decodeSetRequest requires a "value" member. Whole numbers decode as int.
func decodeSetRequest(body io.Reader) (SetRequest, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return SetRequest{}, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return SetRequest{}, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	member, ok := raw["value"]
	if !ok {
		return SetRequest{}, fmt.Errorf("%w: missing \"value\"", ErrInvalidBody)
	}

	dec := json.NewDecoder(bytes.NewReader(member))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return SetRequest{}, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return SetRequest{Value: cfgchain.NormalizeJSON(v)}, nil
}
