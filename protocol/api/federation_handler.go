package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guileen/fedsql/backend"
	"github.com/guileen/fedsql/logger"
	"github.com/guileen/fedsql/plan"
	"github.com/guileen/fedsql/pushdown"
	"github.com/guileen/fedsql/translate"
	"github.com/guileen/fedsql/types"
)

// FederationHandler exposes backend registration and pushdown explain
// over HTTP
type FederationHandler struct {
	registry *backend.Registry
}

func NewFederationHandler(registry *backend.Registry) *FederationHandler {
	return &FederationHandler{registry: registry}
}

func (h *FederationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/backend", func(r chi.Router) {
		r.Post("/", h.RegisterBackend)
		r.Get("/", h.ListBackends)
		r.Post("/{name}/explain", h.Explain)
	})
}

type BackendResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Dialect  string `json:"dialect"`
	Endpoint string `json:"endpoint"`
}

type ExplainRequest struct {
	Plan json.RawMessage `json:"plan"`
}

type FragmentResponse struct {
	SQL    string       `json:"sql"`
	Schema types.Schema `json:"schema"`
	Score  int          `json:"score"`
}

type ExplainResponse struct {
	Full      bool               `json:"full"`
	None      bool               `json:"none"`
	Fragments []FragmentResponse `json:"fragments"`
	Residual  *plan.Node         `json:"residual,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *FederationHandler) RegisterBackend(w http.ResponseWriter, r *http.Request) {
	var cfg backend.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	b, err := h.registry.Register(r.Context(), cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if backend.IsConfigError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBackendResponse(b))
}

func (h *FederationHandler) ListBackends(w http.ResponseWriter, r *http.Request) {
	backends := h.registry.List()
	out := make([]BackendResponse, len(backends))
	for i, b := range backends {
		out[i] = toBackendResponse(b)
	}
	writeJSON(w, http.StatusOK, out)
}

// Explain runs pushdown selection and translation for a JSON-encoded
// logical plan without executing anything. With ?verify=1 the generated
// SQL is additionally parsed with the PostgreSQL grammar.
func (h *FederationHandler) Explain(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	b, ok := h.registry.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %q", backend.ErrNotFound, name))
		return
	}

	var req ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	root, err := plan.UnmarshalPlan(req.Plan)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	decision := pushdown.Select(root, b.Profile)
	response := ExplainResponse{
		Full:     decision.Full(),
		None:     decision.None(),
		Residual: decision.Residual,
	}

	verify := r.URL.Query().Get("verify") == "1" && b.Dialect.Name() == "postgres"
	for _, subtree := range decision.Pushed {
		result, err := translate.Build(subtree, b.Dialect)
		if err != nil {
			// The selector only hands over supported subtrees, so any
			// failure here is an internal inconsistency
			logger.ErrorContext(r.Context(), "Translation failed for pushable subtree",
				"backend", b.Name, "error", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if verify {
			if err := translate.VerifyPostgres(result.SQL); err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
		}
		response.Fragments = append(response.Fragments, FragmentResponse{
			SQL:    result.SQL,
			Schema: result.Schema,
			Score:  pushdown.Score(subtree, b.Profile),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func toBackendResponse(b *backend.Backend) BackendResponse {
	return BackendResponse{
		ID:       b.ID.String(),
		Name:     b.Name,
		Dialect:  b.Dialect.Name(),
		Endpoint: b.Identity.String(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
