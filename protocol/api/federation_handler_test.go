package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guileen/fedsql/backend"
	"github.com/guileen/fedsql/plan"
	"github.com/guileen/fedsql/types"
)

func newTestRouter(t *testing.T) (chi.Router, *backend.Registry) {
	t.Helper()
	registry := backend.NewRegistry()
	t.Cleanup(registry.Close)
	r := chi.NewRouter()
	NewFederationHandler(registry).RegisterRoutes(r)
	return r, registry
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerPayload(name string) map[string]any {
	return map[string]any{
		"name":    name,
		"url":     "postgres://127.0.0.1:5432/orders",
		"dialect": "postgres",
		"capabilities": map[string]any{
			"all": true,
		},
	}
}

func TestRegisterBackendEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("Created", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/backend", registerPayload("pg"))
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp BackendResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "pg", resp.Name)
		assert.Equal(t, "postgres", resp.Dialect)
		assert.Equal(t, "127.0.0.1:5432", resp.Endpoint)
		assert.NotEmpty(t, resp.ID)
	})

	t.Run("ConfigErrorsAreBadRequest", func(t *testing.T) {
		payload := registerPayload("bad")
		payload["dialect"] = "oracle"
		rec := doJSON(t, r, http.MethodPost, "/api/backend", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "unknown dialect")
	})

	t.Run("DuplicateName", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/backend", registerPayload("pg"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/backend", bytes.NewBufferString("not json"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListBackendsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, name := range []string{"beta", "alpha"} {
		rec := doJSON(t, r, http.MethodPost, "/api/backend", registerPayload(name))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, r, http.MethodGet, "/api/backend", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []BackendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "alpha", resp[0].Name)
	assert.Equal(t, "beta", resp[1].Name)
}

func TestExplainEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/backend", registerPayload("pg"))
	require.Equal(t, http.StatusCreated, rec.Code)

	scan := plan.Scan("orders", types.Schema{
		{Name: "id", Type: types.TypeBigInt},
		{Name: "amount", Type: types.TypeBigInt},
	})
	root := plan.Filter(
		plan.Project(scan, []plan.NamedExpr{
			{Name: "id", Expr: plan.Attribute("id", types.TypeBigInt)},
			{Name: "amount", Expr: plan.Attribute("amount", types.TypeBigInt)},
		}),
		plan.Binary(plan.OpGreaterThan,
			plan.Attribute("amount", types.TypeBigInt),
			plan.Literal(int64(100), types.TypeBigInt),
			types.TypeBoolean))
	planJSON, err := plan.MarshalPlan(root)
	require.NoError(t, err)

	t.Run("FullPushdownWithVerification", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/backend/pg/explain?verify=1",
			ExplainRequest{Plan: planJSON})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp ExplainResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Full)
		assert.False(t, resp.None)
		assert.Nil(t, resp.Residual)
		require.Len(t, resp.Fragments, 1)
		assert.Equal(t, `SELECT "id", "amount" FROM "orders" WHERE "amount" > 100`, resp.Fragments[0].SQL)
		require.Len(t, resp.Fragments[0].Schema, 2)
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/backend/missing/explain",
			ExplainRequest{Plan: planJSON})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("InvalidPlan", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/api/backend/pg/explain",
			ExplainRequest{Plan: json.RawMessage(`{"kind":"filter"}`)})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestExplainResidualShape(t *testing.T) {
	r, _ := newTestRouter(t)

	// A backend that takes scans and projections but not filters
	payload := map[string]any{
		"name":    "limited",
		"url":     "postgres://127.0.0.1:5432/orders",
		"dialect": "postgres",
		"capabilities": map[string]any{
			"operators":   []string{"scan", "project"},
			"expressions": []string{"attribute"},
		},
	}
	rec := doJSON(t, r, http.MethodPost, "/api/backend", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	scan := plan.Scan("orders", types.Schema{
		{Name: "id", Type: types.TypeBigInt},
		{Name: "amount", Type: types.TypeBigInt},
	})
	root := plan.Filter(
		plan.Project(scan, []plan.NamedExpr{
			{Name: "id", Expr: plan.Attribute("id", types.TypeBigInt)},
			{Name: "amount", Expr: plan.Attribute("amount", types.TypeBigInt)},
		}),
		plan.Binary(plan.OpGreaterThan,
			plan.Attribute("amount", types.TypeBigInt),
			plan.Literal(int64(100), types.TypeBigInt),
			types.TypeBoolean))
	planJSON, err := plan.MarshalPlan(root)
	require.NoError(t, err)

	rec = doJSON(t, r, http.MethodPost, "/api/backend/limited/explain",
		ExplainRequest{Plan: planJSON})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ExplainResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Full)
	assert.False(t, resp.None)
	require.Len(t, resp.Fragments, 1)
	assert.Equal(t, `SELECT "id", "amount" FROM "orders"`, resp.Fragments[0].SQL)
	require.NotNil(t, resp.Residual)
	assert.Equal(t, plan.NodeFilter, resp.Residual.Kind)
	require.Len(t, resp.Residual.Children, 1)
	assert.Equal(t, plan.NodeRemoteScan, resp.Residual.Children[0].Kind)
	assert.Equal(t, "remote_0", resp.Residual.Children[0].Table)
}
