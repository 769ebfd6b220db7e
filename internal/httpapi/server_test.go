package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dariafung/fotex/internal/rpc"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	router := rpc.NewRouter()
	router.Register("Echo", func(ctx context.Context, params json.RawMessage) (any, *rpc.Error) {
		var in map[string]any
		if len(params) > 0 {
			if err := json.Unmarshal(params, &in); err != nil {
				return nil, &rpc.Error{Message: "VALIDATION_FAILED"}
			}
		}
		return map[string]any{"got": in}, nil
	})
	router.Register("Fail", func(ctx context.Context, params json.RawMessage) (any, *rpc.Error) {
		return nil, &rpc.Error{Message: "COMPILE_FAILED", Data: map[string]any{"detail": "stderr"}}
	})
	return New(router, nil)
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func TestHealthz(t *testing.T) {
	rec, payload := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", payload["status"])
	assert.True(t, strings.HasPrefix(rec.Header().Get("X-Request-Id"), "req_"))
}

func TestListMethods(t *testing.T) {
	_, payload := do(t, newTestServer(t), http.MethodGet, "/rpc", "")
	assert.Equal(t, []any{"Echo", "Fail"}, payload["methods"])
}

func TestCallSuccess(t *testing.T) {
	rec, payload := do(t, newTestServer(t), http.MethodPost, "/rpc/Echo", `{"path":"/tmp/a.tex"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	result := payload["result"].(map[string]any)
	assert.Equal(t, map[string]any{"path": "/tmp/a.tex"}, result["got"])
}

func TestCallEmptyBody(t *testing.T) {
	rec, payload := do(t, newTestServer(t), http.MethodPost, "/rpc/Echo", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, payload, "result")
}

func TestCallErrors(t *testing.T) {
	s := newTestServer(t)

	rec, payload := do(t, s, http.MethodPost, "/rpc/Nope", "{}")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "method not found: Nope", payload["error"].(map[string]any)["message"])

	rec, _ = do(t, s, http.MethodPost, "/rpc/Echo", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, payload = do(t, s, http.MethodPost, "/rpc/Fail", "{}")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errBody := payload["error"].(map[string]any)
	assert.Equal(t, "COMPILE_FAILED", errBody["message"])
	assert.Equal(t, map[string]any{"detail": "stderr"}, errBody["data"])
}
