package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/observability"
	"github.com/matzehuels/ventgraph/pkg/pipeline"
	"github.com/matzehuels/ventgraph/pkg/server"
)

// =============================================================================
// Helpers
// =============================================================================

const lineNodes = `[
	{"id": "S", "tunnels": ["A"]},
	{"id": "A", "rate": 10, "tunnels": ["S", "B"]},
	{"id": "B", "rate": 1, "tunnels": ["A"]}
]`

func newServer(t *testing.T) *server.Server {
	t.Helper()
	logger := log.New(io.Discard)
	return server.New(pipeline.NewRunner(nil, nil, logger), logger)
}

func post(t *testing.T, s *server.Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) server.ErrorResponse {
	t.Helper()
	var e server.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

// =============================================================================
// Health
// =============================================================================

func TestHealth(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "version")
}

// =============================================================================
// Solve
// =============================================================================

func TestSolve(t *testing.T) {
	s := newServer(t)
	rec := post(t, s, "/v1/solve", `{"nodes": `+lineNodes+`, "options": {"start": "S", "budget": 5, "split_budget": 5, "routes": true}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 31, res.Single.Value)
	require.NotNil(t, res.Split)
	assert.Equal(t, 32, res.Split.Value)
	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Single.Route, 2)
	assert.Equal(t, "A", res.Single.Route[0].Node)
}

func TestSolve_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   errs.Code
	}{
		{
			name:   "malformed json",
			body:   `{"nodes": [`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeInvalidFormat,
		},
		{
			name:   "unknown field",
			body:   `{"graph": []}`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeInvalidFormat,
		},
		{
			name:   "unknown neighbor",
			body:   `{"nodes": [{"id": "AA", "tunnels": ["BB"]}]}`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeUnknownNeighbor,
		},
		{
			name:   "negative budget",
			body:   `{"nodes": ` + lineNodes + `, "options": {"start": "S", "budget": -1}}`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeInvalidBudget,
		},
		{
			name:   "missing start",
			body:   `{"nodes": ` + lineNodes + `, "options": {"start": "ZZ"}}`,
			status: http.StatusUnprocessableEntity,
			code:   errs.ErrCodeStartNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newServer(t), "/v1/solve", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			e := decodeError(t, rec)
			assert.Equal(t, string(tt.code), e.Code)
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestSolve_WrongContentType(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestSolve_BodyLimit(t *testing.T) {
	logger := log.New(io.Discard)
	s := server.New(pipeline.NewRunner(nil, nil, logger), logger, server.WithMaxBody(16))
	rec := post(t, s, "/v1/solve", `{"nodes": `+lineNodes+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// Oversized Input
// =============================================================================

// starNodes is S linked to k rate-1 leaves, as a JSON node list.
func starNodes(t *testing.T, k int) string {
	t.Helper()
	type node struct {
		ID      string   `json:"id"`
		Rate    int      `json:"rate,omitempty"`
		Tunnels []string `json:"tunnels,omitempty"`
	}
	nodes := []node{{ID: "S"}}
	for i := 0; i < k; i++ {
		id := "L" + string(rune('A'+i/26)) + string(rune('A'+i%26))
		nodes[0].Tunnels = append(nodes[0].Tunnels, id)
		nodes = append(nodes, node{ID: id, Rate: 1, Tunnels: []string{"S"}})
	}
	data, err := json.Marshal(nodes)
	require.NoError(t, err)
	return string(data)
}

func TestSolve_SplitTooLarge(t *testing.T) {
	body := `{"nodes": ` + starNodes(t, server.DefaultMaxSplitPositives+1) + `, "options": {"start": "S", "budget": 3, "split_budget": 3}}`

	begin := time.Now()
	rec := post(t, newServer(t), "/v1/solve", body)
	assert.Less(t, time.Since(begin), 2*time.Second)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, string(errs.ErrCodeCapacityExceeded), decodeError(t, rec).Code)
}

func TestSolve_SplitLimitOptions(t *testing.T) {
	logger := log.New(io.Discard)
	nodes := starNodes(t, 3)

	tests := []struct {
		name   string
		limit  int
		body   string
		status int
	}{
		{"at limit", 3, `{"nodes": ` + nodes + `, "options": {"start": "S"}}`, http.StatusOK},
		{"over limit", 2, `{"nodes": ` + nodes + `, "options": {"start": "S"}}`, http.StatusUnprocessableEntity},
		{"over limit without split", 2, `{"nodes": ` + nodes + `, "options": {"start": "S", "skip_split": true}}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := server.New(pipeline.NewRunner(nil, nil, logger), logger, server.WithMaxSplitPositives(tt.limit))
			rec := post(t, s, "/v1/solve", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRender_HighlightSplitTooLarge(t *testing.T) {
	body := `{"nodes": ` + starNodes(t, server.DefaultMaxSplitPositives+1) + `, "format": "dot", "options": {"start": "S", "highlight": true}}`
	rec := post(t, newServer(t), "/v1/render", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, string(errs.ErrCodeCapacityExceeded), decodeError(t, rec).Code)
}

func TestSolve_TimeoutStopsSplit(t *testing.T) {
	logger := log.New(io.Discard)
	s := server.New(pipeline.NewRunner(nil, nil, logger), logger,
		server.WithMaxSplitPositives(0),
		server.WithTimeout(200*time.Millisecond))
	body := `{"nodes": ` + starNodes(t, 40) + `, "options": {"start": "S", "budget": 3, "split_budget": 3}}`

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- post(t, s, "/v1/solve", body) }()

	select {
	case rec := <-done:
		assert.Contains(t, []int{http.StatusServiceUnavailable, http.StatusGatewayTimeout}, rec.Code)
	case <-time.After(5 * time.Second):
		t.Fatal("handler still running 5s after a 200ms timeout")
	}
}

// =============================================================================
// Distances
// =============================================================================

func TestDistances(t *testing.T) {
	s := newServer(t)
	rec := post(t, s, "/v1/distances", `{"nodes": `+lineNodes+`, "start": "S"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res server.DistancesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "S", res.Start)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, map[string]int{"A": 1, "B": 2}, res.Distances["S"])
	assert.Equal(t, map[string]int{"B": 1}, res.Distances["A"])
}

func TestDistances_DefaultStartMissing(t *testing.T) {
	rec := post(t, newServer(t), "/v1/distances", `{"nodes": `+lineNodes+`}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(errs.ErrCodeStartNotFound), decodeError(t, rec).Code)
}

// =============================================================================
// Render
// =============================================================================

func TestRender_DOT(t *testing.T) {
	s := newServer(t)
	rec := post(t, s, "/v1/render", `{"nodes": `+lineNodes+`, "format": "dot", "options": {"start": "S", "budget": 5, "highlight": true}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "graphviz")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("digraph")))
	assert.Contains(t, rec.Body.String(), "style=dashed")
}

func TestRender_BadFormat(t *testing.T) {
	rec := post(t, newServer(t), "/v1/render", `{"nodes": `+lineNodes+`, "format": "pdf"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errs.ErrCodeInvalidFormat), decodeError(t, rec).Code)
}

// =============================================================================
// Status mapping and hooks
// =============================================================================

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, server.StatusFor(errs.New(errs.ErrCodeInvalidInput, "x")))
	assert.Equal(t, http.StatusUnprocessableEntity, server.StatusFor(errs.New(errs.ErrCodeCapacityExceeded, "x")))
	assert.Equal(t, http.StatusServiceUnavailable, server.StatusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, server.StatusFor(errors.New("boom")))
}

type countingHTTPHooks struct {
	observability.NoopHTTPHooks
	requests, responses, errors int
	lastStatus                  int
}

func (h *countingHTTPHooks) OnRequest(context.Context, string, string) { h.requests++ }

func (h *countingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.responses++
	h.lastStatus = status
}

func (h *countingHTTPHooks) OnError(context.Context, string, string, error) { h.errors++ }

func TestHTTPHooks(t *testing.T) {
	hooks := &countingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s := newServer(t)
	post(t, s, "/v1/distances", `{"nodes": `+lineNodes+`, "start": "S"}`)
	post(t, s, "/v1/distances", `{"nodes": `+lineNodes+`}`)

	assert.Equal(t, 2, hooks.requests)
	assert.Equal(t, 2, hooks.responses)
	assert.Equal(t, 1, hooks.errors)
	assert.Equal(t, http.StatusUnprocessableEntity, hooks.lastStatus)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
