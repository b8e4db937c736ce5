package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stackdiagram/pkg/errors"
	"github.com/matzehuels/stackdiagram/pkg/observability"
	"github.com/matzehuels/stackdiagram/pkg/pipeline"
	"github.com/matzehuels/stackdiagram/pkg/render"
)

type stubBackend struct{ err error }

func (stubBackend) Name() string { return "stub" }

func (b stubBackend) Render(_ context.Context, dot []byte, format render.Format, w io.Writer) error {
	if b.err != nil {
		return b.err
	}
	_, err := fmt.Fprintf(w, "<%s>%d</%s>", format, len(dot), format)
	return err
}

const manifest = `name: Web
nodes:
  - ref: lb
  - ref: app
edges:
  - {from: lb, to: app, label: HTTP}
`

func newTestServer(t *testing.T, backend render.Backend, opts Options) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, backend, logger)
	srv := httptest.NewServer(New(runner, logger, opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/octet-stream", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestRender(t *testing.T) {
	srv := newTestServer(t, stubBackend{}, Options{})

	resp := post(t, srv.URL+"/v1/render?format=png", manifest)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "<png>"), string(body))
}

func TestRenderDefaultsToSVG(t *testing.T) {
	srv := newTestServer(t, stubBackend{}, Options{})
	resp := post(t, srv.URL+"/v1/render", manifest)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
}

func TestRenderJSONManifest(t *testing.T) {
	srv := newTestServer(t, stubBackend{}, Options{})
	body := `{"name": "Web", "nodes": [{"ref": "a"}, {"ref": "b"}], "edges": [{"from": "a", "to": "b"}]}`
	resp := post(t, srv.URL+"/v1/render?syntax=json&format=dot", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	text, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(text), `"n1" -> "n2";`)
}

func TestDOT(t *testing.T) {
	srv := newTestServer(t, stubBackend{}, Options{})
	resp := post(t, srv.URL+"/v1/dot", manifest)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/vnd.graphviz; charset=utf-8", resp.Header.Get("Content-Type"))

	text, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(text), "digraph "), string(text))
	assert.Contains(t, string(text), `"n1" -> "n2" [label="HTTP"];`)
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name    string
		backend render.Backend
		path    string
		body    string
		status  int
		code    string
	}{
		{"unknown ref", stubBackend{}, "/v1/render", "name: x\nnodes: [{ref: a}]\nedges: [{from: a, to: b}]", 422, "REFERENCE_ERROR"},
		{"bad manifest", stubBackend{}, "/v1/dot", "name: x\nbogus: 1", 422, "INVALID_MANIFEST"},
		{"bad attribute", stubBackend{}, "/v1/dot", "name: x\nnodes: [{ref: a, attrs: {shape: blob}}]", 422, "INVALID_ATTRIBUTE"},
		{"bad format", stubBackend{}, "/v1/render?format=bmp", manifest, 400, "INVALID_FORMAT"},
		{"bad syntax", stubBackend{}, "/v1/render?syntax=xml", manifest, 422, "INVALID_MANIFEST"},
		{"backend missing", stubBackend{err: errors.New(errors.ErrCodeBackendMissing, "dot not found")}, "/v1/render", manifest, 503, "BACKEND_MISSING"},
		{"malformed", stubBackend{err: errors.New(errors.ErrCodeMalformedGraph, "syntax error")}, "/v1/render", manifest, 422, "MALFORMED_GRAPH_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.backend, Options{})
			resp := post(t, srv.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			e := decodeError(t, resp)
			assert.Equal(t, tt.code, e.Code)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	srv := newTestServer(t, stubBackend{}, Options{MaxBodyBytes: 16})
	resp := post(t, srv.URL+"/v1/dot", manifest)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, stubBackend{}, Options{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var h healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "ok", h.Status)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetHTTPHooks(hooks)
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	srv := newTestServer(t, stubBackend{}, Options{Gatherer: reg})
	post(t, srv.URL+"/v1/render", manifest)

	scrape := func() string {
		resp, err := http.Get(srv.URL + "/metrics")
		if err != nil {
			return ""
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body)
	}

	assert.Contains(t, scrape(), `stackdiagram_renders_total{backend="stub",format="svg",result="ok"} 1`)
	// The request hook fires after the response is flushed.
	assert.Eventually(t, func() bool {
		return strings.Contains(scrape(), `stackdiagram_http_requests_total{method="POST",route="/v1/render",status="200"} 1`)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout, StatusFor(fmt.Errorf("dot: %w", context.DeadlineExceeded)))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New(errors.ErrCodeWriteFailure, "disk full")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(fmt.Errorf("plain")))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(errors.New(errors.ErrCodeScope, "not open")))
}

func TestListenAndServeShutsDown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, stubBackend{}, logger), logger, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
