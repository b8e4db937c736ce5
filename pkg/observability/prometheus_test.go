package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)
	ctx := context.Background()

	h.OnBuildComplete(ctx, "web", 4, 3, time.Millisecond, nil)
	h.OnBuildComplete(ctx, "web", 0, 0, time.Millisecond, errors.New(errors.ErrCodeReference, "unknown node"))
	h.OnRenderComplete(ctx, "svg", "graphviz", 2048, 10*time.Millisecond, nil)
	h.OnRenderComplete(ctx, "png", "exec", 0, time.Millisecond, fmt.Errorf("boom"))
	h.OnCacheHit(ctx, "svg")
	h.OnCacheMiss(ctx, "svg")
	h.OnCacheMiss(ctx, "svg")
	h.OnCacheSet(ctx, "svg", 2048)
	h.OnResponse(ctx, "POST", "/v1/render", 200, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.builds.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.builds.WithLabelValues("REFERENCE_ERROR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.renders.WithLabelValues("svg", "graphviz", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.renders.WithLabelValues("png", "exec", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.cacheEvents.WithLabelValues("miss", "svg")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.requests.WithLabelValues("POST", "/v1/render", "200")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"stackdiagram_builds_total",
		"stackdiagram_render_duration_seconds",
		"stackdiagram_cache_events_total",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestPrometheusHooksDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusHooks(reg)
	assert.Panics(t, func() { NewPrometheusHooks(reg) })
}
