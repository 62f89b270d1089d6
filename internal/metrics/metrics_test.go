package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/orbit/pkg/observability"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := m.Register(reg); err == nil {
		t.Error("second Register should fail with duplicate collectors")
	}
}

func TestEngineHooks(t *testing.T) {
	ctx := context.Background()
	m := New()

	m.OnLoopStart(ctx)
	m.OnTick(ctx, 12, 3, 1, time.Millisecond)
	m.OnTick(ctx, 12, 2, 0, time.Millisecond)
	m.OnLoopStop(ctx, 2)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"ticks", m.ticks, 2},
		{"nodes", m.nodes, 12},
		{"corrections", m.corrections, 5},
		{"clamps", m.clamps, 1},
		{"loops", m.loops, 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSettleAndCacheHooks(t *testing.T) {
	ctx := context.Background()
	m := New()

	m.OnSettleComplete(ctx, 4, time.Second, nil)
	m.OnSettleComplete(ctx, 4, time.Second, errors.New("boom"))
	m.OnRenderComplete(ctx, "svg", time.Millisecond, nil)
	m.OnCacheHit(ctx, "frame")
	m.OnCacheMiss(ctx, "frame")
	m.OnCacheMiss(ctx, "frame")
	m.OnCacheSet(ctx, "artifact", 1024)

	if got := testutil.ToFloat64(m.settles.WithLabelValues("error")); got != 1 {
		t.Errorf("failed settles = %v", got)
	}
	if got := testutil.ToFloat64(m.renders.WithLabelValues("svg", "ok")); got != 1 {
		t.Errorf("svg renders = %v", got)
	}
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("frame", "miss")); got != 2 {
		t.Errorf("frame misses = %v", got)
	}
	if got := testutil.ToFloat64(m.cacheBytes.WithLabelValues("artifact")); got != 1024 {
		t.Errorf("artifact bytes = %v", got)
	}
}

func TestHTTPHooks(t *testing.T) {
	m := New()
	m.OnResponse(context.Background(), "GET", "/api/sessions/{id}", 404, time.Millisecond)

	want := `
# HELP orbit_http_requests_total HTTP requests by method, route and status
# TYPE orbit_http_requests_total counter
orbit_http_requests_total{method="GET",route="/api/sessions/{id}",status="404"} 1
`
	if err := testutil.CollectAndCompare(m.requests, strings.NewReader(want)); err != nil {
		t.Error(err)
	}
}

func TestInstall(t *testing.T) {
	t.Cleanup(observability.Reset)
	m := New()
	m.Install()

	observability.Engine().OnTick(context.Background(), 1, 0, 0, 0)
	if got := testutil.ToFloat64(m.ticks); got != 1 {
		t.Errorf("ticks after installed hook = %v", got)
	}
}
