package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHooksRecordMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := New(reg)

	h.OnValidate(ctx, 3, true, time.Millisecond)
	h.OnValidate(ctx, 1, false, time.Millisecond)
	h.OnLayoutStart(ctx, "sugiyama", 3)
	h.OnLayoutComplete(ctx, "sugiyama", 10*time.Millisecond, nil)
	h.OnLayoutComplete(ctx, "sugiyama", 10*time.Millisecond, errors.New("boom"))
	h.OnCacheMiss(ctx, "layout")
	h.OnCacheSet(ctx, "layout", 512)
	h.OnCacheHit(ctx, "layout")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"pipelinedag_validate_runs_total", map[string]string{"result": "valid"}, 1},
		{"pipelinedag_validate_runs_total", map[string]string{"result": "invalid"}, 1},
		{"pipelinedag_layout_runs_total", map[string]string{"engine": "sugiyama", "status": "ok"}, 1},
		{"pipelinedag_layout_runs_total", map[string]string{"engine": "sugiyama", "status": "error"}, 1},
		{"pipelinedag_cache_operations_total", map[string]string{"key_type": "layout", "op": "hit"}, 1},
		{"pipelinedag_cache_operations_total", map[string]string{"key_type": "layout", "op": "miss"}, 1},
		{"pipelinedag_cache_written_bytes_total", map[string]string{"key_type": "layout"}, 512},
	}
	for _, tt := range tests {
		if got, ok := counterValue(families, tt.name, tt.labels); !ok || got != tt.want {
			t.Errorf("%s%v = %v (found %v), want %v", tt.name, tt.labels, got, ok, tt.want)
		}
	}
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("second New on the same registry should panic")
		}
	}()
	New(reg)
}

func counterValue(families []*dto.MetricFamily, name string, labels map[string]string) (float64, bool) {
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			if len(m.GetLabel()) != len(labels) {
				continue
			}
			return m.GetCounter().GetValue(), true
		}
	}
	return 0, false
}
