package cprsearch

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

func TestRegisterOrReuse_ReusesExisting(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	second, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if first.operations != second.operations {
		t.Error("expected the already registered counter to be reused")
	}
}

func TestRegisterOrReuse_IncompatibleType(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cprsearch",
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "SDK operation duration in seconds.",
	}))

	if _, err := newSDKMetrics(reg); err == nil {
		t.Fatal("expected error for incompatible collector")
	}
}

func TestObserver_NilIsNoop(t *testing.T) {
	var o *observer
	o.observe("search", time.Now(), nil)
}

func TestObserver_LogsAndCounts(t *testing.T) {
	core, logs := zapobserver.New(zap.DebugLevel)
	reg := prometheus.NewRegistry()

	o, err := newObserver(zap.New(core), reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	o.observe("search", time.Now(), nil)
	o.observe("search", time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(o.metrics.operations.WithLabelValues("search", "ok")); got != 1 {
		t.Errorf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.metrics.operations.WithLabelValues("search", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
	if n := logs.FilterMessage("operation failed").Len(); n != 1 {
		t.Errorf("got %d failure logs, want 1", n)
	}
	if n := logs.FilterMessage("operation completed").Len(); n != 1 {
		t.Errorf("got %d completion logs, want 1", n)
	}
}
