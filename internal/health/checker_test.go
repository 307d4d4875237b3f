package health_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taskforge/api/internal/health"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

func newChecker() (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return health.NewChecker(logger, reg), reg
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, dependency string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "taskapi_health_check_up" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "dependency" && label.GetValue() == dependency {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("no gauge sample for dependency %q", dependency)
	return 0
}

func TestLiveness_AlwaysUp(t *testing.T) {
	checker, _ := newChecker()
	checker.Add("postgres", &fakePinger{err: errors.New("unreachable")})

	result := checker.Liveness(context.Background())
	if result.Status != "up" {
		t.Errorf("liveness = %q, want up regardless of dependencies", result.Status)
	}
}

func TestReadiness_AllUp(t *testing.T) {
	checker, reg := newChecker()
	checker.Add("postgres", &fakePinger{})
	checker.Add("redis", &fakePinger{})

	result := checker.Readiness(context.Background())

	if result.Status != "up" {
		t.Fatalf("status = %q, want up", result.Status)
	}
	for _, name := range []string{"postgres", "redis"} {
		if result.Checks[name].Status != "up" {
			t.Errorf("check %q = %+v, want up", name, result.Checks[name])
		}
		if got := gaugeValue(t, reg, name); got != 1 {
			t.Errorf("gauge for %q = %v, want 1", name, got)
		}
	}
}

func TestReadiness_OneDown(t *testing.T) {
	checker, reg := newChecker()
	checker.Add("postgres", &fakePinger{})
	checker.Add("redis", &fakePinger{err: errors.New("connection refused")})

	result := checker.Readiness(context.Background())

	if result.Status != "down" {
		t.Fatalf("status = %q, want down when any dependency fails", result.Status)
	}
	if result.Checks["postgres"].Status != "up" {
		t.Errorf("postgres = %+v, want up", result.Checks["postgres"])
	}
	redis := result.Checks["redis"]
	if redis.Status != "down" || redis.Error != "connection refused" {
		t.Errorf("redis = %+v, want down with the ping error", redis)
	}
	if got := gaugeValue(t, reg, "redis"); got != 0 {
		t.Errorf("gauge for redis = %v, want 0", got)
	}
	if got := gaugeValue(t, reg, "postgres"); got != 1 {
		t.Errorf("gauge for postgres = %v, want 1", got)
	}
}

func TestReadiness_Recovers(t *testing.T) {
	checker, reg := newChecker()
	dep := &fakePinger{err: errors.New("starting up")}
	checker.Add("postgres", dep)

	if result := checker.Readiness(context.Background()); result.Status != "down" {
		t.Fatalf("status = %q, want down while the dependency fails", result.Status)
	}

	dep.err = nil
	if result := checker.Readiness(context.Background()); result.Status != "up" {
		t.Fatalf("status = %q, want up after the dependency recovers", result.Status)
	}
	if got := gaugeValue(t, reg, "postgres"); got != 1 {
		t.Errorf("gauge = %v, want 1 after recovery", got)
	}
}
