package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/metrics"
)

type fakeLock struct {
	acquired bool
	busy     bool
	releases int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.busy || f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.acquired = false
	f.releases++
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func newTestService(t *testing.T, lock Lock, m *metrics.CronJobMetrics, jobs ...Job) *Service {
	t.Helper()
	registry, err := NewRegistry(jobs...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	service, err := NewService(ServiceParams{
		Logger:   logger.Nop(),
		Registry: registry,
		Lock:     lock,
		Metrics:  m,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return service
}

func TestRunCycleRunsAllJobsAndCombinesFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCronJobMetrics(reg)
	ok := &testJob{name: "image-sync"}
	failA := &testJob{name: "budget-expiry", err: errors.New("boom")}
	failB := &testJob{name: "other", err: errors.New("bang")}
	lock := &fakeLock{}
	service := newTestService(t, lock, m, failA, ok, failB)

	err := service.runCycle(context.Background())
	if err == nil {
		t.Fatal("expected combined error")
	}
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("expected 2 combined errors, got %d (%v)", got, err)
	}
	for _, job := range []*testJob{ok, failA, failB} {
		if job.runs != 1 {
			t.Fatalf("job %s ran %d times", job.name, job.runs)
		}
	}
	if lock.releases != 1 || lock.acquired {
		t.Fatalf("lock not released: %+v", lock)
	}
	if got := gatheredCounter(t, reg, "cron_job_failure_total", "budget-expiry"); got != 1 {
		t.Fatalf("expected one failure recorded, got %v", got)
	}
}

func TestRunCycleSkipsWhenLockBusy(t *testing.T) {
	job := &testJob{name: "image-sync"}
	service := newTestService(t, &fakeLock{busy: true}, nil, job)
	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job should not run without the lock")
	}
}

func TestRunOnce(t *testing.T) {
	job := &testJob{name: "budget-expiry"}
	service := newTestService(t, &fakeLock{}, nil, job, &testJob{name: "image-sync"})
	if err := service.RunOnce(context.Background(), "budget-expiry"); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if job.runs != 1 {
		t.Fatalf("expected a single run, got %d", job.runs)
	}
	if err := service.RunOnce(context.Background(), "nope"); err == nil {
		t.Fatal("expected unknown job error")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	job := &testJob{name: "image-sync"}
	registry, _ := NewRegistry(job)
	service, err := NewService(ServiceParams{Logger: logger.Nop(), Registry: registry, Lock: &fakeLock{}, Interval: time.Hour})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := service.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if job.runs != 1 {
		t.Fatalf("expected the initial cycle to run, got %d", job.runs)
	}
}

func gatheredCounter(t *testing.T, reg *prometheus.Registry, suffix, job string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if !strings.HasSuffix(family.GetName(), suffix) {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "job" && label.GetValue() == job {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("no %s metric for job %s", suffix, job)
	return 0
}
