package cron

import (
	"context"
	"testing"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryStoresJobsInOrder(t *testing.T) {
	jobA := &stubJob{name: "image-sync"}
	jobB := &stubJob{name: "budget-expiry"}
	registry, err := NewRegistry(jobA, nil, jobB)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != jobA || jobs[1] != jobB {
		t.Fatalf("jobs returned out of order")
	}
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatalf("internal slice leaked")
	}
	if job, ok := registry.Lookup("budget-expiry"); !ok || job != jobB {
		t.Fatalf("lookup failed")
	}
	if _, ok := registry.Lookup("missing"); ok {
		t.Fatalf("unexpected lookup hit")
	}
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	if _, err := NewRegistry(&stubJob{name: "image-sync"}, &stubJob{name: "image-sync"}); err == nil {
		t.Fatal("expected duplicate name error")
	}
}
