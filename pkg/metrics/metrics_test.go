package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSubmissionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSubmissionMetrics(reg)
	m.ObserveSuccess("budget", 3)
	m.ObserveFailure("quote", "empty_cart")
	m.ObserveFailure("quote", "empty_cart")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	mf := findMetricFamily(mfs, "giftshop_budget_submissions_total")
	if mf == nil {
		t.Fatal("submission counter missing")
	}
	var emptyCart float64
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), "kind", "quote") && matchesLabel(metric.GetLabel(), "outcome", "empty_cart") {
			emptyCart = metric.GetCounter().GetValue()
		}
	}
	if emptyCart != 2 {
		t.Fatalf("expected 2 empty cart failures, got %f", emptyCart)
	}
	if got, err := fetchHistogramSum(mfs, "giftshop_budget_submission_items", "kind", "budget"); err != nil || got != 3 {
		t.Fatalf("expected item sum 3, got %f err %v", got, err)
	}
}

func TestImageSyncMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewImageSyncMetrics(reg)
	m.ObserveRun(2, 5, 1, 40*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "giftshop_image_sync_images_total", "result", "skipped"); err != nil || got != 5 {
		t.Fatalf("expected skipped=5, got %f err %v", got, err)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var sub *SubmissionMetrics
	sub.ObserveSuccess("budget", 1)
	NewImageSyncMetrics(nil).ObserveRun(1, 1, 1, time.Second)
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Millisecond)
	NewCronJobMetrics(nil).IncSuccess("job")
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := NewRegistry()
	NewHTTPMetrics(reg).Observe("GET", "/api/v1/products", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `giftshop_http_requests_total{method="GET",route="/api/v1/products",status="200"} 1`) {
		t.Fatalf("expected http counter in output:\n%s", rec.Body.String())
	}
}
