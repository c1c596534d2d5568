package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAggregateMetrics(t *testing.T) {
	m := New()
	m.ObserveAggregateOperation("Learning.Reaction.Toggle", "success", 3*time.Millisecond)
	m.IncAggregateConflict("Learning.Reaction.Toggle")
	m.IncAggregateConflict("Learning.Reaction.Toggle")
	m.IncAggregateRetry("")

	if got := testutil.ToFloat64(m.aggregateConflicts.WithLabelValues("Learning.Reaction.Toggle")); got != 2 {
		t.Fatalf("conflicts: want 2 got %v", got)
	}
	if got := testutil.ToFloat64(m.aggregateRetries.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("retries: want 1 got %v", got)
	}
	if n := testutil.CollectAndCount(m.aggregateLatency); n != 1 {
		t.Fatalf("latency series: want 1 got %d", n)
	}
}

func TestHandlerExposesAPIMetrics(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/courses", "200", 20*time.Millisecond)
	m.AddStarsAwarded(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`coursehub_api_requests_total{method="GET",route="/api/courses",status="200"} 1`,
		`coursehub_stars_awarded_total 4`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in exposition", want)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.IncAggregateConflict("x")
	m.IncCache("catalog", "hit")
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("nil metrics handler: want 503 got %d", rec.Code)
	}
}

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" a=1, b = 2 ,broken, =x")
	if len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("empty input must be nil")
	}
}

func TestClampRatio(t *testing.T) {
	cases := map[string]float64{"": 1, "0.25": 0.25, "-1": 0, "7": 1, "nope": 1}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%q): want %v got %v", in, want, got)
		}
	}
}
