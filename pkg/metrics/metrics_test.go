package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCounterIsShared(t *testing.T) {
	r := New()
	c := r.Counter("summaries_written_total", "Summary files written")
	c.Inc()
	c.Add(4)
	if c.Value() != 5 {
		t.Fatalf("Value = %d, want 5", c.Value())
	}
	if r.Counter("summaries_written_total", "") != c {
		t.Fatal("same name should return the same counter")
	}
	if r.Counter(WithLabels("summaries_written_total", "channel", "@a"), "") == c {
		t.Fatal("labelled series should be distinct")
	}
}

func TestGaugeSet(t *testing.T) {
	g := New().Gauge("videos_listed", "")
	g.Set(7)
	g.Add(-2)
	if g.Value() != 5 {
		t.Fatalf("Value = %d, want 5", g.Value())
	}
}

func TestHistogramBuckets(t *testing.T) {
	r := New()
	h := r.Histogram("summarize_duration_seconds", "Summary latency", []float64{1, 0.125, 0.5})
	for _, v := range []float64{0.0625, 0.125, 0.25, 0.75, 2} {
		h.Observe(v)
	}
	if h.Count() != 5 {
		t.Fatalf("Count = %d, want 5", h.Count())
	}

	out := r.Render()
	for _, want := range []string{
		`summarize_duration_seconds_bucket{le="0.125"} 2`,
		`summarize_duration_seconds_bucket{le="0.5"} 3`,
		`summarize_duration_seconds_bucket{le="1"} 4`,
		`summarize_duration_seconds_bucket{le="+Inf"} 5`,
		`summarize_duration_seconds_sum 3.1875`,
		`summarize_duration_seconds_count 5`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHistogramLabels(t *testing.T) {
	r := New()
	r.Histogram(WithLabels("stage_seconds", "stage", "captions"), "", []float64{1}).Observe(0.5)

	out := r.Render()
	if !strings.Contains(out, `stage_seconds_bucket{stage="captions",le="1"} 1`) {
		t.Errorf("labelled bucket missing:\n%s", out)
	}
	if !strings.Contains(out, `stage_seconds_count{stage="captions"} 1`) {
		t.Errorf("labelled count missing:\n%s", out)
	}
}

func TestHistogramSince(t *testing.T) {
	h := New().Histogram("latency", "", nil)
	h.Since(time.Now().Add(-100 * time.Millisecond))
	if h.Count() != 1 {
		t.Fatal("expected 1 observation")
	}
}

func TestWithLabels(t *testing.T) {
	tests := []struct {
		name string
		kvs  []string
		want string
	}{
		{"x_total", []string{"sink", "nats", "code", "200"}, `x_total{sink="nats",code="200"}`},
		{"x_total", nil, "x_total"},
		{"x_total", []string{"dangling"}, "x_total"},
		{"x_total", []string{"channel", `a"b\c`}, `x_total{channel="a\"b\\c"}`},
	}
	for _, tt := range tests {
		if got := WithLabels(tt.name, tt.kvs...); got != tt.want {
			t.Errorf("WithLabels(%q, %v) = %q, want %q", tt.name, tt.kvs, got, tt.want)
		}
	}
}

func TestRenderOrderAndHeaders(t *testing.T) {
	r := New()
	r.Gauge("videos_listed", "Videos listed").Set(3)
	r.Counter(WithLabels("sink_failures_total", "sink", "qdrant"), "Sink failures").Add(2)
	r.Counter(WithLabels("sink_failures_total", "sink", "nats"), "").Inc()

	out := r.Render()
	want := "# HELP videos_listed Videos listed\n" +
		"# TYPE videos_listed gauge\n" +
		"videos_listed 3\n" +
		"# HELP sink_failures_total Sink failures\n" +
		"# TYPE sink_failures_total counter\n" +
		"sink_failures_total{sink=\"nats\"} 1\n" +
		"sink_failures_total{sink=\"qdrant\"} 2\n"
	if out != want {
		t.Fatalf("Render =\n%s\nwant\n%s", out, want)
	}
}

func TestKindMismatchPanics(t *testing.T) {
	r := New()
	r.Counter("videos_listed", "")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a gauge reusing a counter name")
		}
	}()
	r.Gauge("videos_listed", "")
}

func TestHandler(t *testing.T) {
	r := New()
	r.Counter("llm_failures_total", "").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "llm_failures_total 1") {
		t.Errorf("missing metric:\n%s", rec.Body.String())
	}
}

func TestMux(t *testing.T) {
	r := New()
	r.Counter(WithLabels("summaries_written_total", "channel", "@chan"), "Summaries written").Add(2)
	mux := r.Mux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `summaries_written_total{channel="@chan"} 2`) {
		t.Fatalf("unexpected body:\n%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Body.String() != "ok\n" {
		t.Fatalf("liveness body = %q", rec.Body.String())
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", New().Mux(), nil) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeBadAddr(t *testing.T) {
	if err := Serve(context.Background(), "256.0.0.1:bad", New().Mux(), nil); err == nil {
		t.Fatal("expected listen error")
	}
}
