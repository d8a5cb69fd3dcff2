// Package metrics is a small Prometheus-compatible registry of counters,
// gauges and histograms, rendered in the text exposition format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBuckets are the default histogram buckets in seconds, sized for
// subprocess and model calls that take from under a second to minutes.
var DefaultBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

type kind string

const (
	kindCounter   kind = "counter"
	kindGauge     kind = "gauge"
	kindHistogram kind = "histogram"
)

// series is one labelled time series of a family.
type series interface {
	write(w io.Writer, name, labels string)
}

// Counter only goes up.
type Counter struct{ n atomic.Int64 }

func (c *Counter) Inc()         { c.n.Add(1) }
func (c *Counter) Add(n int64)  { c.n.Add(n) }
func (c *Counter) Value() int64 { return c.n.Load() }

func (c *Counter) write(w io.Writer, name, labels string) {
	fmt.Fprintf(w, "%s%s %d\n", name, braced(labels), c.Value())
}

// Gauge holds the last value set.
type Gauge struct{ n atomic.Int64 }

func (g *Gauge) Set(n int64)  { g.n.Store(n) }
func (g *Gauge) Add(n int64)  { g.n.Add(n) }
func (g *Gauge) Value() int64 { return g.n.Load() }

func (g *Gauge) write(w io.Writer, name, labels string) {
	fmt.Fprintf(w, "%s%s %d\n", name, braced(labels), g.Value())
}

// Histogram counts observations into fixed upper bounds.
type Histogram struct {
	bounds []float64

	mu    sync.Mutex
	hits  []uint64 // len(bounds)+1, the last slot is +Inf
	sum   float64
	total uint64
}

func newHistogram(bounds []float64) *Histogram {
	b := append([]float64(nil), bounds...)
	sort.Float64s(b)
	return &Histogram{bounds: b, hits: make([]uint64, len(b)+1)}
}

// Observe records v.
func (h *Histogram) Observe(v float64) {
	i := sort.SearchFloat64s(h.bounds, v)
	h.mu.Lock()
	h.hits[i]++
	h.sum += v
	h.total++
	h.mu.Unlock()
}

// Since observes the seconds elapsed since t.
func (h *Histogram) Since(t time.Time) { h.Observe(time.Since(t).Seconds()) }

// Count returns the number of observations.
func (h *Histogram) Count() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}

func (h *Histogram) write(w io.Writer, name, labels string) {
	h.mu.Lock()
	hits := append([]uint64(nil), h.hits...)
	sum, total := h.sum, h.total
	h.mu.Unlock()

	prefix := labels
	if prefix != "" {
		prefix += ","
	}
	var cum uint64
	for i, b := range h.bounds {
		cum += hits[i]
		fmt.Fprintf(w, "%s_bucket{%sle=\"%g\"} %d\n", name, prefix, b, cum)
	}
	fmt.Fprintf(w, "%s_bucket{%sle=\"+Inf\"} %d\n", name, prefix, total)
	fmt.Fprintf(w, "%s_sum%s %g\n", name, braced(labels), sum)
	fmt.Fprintf(w, "%s_count%s %d\n", name, braced(labels), total)
}

type family struct {
	help   string
	kind   kind
	series map[string]series // keyed by label body, "" when unlabelled
}

// Registry holds metric families in registration order.
type Registry struct {
	mu       sync.Mutex
	families map[string]*family
	order    []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{families: make(map[string]*family)}
}

// lookup returns the series named by full, creating it with mk when absent.
// Reusing a family name with a different kind panics.
func (r *Registry) lookup(full, help string, k kind, mk func() series) series {
	name, labels := splitName(full)

	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.families[name]
	if !ok {
		f = &family{kind: k, series: make(map[string]series)}
		r.families[name] = f
		r.order = append(r.order, name)
	}
	if f.kind != k {
		panic(fmt.Sprintf("metrics: %s registered as %s, requested as %s", name, f.kind, k))
	}
	if f.help == "" {
		f.help = help
	}
	s, ok := f.series[labels]
	if !ok {
		s = mk()
		f.series[labels] = s
	}
	return s
}

// Counter returns the counter named by name, which may carry labels built
// with WithLabels.
func (r *Registry) Counter(name, help string) *Counter {
	return r.lookup(name, help, kindCounter, func() series { return &Counter{} }).(*Counter)
}

// Gauge returns the gauge named by name.
func (r *Registry) Gauge(name, help string) *Gauge {
	return r.lookup(name, help, kindGauge, func() series { return &Gauge{} }).(*Gauge)
}

// Histogram returns the histogram named by name. nil buckets means
// DefaultBuckets. Buckets are fixed by the first call for a series.
func (r *Registry) Histogram(name, help string, buckets []float64) *Histogram {
	if buckets == nil {
		buckets = DefaultBuckets
	}
	return r.lookup(name, help, kindHistogram, func() series { return newHistogram(buckets) }).(*Histogram)
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// WithLabels appends label pairs to name: WithLabels("x", "k", "v") is
// x{k="v"}. An odd number of kvs leaves name unchanged.
func WithLabels(name string, kvs ...string) string {
	if len(kvs) == 0 || len(kvs)%2 != 0 {
		return name
	}
	pairs := make([]string, 0, len(kvs)/2)
	for i := 0; i < len(kvs); i += 2 {
		pairs = append(pairs, kvs[i]+`="`+labelEscaper.Replace(kvs[i+1])+`"`)
	}
	return name + "{" + strings.Join(pairs, ",") + "}"
}

func splitName(full string) (name, labels string) {
	name, rest, ok := strings.Cut(full, "{")
	if !ok {
		return full, ""
	}
	return name, strings.TrimSuffix(rest, "}")
}

func braced(labels string) string {
	if labels == "" {
		return ""
	}
	return "{" + labels + "}"
}

// Encode writes every family in the text exposition format.
func (r *Registry) Encode(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range r.order {
		f := r.families[name]
		if f.help != "" {
			fmt.Fprintf(w, "# HELP %s %s\n", name, f.help)
		}
		fmt.Fprintf(w, "# TYPE %s %s\n", name, f.kind)

		keys := make([]string, 0, len(f.series))
		for k := range f.series {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			f.series[k].write(w, name, k)
		}
	}
}

// Render returns the registry in the text exposition format.
func (r *Registry) Render() string {
	var b strings.Builder
	r.Encode(&b)
	return b.String()
}

// Handler serves the registry.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		r.Encode(w)
	})
}

// Mux returns a mux serving the registry on /metrics and a liveness reply on /.
func (r *Registry) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})
	return mux
}

// Serve serves h on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("metrics server listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics: serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
