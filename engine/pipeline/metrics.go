package pipeline

import "github.com/mediascrape/mediascrape/pkg/metrics"

type runMetrics struct {
	reg              *metrics.Registry
	listed           *metrics.Gauge
	written          *metrics.Counter
	noTranscript     *metrics.Counter
	metadataFailures *metrics.Counter
	llmFailures      *metrics.Counter
	summarizeSeconds *metrics.Histogram
}

func newRunMetrics(reg *metrics.Registry) *runMetrics {
	return &runMetrics{
		reg:              reg,
		listed:           reg.Gauge("videos_listed", "Videos listed for the channel in the last run"),
		written:          reg.Counter("summaries_written_total", "Summary files written"),
		noTranscript:     reg.Counter("videos_without_transcript_total", "Videos skipped for lack of captions"),
		metadataFailures: reg.Counter("metadata_failures_total", "Channel listings that failed"),
		llmFailures:      reg.Counter("llm_failures_total", "Summaries aborted by a model failure"),
		summarizeSeconds: reg.Histogram("summarize_duration_seconds", "Time to summarize one transcript", nil),
	}
}

func (m *runMetrics) sinkFailures(sink string) *metrics.Counter {
	return m.reg.Counter(metrics.WithLabels("sink_failures_total", "sink", sink), "Summaries a sink failed to accept")
}
