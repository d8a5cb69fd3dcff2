// Package pipeline drives the transcript-to-summary flow for one channel:
// list recent videos, fetch captions, load transcripts, summarize and write
// one summary file per video.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mediascrape/mediascrape/engine/caption"
	"github.com/mediascrape/mediascrape/engine/domain"
	"github.com/mediascrape/mediascrape/pkg/fn"
	"github.com/mediascrape/mediascrape/pkg/metrics"
	"github.com/mediascrape/mediascrape/pkg/resilience"
)

// DefaultMaxVideos is how many recent videos a run processes.
const DefaultMaxVideos = 5

// Metadata lists a channel's recent videos.
type Metadata interface {
	FetchRecent(ctx context.Context, channelURL string) fn.Result[[]domain.VideoRecord]
}

// Captions requests the caption file of one video.
type Captions interface {
	FetchCaptions(ctx context.Context, videoURL, outDir string) error
}

// Summarizer reduces transcripts to summaries.
type Summarizer interface {
	Summarize(ctx context.Context, text string) fn.Result[string]
	SummarizeLong(ctx context.Context, text string) fn.Result[string]
	Chunks(text string) int
}

// Sink receives every summary after its file is written.
type Sink interface {
	Name() string
	Put(ctx context.Context, rec domain.SummaryRecord) error
}

// Deps are the collaborators of a Driver. Pacer, Logger, Metrics and Now are
// optional.
type Deps struct {
	Metadata   Metadata
	Captions   Captions
	Summarizer Summarizer
	Pacer      resilience.Waiter
	Sinks      []Sink
	Logger     *slog.Logger
	Metrics    *metrics.Registry
	Now        func() time.Time
}

// Options tunes a run.
type Options struct {
	OutDir string
	// MaxVideos caps the videos processed per run. 0 means DefaultMaxVideos,
	// negative means no cap.
	MaxVideos int
	// FinalPass summarizes the SummarizeLong result once more before it is
	// written. Off by default, so a single-chunk summary is written as is.
	FinalPass bool
	// Model is recorded on each SummaryRecord.
	Model string
}

// Report describes what a run did.
type Report struct {
	Channel      string
	Listed       int
	Processed    int
	NoTranscript int
	Written      []string
}

// Driver runs the pipeline.
type Driver struct {
	deps Deps
	opts Options
	m    *runMetrics
}

// New creates a Driver.
func New(deps Deps, opts Options) *Driver {
	if deps.Pacer == nil {
		deps.Pacer = resilience.NewPacer(resilience.DefaultInterval)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if opts.OutDir == "" {
		opts.OutDir = "dist"
	}
	if opts.MaxVideos == 0 {
		opts.MaxVideos = DefaultMaxVideos
	}
	return &Driver{deps: deps, opts: opts, m: newRunMetrics(deps.Metrics)}
}

// Run processes the most recent videos of channelURL in listing order. A
// failed metadata listing yields an empty report. A summarizer failure or a
// cancelled context aborts the run and is returned along with the report so
// far.
func (d *Driver) Run(ctx context.Context, channelURL string) (Report, error) {
	rep := Report{Channel: channelURL}
	log := d.deps.Logger.With("channel", channelURL)

	if err := os.MkdirAll(d.opts.OutDir, 0o755); err != nil {
		return rep, fmt.Errorf("pipeline: create %s: %w", d.opts.OutDir, err)
	}

	listed := fn.TracedStage("metadata", fn.Stage[string, []domain.VideoRecord](d.deps.Metadata.FetchRecent))(ctx, channelURL)
	if listed.IsErr() {
		_, err := listed.Unwrap()
		log.Warn("no videos to process", "error", err)
		d.m.metadataFailures.Inc()
	}
	videos := listed.UnwrapOr(nil)
	rep.Listed = len(videos)
	d.m.listed.Set(int64(rep.Listed))

	transcript := fn.Then(
		resilience.PacedStage(d.deps.Pacer, fn.TracedStage("captions", fn.Stage[domain.VideoRecord, domain.VideoRecord](d.requestCaptions))),
		fn.TracedStage("transcript", fn.Stage[domain.VideoRecord, string](d.loadTranscript)),
	)

	for _, v := range fn.Take(videos, d.opts.MaxVideos) {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Processed++
		vlog := log.With("video_id", v.ID)

		text := transcript(ctx, v)
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if !text.IsOk() {
			if text.IsErr() {
				_, err := text.Unwrap()
				vlog.Error("transcript unreadable", "error", err)
			} else {
				vlog.Info("no transcript found")
			}
			rep.NoTranscript++
			d.m.noTranscript.Inc()
			continue
		}
		body, _ := text.Unwrap()

		start := time.Now()
		summary, err := fn.TracedStage("summarize", fn.Stage[string, string](d.summarize))(ctx, body).Unwrap()
		d.m.summarizeSeconds.Since(start)
		if err != nil {
			vlog.Error("summarization failed", "error", err)
			d.m.llmFailures.Inc()
			return rep, fmt.Errorf("pipeline: summarize %s: %w", v.ID, err)
		}

		path, err := d.write(v, summary)
		if err != nil {
			return rep, err
		}
		rep.Written = append(rep.Written, path)
		d.m.written.Inc()
		vlog.Info("summary written", "path", path)

		d.publish(ctx, vlog, domain.SummaryRecord{
			VideoID:    v.ID,
			Title:      v.Title,
			URL:        v.URL(),
			Channel:    channelURL,
			UploadDate: v.UploadDate,
			Summary:    summary,
			Chunks:     d.deps.Summarizer.Chunks(body),
			Model:      d.opts.Model,
			CreatedAt:  d.deps.Now(),
		})
	}

	log.Info("run complete",
		"listed", rep.Listed,
		"processed", rep.Processed,
		"written", len(rep.Written),
		"no_transcript", rep.NoTranscript,
	)
	return rep, nil
}

// requestCaptions asks for the caption file. A failed request is only logged;
// the missing file shows up when the transcript is loaded.
func (d *Driver) requestCaptions(ctx context.Context, v domain.VideoRecord) fn.Result[domain.VideoRecord] {
	if err := d.deps.Captions.FetchCaptions(ctx, v.URL(), d.opts.OutDir); err != nil {
		d.deps.Logger.Warn("caption download failed", "video_id", v.ID, "error", err)
	}
	return fn.Ok(v)
}

func (d *Driver) loadTranscript(_ context.Context, v domain.VideoRecord) fn.Result[string] {
	return caption.Load(d.opts.OutDir, v.ID)
}

func (d *Driver) summarize(ctx context.Context, text string) fn.Result[string] {
	res := d.deps.Summarizer.SummarizeLong(ctx, text)
	if !d.opts.FinalPass || !res.IsOk() {
		return res
	}
	long, _ := res.Unwrap()
	return d.deps.Summarizer.Summarize(ctx, long)
}

func (d *Driver) write(v domain.VideoRecord, summary string) (string, error) {
	path := filepath.Join(d.opts.OutDir, v.ID+"_summary.txt")
	content := fmt.Sprintf("Title: %s\nURL: %s\n\n%s", v.Title, v.URL(), summary)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("pipeline: write %s: %w", path, err)
	}
	return path, nil
}

func (d *Driver) publish(ctx context.Context, log *slog.Logger, rec domain.SummaryRecord) {
	for _, s := range d.deps.Sinks {
		if err := s.Put(ctx, rec); err != nil {
			log.Warn("sink failed", "sink", s.Name(), "error", err)
			d.m.sinkFailures(s.Name()).Inc()
		}
	}
}
