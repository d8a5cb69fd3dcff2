// Package scraper lists channel videos and downloads their captions by
// driving the yt-dlp downloader as a subprocess.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/mediascrape/mediascrape/engine/domain"
	"github.com/mediascrape/mediascrape/pkg/fn"
)

// RecentWindowDays is how far back FetchRecent looks.
const RecentWindowDays = 365

// uploadDateLayout is yt-dlp's upload_date format (YYYYMMDD).
const uploadDateLayout = "20060102"

// YouTube fetches channel metadata and captions through yt-dlp.
type YouTube struct {
	binary string
	runner Runner
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a YouTube scraper.
type Option func(*YouTube)

// WithBinary sets the yt-dlp executable (default "yt-dlp").
func WithBinary(path string) Option {
	return func(y *YouTube) {
		if path != "" {
			y.binary = path
		}
	}
}

// WithRunner replaces the subprocess runner.
func WithRunner(r Runner) Option {
	return func(y *YouTube) { y.runner = r }
}

// WithClock sets the clock the recency filter is evaluated against.
func WithClock(now func() time.Time) Option {
	return func(y *YouTube) { y.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(y *YouTube) { y.logger = l }
}

// NewYouTube creates a scraper that shells out to yt-dlp.
func NewYouTube(opts ...Option) *YouTube {
	y := &YouTube{
		binary: DefaultBinary,
		runner: ExecRunner{},
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(y)
	}
	return y
}

// FetchRecent lists the channel's videos and keeps those uploaded within the
// trailing RecentWindowDays, in the tool's listing order. A failed or
// unreadable listing is an Err carrying a *domain.ExternalError; records with
// a bad upload date are skipped with a warning.
func (y *YouTube) FetchRecent(ctx context.Context, channelURL string) fn.Result[[]domain.VideoRecord] {
	y.logger.Info("downloading channel metadata", "channel", channelURL)

	stdout, stderr, err := y.runner.Run(ctx, y.binary, "-J", "--dump-single-json", channelURL)
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		y.logger.Error("metadata download failed", "channel", channelURL, "error", err, "stderr", detail)
		return fn.Err[[]domain.VideoRecord](domain.NewExternalError("yt-dlp", "metadata", detail, err))
	}

	var doc playlistDoc
	if err := json.Unmarshal(stdout, &doc); err != nil {
		y.logger.Error("metadata decode failed", "channel", channelURL, "error", err)
		return fn.Err[[]domain.VideoRecord](domain.NewExternalError("yt-dlp", "metadata", "", fmt.Errorf("decode: %w", err)))
	}

	now := y.now()
	cutoff := recencyCutoff(now)
	records := fn.FilterMap(flatten(doc.Entries), func(e entry) (domain.VideoRecord, bool) {
		uploaded, err := time.ParseInLocation(uploadDateLayout, e.UploadDate, now.Location())
		if err != nil {
			y.logger.Warn("skipping video with bad upload date", "video_id", e.ID, "upload_date", e.UploadDate, "error", err)
			return domain.VideoRecord{}, false
		}
		if uploaded.Before(cutoff) {
			return domain.VideoRecord{}, false
		}
		return domain.VideoRecord{ID: e.ID, Title: e.Title, UploadDate: uploaded}, true
	})

	y.logger.Info("found recent videos", "channel", channelURL, "count", len(records), "window_days", RecentWindowDays)
	return fn.Ok(records)
}

// FetchCaptions asks yt-dlp for the English auto-generated subtitles of one
// video, without the video itself, written to {outDir}/{id}.en.vtt.
func (y *YouTube) FetchCaptions(ctx context.Context, videoURL, outDir string) error {
	y.logger.Info("downloading captions", "url", videoURL)

	_, stderr, err := y.runner.Run(ctx, y.binary,
		"--write-auto-sub",
		"--skip-download",
		"--sub-lang", "en",
		"--sub-format", "vtt",
		"-o", filepath.Join(outDir, "%(id)s.%(ext)s"),
		videoURL,
	)
	if err != nil {
		return domain.NewExternalError("yt-dlp", "captions", strings.TrimSpace(string(stderr)), err)
	}
	return nil
}

// recencyCutoff is the start of the day RecentWindowDays before now. Videos
// uploaded on that day are still recent.
func recencyCutoff(now time.Time) time.Time {
	c := now.AddDate(0, 0, -RecentWindowDays)
	return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, now.Location())
}
