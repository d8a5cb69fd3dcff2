// Command scrape summarizes the recent videos of a YouTube channel: it lists
// the channel with yt-dlp, downloads English auto-captions and asks a language
// model for one summary per video. X, Instagram and TikTok targets are
// accepted but not supported yet.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mediascrape/mediascrape/engine/archive"
	"github.com/mediascrape/mediascrape/engine/config"
	"github.com/mediascrape/mediascrape/engine/domain"
	"github.com/mediascrape/mediascrape/engine/events"
	"github.com/mediascrape/mediascrape/engine/pipeline"
	"github.com/mediascrape/mediascrape/engine/scraper"
	"github.com/mediascrape/mediascrape/engine/semantic"
	"github.com/mediascrape/mediascrape/engine/summarize"
	"github.com/mediascrape/mediascrape/pkg/metrics"
	"github.com/mediascrape/mediascrape/pkg/mid"
	"github.com/mediascrape/mediascrape/pkg/natsutil"
	"github.com/mediascrape/mediascrape/pkg/ollama"
	"github.com/mediascrape/mediascrape/pkg/resilience"
)

type options struct {
	youtube   string
	x         string
	instagram string
	tiktok    string
	clear     bool
	saveImgs  bool

	settings    string
	outDir      string
	maxVideos   int
	pace        time.Duration
	finalPass   bool
	llmRPM      int
	llmTimeout  time.Duration
	metricsPort int
	verbose     bool

	natsURL     string
	natsSubject string
	qdrantAddr  string
	collection  string
	neo4jURI    string
	neo4jUser   string
	neo4jPass   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("scrape", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.youtube, "youtube", "", "YouTube channel: @handle, channel ID (UC...), name or URL")
	fs.StringVar(&o.youtube, "y", "", "shorthand for -youtube")
	fs.StringVar(&o.x, "x", "", "X account (not supported yet)")
	fs.StringVar(&o.instagram, "instagram", "", "Instagram account (not supported yet)")
	fs.StringVar(&o.instagram, "i", "", "shorthand for -instagram")
	fs.StringVar(&o.tiktok, "tiktok", "", "TikTok account (not supported yet)")
	fs.StringVar(&o.tiktok, "t", "", "shorthand for -tiktok")
	fs.BoolVar(&o.clear, "clear", false, "remove the output directory before running")
	fs.BoolVar(&o.saveImgs, "save-imgs", false, "save images (unused for YouTube)")

	fs.StringVar(&o.settings, "settings", config.DefaultPath, "settings file")
	fs.StringVar(&o.outDir, "out", "dist", "output directory for captions and summaries")
	fs.IntVar(&o.maxVideos, "max-videos", pipeline.DefaultMaxVideos, "videos to summarize per channel (-1 = all)")
	fs.DurationVar(&o.pace, "pace", resilience.DefaultInterval, "pause after each caption request")
	fs.BoolVar(&o.finalPass, "final-pass", false, "summarize the combined chunk summaries once more before writing")
	fs.IntVar(&o.llmRPM, "llm-rpm", 0, "maximum model requests per minute (0 = unlimited)")
	fs.DurationVar(&o.llmTimeout, "llm-timeout", ollama.DefaultTimeout, "timeout for one model request")
	fs.IntVar(&o.metricsPort, "metrics-port", 0, "serve Prometheus metrics on this port (0 = off)")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")

	fs.StringVar(&o.natsURL, "nats", "", "NATS URL to publish summaries to")
	fs.StringVar(&o.natsSubject, "nats-subject", events.DefaultSubject, "NATS subject for summaries")
	fs.StringVar(&o.qdrantAddr, "qdrant", "", "Qdrant gRPC address to index summaries in")
	fs.StringVar(&o.collection, "qdrant-collection", "video_summaries", "Qdrant collection")
	fs.StringVar(&o.neo4jURI, "neo4j", "", "Neo4j URI to archive summaries in")
	fs.StringVar(&o.neo4jUser, "neo4j-user", envOr("NEO4J_USER", "neo4j"), "Neo4j user")
	fs.StringVar(&o.neo4jPass, "neo4j-pass", os.Getenv("NEO4J_PASSWORD"), "Neo4j password")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.youtube == "" && o.x == "" && o.instagram == "" && o.tiktok == "" {
		fs.Usage()
		return o, errors.New("no target given: use -youtube, -x, -instagram or -tiktok")
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("scrape failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	if opts.clear {
		logger.Info("clearing output directory", "dir", opts.outDir)
		if err := os.RemoveAll(opts.outDir); err != nil {
			return fmt.Errorf("clear %s: %w", opts.outDir, err)
		}
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", opts.outDir, err)
	}

	for _, t := range []struct {
		platform domain.Platform
		target   string
	}{
		{domain.PlatformX, opts.x},
		{domain.PlatformInstagram, opts.instagram},
		{domain.PlatformTikTok, opts.tiktok},
	} {
		if t.target == "" {
			continue
		}
		if err := (scraper.Unsupported{Platform: t.platform}).Scrape(ctx, t.target); err != nil {
			logger.Warn("skipping target", "platform", t.platform, "target", t.target, "error", err)
		}
	}

	if opts.youtube == "" {
		return nil
	}
	channelURL, err := domain.ChannelURL(opts.youtube)
	if err != nil {
		return err
	}

	settings, err := config.Load(opts.settings)
	if err != nil {
		return err
	}

	reg := metrics.New()
	if opts.metricsPort > 0 {
		h := mid.Chain(reg.Mux(), mid.Recover(logger), mid.Logger(logger), mid.Count(reg), mid.OTel("scrape-metrics"))
		go func() {
			if err := metrics.Serve(ctx, fmt.Sprintf(":%d", opts.metricsPort), h, logger); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	llm := ollama.NewClient(settings.LLMURL, settings.LLMModel, settings.APIKey, opts.llmTimeout)
	llm.SetRateLimit(opts.llmRPM)

	sinks, closeSinks, err := openSinks(ctx, opts, settings, llm, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	yt := scraper.NewYouTube(scraper.WithBinary(settings.YtDlpPath), scraper.WithLogger(logger))
	driver := pipeline.New(pipeline.Deps{
		Metadata:   yt,
		Captions:   yt,
		Summarizer: summarize.New(llm, summarize.Options{Prompt: settings.Prompt}, logger),
		Pacer:      resilience.NewPacer(opts.pace),
		Sinks:      sinks,
		Logger:     logger,
		Metrics:    reg,
	}, pipeline.Options{
		OutDir:    opts.outDir,
		MaxVideos: opts.maxVideos,
		FinalPass: opts.finalPass,
		Model:     settings.LLMModel,
	})

	rep, err := driver.Run(ctx, channelURL)
	for _, p := range rep.Written {
		fmt.Println(p)
	}
	return err
}

// openSinks connects every configured summary sink. The returned func closes
// them all.
func openSinks(ctx context.Context, opts options, settings config.Settings, llm *ollama.Client, logger *slog.Logger) ([]pipeline.Sink, func(), error) {
	var (
		sinks   []pipeline.Sink
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if opts.natsURL != "" {
		nc, err := natsutil.Connect(opts.natsURL, "scrape", logger)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("nats connect: %w", err)
		}
		closers = append(closers, func() {
			if err := nc.Drain(); err != nil {
				nc.Close()
			}
		})
		sinks = append(sinks, events.NewPublisher(nc, opts.natsSubject))
		logger.Info("publishing summaries", "subject", opts.natsSubject)
	}

	if opts.qdrantAddr != "" {
		store, err := semantic.New(opts.qdrantAddr, opts.collection)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { store.Close() })
		sinks = append(sinks, semantic.NewSink(store, llm, settings.EmbedModel, logger))
		logger.Info("indexing summaries", "collection", opts.collection, "embed_model", settings.EmbedModel)
	}

	if opts.neo4jURI != "" {
		driver, err := archive.Open(ctx, opts.neo4jURI, opts.neo4jUser, opts.neo4jPass)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { driver.Close(context.Background()) })
		sinks = append(sinks, archive.NewNeo4j(driver))
		logger.Info("archiving summaries", "uri", opts.neo4jURI)
	}

	return sinks, closeAll, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
