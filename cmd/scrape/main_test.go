package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mediascrape/mediascrape/engine/domain"
)

func TestParseFlagsShortAndLong(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-y", "@chan"}, "@chan"},
		{[]string{"-youtube", "UCabc"}, "UCabc"},
	}
	for _, tt := range tests {
		o, err := parseFlags(tt.args, io.Discard)
		if err != nil {
			t.Fatalf("parseFlags(%v): %v", tt.args, err)
		}
		if o.youtube != tt.want {
			t.Errorf("youtube = %q, want %q", o.youtube, tt.want)
		}
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	o, err := parseFlags([]string{"-t", "someone"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if o.tiktok != "someone" || o.outDir != "dist" || o.maxVideos != 5 || o.pace != 2*time.Second {
		t.Fatalf("unexpected options %+v", o)
	}
	if o.settings != "env.json" || o.collection != "video_summaries" {
		t.Fatalf("unexpected options %+v", o)
	}
	if o.finalPass || o.llmRPM != 0 {
		t.Fatalf("final pass and model rate limit should be off by default: %+v", o)
	}
}

func TestParseFlagsFinalPass(t *testing.T) {
	o, err := parseFlags([]string{"-y", "@chan", "-final-pass", "-llm-rpm", "30"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if !o.finalPass || o.llmRPM != 30 {
		t.Fatalf("unexpected options %+v", o)
	}
}

func TestParseFlagsNoTarget(t *testing.T) {
	if _, err := parseFlags(nil, io.Discard); err == nil {
		t.Fatal("expected error without a target")
	}
	if _, err := parseFlags([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}

func TestRunUnsupportedPlatformsOnly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(out, "old_summary.txt")
	os.WriteFile(stale, []byte("x"), 0o644)

	opts := options{x: "someone", instagram: "else", clear: true, outDir: out}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(context.Background(), opts, logger); err != nil {
		t.Fatalf("unsupported platforms should not fail the run: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("-clear should remove old output")
	}
	if fi, err := os.Stat(out); err != nil || !fi.IsDir() {
		t.Fatal("output directory should be recreated")
	}
}

func TestRunMissingSettings(t *testing.T) {
	t.Setenv("LLM_URL", "")
	t.Setenv("LLM_MODEL", "")
	t.Chdir(t.TempDir())

	opts := options{youtube: "@chan", outDir: "dist", settings: "missing.json"}
	err := run(context.Background(), opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if !errors.Is(err, domain.ErrMissingSetting) {
		t.Fatalf("expected ErrMissingSetting, got %v", err)
	}
}
