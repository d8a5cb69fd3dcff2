package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mediascrape/mediascrape/engine/domain"
)

// pointNamespace scopes the deterministic point IDs derived from video IDs.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.youtube.com/"))

// Embedder computes the embedding of a text.
type Embedder interface {
	Embed(ctx context.Context, model, text string) ([]float32, error)
}

// Store is what the sink needs from a vector store.
type Store interface {
	EnsureCollection(ctx context.Context, dims int) error
	DeleteByVideoID(ctx context.Context, videoID string) error
	Upsert(ctx context.Context, records []VectorRecord) error
}

// Sink embeds each summary and stores it under a point ID derived from the
// video ID, replacing any earlier summary of the same video.
type Sink struct {
	store    Store
	embedder Embedder
	model    string
	logger   *slog.Logger
	ready    bool
}

// NewSink creates a summary sink.
func NewSink(store Store, embedder Embedder, model string, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{store: store, embedder: embedder, model: model, logger: logger}
}

// Name implements the pipeline sink interface.
func (s *Sink) Name() string { return "qdrant" }

// Put embeds and stores one summary.
func (s *Sink) Put(ctx context.Context, rec domain.SummaryRecord) error {
	vec, err := s.embedder.Embed(ctx, s.model, rec.Summary)
	if err != nil {
		return fmt.Errorf("semantic: embed %s: %w", rec.VideoID, err)
	}
	if !s.ready {
		if err := s.store.EnsureCollection(ctx, len(vec)); err != nil {
			return err
		}
		s.ready = true
	}
	if err := s.store.DeleteByVideoID(ctx, rec.VideoID); err != nil {
		return err
	}

	err = s.store.Upsert(ctx, []VectorRecord{{
		ID:        PointID(rec.VideoID),
		Embedding: vec,
		Payload: map[string]any{
			"video_id":    rec.VideoID,
			"title":       rec.Title,
			"url":         rec.URL,
			"channel":     rec.Channel,
			"upload_date": rec.UploadDate.Format(time.DateOnly),
			"summary":     rec.Summary,
			"chunks":      rec.Chunks,
			"model":       rec.Model,
		},
	}})
	if err != nil {
		return err
	}
	s.logger.Debug("stored summary embedding", "video_id", rec.VideoID, "dims", len(vec))
	return nil
}

// PointID is the Qdrant point ID for a video.
func PointID(videoID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(videoID)).String()
}
