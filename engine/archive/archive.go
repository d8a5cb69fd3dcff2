// Package archive keeps every written summary as a Video node in Neo4j.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/mediascrape/mediascrape/engine/domain"
	"github.com/mediascrape/mediascrape/pkg/fn"
	"github.com/mediascrape/mediascrape/pkg/repo"
)

// Label is the node label summaries are stored under.
const Label = "Video"

// Archive is a summary sink backed by a repository of Video nodes.
type Archive struct {
	videos repo.Repository[domain.SummaryRecord, string]
}

// New creates an archive over the given repository.
func New(videos repo.Repository[domain.SummaryRecord, string]) *Archive {
	return &Archive{videos: videos}
}

// NewNeo4j creates an archive over a Neo4j driver.
func NewNeo4j(driver neo4j.DriverWithContext) *Archive {
	return New(repo.NewNeo4jRepo[domain.SummaryRecord, string](
		driver, Label, toMap, fromRecord,
		repo.WithIDKey[domain.SummaryRecord, string]("video_id"),
	))
}

// Open connects to Neo4j and verifies the connection.
func Open(ctx context.Context, uri, user, pass string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, pass, ""))
	if err != nil {
		return nil, fmt.Errorf("archive: connect %s: %w", uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("archive: verify %s: %w", uri, err)
	}
	return driver, nil
}

// Name implements the pipeline sink interface.
func (a *Archive) Name() string { return "neo4j" }

// Put stores rec, replacing an earlier summary of the same video.
func (a *Archive) Put(ctx context.Context, rec domain.SummaryRecord) error {
	if _, err := a.videos.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("archive: upsert %s: %w", rec.VideoID, err)
	}
	return nil
}

// Get returns the archived summary of a video, or NotFound.
func (a *Archive) Get(ctx context.Context, videoID string) fn.Result[domain.SummaryRecord] {
	return a.videos.Get(ctx, videoID)
}

func toMap(r domain.SummaryRecord) map[string]any {
	return map[string]any{
		"video_id":    r.VideoID,
		"title":       r.Title,
		"url":         r.URL,
		"channel":     r.Channel,
		"upload_date": r.UploadDate.Format(time.DateOnly),
		"summary":     r.Summary,
		"chunks":      int64(r.Chunks),
		"model":       r.Model,
		"created_at":  r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func fromRecord(rec *neo4j.Record) (domain.SummaryRecord, error) {
	v, ok := rec.Get("n")
	if !ok {
		return domain.SummaryRecord{}, fmt.Errorf("archive: record has no n")
	}
	var props map[string]any
	switch n := v.(type) {
	case neo4j.Node:
		props = n.Props
	case map[string]any:
		props = n
	default:
		return domain.SummaryRecord{}, fmt.Errorf("archive: unexpected %T", v)
	}

	r := domain.SummaryRecord{
		VideoID: str(props, "video_id"),
		Title:   str(props, "title"),
		URL:     str(props, "url"),
		Channel: str(props, "channel"),
		Summary: str(props, "summary"),
		Model:   str(props, "model"),
	}
	if n, ok := props["chunks"].(int64); ok {
		r.Chunks = int(n)
	}
	if t, err := time.Parse(time.DateOnly, str(props, "upload_date")); err == nil {
		r.UploadDate = t
	}
	if t, err := time.Parse(time.RFC3339, str(props, "created_at")); err == nil {
		r.CreatedAt = t
	}
	return r, nil
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
