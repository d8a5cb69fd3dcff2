package semantic

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mediascrape/mediascrape/engine/domain"
)

type fakeEmbedder struct {
	err   error
	model string
}

func (f *fakeEmbedder) Embed(_ context.Context, model, _ string) ([]float32, error) {
	f.model = model
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

type fakeStore struct {
	ensured []int
	deleted []string
	records []VectorRecord
}

func (f *fakeStore) EnsureCollection(_ context.Context, dims int) error {
	f.ensured = append(f.ensured, dims)
	return nil
}

func (f *fakeStore) DeleteByVideoID(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) Upsert(_ context.Context, recs []VectorRecord) error {
	f.records = append(f.records, recs...)
	return nil
}

func testRecord(id string) domain.SummaryRecord {
	return domain.SummaryRecord{
		VideoID:    id,
		Title:      "Title " + id,
		URL:        "https://www.youtube.com/watch?v=" + id,
		UploadDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Summary:    "summary",
		Chunks:     2,
	}
}

func TestSinkPut(t *testing.T) {
	store := &fakeStore{}
	emb := &fakeEmbedder{}
	s := NewSink(store, emb, "nomic-embed-text", slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, id := range []string{"a", "b"} {
		if err := s.Put(context.Background(), testRecord(id)); err != nil {
			t.Fatal(err)
		}
	}
	if emb.model != "nomic-embed-text" {
		t.Fatalf("model = %q", emb.model)
	}
	if len(store.ensured) != 1 || store.ensured[0] != 3 {
		t.Fatalf("collection should be ensured once with dims 3, got %v", store.ensured)
	}
	if len(store.deleted) != 2 || store.deleted[1] != "b" {
		t.Fatalf("deleted = %v", store.deleted)
	}
	rec := store.records[0]
	if rec.ID != PointID("a") || rec.Payload["upload_date"] != "2026-05-01" || rec.Payload["chunks"] != 2 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestSinkEmbedError(t *testing.T) {
	store := &fakeStore{}
	s := NewSink(store, &fakeEmbedder{err: errors.New("down")}, "m", nil)
	if err := s.Put(context.Background(), testRecord("a")); err == nil {
		t.Fatal("expected error")
	}
	if len(store.records) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestPointIDDeterministic(t *testing.T) {
	a, b := PointID("dQw4w9WgXcQ"), PointID("dQw4w9WgXcQ")
	if a != b {
		t.Fatal("point ids should be stable")
	}
	if a == PointID("other") {
		t.Fatal("different videos should get different ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("not a uuid: %v", err)
	}
}
