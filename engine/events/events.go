// Package events publishes finished summaries to NATS.
package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/mediascrape/mediascrape/engine/domain"
	"github.com/mediascrape/mediascrape/pkg/natsutil"
)

// DefaultSubject is the subject summaries are published on.
const DefaultSubject = "scrape.youtube.summary"

// Publisher is a summary sink that publishes each record as JSON.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher creates a publisher on subject (DefaultSubject when empty).
func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject}
}

// Name implements the pipeline sink interface.
func (p *Publisher) Name() string { return "nats" }

// Put publishes rec.
func (p *Publisher) Put(ctx context.Context, rec domain.SummaryRecord) error {
	if err := natsutil.Publish(ctx, p.nc, p.subject, rec); err != nil {
		return fmt.Errorf("events: publish %s: %w", rec.VideoID, err)
	}
	return nil
}

// Listen calls handler for every summary published on subject.
func Listen(nc *nats.Conn, subject string, handler func(context.Context, domain.SummaryRecord)) (*nats.Subscription, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	return natsutil.Subscribe(nc, subject, handler)
}
