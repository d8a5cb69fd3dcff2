package scraper

import (
	"context"
	"fmt"

	"github.com/mediascrape/mediascrape/engine/domain"
)

// Unsupported stands in for platforms that have no scraper yet.
type Unsupported struct {
	Platform domain.Platform
}

// Scrape always fails with domain.ErrUnsupportedPlatform.
func (u Unsupported) Scrape(_ context.Context, target string) error {
	return fmt.Errorf("%s %q: %w", u.Platform, target, domain.ErrUnsupportedPlatform)
}
