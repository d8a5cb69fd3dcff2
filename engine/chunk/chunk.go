// Package chunk splits transcripts into fixed-size character windows that fit
// a language model's input budget.
package chunk

import (
	"fmt"

	"github.com/mediascrape/mediascrape/engine/domain"
	"github.com/mediascrape/mediascrape/pkg/fn"
)

// DefaultSize is the default maximum number of characters per chunk.
const DefaultSize = 5000

// Split cuts text into consecutive chunks of at most max characters
// (Unicode code points). Every chunk but the last has exactly max
// characters; joining the chunks reproduces text. Empty text yields no chunks.
func Split(text string, max int) ([]string, error) {
	if max <= 0 {
		return nil, fmt.Errorf("chunk: %w (got %d)", domain.ErrInvalidChunkSize, max)
	}
	windows := fn.Chunk([]rune(text), max)
	return fn.Map(windows, func(w []rune) string { return string(w) }), nil
}
