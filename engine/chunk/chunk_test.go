package chunk

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mediascrape/mediascrape/engine/domain"
)

func TestSplitCoversInput(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		size      int
		wantCount int
	}{
		{"exact multiple", strings.Repeat("a", 30), 10, 3},
		{"remainder", strings.Repeat("b", 25), 10, 3},
		{"shorter than size", "hello", 10, 1},
		{"equal to size", "0123456789", 10, 1},
		{"size one", "abc", 1, 3},
		{"multibyte", strings.Repeat("é日", 7), 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(tt.text, tt.size)
			if err != nil {
				t.Fatalf("Split: %v", err)
			}
			if len(chunks) != tt.wantCount {
				t.Fatalf("got %d chunks, want %d", len(chunks), tt.wantCount)
			}
			if strings.Join(chunks, "") != tt.text {
				t.Fatal("chunks do not reproduce the input")
			}
			total := utf8.RuneCountInString(tt.text)
			for i, c := range chunks {
				n := utf8.RuneCountInString(c)
				if i < len(chunks)-1 && n != tt.size {
					t.Errorf("chunk %d has %d chars, want %d", i, n, tt.size)
				}
				if i == len(chunks)-1 {
					want := total % tt.size
					if want == 0 {
						want = tt.size
					}
					if n != want {
						t.Errorf("last chunk has %d chars, want %d", n, want)
					}
				}
			}
		})
	}
}

func TestSplitShortTextIsIdentity(t *testing.T) {
	chunks, err := Split("short transcript", DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || chunks[0] != "short transcript" {
		t.Fatalf("expected single identical chunk, got %q", chunks)
	}
}

func TestSplitEmpty(t *testing.T) {
	chunks, err := Split("", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestSplitRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		if _, err := Split("text", size); !errors.Is(err, domain.ErrInvalidChunkSize) {
			t.Errorf("Split(size=%d) err = %v, want ErrInvalidChunkSize", size, err)
		}
	}
}
