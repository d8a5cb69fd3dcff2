// Package caption locates caption files written by the downloader and turns
// them into plain transcript text.
package caption

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mediascrape/mediascrape/pkg/fn"
)

// timeRangeMarker marks a cue timing line such as
// "00:00:01.000 --> 00:00:04.000 align:start".
const timeRangeMarker = "-->"

var counterLine = regexp.MustCompile(`^\d+$`)

var globMeta = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)

// Path returns the path the downloader writes English auto-captions to.
func Path(dir, videoID string) string {
	return filepath.Join(dir, videoID+".en.vtt")
}

// Find returns the caption file for videoID in dir. The exact "{id}.en.vtt"
// wins; otherwise the first regional variant ("{id}.en-GB.vtt", ...) in
// lexical order. The second return is false when nothing matches.
func Find(dir, videoID string) (string, bool, error) {
	exact := Path(dir, videoID)
	if _, err := os.Stat(exact); err == nil {
		return exact, true, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", false, fmt.Errorf("caption: stat %s: %w", exact, err)
	}

	matches, err := filepath.Glob(filepath.Join(globMeta.Replace(dir), globMeta.Replace(videoID)+".en-*.vtt"))
	if err != nil {
		return "", false, fmt.Errorf("caption: glob: %w", err)
	}
	if len(matches) == 0 {
		return "", false, nil
	}
	return matches[0], true, nil
}

// Load finds and parses the caption file for videoID. A missing file, or one
// without any text, is NotFound rather than an error.
func Load(dir, videoID string) fn.Result[string] {
	path, ok, err := Find(dir, videoID)
	if err != nil {
		return fn.Err[string](err)
	}
	if !ok {
		return fn.NotFound[string]()
	}

	f, err := os.Open(path)
	if err != nil {
		return fn.Err[string](fmt.Errorf("caption: open %s: %w", path, err))
	}
	defer f.Close()

	text, err := Parse(f)
	if err != nil {
		return fn.Err[string](fmt.Errorf("caption: read %s: %w", path, err))
	}
	if text == "" {
		return fn.NotFound[string]()
	}
	return fn.Ok(text)
}

// Parse drops timing lines and numeric cue counters, trims what remains and
// joins the non-empty lines with single spaces, preserving order.
func Parse(r io.Reader) (string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.Contains(line, timeRangeMarker) || counterLine.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return strings.Join(lines, " "), nil
}
