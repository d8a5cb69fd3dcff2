package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrInvalidChunkSize    = errors.New("chunk size must be positive")
	ErrUnsupportedPlatform = errors.New("platform not supported")
	ErrEmptyTarget         = errors.New("empty target")
	ErrMissingSetting      = errors.New("missing setting")
)

// ExternalError reports a failure of an external collaborator: the downloader
// process or the language-model service.
type ExternalError struct {
	Tool   string // "yt-dlp", "llm"
	Op     string // "metadata", "captions", "generate", ...
	Detail string // stderr or response body, trimmed
	Err    error
}

func (e *ExternalError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Tool, e.Op, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ExternalError) Unwrap() error { return e.Err }

// NewExternalError creates an ExternalError.
func NewExternalError(tool, op, detail string, err error) *ExternalError {
	return &ExternalError{Tool: tool, Op: op, Detail: detail, Err: err}
}
