package domain

import (
	"fmt"
	"strings"
)

// ChannelURL resolves a YouTube target given on the command line into a
// channel URL. Handles start with "@", channel IDs with "UC"; anything else
// is treated as a legacy custom name.
func ChannelURL(target string) (string, error) {
	target = strings.TrimSpace(target)
	switch {
	case target == "":
		return "", fmt.Errorf("youtube: %w", ErrEmptyTarget)
	case strings.HasPrefix(target, "https://") || strings.HasPrefix(target, "http://"):
		return target, nil
	case strings.HasPrefix(target, "@"):
		return "https://www.youtube.com/" + target, nil
	case strings.HasPrefix(target, "UC"):
		return "https://www.youtube.com/channel/" + target, nil
	default:
		return "https://www.youtube.com/c/" + target, nil
	}
}
