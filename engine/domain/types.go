// Package domain defines the core types, platforms, and error taxonomy shared
// by the scraping and summarization pipeline.
package domain

import "time"

// Platform is a social media platform the tool can target.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformX         Platform = "x"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// VideoRecord is one video listed for a channel. It is immutable for the
// duration of a run.
type VideoRecord struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	UploadDate time.Time `json:"upload_date"`
}

// URL returns the watch URL for the video.
func (v VideoRecord) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// SummaryRecord is a finished summary as handed to output sinks.
type SummaryRecord struct {
	VideoID    string    `json:"video_id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Channel    string    `json:"channel"`
	UploadDate time.Time `json:"upload_date"`
	Summary    string    `json:"summary"`
	Chunks     int       `json:"chunks"`
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"created_at"`
}
