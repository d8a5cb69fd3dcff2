package scraper

// playlistDoc is the single JSON document yt-dlp prints for a channel with
// -J / --dump-single-json.
type playlistDoc struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Entries []*entry `json:"entries"`
}

// entry is one item of a playlist document. Channel pages list their tabs
// ("Videos", "Shorts", ...) as nested playlists.
type entry struct {
	Type       string   `json:"_type"`
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	UploadDate string   `json:"upload_date"`
	Entries    []*entry `json:"entries"`
}

// flatten returns the leaf entries in listing order. Null entries, which
// yt-dlp emits for unavailable videos, are dropped.
func flatten(entries []*entry) []entry {
	var out []entry
	for _, e := range entries {
		if e == nil {
			continue
		}
		if e.Type == "playlist" || len(e.Entries) > 0 {
			out = append(out, flatten(e.Entries)...)
			continue
		}
		out = append(out, *e)
	}
	return out
}
