package normalize

import (
	"regexp"
	"strings"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
)

// Placeholder thumbnails served by the frontend when a node carries none.
const (
	DefaultVideoThumbnail      = "/default-video.jpg"
	DefaultLongListenThumbnail = "/default-longlisten.jpg"
)

// WatchURL is the canonical watch page of a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ID returns the node's content id.
func ID(r catalog.Result) string {
	return str(lookup(r, "id"))
}

// RawTitle returns the flattened title, or "" when absent.
func RawTitle(r catalog.Result) string {
	return Text(lookup(r, "title"))
}

// Title returns the flattened title, or [models.UnknownTitle].
func Title(r catalog.Result) string {
	return orDefault(RawTitle(r), models.UnknownTitle)
}

// AuthorName returns author.name (or a bare author string), or "" when absent.
func AuthorName(r catalog.Result) string {
	if name := Text(lookup(r, "author", "name")); name != "" {
		return name
	}
	return Text(lookup(r, "author"))
}

// Artist prefers author.name, then a channel field, then [models.UnknownArtist].
func Artist(r catalog.Result) string {
	if name := AuthorName(r); name != "" {
		return name
	}
	if ch := Text(lookup(r, "channel")); ch != "" {
		return ch
	}
	if ch := Text(lookup(r, "channel", "name")); ch != "" {
		return ch
	}
	return models.UnknownArtist
}

// ChannelName returns a channel node's name, or "" when absent.
func ChannelName(r catalog.Result) string {
	if name := Text(lookup(r, "name")); name != "" {
		return name
	}
	return Text(lookup(r, "title"))
}

// DurationText returns the human-readable duration, or "" when absent.
func DurationText(r catalog.Result) string {
	if text := str(lookup(r, "duration", "text")); text != "" {
		return text
	}
	return Text(lookup(r, "duration"))
}

// DurationSeconds returns the numeric duration, or 0. It is used for filtering only.
func DurationSeconds(r catalog.Result) int {
	if secs := number(lookup(r, "duration", "seconds")); secs > 0 {
		return secs
	}
	return number(lookup(r, "duration"))
}

// ViewCount returns the view count display string, or "".
func ViewCount(r catalog.Result) string {
	if text := Text(lookup(r, "view_count")); text != "" {
		return text
	}
	return Text(lookup(r, "short_view_count"))
}

// Published returns the relative publish date display string, or "".
func Published(r catalog.Result) string {
	return Text(lookup(r, "published"))
}

// Track builds the normalized record for a raw video node tagged with source.
//
// Thumbnail candidates are the node's own thumbnails, then its author's, then [DefaultVideoThumbnail].
func Track(r catalog.Result, source string) models.Track {
	thumbs := Thumbnails(r)
	if len(thumbs) == 0 {
		thumbs = AuthorThumbnails(r)
	}
	if len(thumbs) == 0 {
		thumbs = []models.Thumbnail{{URL: DefaultVideoThumbnail}}
	}

	id := ID(r)
	return models.Track{
		ID:              id,
		Title:           Title(r),
		Artist:          Artist(r),
		Thumbnail:       thumbs[0].URL,
		Thumbnails:      thumbs,
		Duration:        DurationText(r),
		DurationSeconds: DurationSeconds(r),
		Published:       Published(r),
		ViewCount:       ViewCount(r),
		Source:          source,
		URL:             WatchURL(id),
	}
}

// Tracks normalizes every node carrying an id, in order.
func Tracks(rs []catalog.Result, source string) []models.Track {
	out := make([]models.Track, 0, len(rs))
	for _, r := range rs {
		if ID(r) == "" {
			continue
		}
		out = append(out, Track(r, source))
	}
	return out
}

// ArtistBeforeDelimiter reads "Artist - Song" or "Artist | Song" titles, returning the
// segment before the first delimiter. ok is false when the title has no delimiter.
func ArtistBeforeDelimiter(title string) (string, bool) {
	parts := titleDelimiter.Split(title, -1)
	if len(parts) < 2 {
		return "", false
	}
	return strings.TrimSpace(parts[0]), true
}

// ArtistAfterDelimiter reads "Song - Artist" titles, returning the segment after the
// last " - ". ok is false when the title has no delimiter.
func ArtistAfterDelimiter(title string) (string, bool) {
	i := strings.LastIndex(title, " - ")
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(title[i+3:]), true
}

var titleDelimiter = regexp.MustCompile(` - | \| `)

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
