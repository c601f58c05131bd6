package normalize

import (
	"strings"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
)

// thumbnailPreference is the quality order used when a caller asks for the best thumbnail.
var thumbnailPreference = []string{"maxres", "hqdefault", "mqdefault"}

// Thumbnails reads a node's thumbnails: an array of candidates, a single {url} object or a bare url.
func Thumbnails(r catalog.Result) []models.Thumbnail {
	if thumbs := thumbnailsOf(lookup(r, "thumbnails")); len(thumbs) > 0 {
		return thumbs
	}
	return thumbnailsOf(lookup(r, "thumbnail"))
}

// AuthorThumbnails reads author.thumbnails.
func AuthorThumbnails(r catalog.Result) []models.Thumbnail {
	return thumbnailsOf(lookup(r, "author", "thumbnails"))
}

// FirstThumbnail returns the first thumbnail url, or placeholder.
func FirstThumbnail(r catalog.Result, placeholder string) string {
	thumbs := Thumbnails(r)
	if len(thumbs) == 0 {
		return placeholder
	}
	return thumbs[0].URL
}

// BestThumbnailByQuality prefers maxres, then hqdefault, then mqdefault urls, then the
// first candidate, then placeholder.
func BestThumbnailByQuality(thumbs []models.Thumbnail, placeholder string) string {
	for _, quality := range thumbnailPreference {
		for _, t := range thumbs {
			if strings.Contains(t.URL, quality) {
				return t.URL
			}
		}
	}
	if len(thumbs) > 0 {
		return thumbs[0].URL
	}
	return placeholder
}

// LargestThumbnail returns the candidate with the largest pixel area, or "" when there are none.
// The first candidate wins ties.
func LargestThumbnail(thumbs []models.Thumbnail) string {
	best, area := "", -1
	for _, t := range thumbs {
		if a := t.Width * t.Height; a > area {
			best, area = t.URL, a
		}
	}
	return best
}

func thumbnailsOf(v any) []models.Thumbnail {
	switch t := v.(type) {
	case []any:
		out := make([]models.Thumbnail, 0, len(t))
		for _, item := range t {
			if th, ok := thumbnailOf(item); ok {
				out = append(out, th)
			}
		}
		return out
	case []models.Thumbnail:
		return t
	default:
		if th, ok := thumbnailOf(v); ok {
			return []models.Thumbnail{th}
		}
	}
	return nil
}

func thumbnailOf(v any) (models.Thumbnail, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		return models.Thumbnail{URL: s}, s != ""
	}
	url := str(lookup(v, "url"))
	if url == "" {
		return models.Thumbnail{}, false
	}
	return models.Thumbnail{
		URL:    url,
		Width:  number(lookup(v, "width")),
		Height: number(lookup(v, "height")),
	}, true
}
