package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// UnknownTrack is the placeholder title on the popular surface.
const UnknownTrack = "Unknown Track"

var (
	bracketedOrPiped = regexp.MustCompile(`(\[.*?\])|(\(.*?\))|(\|.*)`)
	repeatedSpace    = regexp.MustCompile(`\s{2,}`)
	creatorSuffix    = regexp.MustCompile(`(?i)( - Topic| Official| -? VEVO)$`)

	leadingArtist  = regexp.MustCompile(`^.*-\s*`)
	bracketSegment = regexp.MustCompile(`\s*[\(\[].*?[\)\]]`)
	titleNoise     = regexp.MustCompile(`(?i)official video|lyrics?|visualizer|hd|4k`)
)

// CleanTitle strips bracketed and parenthesized segments and anything after a pipe,
// then collapses repeated whitespace.
func CleanTitle(title string) string {
	title = bracketedOrPiped.ReplaceAllString(title, "")
	return strings.TrimSpace(repeatedSpace.ReplaceAllString(title, " "))
}

// CleanCreator strips a trailing " - Topic", " Official" or " VEVO" suffix, case-insensitively.
func CleanCreator(name string) string {
	return strings.TrimSpace(creatorSuffix.ReplaceAllString(name, ""))
}

// SongTitle drops a leading "Artist -" prefix, bracketed segments and common upload noise
// ("official video", "lyrics", "visualizer", "hd", "4k"). An empty title reads as [UnknownTrack].
func SongTitle(title string) string {
	if title == "" {
		return UnknownTrack
	}
	title = leadingArtist.ReplaceAllString(title, "")
	title = bracketSegment.ReplaceAllString(title, "")
	title = titleNoise.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// Long-form content types, detected from the title.
const (
	ContentDJSet    = "DJ Set"
	ContentMashup   = "Mashup"
	ContentRemix    = "Remix"
	ContentFocusMix = "Focus Mix"
	ContentExtended = "Extended Mix"
)

// ContentType labels long-form content by title keywords.
func ContentType(title string) string {
	lc := strings.ToLower(title)
	switch {
	case strings.Contains(lc, "dj mix"):
		return ContentDJSet
	case strings.Contains(lc, "mashup"):
		return ContentMashup
	case strings.Contains(lc, "remix"):
		return ContentRemix
	case strings.Contains(lc, "study"), strings.Contains(lc, "focus"):
		return ContentFocusMix
	default:
		return ContentExtended
	}
}

// HoursMinutes renders seconds as "{h}h {m}m".
func HoursMinutes(seconds int) string {
	return fmt.Sprintf("%dh %dm", seconds/3600, seconds%3600/60)
}
