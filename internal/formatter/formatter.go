// package formatter renders artist pages, channel pages and track listings as text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/shared"
)

// Format names an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat accepts text, markdown (or md), csv and json, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
}

// Detail is one labelled header line.
type Detail struct {
	Label string
	Value string
}

// Section is a named group of playlists.
type Section struct {
	Name      string
	Playlists []models.PlaylistSummary
}

// Listing is the format-independent view of a result.
//
// Raw, when set, is what the JSON encoding marshals instead of the listing itself.
type Listing struct {
	Title      string
	Details    []Detail
	Tracks     []models.Track
	Sections   []Section
	Pagination *models.Pagination
	Cover      string
	Raw        any
}

// ArtistListing builds the listing of one artist page.
func ArtistListing(p *models.ArtistPage) Listing {
	l := Listing{
		Title: p.Metadata.Name,
		Details: nonEmpty(
			Detail{"Channel", p.ChannelInfo.ChannelID},
			Detail{"Matched by", string(p.ChannelInfo.Source)},
			Detail{"Subscribers", p.Metadata.Subscribers},
			Detail{"Views", p.Metadata.ViewCount},
			Detail{"Verified", yesNo(p.Metadata.IsVerified)},
		),
		Tracks:     p.Content.Videos,
		Pagination: &p.Pagination,
		Cover:      p.ChannelInfo.Thumbnail,
		Raw:        p,
	}
	if l.Title == "" {
		l.Title = p.ChannelInfo.ChannelName
	}
	if len(p.Metadata.Thumbnails) > 0 {
		l.Cover = p.Metadata.Thumbnails[0].URL
	}
	return l
}

// ChannelListing builds the listing of a channel page with one section per playlist bucket.
func ChannelListing(d *models.ChannelData) Listing {
	return Listing{
		Title: d.Metadata.Name,
		Details: nonEmpty(
			Detail{"Channel", d.Metadata.ID},
			Detail{"Subscribers", d.Metadata.Subscribers},
			Detail{"Updated", timestamp(d.LastUpdated)},
		),
		Tracks: d.Content.Videos,
		Sections: []Section{
			{"Albums", d.Content.Albums},
			{"Singles", d.Content.Singles},
			{"Songs", d.Content.Songs},
			{"Mixes", d.Content.Mixes},
		},
		Raw: d,
	}
}

// MoodListing builds the listing of a mood lookup.
func MoodListing(m *models.MoodResult) Listing {
	return Listing{
		Title:    "Mood: " + m.Mood,
		Tracks:   m.Songs,
		Sections: []Section{{"Playlists", m.Playlists}},
		Raw:      m,
	}
}

// TrackListing builds a plain titled list of tracks.
func TrackListing(title string, tracks []models.Track) Listing {
	return Listing{Title: title, Tracks: tracks, Raw: tracks}
}

// Encode renders l in format f. pretty only affects JSON.
func Encode(l Listing, f Format, pretty bool) ([]byte, error) {
	switch f {
	case FormatJSON:
		if l.Raw != nil {
			return shared.MarshalJSON(l.Raw, pretty)
		}
		return shared.MarshalJSON(l, pretty)
	case FormatCSV:
		return ExportToCSV(l)
	case FormatMarkdown:
		return ExportToMarkdown(l, "")
	default:
		return ExportToText(l)
	}
}

// ExportToCSV writes one row per track, then one row per playlist, under a shared header.
//
// The Kind column is "track" for tracks and the lowercased section name for playlists.
func ExportToCSV(l Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Kind", "ID", "Title", "Artist", "Duration", "Views", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range l.Tracks {
		record := []string{"track", track.ID, track.Title, track.Artist, duration(track), track.ViewCount, trackURL(track)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	for _, section := range l.Sections {
		kind := strings.ToLower(section.Name)
		for _, p := range section.Playlists {
			record := []string{kind, p.ID, p.Title, "", "", p.VideoCount, "https://www.youtube.com/playlist?list=" + p.ID}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders l as Markdown with an optional cover image.
func ExportToMarkdown(l Listing, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", l.Title)
	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	for _, d := range l.Details {
		fmt.Fprintf(&buf, "**%s**: %s\n", d.Label, d.Value)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(l.Tracks))

	if len(l.Tracks) > 0 {
		buf.WriteString("## Tracks\n\n")
		for i, track := range l.Tracks {
			fmt.Fprintf(&buf, "%d. %s - [%s](%s)%s\n", i+1, track.Artist, track.Title, trackURL(track), bracketed(duration(track)))
		}
		buf.WriteString("\n")
	}

	for _, section := range l.Sections {
		if len(section.Playlists) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "## %s\n\n", section.Name)
		for i, p := range section.Playlists {
			yearPart := ""
			if p.Year != "" {
				yearPart = fmt.Sprintf(" (%s)", p.Year)
			}
			fmt.Fprintf(&buf, "%d. %s%s%s\n", i+1, p.Title, yearPart, bracketed(p.VideoCount))
		}
		buf.WriteString("\n")
	}

	if p := l.Pagination; p != nil && p.TotalPages > 0 {
		fmt.Fprintf(&buf, "_Page %d of %d (%d items)_\n", p.CurrentPage, p.TotalPages, p.TotalItems)
	}

	return buf.Bytes(), nil
}

// ExportToText renders l as plain text.
func ExportToText(l Listing) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", l.Title)
	for _, d := range l.Details {
		fmt.Fprintf(&buf, "%s: %s\n", d.Label, d.Value)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(l.Tracks))

	for i, track := range l.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, track.Artist, track.Title, bracketed(duration(track)))
	}

	for _, section := range l.Sections {
		if len(section.Playlists) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n%s:\n", section.Name)
		for _, p := range section.Playlists {
			fmt.Fprintf(&buf, "  - %s\n", p.Title)
		}
	}

	if p := l.Pagination; p != nil && p.TotalPages > 0 {
		fmt.Fprintf(&buf, "\nPage %d/%d, %d items", p.CurrentPage, p.TotalPages, p.TotalItems)
		if p.HasMore {
			buf.WriteString(", more available")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// Write encodes l to w.
func Write(w io.Writer, l Listing, f Format, pretty bool) error {
	data, err := Encode(l, f, pretty)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if f == FormatJSON {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// WriteFile encodes l into path.
func WriteFile(path string, l Listing, f Format, pretty bool) error {
	data, err := Encode(l, f, pretty)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		rc := retryablehttp.NewClient()
		rc.RetryMax = 2
		rc.Logger = nil
		rc.HTTPClient.Timeout = 30 * time.Second
		client = rc.StandardClient()
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes {dir}/README.md and, when l.Cover downloads, {dir}/cover.jpg.
//
// A failed cover download is reported on stderr and does not fail the export.
func WriteMarkdownExport(client *http.Client, l Listing, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("%w: output directory", shared.ErrMissingArgument)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if l.Cover != "" {
		imageData, err := DownloadImage(client, l.Cover)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(l, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

func duration(t models.Track) string {
	if t.Duration != "" {
		return t.Duration
	}
	if t.DurationSeconds > 0 {
		return shared.FormatDuration(t.DurationSeconds)
	}
	return ""
}

func trackURL(t models.Track) string {
	if t.URL != "" {
		return t.URL
	}
	return "https://youtube.com/watch?v=" + t.ID
}

func bracketed(s string) string {
	if s == "" {
		return ""
	}
	return " [" + s + "]"
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func nonEmpty(details ...Detail) []Detail {
	out := details[:0]
	for _, d := range details {
		if d.Value != "" {
			out = append(out, d)
		}
	}
	return out
}
