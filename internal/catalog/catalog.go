package catalog

import (
	"context"

	"github.com/desertthunder/soundscout/internal/models"
)

// ContentType filters a search to one kind of result.
type ContentType string

const (
	TypeVideo    ContentType = "video"
	TypeChannel  ContentType = "channel"
	TypePlaylist ContentType = "playlist"
)

// Result kinds as tagged on raw nodes.
const (
	KindVideo    = "Video"
	KindChannel  = "Channel"
	KindPlaylist = "Playlist"
)

// Query is an outbound search request.
type Query struct {
	Text     string
	Type     ContentType
	Locale   string   // hl, e.g. "en"
	Region   string   // gl, e.g. "US"
	SortBy   string   // relevance, rating, upload_date, view_count
	Duration string   // short, medium, long
	Features []string // hd, cc, 4k, live, ...
}

// Result is one raw, untrusted catalog node. Every field may be missing.
//
// Videos carry "type", "id", "title", "author" {id, name, thumbnails}, "thumbnails",
// "duration" {text, seconds}, "view_count" {text} and "published" {text}.
// Channels carry "type", "id", "name", "thumbnails" and "subscribers" {text}.
// Playlists carry "type", "id", "title", "thumbnails", "video_count" {text} and "author".
type Result map[string]any

// Kind returns the node's type tag.
func (r Result) Kind() string {
	s, _ := r["type"].(string)
	return s
}

// ID returns the node's content id, or "" when absent.
func (r Result) ID() string {
	s, _ := r["id"].(string)
	return s
}

// SearchResults holds the nodes of one search response in catalog order.
type SearchResults struct {
	Results []Result `json:"results"`
}

// Videos returns the video nodes in order.
func (s *SearchResults) Videos() []Result { return s.ofKind(KindVideo) }

// Channels returns the channel nodes in order.
func (s *SearchResults) Channels() []Result { return s.ofKind(KindChannel) }

// Playlists returns the playlist nodes in order.
func (s *SearchResults) Playlists() []Result { return s.ofKind(KindPlaylist) }

func (s *SearchResults) ofKind(kind string) []Result {
	if s == nil {
		return nil
	}
	out := make([]Result, 0, len(s.Results))
	for _, r := range s.Results {
		if r.Kind() == kind {
			out = append(out, r)
		}
	}
	return out
}

// Channel is a browsed channel page.
//
// Metadata carries "title", "description", "subscriber_count", "avatar" {thumbnails},
// "banners", "is_verified" and "view_count" when the catalog provides them.
type Channel struct {
	ID        string   `json:"id"`
	Metadata  Result   `json:"metadata"`
	Videos    []Result `json:"videos"`
	Playlists []Result `json:"playlists"`
}

// Playlist is a browsed playlist. Info carries "title", "video_count", "thumbnails", "author" and "year".
type Playlist struct {
	ID     string   `json:"id"`
	Info   Result   `json:"info"`
	Videos []Result `json:"videos"`
}

// CaptionTrack is a caption track as reported by the catalog. Name may be empty.
type CaptionTrack struct {
	Name           string
	LanguageCode   string
	URL            string
	IsTranslatable bool
}

// StreamingData splits a video's renditions into combined and adaptive formats.
type StreamingData struct {
	Formats         []models.StreamFormat
	AdaptiveFormats []models.StreamFormat
}

// BasicInfo is the descriptive part of a video's player response.
// A nil StreamingData means the catalog returned none.
type BasicInfo struct {
	Title         string
	Author        string
	Duration      int
	Thumbnails    []models.Thumbnail
	StreamingData *StreamingData
}

// VideoInfo is a video's player response. A nil Basic means no usable info was returned.
type VideoInfo struct {
	ID       string
	Basic    *BasicInfo
	Captions []CaptionTrack
}

// StreamOptions selects a single rendition in [Client.GetStreamingData].
type StreamOptions struct {
	Quality string // "best"
	Type    string // "video+audio", "audio" or "video"
}

// Client is the catalog contract every flow depends on.
type Client interface {
	Search(ctx context.Context, q Query) (*SearchResults, error)
	GetChannel(ctx context.Context, id string) (*Channel, error)
	GetPlaylist(ctx context.Context, id string) (*Playlist, error)
	GetInfo(ctx context.Context, id string) (*VideoInfo, error)
	GetBasicInfo(ctx context.Context, id string) (*VideoInfo, error)
	GetStreamingData(ctx context.Context, id string, opts StreamOptions) (*models.StreamFormat, error)
}
