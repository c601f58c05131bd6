// package models defines the domain records for the soundscout service
package models

import (
	"time"
)

const (
	UnknownTitle    = "Unknown Title"
	UnknownArtist   = "Unknown Artist"
	UnknownPlaylist = "Unknown Playlist"
)

// MatchSource names the resolution strategy that produced a [ResolvedIdentity].
type MatchSource string

const (
	SourceKnownChannel   MatchSource = "known_channel"
	SourceOfficialArtist MatchSource = "official_artist"
	SourceVevo           MatchSource = "vevo"
	SourceTopic          MatchSource = "topic"
	SourceOfficialVideo  MatchSource = "official_video"
)

// ResolvedIdentity is the catalog channel an artist name resolved to.
type ResolvedIdentity struct {
	ChannelID   string      `json:"channelId"`
	ChannelName string      `json:"channelName"`
	Thumbnail   string      `json:"thumbnail"`
	Source      MatchSource `json:"source"`
}

// Thumbnail is a single image candidate.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Track is the normalized song/video record.
//
// ID is the catalog content id and the dedupe key for every merge. Title and Artist are never empty.
type Track struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Artist          string      `json:"artist"`
	Thumbnail       string      `json:"thumbnail"`
	Thumbnails      []Thumbnail `json:"thumbnails,omitempty"`
	Duration        string      `json:"duration,omitempty"`
	DurationSeconds int         `json:"-"`
	Published       string      `json:"published,omitempty"`
	ViewCount       string      `json:"viewCount,omitempty"`
	Source          string      `json:"source,omitempty"`
	URL             string      `json:"url,omitempty"`
	Genre           string      `json:"genre,omitempty"`
	ContentType     string      `json:"type,omitempty"`
}

// Summary is the reduced id/title/artist/thumbnail shape served by genre, mood and search listings.
func (t Track) Summary() Track {
	return Track{ID: t.ID, Title: t.Title, Artist: t.Artist, Thumbnail: t.Thumbnail}
}

// Pagination describes one page of a [ResultSet].
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	HasMore      bool `json:"hasMore"`
	ItemsPerPage int  `json:"itemsPerPage"`
}

// ResultSet is one page of an aggregated, deduplicated track list.
type ResultSet struct {
	Tracks     []Track    `json:"videos"`
	Pagination Pagination `json:"pagination"`
}

// ChannelMetadata is the descriptive header of a catalog channel.
type ChannelMetadata struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Subscribers string      `json:"subscribers"`
	Thumbnails  []Thumbnail `json:"thumbnails"`
	Banners     []Thumbnail `json:"banners"`
	IsVerified  bool        `json:"isVerified"`
	ViewCount   string      `json:"viewCount"`
}

// PlaylistSummary is a playlist reference as shown on channel and mood pages.
type PlaylistSummary struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Thumbnail  string      `json:"thumbnail,omitempty"`
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
	VideoCount string      `json:"videoCount,omitempty"`
	Year       string      `json:"year,omitempty"`
}

// PlaylistKind is the bucket a channel playlist is filed under.
type PlaylistKind string

const (
	KindAlbum  PlaylistKind = "albums"
	KindSingle PlaylistKind = "singles"
	KindMix    PlaylistKind = "mixes"
	KindSongs  PlaylistKind = "songs"
)

// ChannelContent groups a channel's uploads and categorized playlists.
type ChannelContent struct {
	Songs   []PlaylistSummary `json:"songs"`
	Albums  []PlaylistSummary `json:"albums"`
	Singles []PlaylistSummary `json:"singles"`
	Videos  []Track           `json:"videos"`
	Mixes   []PlaylistSummary `json:"mixes"`
}

// Add files p under kind.
func (c *ChannelContent) Add(kind PlaylistKind, p PlaylistSummary) {
	switch kind {
	case KindAlbum:
		c.Albums = append(c.Albums, p)
	case KindSingle:
		c.Singles = append(c.Singles, p)
	case KindMix:
		c.Mixes = append(c.Mixes, p)
	default:
		c.Songs = append(c.Songs, p)
	}
}

// ChannelData is a channel page: metadata plus categorized content.
type ChannelData struct {
	Metadata    ChannelMetadata `json:"metadata"`
	Content     ChannelContent  `json:"content"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// ArtistPage is the result of an artist lookup.
type ArtistPage struct {
	ChannelInfo ResolvedIdentity `json:"channelInfo"`
	Metadata    ChannelMetadata  `json:"metadata"`
	Content     ArtistContent    `json:"content"`
	Pagination  Pagination       `json:"pagination"`
}

// ArtistContent holds the current page of an artist's deep search.
type ArtistContent struct {
	Videos []Track `json:"videos"`
}

// MoodResult is the playlist chosen for a mood and its tracks.
type MoodResult struct {
	Mood      string            `json:"mood"`
	Playlists []PlaylistSummary `json:"playlists"`
	Songs     []Track           `json:"songs"`
}

// StreamFormat is one playable rendition candidate.
type StreamFormat struct {
	URL      string `json:"url"`
	Bitrate  int    `json:"bitrate"`
	HasVideo bool   `json:"hasVideo"`
	HasAudio bool   `json:"hasAudio"`
	MimeType string `json:"mimeType,omitempty"`
	Quality  string `json:"quality,omitempty"`
}

// CaptionTrack is a subtitle track available for a video.
type CaptionTrack struct {
	LanguageName   string `json:"language_name"`
	LanguageCode   string `json:"language_code"`
	URL            string `json:"url"`
	IsTranslatable bool   `json:"is_translatable"`
}

// VideoDetails is the summary shown alongside a resolved stream.
type VideoDetails struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Length    int    `json:"length"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// StreamResult is a resolved playable stream for a video.
type StreamResult struct {
	URL          string         `json:"url"`
	Captions     []CaptionTrack `json:"captions"`
	VideoDetails VideoDetails   `json:"video_details"`
	Format       StreamFormat   `json:"-"`
}
