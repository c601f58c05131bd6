package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/normalize"
	"github.com/desertthunder/soundscout/internal/rank"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.PlaylistSummary] with the bucket it was filed under.
type playlistItem struct {
	kind     models.PlaylistKind
	playlist models.PlaylistSummary
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }
func (i playlistItem) Title() string       { return i.playlist.Title }

// Description shows the bucket, the credited artist of "Album - Artist" titles, year and size.
func (i playlistItem) Description() string {
	parts := []string{string(i.kind)}
	if artist, ok := normalize.ArtistAfterDelimiter(i.playlist.Title); ok && artist != "" {
		parts = append(parts, "by "+artist)
	}
	if i.playlist.Year != "" {
		parts = append(parts, i.playlist.Year)
	}
	if i.playlist.VideoCount != "" {
		parts = append(parts, i.playlist.VideoCount)
	}
	return strings.Join(parts, " • ")
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	desc := i.track.Artist
	if rank.IsOfficial(i.track.Source) {
		desc = "★ " + desc
	}
	if i.track.Duration != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Duration)
	}
	if i.track.ViewCount != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.ViewCount)
	}
	return desc
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}

func playlistItems(c models.ChannelContent) []list.Item {
	var items []list.Item
	for _, group := range []struct {
		kind      models.PlaylistKind
		playlists []models.PlaylistSummary
	}{
		{models.KindAlbum, c.Albums},
		{models.KindSingle, c.Singles},
		{models.KindSongs, c.Songs},
		{models.KindMix, c.Mixes},
	} {
		for _, p := range group.playlists {
			items = append(items, playlistItem{kind: group.kind, playlist: p})
		}
	}
	return items
}
