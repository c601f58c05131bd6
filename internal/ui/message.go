package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgArtistFetched MsgKind = iota
	MsgChannelFetched
	MsgStreamResolved
	MsgProgressUpdate
)

type artistResult struct {
	page *models.ArtistPage
	err  error
}

type channelResult struct {
	data *models.ChannelData
	err  error
}

type streamResult struct {
	track  models.Track
	stream *models.StreamResult
	err    error
}

// artistFetchedMsg is the constructor for [MsgArtistFetched]
func artistFetchedMsg(page *models.ArtistPage, err error) Msg {
	return Msg{kind: MsgArtistFetched, data: artistResult{page, err}}
}

// channelFetchedMsg is the constructor for [MsgChannelFetched]
func channelFetchedMsg(data *models.ChannelData, err error) Msg {
	return Msg{kind: MsgChannelFetched, data: channelResult{data, err}}
}

// streamResolvedMsg is the constructor for [MsgStreamResolved]
func streamResolvedMsg(track models.Track, stream *models.StreamResult, err error) Msg {
	return Msg{kind: MsgStreamResolved, data: streamResult{track, stream, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}
