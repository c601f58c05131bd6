// Package ui implements an interactive artist browser using bubbletea's Elm architecture.
//
// The TUI walks one artist through these views:
//  1. [LoadingView] : spinner plus the latest scheduler progress (strategy, template, playlist)
//  2. [VideoListView] : a page of the artist's deep search, with n/p paging
//  3. [ChannelView] : the channel's playlists grouped as albums, singles, songs and mixes
//  4. [StreamView] : the resolved stream and caption languages for the selected video
//  5. [ErrorView] : the failure, with r to retry the last request
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving results via the Msg union type.
// Progress updates flow through the channel the service reports its plans to, so a slow resolution shows
// which strategy is running.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, n/p, c, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
