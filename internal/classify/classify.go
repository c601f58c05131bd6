// Package classify decides whether a catalog item plausibly is music.
//
// Two strategies exist and call sites pick exactly one: [NegativeKeyword] rejects
// items whose title or channel names non-music content, [PositivePattern] accepts
// items whose title follows a music naming convention or whose channel looks like
// a music channel. Some call sites apply neither.
package classify

import (
	"regexp"
	"strings"
)

// Strategy is a music heuristic over an item's title and channel name.
type Strategy interface {
	Name() string
	IsMusic(title, channel string) bool
}

// NegativeKeyword rejects an item when its title or channel contains any keyword, case-insensitively.
type NegativeKeyword struct {
	Keywords []string
}

// DefaultNonMusicKeywords are substrings marking non-music uploads. Short entries such as "ad"
// match inside longer words; that breadth is part of the filter's observed behavior.
var DefaultNonMusicKeywords = []string{
	"trailer", "movie", "film", "episode", "full episode", "series",
	"shorts", "documentary", "news", "interview", "review", "gameplay",
	"live stream", "official trailer", "reaction", "explained", "recap",
	"behind the scenes", "tutorial", "how to", "walkthrough", "meme",
	"funny", "challenge", "prank", "vlog", "ad", "commercial",
	"channel", "subscribe", "announcement", "podcast",
}

// NewNegativeKeyword returns the keyword filter used by generic search.
func NewNegativeKeyword() *NegativeKeyword {
	return &NegativeKeyword{Keywords: DefaultNonMusicKeywords}
}

func (n *NegativeKeyword) Name() string { return "negative_keyword" }

func (n *NegativeKeyword) IsMusic(title, channel string) bool {
	title, channel = strings.ToLower(title), strings.ToLower(channel)
	for _, kw := range n.Keywords {
		if strings.Contains(title, kw) || strings.Contains(channel, kw) {
			return false
		}
	}
	return true
}

// PositivePattern accepts an item whose lowercased title matches a titling convention or whose
// channel contains a music indicator.
type PositivePattern struct {
	Patterns   []*regexp.Regexp
	Indicators []string
}

// DefaultMusicPatterns are titling conventions of music uploads.
var DefaultMusicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^.* - .*$`),
	regexp.MustCompile(`^.* \| .*$`),
	regexp.MustCompile(`(?i)official video`),
	regexp.MustCompile(`(?i)official music video`),
	regexp.MustCompile(`(?i)official audio`),
	regexp.MustCompile(`(?i)lyric video`),
	regexp.MustCompile(`(?i)visualizer`),
	regexp.MustCompile(`(?i)^.*\(official.*\)$`),
	regexp.MustCompile(`(?i)^.*\[official.*\]$`),
}

// DefaultChannelIndicators are substrings of music channel names.
var DefaultChannelIndicators = []string{"vevo", "music", "records", "official", "lyrics", "audio", "song"}

// NewPositivePattern returns the pattern classifier used by the popular aggregation.
func NewPositivePattern() *PositivePattern {
	return &PositivePattern{Patterns: DefaultMusicPatterns, Indicators: DefaultChannelIndicators}
}

func (p *PositivePattern) Name() string { return "positive_pattern" }

func (p *PositivePattern) IsMusic(title, channel string) bool {
	title, channel = strings.ToLower(title), strings.ToLower(channel)
	for _, re := range p.Patterns {
		if re.MatchString(title) {
			return true
		}
	}
	for _, ind := range p.Indicators {
		if strings.Contains(channel, ind) {
			return true
		}
	}
	return false
}

// Filter keeps the items s accepts, in order. fields reads an item's title and channel name.
func Filter[T any](items []T, s Strategy, fields func(T) (title, channel string)) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if s.IsMusic(fields(it)) {
			out = append(out, it)
		}
	}
	return out
}

var (
	_ Strategy = (*NegativeKeyword)(nil)
	_ Strategy = (*PositivePattern)(nil)
)
