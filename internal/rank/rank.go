// Package rank orders normalized tracks and slices them into pages.
package rank

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/soundscout/internal/models"
)

// DefaultPageSize is the artist flow page size.
const DefaultPageSize = 40

// IsOfficial reports whether a strategy name marks official content.
func IsOfficial(source string) bool {
	return strings.Contains(source, "official")
}

// OfficialFirst returns a copy of tracks with official-sourced items first.
// Order within each group is preserved.
func OfficialFirst(tracks []models.Track) []models.Track {
	out := slices.Clone(tracks)
	slices.SortStableFunc(out, func(a, b models.Track) int {
		return boolRank(IsOfficial(b.Source)) - boolRank(IsOfficial(a.Source))
	})
	return out
}

// ByViews returns a copy of tracks sorted by parsed view count, highest first. Ties keep their order.
func ByViews(tracks []models.Track) []models.Track {
	out := slices.Clone(tracks)
	slices.SortStableFunc(out, func(a, b models.Track) int {
		va, vb := ParseViewCount(a.ViewCount), ParseViewCount(b.ViewCount)
		switch {
		case va > vb:
			return -1
		case va < vb:
			return 1
		}
		return 0
	})
	return out
}

var viewDigits = regexp.MustCompile(`[^\d.]`)
var leadingFloat = regexp.MustCompile(`^\d*\.?\d*`)

// ParseViewCount approximates a view count display string such as "1.2M views" or
// "3,456 views". A "K" multiplies by a thousand and an "M" by a million; anything
// unparseable, including "N/A", reads as zero.
func ParseViewCount(s string) float64 {
	if s == "" || s == "N/A" {
		return 0
	}

	multiplier := 1.0
	switch {
	case strings.Contains(s, "K"):
		multiplier = 1_000
	case strings.Contains(s, "M"):
		multiplier = 1_000_000
	}

	digits := leadingFloat.FindString(viewDigits.ReplaceAllString(s, ""))
	n, err := strconv.ParseFloat(strings.TrimSuffix(digits, "."), 64)
	if err != nil || math.IsNaN(n) {
		return 0
	}
	return n * multiplier
}

// Paginate slices items to the 1-based page of size pageSize.
//
// A page past the end yields an empty, non-nil slice. Pages below 1 read as 1.
func Paginate[T any](items []T, page, pageSize int) ([]T, models.Pagination) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	p := models.Pagination{
		CurrentPage:  page,
		TotalPages:   (total + pageSize - 1) / pageSize,
		TotalItems:   total,
		ItemsPerPage: pageSize,
	}

	// Compared before multiplying so huge pages cannot overflow the offsets.
	if page > p.TotalPages {
		return []T{}, p
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	p.HasMore = end < total
	return slices.Clone(items[start:end]), p
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
