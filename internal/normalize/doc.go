// Package normalize turns raw catalog nodes into stable domain records.
//
// Every extractor is total: missing, null or oddly-typed fields fall back to a
// placeholder instead of failing. Numbers may arrive as int, float64 or
// json.Number depending on whether the node came straight from the transport or
// round-tripped through the persistent cache.
//
// Artist-from-title extraction is deliberately split into [ArtistBeforeDelimiter]
// and [ArtistAfterDelimiter]; callers pick the one their surface has always used.
package normalize
