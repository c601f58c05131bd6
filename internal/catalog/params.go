package catalog

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
)

var sortOrders = map[string]uint64{
	"relevance":   0,
	"rating":      1,
	"upload_date": 2,
	"view_count":  3,
}

var contentTypes = map[ContentType]uint64{
	TypeVideo:    1,
	TypeChannel:  2,
	TypePlaylist: 3,
}

var durations = map[string]uint64{
	"short":  1,
	"long":   2,
	"medium": 3,
}

// feature flag field numbers inside the filter message
var features = map[string]uint64{
	"hd":               4,
	"cc":               5,
	"subtitles":        5,
	"creative_commons": 6,
	"3d":               7,
	"live":             8,
	"purchased":        9,
	"4k":               14,
	"360":              15,
	"location":         23,
	"hdr":              25,
	"vr180":            26,
}

// searchParams encodes the sort and filter hints of q into the base64 protobuf
// blob the search endpoint accepts as "params". It returns "" when q has no hints.
//
//	message SearchParams { uint64 sort = 1; Filters filters = 2; }
//	message Filters { uint64 type = 2; uint64 duration = 3; bool <feature> = N; }
func searchParams(q Query) string {
	var filters []byte
	if v, ok := contentTypes[q.Type]; ok {
		filters = appendVarintField(filters, 2, v)
	}
	if v, ok := durations[strings.ToLower(q.Duration)]; ok {
		filters = appendVarintField(filters, 3, v)
	}
	seen := map[uint64]bool{}
	for _, f := range q.Features {
		field, ok := features[strings.ToLower(f)]
		if !ok || seen[field] {
			continue
		}
		seen[field] = true
		filters = appendVarintField(filters, field, 1)
	}

	var msg []byte
	if v, ok := sortOrders[strings.ToLower(q.SortBy)]; ok && v != 0 {
		msg = appendVarintField(msg, 1, v)
	}
	if len(filters) > 0 {
		msg = binary.AppendUvarint(msg, 2<<3|2)
		msg = binary.AppendUvarint(msg, uint64(len(filters)))
		msg = append(msg, filters...)
	}
	if len(msg) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(msg)
}

func appendVarintField(b []byte, field, v uint64) []byte {
	b = binary.AppendUvarint(b, field<<3)
	return binary.AppendUvarint(b, v)
}
