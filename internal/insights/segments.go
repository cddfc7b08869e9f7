package insights

import (
	"github.com/nazmulcodes/deshcart-backend/pkg/enums"
	"github.com/nazmulcodes/deshcart-backend/pkg/insight"
)

// SegmentShare is the count and population share of one customer segment.
type SegmentShare struct {
	Segment enums.CustomerSegment `json:"segment"`
	Count   int                   `json:"count"`
	Share   float64               `json:"share"`
}

// SegmentBreakdown is the full six-bucket classification with shares.
type SegmentBreakdown struct {
	Total  int            `json:"total"`
	Shares []SegmentShare `json:"shares"`
}

// SegmentShares computes per-segment counts and shares over the payload.
// Every known segment appears in the result, zero-count buckets included.
// With an empty population all shares are zero.
func SegmentShares(payload insight.SegmentsPayload) SegmentBreakdown {
	total := 0
	for _, customers := range payload {
		total += len(customers)
	}

	shares := make([]SegmentShare, 0, len(enums.CustomerSegments()))
	for _, segment := range enums.CustomerSegments() {
		count := len(payload[segment])
		share := 0.0
		if total > 0 {
			share = float64(count) / float64(total)
		}
		shares = append(shares, SegmentShare{
			Segment: segment,
			Count:   count,
			Share:   share,
		})
	}

	return SegmentBreakdown{Total: total, Shares: shares}
}
