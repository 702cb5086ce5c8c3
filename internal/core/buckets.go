package core

import "strconv"

// OverflowBucketLabel names the bucket holding every price outside the
// regular boundaries. The text is a fixed display string.
const OverflowBucketLabel = "901-above"

// BucketWidth is the span of every regular bucket.
const BucketWidth = 100

// PriceBoundaries are the histogram edges; bucket i is
// [PriceBoundaries[i], PriceBoundaries[i+1]).
var PriceBoundaries = []float64{0, 100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}

// BucketIndex returns the regular bucket a price falls into, or
// len(PriceBoundaries)-1 for the overflow bucket.
func BucketIndex(price float64) int {
	last := len(PriceBoundaries) - 1
	if price < PriceBoundaries[0] || price >= PriceBoundaries[last] {
		return last
	}
	for i := 0; i < last; i++ {
		if price < PriceBoundaries[i+1] {
			return i
		}
	}
	return last
}

// BucketLabel renders the label for a bucket index: the lower boundary for
// regular buckets, OverflowBucketLabel otherwise.
func BucketLabel(i int) string {
	if i < 0 || i >= len(PriceBoundaries)-1 {
		return OverflowBucketLabel
	}
	return strconv.FormatFloat(PriceBoundaries[i], 'f', -1, 64)
}

// CompactBuckets turns per-index counts into the ordered histogram,
// dropping empty buckets.
func CompactBuckets(counts []int64) []PriceBucket {
	out := make([]PriceBucket, 0, len(counts))
	for i, c := range counts {
		if c == 0 {
			continue
		}
		out = append(out, PriceBucket{BucketLabel: BucketLabel(i), Count: c})
	}
	return out
}
