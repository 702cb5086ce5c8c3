package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		price float64
		want  int
	}{
		{0, 0},
		{50, 0},
		{99.99, 0},
		{100, 1},
		{950, 9},
		{999.99, 9},
		{1000, 10},
		{5000, 10},
		{-1, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketIndex(tt.price), "price %v", tt.price)
	}
}

func TestBucketLabel(t *testing.T) {
	assert.Equal(t, "0", BucketLabel(0))
	assert.Equal(t, "100", BucketLabel(1))
	assert.Equal(t, "900", BucketLabel(9))
	assert.Equal(t, OverflowBucketLabel, BucketLabel(10))
	assert.Equal(t, OverflowBucketLabel, BucketLabel(-1))
}

func TestCompactBucketsDropsEmpty(t *testing.T) {
	counts := make([]int64, len(PriceBoundaries))
	counts[0] = 1
	counts[3] = 4
	counts[10] = 2

	got := CompactBuckets(counts)

	assert.Equal(t, []PriceBucket{
		{BucketLabel: "0", Count: 1},
		{BucketLabel: "300", Count: 4},
		{BucketLabel: "901-above", Count: 2},
	}, got)
	assert.Empty(t, CompactBuckets(make([]int64, len(PriceBoundaries))))
	assert.NotNil(t, CompactBuckets(nil))
}
