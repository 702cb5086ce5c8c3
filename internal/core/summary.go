package core

// Statistics summarises one month of sales.
type Statistics struct {
	TotalSaleAmount  float64 `json:"totalSaleAmount"`
	TotalSoldItems   int64   `json:"totalSoldItems"`
	TotalUnsoldItems int64   `json:"totalUnsoldItems"`
}

// PriceBucket is one bar of the price histogram.
type PriceBucket struct {
	BucketLabel string `json:"bucketLabel"`
	Count       int64  `json:"count"`
}

// CategoryCount is one slice of the category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
