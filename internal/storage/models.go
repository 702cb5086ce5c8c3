package storage

// Transaction is a row of the transactions table.
type Transaction struct {
	ID          int64
	Title       string
	Description string
	Price       float64
	DateOfSale  int64
	Sold        bool
	Category    string
}

type CreateTransactionParams struct {
	Title       string
	Description string
	Price       float64
	DateOfSale  int64
	Sold        bool
	Category    string
}

type ListTransactionsParams struct {
	FromMs int64
	ToMs   int64
	Search string
	Limit  int64
	Offset int64
}

type GetPriceBucketsParams struct {
	FromMs        int64
	ToMs          int64
	Lower         float64
	Upper         float64
	Width         float64
	OverflowIndex int64
}

type GetPriceBucketsRow struct {
	Bucket int64
	Count  int64
}

type GetCategoryCountsRow struct {
	Category string
	Count    int64
}
