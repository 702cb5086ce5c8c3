package storage

import (
	"context"
)

const createTransaction = `
INSERT INTO transactions (title, description, price, date_of_sale, sold, category)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		arg.Title,
		arg.Description,
		arg.Price,
		arg.DateOfSale,
		arg.Sold,
		arg.Category,
	)
	return err
}

// Search is matched literally after Unicode case folding with txfold.
const listTransactions = `
SELECT id, title, description, price, date_of_sale, sold, category
FROM transactions
WHERE date_of_sale BETWEEN ? AND ?
  AND (? = '' OR instr(txfold(title), txfold(?)) > 0 OR instr(txfold(description), txfold(?)) > 0)
ORDER BY id
LIMIT ? OFFSET ?
`

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions,
		arg.FromMs,
		arg.ToMs,
		arg.Search,
		arg.Search,
		arg.Search,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transaction{}
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Description,
			&i.Price,
			&i.DateOfSale,
			&i.Sold,
			&i.Category,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPriceSum = `
SELECT CAST(COALESCE(SUM(price), 0) AS REAL)
FROM transactions
WHERE date_of_sale BETWEEN ? AND ?
`

func (q *Queries) GetPriceSum(ctx context.Context, fromMs, toMs int64) (float64, error) {
	row := q.db.QueryRowContext(ctx, getPriceSum, fromMs, toMs)
	var sum float64
	err := row.Scan(&sum)
	return sum, err
}

const countBySold = `
SELECT COUNT(*)
FROM transactions
WHERE date_of_sale BETWEEN ? AND ?
  AND sold = ?
`

func (q *Queries) CountBySold(ctx context.Context, fromMs, toMs int64, sold bool) (int64, error) {
	row := q.db.QueryRowContext(ctx, countBySold, fromMs, toMs, sold)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getPriceBuckets = `
SELECT CASE
         WHEN price >= ? AND price < ? THEN CAST(price / ? AS INTEGER)
         ELSE ?
       END AS bucket,
       COUNT(*) AS count
FROM transactions
WHERE date_of_sale BETWEEN ? AND ?
GROUP BY bucket
ORDER BY bucket
`

func (q *Queries) GetPriceBuckets(ctx context.Context, arg GetPriceBucketsParams) ([]GetPriceBucketsRow, error) {
	rows, err := q.db.QueryContext(ctx, getPriceBuckets,
		arg.Lower,
		arg.Upper,
		arg.Width,
		arg.OverflowIndex,
		arg.FromMs,
		arg.ToMs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetPriceBucketsRow
	for rows.Next() {
		var i GetPriceBucketsRow
		if err := rows.Scan(&i.Bucket, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCategoryCounts = `
SELECT category, COUNT(*) AS count
FROM transactions
WHERE date_of_sale BETWEEN ? AND ?
GROUP BY category
ORDER BY MIN(id)
`

func (q *Queries) GetCategoryCounts(ctx context.Context, fromMs, toMs int64) ([]GetCategoryCountsRow, error) {
	rows, err := q.db.QueryContext(ctx, getCategoryCounts, fromMs, toMs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []GetCategoryCountsRow{}
	for rows.Next() {
		var i GetCategoryCountsRow
		if err := rows.Scan(&i.Category, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countTransactions = `SELECT COUNT(*) FROM transactions`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactions)
	var count int64
	err := row.Scan(&count)
	return count, err
}
