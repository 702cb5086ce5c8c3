package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"txboard/internal/core"
)

// busyTimeoutMs lets concurrent readers wait out the seed write lock.
const busyTimeoutMs = 5000

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", dbPath, busyTimeoutMs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping implements ports.Pinger
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// InsertMany implements ports.TransactionWriter. All rows land in one
// database transaction, so a failed seed leaves the table untouched.
func (r *SQLiteRepository) InsertMany(ctx context.Context, txs []core.Transaction) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	for i, t := range txs {
		err := q.CreateTransaction(ctx, CreateTransactionParams{
			Title:       t.Title,
			Description: t.Description,
			Price:       t.Price,
			DateOfSale:  toMillis(t.DateOfSale),
			Sold:        t.Sold,
			Category:    t.Category,
		})
		if err != nil {
			return 0, fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transactions saved to SQLite", "count", len(txs))
	return len(txs), nil
}

// FindTransactions implements ports.TransactionFinder
func (r *SQLiteRepository) FindTransactions(ctx context.Context, q core.TransactionQuery) ([]core.Transaction, error) {
	from, to := rangeMillis(q.Range)
	rows, err := r.queries.ListTransactions(ctx, ListTransactionsParams{
		FromMs: from,
		ToMs:   to,
		Search: string(q.Search),
		Limit:  q.Page.Limit(),
		Offset: q.Page.Skip(),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		out[i] = core.Transaction{
			Title:       row.Title,
			Description: row.Description,
			Price:       row.Price,
			DateOfSale:  fromMillis(row.DateOfSale),
			Sold:        row.Sold,
			Category:    row.Category,
		}
	}
	return out, nil
}

// SumPrice implements ports.StatisticsReader
func (r *SQLiteRepository) SumPrice(ctx context.Context, rng core.DateRange) (float64, error) {
	from, to := rangeMillis(rng)
	sum, err := r.queries.GetPriceSum(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("get price sum: %w", err)
	}
	return sum, nil
}

// CountBySold implements ports.StatisticsReader
func (r *SQLiteRepository) CountBySold(ctx context.Context, rng core.DateRange, sold bool) (int64, error) {
	from, to := rangeMillis(rng)
	n, err := r.queries.CountBySold(ctx, from, to, sold)
	if err != nil {
		return 0, fmt.Errorf("count by sold=%t: %w", sold, err)
	}
	return n, nil
}

// PriceHistogram implements ports.HistogramReader
func (r *SQLiteRepository) PriceHistogram(ctx context.Context, rng core.DateRange) ([]core.PriceBucket, error) {
	from, to := rangeMillis(rng)
	last := len(core.PriceBoundaries) - 1
	rows, err := r.queries.GetPriceBuckets(ctx, GetPriceBucketsParams{
		FromMs:        from,
		ToMs:          to,
		Lower:         core.PriceBoundaries[0],
		Upper:         core.PriceBoundaries[last],
		Width:         core.BucketWidth,
		OverflowIndex: int64(last),
	})
	if err != nil {
		return nil, fmt.Errorf("get price buckets: %w", err)
	}

	counts := make([]int64, len(core.PriceBoundaries))
	for _, row := range rows {
		if row.Bucket < 0 || row.Bucket > int64(last) {
			return nil, fmt.Errorf("price bucket %d out of range", row.Bucket)
		}
		counts[row.Bucket] += row.Count
	}
	return core.CompactBuckets(counts), nil
}

// CategoryCounts implements ports.CategoryReader
func (r *SQLiteRepository) CategoryCounts(ctx context.Context, rng core.DateRange) ([]core.CategoryCount, error) {
	from, to := rangeMillis(rng)
	rows, err := r.queries.GetCategoryCounts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get category counts: %w", err)
	}

	out := make([]core.CategoryCount, len(rows))
	for i, row := range rows {
		out[i] = core.CategoryCount{Category: row.Category, Count: row.Count}
	}
	return out, nil
}

// Count returns the number of stored transactions.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func rangeMillis(r core.DateRange) (int64, int64) {
	return toMillis(r.From), toMillis(r.To)
}
