// Package mongostore keeps transactions in a MongoDB collection and computes
// every view with the server's query and aggregation language.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"txboard/internal/core"
)

const disconnectTimeout = 10 * time.Second

type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Connect dials uri and verifies the server with a ping.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) InsertMany(ctx context.Context, txs []core.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(txs))
	for i, t := range txs {
		t.DateOfSale = t.DateOfSale.UTC()
		docs[i] = t
	}
	res, err := s.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert transactions: %w", err)
	}
	slog.InfoContext(ctx, "Transactions saved to MongoDB", "count", len(res.InsertedIDs))
	return len(res.InsertedIDs), nil
}

func (s *Store) FindTransactions(ctx context.Context, q core.TransactionQuery) ([]core.Transaction, error) {
	opts := options.Find().SetSkip(q.Page.Skip()).SetLimit(q.Page.Limit())
	cur, err := s.collection.Find(ctx, listFilter(q.Range, q.Search), opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cur.Close(ctx)

	out := []core.Transaction{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return out, nil
}

func (s *Store) SumPrice(ctx context.Context, r core.DateRange) (float64, error) {
	var rows []struct {
		TotalAmount float64 `bson:"totalAmount"`
	}
	if err := s.aggregate(ctx, sumPipeline(r), &rows); err != nil {
		return 0, fmt.Errorf("sum price: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalAmount, nil
}

func (s *Store) CountBySold(ctx context.Context, r core.DateRange, sold bool) (int64, error) {
	filter := rangeFilter(r)
	filter["sold"] = sold
	n, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count by sold=%t: %w", sold, err)
	}
	return n, nil
}

func (s *Store) PriceHistogram(ctx context.Context, r core.DateRange) ([]core.PriceBucket, error) {
	var rows []bucketRow
	if err := s.aggregate(ctx, histogramPipeline(r), &rows); err != nil {
		return nil, fmt.Errorf("price histogram: %w", err)
	}
	return bucketsFromRows(rows)
}

func (s *Store) CategoryCounts(ctx context.Context, r core.DateRange) ([]core.CategoryCount, error) {
	var rows []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := s.aggregate(ctx, categoryPipeline(r), &rows); err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	out := make([]core.CategoryCount, len(rows))
	for i, row := range rows {
		out[i] = core.CategoryCount{Category: row.Category, Count: row.Count}
	}
	return out, nil
}

func (s *Store) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cur, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

func rangeFilter(r core.DateRange) bson.M {
	return bson.M{"dateOfSale": bson.M{"$gte": r.From, "$lte": r.To}}
}

// listFilter ANDs the month range with a three-way disjunction. The price
// clause is a regex against a numeric field and never matches.
func listFilter(r core.DateRange, term core.SearchTerm) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(string(term)), Options: "i"}
	filter := rangeFilter(r)
	filter["$or"] = bson.A{
		bson.M{"title": re},
		bson.M{"description": re},
		bson.M{"price": re},
	}
	return filter
}

func sumPipeline(r core.DateRange) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: rangeFilter(r)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalAmount", Value: bson.D{{Key: "$sum", Value: "$price"}}},
		}}},
	}
}

func histogramPipeline(r core.DateRange) mongo.Pipeline {
	boundaries := make(bson.A, len(core.PriceBoundaries))
	for i, b := range core.PriceBoundaries {
		boundaries[i] = b
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: rangeFilter(r)}},
		{{Key: "$bucket", Value: bson.D{
			{Key: "groupBy", Value: "$price"},
			{Key: "boundaries", Value: boundaries},
			{Key: "default", Value: core.OverflowBucketLabel},
			{Key: "output", Value: bson.D{{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}},
		}}},
	}
}

func categoryPipeline(r core.DateRange) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: rangeFilter(r)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

// bucketRow is one $bucket output document. ID is the bucket's lower
// boundary, or the default label for the overflow bucket.
type bucketRow struct {
	ID    interface{} `bson:"_id"`
	Count int64       `bson:"count"`
}

func bucketsFromRows(rows []bucketRow) ([]core.PriceBucket, error) {
	counts := make([]int64, len(core.PriceBoundaries))
	for _, row := range rows {
		i, err := bucketIndexOf(row.ID)
		if err != nil {
			return nil, err
		}
		counts[i] += row.Count
	}
	return core.CompactBuckets(counts), nil
}

func bucketIndexOf(id interface{}) (int, error) {
	switch v := id.(type) {
	case string:
		if v == core.OverflowBucketLabel {
			return len(core.PriceBoundaries) - 1, nil
		}
	case float64:
		return core.BucketIndex(v), nil
	case int32:
		return core.BucketIndex(float64(v)), nil
	case int64:
		return core.BucketIndex(float64(v)), nil
	}
	return 0, fmt.Errorf("unexpected bucket id %v (%T)", id, id)
}
