// Package metricsstore counts documents across the console tables for the
// dashboard overview and the verification CLI.
package metricsstore

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Counter counts the documents in one table.
type Counter interface {
	Count(ctx context.Context, table string) (int64, error)
}

// DB counts collections in a Mongo database.
type DB struct{ *mongo.Database }

func (d DB) Count(ctx context.Context, table string) (int64, error) {
	return d.Collection(table).CountDocuments(ctx, bson.M{})
}

// TableCount is the document total for one table.
type TableCount struct {
	Table string `json:"table" yaml:"table"`
	Count int64  `json:"count" yaml:"count"`
	Err   error  `json:"-" yaml:"-"`
}

// FetchTableCounts counts every table concurrently and returns the totals
// in the order given. Intentionally tolerant: a failed count reads 0 and is
// logged, the rest still come back.
func FetchTableCounts(ctx context.Context, c Counter, tables []string, logger *zap.Logger) []TableCount {
	out := make([]TableCount, len(tables))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, table := range tables {
		g.Go(func() error {
			n, err := c.Count(gctx, table)
			if err != nil {
				logger.Warn("count failed", zap.String("table", table), zap.Error(err))
				n = 0
			}
			mu.Lock()
			out[i] = TableCount{Table: table, Count: n, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Total sums the counts.
func Total(counts []TableCount) int64 {
	var n int64
	for _, c := range counts {
		n += c.Count
	}
	return n
}
