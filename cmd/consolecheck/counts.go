package main

import (
	"context"

	metricsstore "github.com/dalemusser/opsconsole/internal/app/store/metrics"
	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newCountsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Print the document count of every console table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, opts, func(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
				counts := metricsstore.FetchTableCounts(ctx, metricsstore.DB{Database: db}, records.Tables, logger)
				return writeCounts(cmd.OutOrStdout(), opts.output, counts)
			})
		},
	}
}
