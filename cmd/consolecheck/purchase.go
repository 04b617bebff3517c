package main

import (
	"context"
	"fmt"
	"time"

	telcostore "github.com/dalemusser/opsconsole/internal/app/store/telco"
	"github.com/dalemusser/opsconsole/internal/app/system/derive"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newPurchaseCmd(opts *globalOptions) *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Sum telco API usage per API over a recent window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if since <= 0 {
				return fmt.Errorf("--since must be positive")
			}
			return withDB(cmd, opts, func(ctx context.Context, db *mongo.Database, _ *zap.Logger) error {
				rows, err := telcostore.New(db, nil).UsageSince(ctx, time.Now().Add(-since))
				if err != nil {
					return fmt.Errorf("load usage: %w", err)
				}
				apis := derive.Usage(rows)
				return writePurchase(cmd.OutOrStdout(), opts.output, purchaseReport{
					Window: since.String(),
					APIs:   apis,
					Calls:  len(rows),
				})
			})
		},
	}
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "how far back to sum usage")
	return cmd
}
