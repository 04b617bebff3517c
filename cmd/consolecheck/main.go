// Command consolecheck inspects the console database: per-table counts, the
// newest record of a table, and the last day's telco API usage.
//
//	consolecheck counts
//	consolecheck sample geofences --output yaml
//	consolecheck purchase --since 48h
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type globalOptions struct {
	envFile  string
	mongoURI string
	database string
	output   string
	timeout  time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "consolecheck",
		Short:         "Verify the operations console database",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnv(opts.envFile); err != nil {
				return err
			}
			if opts.mongoURI == "" {
				opts.mongoURI = envOr("OPSCONSOLE_MONGO_URI", "mongodb://localhost:27017")
			}
			if opts.database == "" {
				opts.database = envOr("OPSCONSOLE_MONGO_DATABASE", "ops_console")
			}
			return checkFormat(opts.output)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load if present")
	pf.StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI (default $OPSCONSOLE_MONGO_URI)")
	pf.StringVar(&opts.database, "database", "", "database name (default $OPSCONSOLE_MONGO_DATABASE)")
	pf.StringVarP(&opts.output, "output", "o", formatText, "output format: text or yaml")
	pf.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall command timeout")

	root.AddCommand(newCountsCmd(opts), newSampleCmd(opts), newPurchaseCmd(opts))
	return root
}

// loadEnv loads path when it exists. Variables already set win.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// withDB connects, runs fn and disconnects.
func withDB(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, db *mongo.Database, logger *zap.Logger) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	logger := zap.NewNop()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.mongoURI).SetAppName("consolecheck"))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	return fn(ctx, client.Database(opts.database), logger)
}
