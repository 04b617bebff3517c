package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func newSampleCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "sample <table>",
		Short:     "Print the newest record of a table",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), tableArg),
		ValidArgs: records.Tables,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, opts, func(ctx context.Context, db *mongo.Database, _ *zap.Logger) error {
				var raw bson.M
				err := db.Collection(args[0]).
					FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).
					Decode(&raw)
				if errors.Is(err, mongo.ErrNoDocuments) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is empty\n", args[0])
					return nil
				}
				if err != nil {
					return fmt.Errorf("sample %s: %w", args[0], err)
				}
				doc, err := plain(raw)
				if err != nil {
					return err
				}
				if opts.output == formatYAML {
					return writeYAML(cmd.OutOrStdout(), doc)
				}
				out, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			})
		},
	}
}

func tableArg(_ *cobra.Command, args []string) error {
	if !records.IsTable(args[0]) {
		return fmt.Errorf("unknown table %q", args[0])
	}
	return nil
}

// plain turns a BSON document into JSON-shaped values (ObjectIDs and dates
// as relaxed extended JSON) so it prints the same as text or YAML.
func plain(doc bson.M) (map[string]any, error) {
	b, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
