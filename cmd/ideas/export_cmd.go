package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ideafactory/ideas/internal/events"
	"github.com/ideafactory/ideas/internal/export"
)

// exportDestinations builds the targets selected by --out and --s3.
func exportDestinations(ctx context.Context, outPath string, toS3 bool) ([]export.Destination, error) {
	var dests []export.Destination
	if outPath != "" && outPath != "-" {
		dests = append(dests, export.NewFileDestination(outPath))
	}
	if toS3 {
		if cfg.S3Bucket == "" {
			return nil, errors.New("--s3 needs s3_bucket (IDEAS_S3_BUCKET) to be configured")
		}
		d, err := export.NewS3Destination(ctx, export.S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
			Prefix:   cfg.S3Prefix,
		}, path.Join("snapshots", "catalog.jsonl"))
		if err != nil {
			return nil, err
		}
		dests = append(dests, d)
	}
	return dests, nil
}

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export the catalog as JSONL",
	GroupID: "system",
	Long: `Export the full catalog, favorites included, as JSONL: a header line
followed by one line per idea. Without --out or --s3 the snapshot is written
to stdout. With --every the export repeats until interrupted.`,
	Example: `  ideas export > catalog.jsonl
  ideas export --out backups/catalog.jsonl --s3 --every 1h`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		toS3, _ := cmd.Flags().GetBool("s3")
		every, _ := cmd.Flags().GetDuration("every")

		store := newStore(ideasClient, &events.NoopPublisher{})
		defer store.Close()
		src := export.StoreSource(store)

		dests, err := exportDestinations(cmd.Context(), outPath, toS3)
		if err != nil {
			return err
		}
		if len(dests) == 0 {
			if every > 0 {
				return errors.New("--every needs --out or --s3")
			}
			return export.ExportJSONL(cmd.Context(), src, cmd.OutOrStdout())
		}

		sched := export.NewScheduler(src, dests, every, logger.Named("export"))
		if every <= 0 {
			if err := sched.RunOnce(cmd.Context()); err != nil {
				return fmt.Errorf("exporting catalog: %w", err)
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		sched.Start(ctx)
		<-ctx.Done()
		sched.Stop()
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "write the snapshot to this file")
	exportCmd.Flags().Bool("s3", false, "upload the snapshot to the configured S3 bucket")
	exportCmd.Flags().Duration("every", 0, "repeat the export at this interval")
}
