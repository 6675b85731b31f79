package commands

import (
	"fmt"
	"os"

	"github.com/cri-tools/study-atlas/pkg/services/publish"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type PublishCmd struct {
	bucket       string
	prefix       string
	region       string
	profile      string
	snapshotPath string
	staticDir    string
	logger       zerolog.Logger
}

func NewPublishCmd(logger zerolog.Logger) *cobra.Command {
	pc := &PublishCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the snapshot and dashboard assets to S3",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.bucket, "bucket", "", "Target S3 bucket")
	cmd.Flags().StringVar(&pc.prefix, "prefix", "", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&pc.region, "region", publish.DefaultRegion, "AWS region")
	cmd.Flags().StringVar(&pc.profile, "aws-profile", "", "AWS shared config profile")
	cmd.Flags().StringVar(&pc.snapshotPath, "snapshot", defaultSnapshotName, "Snapshot file to upload")
	cmd.Flags().StringVar(&pc.staticDir, "static", defaultStaticDir, "Directory with the dashboard assets")

	_ = cmd.MarkFlagRequired("bucket")

	return cmd
}

func (pc *PublishCmd) run(cmd *cobra.Command, args []string) error {
	ctx := pc.logger.WithContext(cmd.Context())

	cfg, err := publish.LoadAWSConfig(ctx, pc.profile, pc.region)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	publisher := publish.NewPublisher(*cfg, pc.bucket)

	key, err := publisher.PublishSnapshot(ctx, pc.snapshotPath, pc.prefix)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Published snapshot to s3://%s/%s\n", pc.bucket, key)

	if _, err := os.Stat(pc.staticDir); os.IsNotExist(err) {
		pc.logger.Warn().Str("dir", pc.staticDir).Msg("assets directory not found, publishing snapshot only")
		return nil
	}

	keys, err := publisher.PublishAssets(ctx, pc.staticDir, pc.prefix)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Published %d dashboard assets\n", len(keys))

	return nil
}
