package commands

import (
	"fmt"

	"github.com/cri-tools/study-atlas/pkg/runtime/terminal/export"
	studyconfig "github.com/cri-tools/study-atlas/pkg/services/config"
	"github.com/cri-tools/study-atlas/pkg/services/pipeline"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ScanCmd struct {
	dataDir    string
	configPath string
	logger     zerolog.Logger
	reporter   *export.Reporter
}

func NewScanCmd(logger zerolog.Logger, reporter *export.Reporter) *cobra.Command {
	sc := &ScanCmd{logger: logger, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Inspect study CSV exports without aggregating",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.dataDir, "data-dir", "", "Directory holding the per-wave CSV exports")
	cmd.Flags().StringVar(&sc.configPath, "config", "", "Path to the study config (built-in defaults when unset)")

	_ = cmd.MarkFlagRequired("data-dir")

	return cmd
}

func (sc *ScanCmd) run(cmd *cobra.Command, args []string) error {
	ctx := sc.logger.WithContext(cmd.Context())

	cfg, err := studyconfig.LoadConfig(sc.configPath)
	if err != nil {
		return fmt.Errorf("failed to load study config: %w", err)
	}

	p := pipeline.New(pipeline.Settings{
		DataDir: sc.dataDir,
		Config:  cfg,
	})

	report, err := p.Scan(ctx)
	if err != nil {
		return err
	}

	return sc.reporter.HandleScan(&report)
}
