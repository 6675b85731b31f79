package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/cri-tools/study-atlas/pkg/models/domain"
	"github.com/cri-tools/study-atlas/pkg/runtime/terminal/export"
	studyconfig "github.com/cri-tools/study-atlas/pkg/services/config"
	"github.com/cri-tools/study-atlas/pkg/services/pipeline"
	"github.com/cri-tools/study-atlas/pkg/services/registry"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultSnapshotName = "dashboard_data.json"

type AggregateCmd struct {
	dataDir      string
	out          string
	configPath   string
	study        string
	registryPath string
	logger       zerolog.Logger
	reporter     *export.Reporter
}

func NewAggregateCmd(logger zerolog.Logger, reporter *export.Reporter) *cobra.Command {
	ac := &AggregateCmd{logger: logger, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate study CSV exports into the dashboard snapshot",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.dataDir, "data-dir", "", "Directory holding the per-wave CSV exports")
	cmd.Flags().StringVar(&ac.out, "out", "", "Path the snapshot is written to (default dashboard_data.json)")
	cmd.Flags().StringVar(&ac.configPath, "config", "", "Path to the study config (built-in defaults when unset)")
	cmd.Flags().StringVar(&ac.study, "study", "", "Study profile name from the registry")
	cmd.Flags().StringVar(&ac.registryPath, "registry", "", "Path to the study registry (default is $HOME/.studyatlas)")

	return cmd
}

func (ac *AggregateCmd) run(cmd *cobra.Command, args []string) error {
	ctx := ac.logger.WithContext(cmd.Context())

	if ac.study != "" {
		profile, err := resolveStudy(ctx, ac.registryPath, ac.study)
		if err != nil {
			return err
		}
		if ac.dataDir == "" {
			ac.dataDir = profile.DataDir
		}
		if ac.out == "" {
			ac.out = profile.Output
		}
		if ac.configPath == "" {
			ac.configPath = profile.Config
		}
	}

	if ac.dataDir == "" {
		return errors.New("either --data-dir or --study is required")
	}
	if ac.out == "" {
		ac.out = defaultSnapshotName
	}

	cfg, err := studyconfig.LoadConfig(ac.configPath)
	if err != nil {
		return fmt.Errorf("failed to load study config: %w", err)
	}

	p := pipeline.New(pipeline.Settings{
		DataDir:    ac.dataDir,
		OutputPath: ac.out,
		Config:     cfg,
	})

	_, summary, err := p.Run(ctx)
	if err != nil {
		return err
	}

	return ac.reporter.Handle(&summary)
}

// resolveStudy looks a profile up in the INI registry, falling back to the
// default registry location when no explicit path is given.
func resolveStudy(ctx context.Context, registryPath, name string) (*domain.StudyProfile, error) {
	path := registryPath
	if path == "" {
		var err error
		path, err = registry.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	reg, err := registry.NewStudyRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open study registry: %w", err)
	}

	return reg.GetStudy(ctx, name)
}
