package commands

import (
	"fmt"
	"strings"

	"github.com/cri-tools/study-atlas/pkg/services/registry"
	"github.com/spf13/cobra"
)

type StudiesCmd struct {
	registryPath string
}

func NewStudiesCmd() *cobra.Command {
	sc := &StudiesCmd{}
	cmd := &cobra.Command{
		Use:   "studies",
		Short: "List study profiles from the registry",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.registryPath, "registry", "", "Path to the study registry (default is $HOME/.studyatlas)")

	return cmd
}

func (sc *StudiesCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path := sc.registryPath
	if path == "" {
		var err error
		path, err = registry.DefaultPath()
		if err != nil {
			return err
		}
	}

	reg, err := registry.NewStudyRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to open study registry: %w", err)
	}

	studies, err := reg.GetStudies(ctx)
	if err != nil {
		return err
	}

	if len(studies) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No study profiles found in %s\n", path)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Study profiles in %s:\n%s\n",
		path,
		strings.Join(studies, "\n"))

	return nil
}
