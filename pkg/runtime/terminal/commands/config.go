package commands

import (
	"fmt"

	studyconfig "github.com/cri-tools/study-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

type ConfigInitCmd struct {
	out string
}

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage study configuration files",
	}

	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	ic := &ConfigInitCmd{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in study config for editing",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.out, "out", "study.yaml", "Path the config is written to")

	return cmd
}

func (ic *ConfigInitCmd) run(cmd *cobra.Command, args []string) error {
	if err := studyconfig.WriteDefault(ic.out); err != nil {
		return fmt.Errorf("failed to write study config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Study config written to %s\n", ic.out)
	return nil
}
