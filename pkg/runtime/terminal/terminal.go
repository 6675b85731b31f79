package terminal

import (
	"io"
	"os"

	"github.com/cri-tools/study-atlas/pkg/runtime/terminal/commands"
	"github.com/cri-tools/study-atlas/pkg/runtime/terminal/export"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	logger   zerolog.Logger
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Logger zerolog.Logger
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		logger:   opts.Logger,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study-atlas",
		Short: "Longitudinal study aggregation and dashboard tool",
	}

	cmd.AddCommand(commands.NewAggregateCmd(cli.logger, cli.reporter))
	cmd.AddCommand(commands.NewScanCmd(cli.logger, cli.reporter))
	cmd.AddCommand(commands.NewServeCmd(cli.logger))
	cmd.AddCommand(commands.NewPublishCmd(cli.logger))
	cmd.AddCommand(commands.NewStudiesCmd())
	cmd.AddCommand(commands.NewConfigCmd())

	return cmd
}
