package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/business-pulse/pkg/runtime/terminal/commands"
	"github.com/de-tools/business-pulse/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// ConnectFunc opens the backend described by the config file at path.
type ConnectFunc func(ctx context.Context, configPath string) (commands.Backend, io.Closer, error)

// CLI represents the command-line interface
type CLI struct {
	connect    ConnectFunc
	session    *commands.Session
	closer     io.Closer
	configPath string
	reporter   *export.Reporter
	printer    *Reporter
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Connect ConnectFunc
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		connect:  opts.Connect,
		session:  &commands.Session{},
		reporter: export.NewReporter(opts.Output),
		printer:  NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	defer cli.close()
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pulse-cli",
		Short:         "Business health reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cli.connect == nil || cli.session.Backend != nil {
				return nil
			}
			backend, closer, err := cli.connect(cmd.Context(), cli.configPath)
			if err != nil {
				return err
			}
			cli.session.Backend = backend
			cli.closer = closer
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a config file (YAML, TOML or JSON)")

	cmd.AddCommand(commands.NewGenerateCmd(cli.session, cli.reporter))
	cmd.AddCommand(commands.NewSummaryCmd(cli.session, cli.printer))
	cmd.AddCommand(commands.NewBriefCmd(cli.session, cli.printer))
	cmd.AddCommand(commands.NewBatchCmd(cli.session, cli.reporter))
	cmd.AddCommand(commands.NewImportCmd(cli.session))

	return cmd
}

func (cli *CLI) close() {
	if cli.closer != nil {
		_ = cli.closer.Close()
	}
}
