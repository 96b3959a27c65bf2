package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bnema/notebook-runner-cli/internal/ctxlog"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:           "nbr",
		Short:         "Notebook runner (nbr): execute parameterized notebooks on remote Jupyter servers",
		Long:          "nbr runs a batch of parameterized notebooks against a Jupyter server or a JupyterHub-managed single-user server, writes the executed notebooks and reports their outputs.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := ctxlog.New(logLevel, logFormat, cmd.ErrOrStderr())
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text|json)")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newServerCmd(app),
		newHistoryCmd(app),
		newTokenCmd(app),
	)

	return rootCmd
}
