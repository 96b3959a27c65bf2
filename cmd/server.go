package cmd

import (
	"fmt"

	"github.com/bnema/notebook-runner-cli/internal/application"
	"github.com/bnema/notebook-runner-cli/internal/config"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newServerCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start or stop the hub server used by a job input",
	}

	cmd.AddCommand(newServerStartCmd(app), newServerStopCmd(app))
	return cmd
}

type serverFlags struct {
	configPath string
	endpoint   string
}

func (f *serverFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Job input file")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", config.EndpointInput, "Endpoint of the job input to use (input|output)")
	_ = cmd.MarkFlagRequired("config")
}

func (f serverFlags) load(cmd *cobra.Command, app *app) (domain.EndpointConfig, error) {
	v := config.New()
	if err := config.ReadFile(v, f.configPath); err != nil {
		return domain.EndpointConfig{}, err
	}
	return config.LoadEndpoint(cmd.Context(), v, app.secretStore, f.endpoint)
}

func newServerStartCmd(app *app) *cobra.Command {
	var flags serverFlags

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the named server and wait until it is ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoint, err := flags.load(cmd, app)
			if err != nil {
				return err
			}

			handle, err := app.service.StartServer(cmd.Context(), endpoint)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), handle.ResolvedBaseURL)
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

func newServerStopCmd(app *app) *cobra.Command {
	var flags serverFlags
	var wait bool

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the named server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoint, err := flags.load(cmd, app)
			if err != nil {
				return err
			}

			if err := app.service.StopServer(cmd.Context(), application.StopServerCommand{Endpoint: endpoint, Wait: wait}); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stopped %s/%s\n", endpoint.User, endpoint.ServerName)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&wait, "wait", true, "Wait until the hub no longer lists the server")
	return cmd
}
