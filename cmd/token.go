package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/bnema/notebook-runner-cli/internal/application"
	"github.com/spf13/cobra"
)

func newTokenCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage service API tokens referenced by *_token_ref keys",
	}

	cmd.AddCommand(newTokenSetCmd(app), newTokenDeleteCmd(app))
	return cmd
}

func newTokenSetCmd(app *app) *cobra.Command {
	var ref string
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a token under a reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if value == "-" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token from stdin: %w", err)
				}
				value = strings.TrimSpace(line)
			}

			if err := app.service.SetToken(cmd.Context(), application.SetTokenCommand{Ref: ref, Value: value}); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "stored token %s\n", ref)
			return err
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "Token reference")
	cmd.Flags().StringVar(&value, "value", "", "Token value, or - to read it from stdin")
	_ = cmd.MarkFlagRequired("ref")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newTokenDeleteCmd(app *app) *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.service.DeleteToken(cmd.Context(), application.DeleteTokenCommand{Ref: ref}); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted token %s\n", ref)
			return err
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "Token reference")
	_ = cmd.MarkFlagRequired("ref")

	return cmd
}
