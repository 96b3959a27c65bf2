package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bnema/notebook-runner-cli/internal/adapters/render/summary"
	"github.com/bnema/notebook-runner-cli/internal/config"
	"github.com/bnema/notebook-runner-cli/internal/ctxlog"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/spf13/cobra"
)

const (
	formatJSON = "json"
	formatText = "text"
)

type runOptions struct {
	configPath string
	jobDir     string
	outputPath string
	format     string
}

func newRunCmd(app *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the notebooks described by a job input",
		Long:  "run loads a job input (JSON, TOML or YAML), executes every notebook it lists and writes the analyzer report. With --job-dir the input is read from <dir>/input/input.json and the report written to <dir>/output/output.json.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNotebooks(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Job input file")
	cmd.Flags().StringVar(&opts.jobDir, "job-dir", "", "Analyzer job directory holding input/input.json")
	cmd.Flags().StringVar(&opts.outputPath, "output", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringVar(&opts.format, "format", formatJSON, "Output format (json|text)")
	cmd.MarkFlagsMutuallyExclusive("config", "job-dir")

	return cmd
}

func runNotebooks(cmd *cobra.Command, app *app, opts runOptions) error {
	if opts.jobDir != "" {
		opts.configPath = filepath.Join(opts.jobDir, "input", "input.json")
		if opts.outputPath == "" {
			opts.outputPath = filepath.Join(opts.jobDir, "output", "output.json")
		}
	}
	if opts.configPath == "" {
		return fmt.Errorf("one of --config or --job-dir is required")
	}
	if opts.format != formatJSON && opts.format != formatText {
		return fmt.Errorf("unsupported format %q (want json or text)", opts.format)
	}

	ctx := cmd.Context()
	v := config.New()
	if err := config.ReadFile(v, opts.configPath); err != nil {
		return reportFailure(cmd, opts, err)
	}

	cfg, err := config.Load(ctx, v, app.secretStore)
	if err != nil {
		return reportFailure(cmd, opts, err)
	}

	runner, err := app.newRunner(cfg, config.LoadObjectStore(v))
	if err != nil {
		return reportFailure(cmd, opts, err)
	}

	var records []domain.ExecutionRecord
	execute := func(ctx context.Context) error {
		var runErr error
		records, runErr = runner.Run(ctx)
		return runErr
	}

	if opts.format == formatText {
		label := fmt.Sprintf("Running %d notebook(s)...", len(cfg.InputPaths))
		err = runWithSpinner(ctx, cmd.ErrOrStderr(), label, execute)
	} else {
		err = execute(ctx)
	}
	if err != nil {
		return reportFailure(cmd, opts, err)
	}

	report, err := runner.Report(ctx, records)
	if err != nil {
		return reportFailure(cmd, opts, err)
	}

	if opts.format == formatText {
		if opts.outputPath != "" {
			if err := writeReport(cmd, opts.outputPath, report); err != nil {
				return err
			}
		}

		rendered, err := app.summaryRenderer(records, summary.RenderOptions{Trigger: cfg.Observable.Data, Remote: cfg.Remote()})
		if err != nil {
			return fmt.Errorf("render run summary: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return err
	}

	return writeReport(cmd, opts.outputPath, report)
}

// reportFailure writes the failure envelope where the report would have gone and returns err.
func reportFailure(cmd *cobra.Command, opts runOptions, err error) error {
	if opts.format == formatJSON || opts.outputPath != "" {
		if writeErr := writeReport(cmd, opts.outputPath, domain.NewFailureReport(err)); writeErr != nil {
			ctxlog.FromContext(cmd.Context()).Error("write failure report", "error", writeErr)
		}
	}
	return err
}

func writeReport(cmd *cobra.Command, path string, report domain.Report) error {
	if path == "" {
		return encodeReport(cmd.OutOrStdout(), report)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := encodeReport(file, report); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	return nil
}

func encodeReport(w io.Writer, report domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
