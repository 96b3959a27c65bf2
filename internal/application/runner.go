package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/notebook-runner-cli/internal/ctxlog"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

// ServerManagerFactory returns the lifecycle manager for a hub endpoint.
type ServerManagerFactory func(endpoint domain.EndpointConfig) ports.ServerManager

type Dependencies struct {
	Servers  ServerManagerFactory
	Kernels  ports.KernelClient
	Input    ports.NotebookStore
	Output   ports.NotebookStore
	Local    ports.LocalExecutor
	Renderer ports.Renderer
	History  ports.RunRepository
	Clock    ports.Clock
	NewRunID func() domain.RunID
}

// Runner executes one batch of notebooks described by a RunConfig.
type Runner struct {
	cfg  domain.RunConfig
	deps Dependencies
}

func NewRunner(cfg domain.RunConfig, deps Dependencies) *Runner {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.NewRunID == nil {
		deps.NewRunID = func() domain.RunID { return domain.RunID(uuid.NewString()) }
	}

	return &Runner{cfg: cfg, deps: deps}
}

type batch struct {
	date   time.Time
	input  domain.ServerHandle
	target domain.OutputTarget
	params []domain.Parameter
}

// Run executes every input notebook in order. Any failure aborts the batch and no records are returned.
func (r *Runner) Run(ctx context.Context) ([]domain.ExecutionRecord, error) {
	logger := ctxlog.FromContext(ctx).With("trigger", r.cfg.Observable.Data, "remote", r.cfg.Remote())
	started := r.deps.Clock.Now()

	b, err := r.prepare(ctx, started)
	if err != nil {
		return nil, err
	}

	var records []domain.ExecutionRecord
	if r.cfg.Remote() {
		records, err = r.runRemote(ctx, b)
	} else {
		records, err = r.runLocal(ctx, b)
	}
	if err != nil {
		logger.Error("notebook batch failed", "error", err)
		return nil, err
	}

	finished := r.deps.Clock.Now()
	logger.Info("notebook batch completed", "notebooks", len(records), "elapsed", finished.Sub(started))
	r.saveHistory(ctx, started, finished, records)

	return records, nil
}

func (r *Runner) prepare(ctx context.Context, date time.Time) (batch, error) {
	input, err := r.resolve(ctx, r.cfg.Input)
	if err != nil {
		return batch{}, fmt.Errorf("resolve input server: %w", err)
	}

	output := input
	if !sameServer(r.cfg.Input, r.cfg.Output) {
		output, err = r.resolve(ctx, r.cfg.Output)
		if err != nil {
			return batch{}, fmt.Errorf("resolve output server: %w", err)
		}
	}

	return batch{
		date:  date,
		input: input,
		target: domain.OutputTarget{
			Kind:        r.cfg.Output.Kind,
			Hostname:    r.cfg.Output.Hostname,
			ContentsURL: output.ContentsURL(),
			Token:       r.cfg.Output.Token,
			User:        outputUser(r.cfg),
		},
		params: r.cfg.Observable.Parameters(),
	}, nil
}

// outputUser names the owner of the output tree, falling back to the input user.
func outputUser(cfg domain.RunConfig) string {
	if cfg.Output.User != "" {
		return cfg.Output.User
	}
	return cfg.Input.User
}

func sameServer(a, b domain.EndpointConfig) bool {
	return a.Hostname == b.Hostname &&
		a.Token == b.Token &&
		a.IsMultiUserHub == b.IsMultiUserHub &&
		a.User == b.User &&
		a.ServerName == b.ServerName
}

// resolve starts the hub server of an HTTP endpoint, or addresses a single-user server directly.
func (r *Runner) resolve(ctx context.Context, endpoint domain.EndpointConfig) (domain.ServerHandle, error) {
	if endpoint.Kind != domain.DestinationHTTPAPI {
		return domain.ServerHandle{}, nil
	}
	if !endpoint.IsMultiUserHub {
		return endpoint.DirectHandle(), nil
	}
	if r.deps.Servers == nil {
		return domain.ServerHandle{}, errors.New("no server manager configured")
	}

	return r.deps.Servers(endpoint).EnsureStarted(ctx, endpoint.User, endpoint.ServerName)
}

func (r *Runner) runRemote(ctx context.Context, b batch) ([]domain.ExecutionRecord, error) {
	if r.deps.Kernels == nil {
		return nil, errors.New("no kernel client configured")
	}

	session, err := r.deps.Kernels.Open(ctx, b.input, r.cfg.Input.AuthHeaders())
	if err != nil {
		return nil, fmt.Errorf("open kernel session: %w", err)
	}
	logger := ctxlog.FromContext(ctx).With("kernel_id", session.ID())
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Warn("close kernel session", "error", closeErr)
		}
	}()

	records := make([]domain.ExecutionRecord, 0, len(r.cfg.InputPaths))
	for _, path := range r.cfg.InputPaths {
		inputLocation := domain.InputLocation(domain.DestinationHTTPAPI, r.cfg.Input.Hostname, b.input.ContentsURL(), r.cfg.Input.Token, path)
		source, err := r.deps.Input.Load(ctx, inputLocation)
		if err != nil {
			return nil, fmt.Errorf("load notebook %s: %w", path, err)
		}

		nb, err := domain.Parameterize(source, b.params)
		if err != nil {
			return nil, fmt.Errorf("parameterize notebook %s: %w", path, err)
		}

		start := r.deps.Clock.Now()
		for i, cell := range nb.Cells {
			if cell.CellType != domain.CellTypeCode {
				continue
			}

			result, err := session.Execute(ctx, cell.Source)
			if err != nil {
				return nil, fmt.Errorf("execute cell %d of %s: %w", i, path, err)
			}
			cell.Outputs = result.Outputs
			if cell.Outputs == nil {
				cell.Outputs = []domain.Output{}
			}
		}
		duration := domain.RoundDuration(r.deps.Clock.Now().Sub(start))

		location := domain.OutputLocation(b.target, r.cfg.OutputFolder, b.date, r.cfg.Observable.Data, path)
		if err := r.deps.Output.Write(ctx, nb, location.API); err != nil {
			return nil, fmt.Errorf("write notebook %s: %w", path, err)
		}

		logger.Info("notebook executed", "notebook", path, "duration", duration, "output", location.Direct)
		records = append(records, domain.ExecutionRecord{
			Name:           path,
			Duration:       duration,
			OutputNotebook: location.Direct,
			Notebook:       nb,
		})
	}

	return records, nil
}

func (r *Runner) runLocal(ctx context.Context, b batch) ([]domain.ExecutionRecord, error) {
	if r.deps.Local == nil {
		return nil, errors.New("no local executor configured")
	}

	logger := ctxlog.FromContext(ctx)
	records := make([]domain.ExecutionRecord, 0, len(r.cfg.InputPaths))
	for _, path := range r.cfg.InputPaths {
		inputLocation := domain.InputLocation(r.cfg.Input.Kind, r.cfg.Input.Hostname, b.input.ContentsURL(), r.cfg.Input.Token, path)
		location := domain.OutputLocation(b.target, r.cfg.OutputFolder, b.date, r.cfg.Observable.Data, path)

		nb, err := r.deps.Local.ExecuteLocally(ctx, inputLocation, location.API, b.params)
		if err != nil {
			return nil, fmt.Errorf("execute notebook %s locally: %w", path, err)
		}

		papermill := nb.PapermillMetadata()
		for _, key := range []string{"input_path", "output_path"} {
			if value, ok := papermill[key].(string); ok {
				value = domain.StripToken(value, r.cfg.Input.Token)
				papermill[key] = domain.StripToken(value, r.cfg.Output.Token)
			}
		}

		duration, _ := papermill["duration"].(float64)
		record := domain.ExecutionRecord{
			Name:           path,
			Duration:       domain.RoundSeconds(duration),
			OutputNotebook: location.Direct,
			Notebook:       nb,
		}

		logger.Info("notebook executed", "notebook", path, "duration", record.Duration, "output", location.Direct)
		records = append(records, record)
	}

	return records, nil
}

func (r *Runner) saveHistory(ctx context.Context, started, finished time.Time, records []domain.ExecutionRecord) {
	if r.deps.History == nil {
		return
	}

	run := domain.NewRun(r.deps.NewRunID(), r.cfg, started, finished, records)
	if err := r.deps.History.Save(ctx, run); err != nil {
		ctxlog.FromContext(ctx).Warn("save run history", "run_id", run.ID, "error", err)
	}
}

// Report renders every record and wraps them in the analyzer envelope.
func (r *Runner) Report(ctx context.Context, records []domain.ExecutionRecord) (domain.Report, error) {
	if r.deps.Renderer == nil {
		return domain.Report{}, errors.New("no renderer configured")
	}

	notebooks := make([]domain.NotebookReport, 0, len(records))
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return domain.Report{}, err
		}

		html, err := r.deps.Renderer.ToHTML(record.Notebook)
		if err != nil {
			return domain.Report{}, fmt.Errorf("render notebook %s: %w", record.Name, err)
		}
		notebooks = append(notebooks, domain.NotebookReport{
			Record: record,
			HTML:   html,
			Full:   !r.cfg.OnlyHTML,
		})
	}

	return domain.NewSuccessReport(notebooks, domain.Summarize(records)), nil
}
