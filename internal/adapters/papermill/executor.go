package papermill

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/notebook-runner-cli/internal/ctxlog"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

const defaultBinary = "papermill"

var ErrUnavailable = errors.New("papermill command unavailable")

type runFunc func(ctx context.Context, binary string, args ...string) (stderr string, err error)

// Executor runs notebooks with the papermill CLI and reads the result back through a store.
type Executor struct {
	Binary     string
	KernelName string
	Output     ports.NotebookStore
	run        runFunc
}

var _ ports.LocalExecutor = (*Executor)(nil)

func NewExecutor(output ports.NotebookStore, kernelName string) *Executor {
	return &Executor{
		Binary:     defaultBinary,
		KernelName: kernelName,
		Output:     output,
		run:        runCommand,
	}
}

func (e *Executor) ExecuteLocally(ctx context.Context, inputPath, outputPath string, params []domain.Parameter) (*domain.Notebook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.Output == nil {
		return nil, errors.New("papermill output store is required")
	}

	args := []string{inputPath, outputPath}
	// -r keeps every value a string.
	for _, param := range params {
		args = append(args, "-r", param.Name, param.Value)
	}
	if e.KernelName != "" {
		args = append(args, "-k", e.KernelName)
	}
	args = append(args, "--no-progress-bar", "--no-request-save-on-cell-execute")

	ctxlog.FromContext(ctx).Info("executing notebook with papermill", "parameters", len(params))

	stderr, err := e.run(ctx, e.binary(), args...)
	if err != nil {
		if stderr == "" {
			return nil, fmt.Errorf("papermill execute: %w", err)
		}
		return nil, fmt.Errorf("papermill execute: %w: %s", err, lastLine(stderr))
	}

	nb, err := e.Output.Load(ctx, outputPath)
	if err != nil {
		return nil, fmt.Errorf("read papermill output: %w", err)
	}
	return nb, nil
}

func (e *Executor) binary() string {
	if e.Binary != "" {
		return e.Binary
	}
	return defaultBinary
}

func runCommand(ctx context.Context, binary string, args ...string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrUnavailable
		}
		return "", fmt.Errorf("locate papermill command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	return strings.TrimSpace(stderr.String()), err
}

// lastLine keeps the exception line of a python traceback.
func lastLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
