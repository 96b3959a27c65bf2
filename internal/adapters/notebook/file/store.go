package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/notebook-runner-cli/internal/ctxlog"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

const (
	notebookFileMode = 0o644
	notebookDirMode  = 0o755
	tempFilePattern  = ".notebook-*.ipynb.tmp"
)

type Store struct{}

var _ ports.NotebookStore = Store{}

func (Store) Load(ctx context.Context, location string) (*domain.Notebook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotebookNotFound, location)
		}
		return nil, fmt.Errorf("read notebook file: %w", err)
	}

	nb, err := domain.ParseNotebook(data)
	if err != nil {
		return nil, &domain.ProtocolError{Op: "decode notebook " + location, Err: err}
	}
	return nb, nil
}

// Write replaces the file atomically through a temp file in the same directory.
func (Store) Write(ctx context.Context, nb *domain.Notebook, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if nb == nil {
		return errors.New("notebook is required")
	}

	data, err := json.MarshalIndent(nb, "", " ")
	if err != nil {
		return fmt.Errorf("encode notebook: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(location)
	if err := os.MkdirAll(dir, notebookDirMode); err != nil {
		return fmt.Errorf("create notebook directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp notebook file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp notebook file: %w", err)
	}
	if err := tempFile.Chmod(notebookFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp notebook file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp notebook file: %w", err)
	}
	if err := os.Rename(tempName, location); err != nil {
		return fmt.Errorf("replace notebook file: %w", err)
	}
	cleanup = false

	ctxlog.FromContext(ctx).Info("notebook written", "location", location)
	return nil
}
