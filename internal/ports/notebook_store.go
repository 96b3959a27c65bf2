package ports

import (
	"context"

	"github.com/bnema/notebook-runner-cli/internal/domain"
)

type NotebookStore interface {
	Load(ctx context.Context, location string) (*domain.Notebook, error)
	Write(ctx context.Context, nb *domain.Notebook, location string) error
}

type LocalExecutor interface {
	ExecuteLocally(ctx context.Context, inputPath, outputPath string, params []domain.Parameter) (*domain.Notebook, error)
}

type Renderer interface {
	ToHTML(nb *domain.Notebook) (string, error)
}
