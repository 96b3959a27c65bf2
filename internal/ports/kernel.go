package ports

import (
	"context"

	"github.com/bnema/notebook-runner-cli/internal/domain"
)

type KernelClient interface {
	Open(ctx context.Context, server domain.ServerHandle, headers map[string]string) (KernelSession, error)
}

// KernelSession executes one code unit at a time; Close must be safe to call more than once.
type KernelSession interface {
	ID() string
	Execute(ctx context.Context, code string) (domain.CellResult, error)
	Close() error
}
