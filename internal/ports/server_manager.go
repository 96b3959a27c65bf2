package ports

import (
	"context"

	"github.com/bnema/notebook-runner-cli/internal/domain"
)

type ServerManager interface {
	EnsureStarted(ctx context.Context, user, serverName string) (domain.ServerHandle, error)
	RequestStop(ctx context.Context, user, serverName string) error
	EnsureStopped(ctx context.Context, user, serverName string) error
}
