package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/notebook-runner-cli/internal/ctxlog"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

// Service covers the operations around a run: hub servers, stored tokens and run history.
type Service struct {
	servers ServerManagerFactory
	store   ports.SecretStore
	history ports.RunRepository
}

func NewService(servers ServerManagerFactory, store ports.SecretStore, history ports.RunRepository) *Service {
	return &Service{
		servers: servers,
		store:   store,
		history: history,
	}
}

func (s *Service) SetToken(ctx context.Context, cmd SetTokenCommand) error {
	ref := strings.TrimSpace(cmd.Ref)
	if ref == "" {
		return &domain.ConfigError{Key: "ref", Reason: "token reference is required"}
	}
	if strings.TrimSpace(cmd.Value) == "" {
		return &domain.ConfigError{Key: "value", Reason: "token value is required"}
	}

	if err := s.store.Put(ctx, ref, cmd.Value); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (s *Service) DeleteToken(ctx context.Context, cmd DeleteTokenCommand) error {
	ref := strings.TrimSpace(cmd.Ref)
	if ref == "" {
		return &domain.ConfigError{Key: "ref", Reason: "token reference is required"}
	}

	if err := s.store.Delete(ctx, ref); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (s *Service) StartServer(ctx context.Context, endpoint domain.EndpointConfig) (domain.ServerHandle, error) {
	manager, err := s.managerFor(endpoint)
	if err != nil {
		return domain.ServerHandle{}, err
	}

	handle, err := manager.EnsureStarted(ctx, endpoint.User, endpoint.ServerName)
	if err != nil {
		return domain.ServerHandle{}, fmt.Errorf("start server: %w", err)
	}

	ctxlog.FromContext(ctx).Info("server ready", "user", endpoint.User, "server", endpoint.ServerName, "url", handle.ResolvedBaseURL)
	return handle, nil
}

func (s *Service) StopServer(ctx context.Context, cmd StopServerCommand) error {
	manager, err := s.managerFor(cmd.Endpoint)
	if err != nil {
		return err
	}

	user, server := cmd.Endpoint.User, cmd.Endpoint.ServerName
	if err := manager.RequestStop(ctx, user, server); err != nil {
		return fmt.Errorf("request server stop: %w", err)
	}
	if !cmd.Wait {
		return nil
	}
	if err := manager.EnsureStopped(ctx, user, server); err != nil {
		return fmt.Errorf("wait for server stop: %w", err)
	}

	ctxlog.FromContext(ctx).Info("server stopped", "user", user, "server", server)
	return nil
}

// History returns matching runs, newest first.
func (s *Service) History(ctx context.Context, query HistoryQuery) ([]domain.Run, error) {
	if s.history == nil {
		return nil, errors.New("run history is not configured")
	}

	runs, err := s.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	filtered := make([]domain.Run, 0, len(runs))
	for _, run := range runs {
		if query.Trigger != "" && run.Trigger != query.Trigger {
			continue
		}
		if query.DataType != "" && run.DataType != query.DataType {
			continue
		}
		filtered = append(filtered, run)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].StartedAt.After(filtered[j].StartedAt)
	})
	if query.Limit > 0 && len(filtered) > query.Limit {
		filtered = filtered[:query.Limit]
	}
	return filtered, nil
}

func (s *Service) managerFor(endpoint domain.EndpointConfig) (ports.ServerManager, error) {
	if endpoint.Kind != domain.DestinationHTTPAPI || !endpoint.IsMultiUserHub {
		return nil, &domain.ConfigError{Key: endpoint.Name + "_handler_http_is_jupyterhub", Reason: "server lifecycle needs a multi-user hub endpoint"}
	}
	if s.servers == nil {
		return nil, errors.New("no server manager configured")
	}
	return s.servers(endpoint), nil
}
