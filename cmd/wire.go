package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bnema/notebook-runner-cli/internal/adapters/hub"
	"github.com/bnema/notebook-runner-cli/internal/adapters/kernel"
	"github.com/bnema/notebook-runner-cli/internal/adapters/notebook"
	"github.com/bnema/notebook-runner-cli/internal/adapters/notebook/contents"
	filenotebook "github.com/bnema/notebook-runner-cli/internal/adapters/notebook/file"
	s3notebook "github.com/bnema/notebook-runner-cli/internal/adapters/notebook/s3"
	"github.com/bnema/notebook-runner-cli/internal/adapters/papermill"
	htmlrender "github.com/bnema/notebook-runner-cli/internal/adapters/render/html"
	"github.com/bnema/notebook-runner-cli/internal/adapters/render/summary"
	tomlrepo "github.com/bnema/notebook-runner-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/notebook-runner-cli/internal/adapters/secrets/chain"
	"github.com/bnema/notebook-runner-cli/internal/application"
	"github.com/bnema/notebook-runner-cli/internal/config"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	service         *application.Service
	secretStore     ports.SecretStore
	history         ports.RunRepository
	httpClient      *http.Client
	newRunner       func(domain.RunConfig, config.ObjectStore) (*application.Runner, error)
	summaryRenderer func([]domain.ExecutionRecord, summary.RenderOptions) (string, error)
	historyRenderer func([]domain.Run, summary.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	history, err := tomlrepo.NewHistoryRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire run history repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	secretStore, err := chainstore.NewTokenStore(
		envOrDefault("NBR_PASS_PREFIX", "nbr/tokens"),
		filepath.Join(homeDir, ".nbr", "secrets"),
	)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	a := &app{
		secretStore:     secretStore,
		history:         history,
		httpClient:      http.DefaultClient,
		summaryRenderer: summary.Render,
		historyRenderer: summary.RenderHistory,
	}
	a.newRunner = a.buildRunner
	a.service = application.NewService(a.serverManager, secretStore, history)

	return a, nil
}

func (a *app) serverManager(endpoint domain.EndpointConfig) ports.ServerManager {
	return hub.NewManager(endpoint.Hostname, endpoint.AuthHeaders(), a.httpClient)
}

func (a *app) buildRunner(cfg domain.RunConfig, objects config.ObjectStore) (*application.Runner, error) {
	var objectStore ports.NotebookStore
	if cfg.Input.Kind == domain.DestinationObjectStore || cfg.Output.Kind == domain.DestinationObjectStore {
		store, err := s3notebook.NewStore(s3notebook.Config{
			Endpoint:  objects.Endpoint,
			AccessKey: objects.AccessKey,
			SecretKey: objects.SecretKey,
			Region:    objects.Region,
			UseSSL:    objects.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("wire object store: %w", err)
		}
		objectStore = store
	}

	input := notebook.Router{
		HTTP:        &contents.Store{HTTPClient: a.httpClient, Headers: cfg.Input.AuthHeaders()},
		Filesystem:  filenotebook.Store{},
		ObjectStore: objectStore,
	}
	output := notebook.Router{
		HTTP:        &contents.Store{HTTPClient: a.httpClient, Headers: cfg.Output.AuthHeaders()},
		Filesystem:  filenotebook.Store{},
		ObjectStore: objectStore,
	}

	return application.NewRunner(cfg, application.Dependencies{
		Servers: a.serverManager,
		Kernels: kernel.Client{
			HTTPClient: a.httpClient,
			KernelName: cfg.KernelName,
			Timeout:    cfg.KernelTimeout,
		},
		Input:    input,
		Output:   output,
		Local:    papermill.NewExecutor(output, cfg.KernelName),
		Renderer: htmlrender.NewRenderer(),
		History:  a.history,
		Clock:    ports.SystemClock{},
	}), nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
