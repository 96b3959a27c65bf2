package notebook

import (
	"context"
	"fmt"

	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

// Router picks the store for a location from its scheme.
type Router struct {
	HTTP        ports.NotebookStore
	Filesystem  ports.NotebookStore
	ObjectStore ports.NotebookStore
}

var _ ports.NotebookStore = Router{}

func (r Router) Load(ctx context.Context, location string) (*domain.Notebook, error) {
	store, err := r.storeFor(location)
	if err != nil {
		return nil, err
	}
	return store.Load(ctx, location)
}

func (r Router) Write(ctx context.Context, nb *domain.Notebook, location string) error {
	store, err := r.storeFor(location)
	if err != nil {
		return err
	}
	return store.Write(ctx, nb, location)
}

func (r Router) storeFor(location string) (ports.NotebookStore, error) {
	kind := domain.KindForHostname(location)

	var store ports.NotebookStore
	switch kind {
	case domain.DestinationHTTPAPI:
		store = r.HTTP
	case domain.DestinationObjectStore:
		store = r.ObjectStore
	default:
		store = r.Filesystem
	}
	if store == nil {
		return nil, &domain.ConfigError{Reason: fmt.Sprintf("no notebook store configured for %s locations", kind)}
	}
	return store, nil
}
