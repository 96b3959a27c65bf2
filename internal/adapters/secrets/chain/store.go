package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/notebook-runner-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/notebook-runner-cli/internal/adapters/secrets/pass"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

// Store reads from the primary backend and falls back to the second one.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil {
		return nil, errors.New("primary secret store is nil")
	}
	if fallback == nil {
		return nil, errors.New("fallback secret store is nil")
	}
	return &Store{primary: primary, fallback: fallback}, nil
}

// NewTokenStore prefers pass entries under passPrefix and falls back to files under fileRoot.
func NewTokenStore(passPrefix, fileRoot string) (*Store, error) {
	return NewStore(passstore.NewStore(passPrefix), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, ref string, token string) error {
	err := s.primary.Put(ctx, ref, token)
	if err == nil || isContextError(err) {
		return err
	}

	if fallbackErr := s.fallback.Put(ctx, ref, token); fallbackErr != nil {
		return fmt.Errorf("store token %q: %w", ref, errors.Join(err, fallbackErr))
	}
	return nil
}

func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	token, err := s.primary.Get(ctx, ref)
	if err == nil || isContextError(err) {
		return token, err
	}

	token, fallbackErr := s.fallback.Get(ctx, ref)
	if fallbackErr == nil {
		return token, nil
	}

	if errors.Is(err, domain.ErrSecretNotFound) || errors.Is(err, passstore.ErrUnavailable) {
		return "", fallbackErr
	}
	return "", fmt.Errorf("resolve token %q: %w", ref, errors.Join(err, fallbackErr))
}

// Delete removes the token from both backends since either may hold it.
func (s *Store) Delete(ctx context.Context, ref string) error {
	err := s.primary.Delete(ctx, ref)
	if isContextError(err) {
		return err
	}
	if errors.Is(err, passstore.ErrUnavailable) {
		err = nil
	}

	if fallbackErr := s.fallback.Delete(ctx, ref); fallbackErr != nil || err != nil {
		return fmt.Errorf("delete token %q: %w", ref, errors.Join(err, fallbackErr))
	}
	return nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
