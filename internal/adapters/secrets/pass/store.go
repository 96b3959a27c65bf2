package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"strings"

	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

const DefaultPrefix = "nbr/tokens"

var ErrUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, stdin string, args ...string) (stdout string, stderr string, err error)

// Store keeps API tokens as pass entries below a fixed prefix.
type Store struct {
	prefix string
	run    runFunc
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(prefix string) *Store {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}
	return &Store{prefix: strings.Trim(prefix, "/"), run: runPass}
}

func (s *Store) Put(ctx context.Context, ref string, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry, err := s.entry(ref)
	if err != nil {
		return err
	}

	if _, stderr, err := s.run(ctx, token+"\n", "insert", "--multiline", "--force", entry); err != nil {
		return commandError("insert", entry, err, stderr)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	entry, err := s.entry(ref)
	if err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, "", "show", entry)
	if err != nil {
		if strings.Contains(stderr, "is not in the password store") {
			return "", fmt.Errorf("pass entry %q: %w", entry, domain.ErrSecretNotFound)
		}
		return "", commandError("show", entry, err, stderr)
	}

	// Only the first line holds the token; pass entries may carry notes below it.
	token, _, _ := strings.Cut(stdout, "\n")
	return strings.TrimSpace(token), nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry, err := s.entry(ref)
	if err != nil {
		return err
	}

	if _, stderr, err := s.run(ctx, "", "rm", "--force", entry); err != nil {
		if strings.Contains(stderr, "is not in the password store") {
			return nil
		}
		return commandError("rm", entry, err, stderr)
	}
	return nil
}

func (s *Store) entry(ref string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(ref))
	if cleaned == "/" {
		return "", errors.New("token ref is empty")
	}
	return s.prefix + cleaned, nil
}

func runPass(ctx context.Context, stdin string, args ...string) (string, string, error) {
	binary, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func commandError(op, entry string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, entry, err)
	}
	return fmt.Errorf("pass %s %q: %w: %s", op, entry, err, stderr)
}
