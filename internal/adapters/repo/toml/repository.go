package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

const (
	configName        = "config"
	configType        = "toml"
	historyPathKey    = "history.path"
	historyMaxRunsKey = "history.max_runs"
	defaultMaxRuns    = 200
	historyFileMode   = 0o600
	historyDirMode    = 0o700
	historyConfigDir  = ".nbr"
	historyConfigFile = "history.toml"
	tempFilePattern   = ".history-*.toml.tmp"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryRepository keeps metadata about completed runs in a TOML file.
type HistoryRepository struct {
	historyPath string
	maxRuns     int
	mu          *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.RunRepository = (*HistoryRepository)(nil)

func NewHistoryRepository(cfg *viper.Viper) (*HistoryRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, historyConfigDir, historyConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, historyConfigDir))
	cfg.SetDefault(historyPathKey, defaultPath)
	cfg.SetDefault(historyMaxRunsKey, defaultMaxRuns)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	historyPath := cfg.GetString(historyPathKey)
	if historyPath == "" {
		return nil, errors.New("history path is empty")
	}
	historyPath, err = normalizeHistoryPath(historyPath)
	if err != nil {
		return nil, err
	}

	return &HistoryRepository{
		historyPath: historyPath,
		maxRuns:     cfg.GetInt(historyMaxRunsKey),
		mu:          lockForPath(historyPath),
	}, nil
}

// Save inserts or replaces a run; the oldest runs are dropped past the retention limit.
func (r *HistoryRepository) Save(ctx context.Context, run domain.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if run.ID == "" {
		return errors.New("run id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(run)
	updated := false
	for i := range file.Runs {
		if file.Runs[i].ID == encoded.ID {
			file.Runs[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Runs = append(file.Runs, encoded)
	}

	if r.maxRuns > 0 && len(file.Runs) > r.maxRuns {
		sort.SliceStable(file.Runs, func(i, j int) bool {
			return file.Runs[i].StartedAt < file.Runs[j].StartedAt
		})
		file.Runs = file.Runs[len(file.Runs)-r.maxRuns:]
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *HistoryRepository) GetByID(ctx context.Context, id domain.RunID) (domain.Run, error) {
	if err := ctx.Err(); err != nil {
		return domain.Run{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Run{}, err
	}

	for _, entry := range file.Runs {
		if entry.ID == string(id) {
			return fromSchema(entry)
		}
	}

	return domain.Run{}, domain.ErrRunNotFound
}

func (r *HistoryRepository) List(ctx context.Context) ([]domain.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	runs := make([]domain.Run, 0, len(file.Runs))
	for _, entry := range file.Runs {
		run, err := fromSchema(entry)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, nil
}

func (r *HistoryRepository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.historyPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read history file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode history file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *HistoryRepository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.historyPath), historyDirMode); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode history file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.historyPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
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
		return fmt.Errorf("write temp history file: %w", err)
	}
	if err := tempFile.Chmod(historyFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp history file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}
	if err := os.Rename(tempName, r.historyPath); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	cleanup = false

	return nil
}

func normalizeHistoryPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve history path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(run domain.Run) runSchema {
	notebooks := make([]notebookSchema, 0, len(run.Notebooks))
	for _, entry := range run.Notebooks {
		notebooks = append(notebooks, notebookSchema{
			Name:           entry.Name,
			Duration:       entry.Duration,
			OutputNotebook: entry.OutputNotebook,
		})
	}

	return runSchema{
		ID:         string(run.ID),
		Trigger:    run.Trigger,
		DataType:   run.DataType,
		Remote:     run.Remote,
		StartedAt:  formatTime(run.StartedAt),
		FinishedAt: formatTime(run.FinishedAt),
		Notebooks:  notebooks,
	}
}

func fromSchema(entry runSchema) (domain.Run, error) {
	startedAt, err := parseTime(entry.StartedAt)
	if err != nil {
		return domain.Run{}, fmt.Errorf("decode run %s started_at: %w", entry.ID, err)
	}
	finishedAt, err := parseTime(entry.FinishedAt)
	if err != nil {
		return domain.Run{}, fmt.Errorf("decode run %s finished_at: %w", entry.ID, err)
	}

	var notebooks []domain.RunEntry
	for _, notebook := range entry.Notebooks {
		notebooks = append(notebooks, domain.RunEntry{
			Name:           notebook.Name,
			Duration:       notebook.Duration,
			OutputNotebook: notebook.OutputNotebook,
		})
	}

	return domain.Run{
		ID:         domain.RunID(entry.ID),
		Trigger:    entry.Trigger,
		DataType:   entry.DataType,
		Remote:     entry.Remote,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Notebooks:  notebooks,
	}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}
