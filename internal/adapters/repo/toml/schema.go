package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int         `toml:"version"`
	Runs    []runSchema `toml:"runs"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported history schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type runSchema struct {
	ID         string           `toml:"id"`
	Trigger    string           `toml:"trigger,omitempty"`
	DataType   string           `toml:"data_type,omitempty"`
	Remote     bool             `toml:"remote"`
	StartedAt  string           `toml:"started_at"`
	FinishedAt string           `toml:"finished_at"`
	Notebooks  []notebookSchema `toml:"notebooks,omitempty"`
}

type notebookSchema struct {
	Name           string  `toml:"name"`
	Duration       float64 `toml:"duration"`
	OutputNotebook string  `toml:"output_notebook"`
}
