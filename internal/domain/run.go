package domain

import "time"

type RunConfig struct {
	Input           EndpointConfig
	Output          EndpointConfig
	InputPaths      []string
	OutputFolder    string
	ExecuteRemotely bool
	OnlyHTML        bool
	Observable      Observable
	KernelName      string
	KernelTimeout   time.Duration
}

// Remote reports whether notebooks run on the input server's kernel.
func (c RunConfig) Remote() bool {
	return c.ExecuteRemotely && c.Input.Kind == DestinationHTTPAPI
}

type RunID string

type RunEntry struct {
	Name           string
	Duration       float64
	OutputNotebook string
}

// Run is the persisted outcome of one completed batch.
type Run struct {
	ID         RunID
	Trigger    string
	DataType   string
	Remote     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Notebooks  []RunEntry
}

func NewRun(id RunID, cfg RunConfig, started, finished time.Time, records []ExecutionRecord) Run {
	entries := make([]RunEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, RunEntry{
			Name:           record.Name,
			Duration:       record.Duration,
			OutputNotebook: record.OutputNotebook,
		})
	}

	return Run{
		ID:         id,
		Trigger:    cfg.Observable.Data,
		DataType:   cfg.Observable.DataType,
		Remote:     cfg.Remote(),
		StartedAt:  started,
		FinishedAt: finished,
		Notebooks:  entries,
	}
}
