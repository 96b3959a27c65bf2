package domain

import (
	"encoding/json"
	"fmt"
)

const TaxonomyNamespace = "Jupyter"

type TaxonomyLevel string

const (
	LevelInfo       TaxonomyLevel = "info"
	LevelSafe       TaxonomyLevel = "safe"
	LevelSuspicious TaxonomyLevel = "suspicious"
	LevelMalicious  TaxonomyLevel = "malicious"
)

type Taxonomy struct {
	Level     TaxonomyLevel `json:"level"`
	Namespace string        `json:"namespace"`
	Predicate string        `json:"predicate"`
	Value     any           `json:"value"`
}

type Summary struct {
	Taxonomies []Taxonomy `json:"taxonomies"`
}

type NotebookReport struct {
	Record ExecutionRecord
	HTML   string
	// Full embeds the whole populated notebook rather than only its metadata.
	Full bool
}

func (r NotebookReport) MarshalJSON() ([]byte, error) {
	if !r.Full || r.Record.Notebook == nil {
		return json.Marshal(struct {
			Name           string  `json:"name"`
			Duration       float64 `json:"duration"`
			OutputNotebook string  `json:"output_notebook"`
			HTML           string  `json:"html"`
		}{
			Name:           r.Record.Name,
			Duration:       r.Record.Duration,
			OutputNotebook: r.Record.OutputNotebook,
			HTML:           r.HTML,
		})
	}

	encoded, err := json.Marshal(r.Record.Notebook)
	if err != nil {
		return nil, fmt.Errorf("encode notebook %s: %w", r.Record.Name, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, fmt.Errorf("reshape notebook %s: %w", r.Record.Name, err)
	}

	out := make(map[string]any, len(fields)+4)
	for key, value := range fields {
		out[key] = value
	}
	out["name"] = r.Record.Name
	out["duration"] = r.Record.Duration
	out["output_notebook"] = r.Record.OutputNotebook
	out["html"] = r.HTML
	return json.Marshal(out)
}

type FullReport struct {
	Notebooks []NotebookReport `json:"notebooks"`
}

type Report struct {
	Success      bool        `json:"success"`
	Summary      *Summary    `json:"summary,omitempty"`
	Artifacts    []any       `json:"artifacts,omitempty"`
	Full         *FullReport `json:"full,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
}

func NewSuccessReport(notebooks []NotebookReport, summary Summary) Report {
	if notebooks == nil {
		notebooks = []NotebookReport{}
	}
	return Report{
		Success:   true,
		Summary:   &summary,
		Artifacts: []any{},
		Full:      &FullReport{Notebooks: notebooks},
	}
}

func NewFailureReport(err error) Report {
	return Report{Success: false, ErrorMessage: err.Error()}
}

func Summarize(records []ExecutionRecord) Summary {
	results := Taxonomy{Level: LevelSafe, Namespace: TaxonomyNamespace, Predicate: "Results", Value: "None"}
	if len(records) > 0 {
		results.Level = LevelInfo
		results.Value = len(records)
	}

	taxonomies := []Taxonomy{results}

	outputs := 0
	for _, record := range records {
		outputs += record.OutputCount()
	}
	if outputs > 0 {
		taxonomies = append(taxonomies, Taxonomy{Level: LevelInfo, Namespace: TaxonomyNamespace, Predicate: "Outputs", Value: outputs})
	}

	return Summary{Taxonomies: taxonomies}
}
