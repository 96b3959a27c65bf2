package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	CellTypeCode     = "code"
	CellTypeMarkdown = "markdown"
	CellTypeRaw      = "raw"
)

// Notebook is an nbformat v4 document. Top-level keys other than cells and
// metadata are kept verbatim so a round trip does not lose them.
type Notebook struct {
	Cells    []*Cell
	Metadata map[string]any
	extra    map[string]json.RawMessage
}

func NewNotebook(cells ...*Cell) *Notebook {
	return &Notebook{
		Cells:    cells,
		Metadata: map[string]any{},
		extra: map[string]json.RawMessage{
			"nbformat":       json.RawMessage("4"),
			"nbformat_minor": json.RawMessage("5"),
		},
	}
}

func ParseNotebook(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}
	return &nb, nil
}

func (n *Notebook) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("notebook document is null")
	}

	n.Cells = nil
	if raw, ok := fields["cells"]; ok {
		if err := json.Unmarshal(raw, &n.Cells); err != nil {
			return fmt.Errorf("decode cells: %w", err)
		}
		delete(fields, "cells")
	}

	n.Metadata = map[string]any{}
	if raw, ok := fields["metadata"]; ok {
		if err := json.Unmarshal(raw, &n.Metadata); err != nil {
			return fmt.Errorf("decode notebook metadata: %w", err)
		}
		if n.Metadata == nil {
			n.Metadata = map[string]any{}
		}
		delete(fields, "metadata")
	}

	n.extra = fields
	return nil
}

func (n Notebook) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.extra)+2)
	for key, value := range n.extra {
		out[key] = value
	}

	cells := n.Cells
	if cells == nil {
		cells = []*Cell{}
	}
	out["cells"] = cells

	metadata := n.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	out["metadata"] = metadata

	return json.Marshal(out)
}

func (n *Notebook) Clone() (*Notebook, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encode notebook: %w", err)
	}
	return ParseNotebook(data)
}

func (n *Notebook) CodeCells() []*Cell {
	cells := make([]*Cell, 0, len(n.Cells))
	for _, cell := range n.Cells {
		if cell.CellType == CellTypeCode {
			cells = append(cells, cell)
		}
	}
	return cells
}

// PapermillMetadata returns metadata.papermill, creating it when absent.
func (n *Notebook) PapermillMetadata() map[string]any {
	if n.Metadata == nil {
		n.Metadata = map[string]any{}
	}
	section, ok := n.Metadata["papermill"].(map[string]any)
	if !ok {
		section = map[string]any{}
		n.Metadata["papermill"] = section
	}
	return section
}

type Cell struct {
	CellType string
	Source   string
	Metadata map[string]any
	Outputs  []Output
	extra    map[string]json.RawMessage
}

func NewCodeCell(source string) *Cell {
	return &Cell{
		CellType: CellTypeCode,
		Source:   source,
		Metadata: map[string]any{},
		Outputs:  []Output{},
		extra: map[string]json.RawMessage{
			"execution_count": json.RawMessage("null"),
		},
	}
}

func NewMarkdownCell(source string) *Cell {
	return &Cell{CellType: CellTypeMarkdown, Source: source, Metadata: map[string]any{}}
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["cell_type"]; ok {
		if err := json.Unmarshal(raw, &c.CellType); err != nil {
			return fmt.Errorf("decode cell_type: %w", err)
		}
		delete(fields, "cell_type")
	}

	if raw, ok := fields["source"]; ok {
		var source MultilineString
		if err := json.Unmarshal(raw, &source); err != nil {
			return fmt.Errorf("decode cell source: %w", err)
		}
		c.Source = string(source)
		delete(fields, "source")
	}

	c.Metadata = map[string]any{}
	if raw, ok := fields["metadata"]; ok {
		if err := json.Unmarshal(raw, &c.Metadata); err != nil {
			return fmt.Errorf("decode cell metadata: %w", err)
		}
		if c.Metadata == nil {
			c.Metadata = map[string]any{}
		}
		delete(fields, "metadata")
	}

	c.Outputs = nil
	if raw, ok := fields["outputs"]; ok {
		if err := json.Unmarshal(raw, &c.Outputs); err != nil {
			return fmt.Errorf("decode cell outputs: %w", err)
		}
		delete(fields, "outputs")
	}

	c.extra = fields
	return nil
}

func (c Cell) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.extra)+4)
	for key, value := range c.extra {
		out[key] = value
	}
	out["cell_type"] = c.CellType
	out["source"] = c.Source

	metadata := c.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	out["metadata"] = metadata

	if c.CellType == CellTypeCode || c.Outputs != nil {
		outputs := c.Outputs
		if outputs == nil {
			outputs = []Output{}
		}
		out["outputs"] = outputs
	}

	return json.Marshal(out)
}

func (c *Cell) Tags() []string {
	raw, ok := c.Metadata["tags"].([]any)
	if !ok {
		if tags, ok := c.Metadata["tags"].([]string); ok {
			return tags
		}
		return nil
	}

	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		if s, ok := tag.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

func (c *Cell) HasTag(tag string) bool {
	for _, t := range c.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// ExecutionCount reports the cell's execution_count when it is set.
func (c *Cell) ExecutionCount() (int, bool) {
	raw, ok := c.extra["execution_count"]
	if !ok {
		return 0, false
	}
	var count *int
	if err := json.Unmarshal(raw, &count); err != nil || count == nil {
		return 0, false
	}
	return *count, true
}

const (
	OutputStream        = "stream"
	OutputDisplayData   = "display_data"
	OutputExecuteResult = "execute_result"
	OutputError         = "error"
)

type Output struct {
	OutputType     string
	Name           string
	Text           string
	Data           map[string]any
	Metadata       map[string]any
	ExecutionCount *int
	EName          string
	EValue         string
	Traceback      []string
}

type outputWire struct {
	OutputType     string          `json:"output_type"`
	Name           string          `json:"name,omitempty"`
	Text           MultilineString `json:"text,omitempty"`
	Data           map[string]any  `json:"data,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	ExecutionCount *int            `json:"execution_count,omitempty"`
	EName          string          `json:"ename,omitempty"`
	EValue         string          `json:"evalue,omitempty"`
	Traceback      []string        `json:"traceback,omitempty"`
}

func (o *Output) UnmarshalJSON(data []byte) error {
	var wire outputWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*o = Output{
		OutputType:     wire.OutputType,
		Name:           wire.Name,
		Text:           string(wire.Text),
		Data:           wire.Data,
		Metadata:       wire.Metadata,
		ExecutionCount: wire.ExecutionCount,
		EName:          wire.EName,
		EValue:         wire.EValue,
		Traceback:      wire.Traceback,
	}
	return nil
}

func (o Output) MarshalJSON() ([]byte, error) {
	out := map[string]any{"output_type": o.OutputType}
	switch o.OutputType {
	case OutputStream:
		out["name"] = o.Name
		out["text"] = o.Text
	case OutputDisplayData, OutputExecuteResult:
		out["data"] = nonNilMap(o.Data)
		out["metadata"] = nonNilMap(o.Metadata)
		if o.OutputType == OutputExecuteResult {
			out["execution_count"] = o.ExecutionCount
		}
	case OutputError:
		out["ename"] = o.EName
		out["evalue"] = o.EValue
		traceback := o.Traceback
		if traceback == nil {
			traceback = []string{}
		}
		out["traceback"] = traceback
	default:
		if o.Data != nil {
			out["data"] = o.Data
		}
		if o.Text != "" {
			out["text"] = o.Text
		}
	}
	return json.Marshal(out)
}

// PlainText is the best text rendering of the output, used by renderers and summaries.
func (o Output) PlainText() string {
	switch o.OutputType {
	case OutputStream:
		return o.Text
	case OutputError:
		return o.EName + ": " + o.EValue
	default:
		if text, ok := o.Data["text/plain"]; ok {
			return multilineValue(text)
		}
		return ""
	}
}

// MultilineString decodes nbformat's string-or-list-of-strings fields.
type MultilineString string

func (m *MultilineString) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = MultilineString(single)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*m = MultilineString(strings.Join(lines, ""))
	return nil
}

func multilineValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		var b strings.Builder
		for _, line := range v {
			if s, ok := line.(string); ok {
				b.WriteString(s)
			}
		}
		return b.String()
	default:
		return ""
	}
}

// MimeText returns a mime bundle entry as a single string.
func MimeText(data map[string]any, mime string) (string, bool) {
	value, ok := data[mime]
	if !ok {
		return "", false
	}
	return multilineValue(value), true
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
