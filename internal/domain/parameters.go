package domain

import (
	"fmt"
	"strings"
)

const (
	ParametersTag         = "parameters"
	InjectedParametersTag = "injected-parameters"
)

const (
	ParamOrganisation    = "thehive_organisation"
	ParamUser            = "thehive_user"
	ParamObservableType  = "thehive_observable_type"
	ParamObservableValue = "thehive_observable_value"
)

type Parameter struct {
	Name  string
	Value string
}

// Observable identifies what triggered the run.
type Observable struct {
	Organisation string
	User         string
	DataType     string
	Data         string
}

func (o Observable) Parameters() []Parameter {
	return []Parameter{
		{Name: ParamOrganisation, Value: o.Organisation},
		{Name: ParamUser, Value: o.User},
		{Name: ParamObservableType, Value: o.DataType},
		{Name: ParamObservableValue, Value: o.Data},
	}
}

// Parameterize returns a copy of nb with a cell assigning params injected after
// the cell tagged "parameters", or first when no such cell exists. A previously
// injected cell is replaced in place.
func Parameterize(nb *Notebook, params []Parameter) (*Notebook, error) {
	out, err := nb.Clone()
	if err != nil {
		return nil, err
	}

	injected := NewCodeCell(parametersSource(params))
	injected.Metadata["tags"] = []any{InjectedParametersTag}

	for i, cell := range out.Cells {
		if cell.HasTag(InjectedParametersTag) {
			out.Cells[i] = injected
			return out, nil
		}
	}

	position := 0
	for i, cell := range out.Cells {
		if cell.HasTag(ParametersTag) {
			position = i + 1
			break
		}
	}

	cells := make([]*Cell, 0, len(out.Cells)+1)
	cells = append(cells, out.Cells[:position]...)
	cells = append(cells, injected)
	cells = append(cells, out.Cells[position:]...)
	out.Cells = cells

	return out, nil
}

func parametersSource(params []Parameter) string {
	var b strings.Builder
	b.WriteString("# Parameters\n")
	for _, p := range params {
		fmt.Fprintf(&b, "%s = %s\n", p.Name, pythonString(p.Value))
	}
	return b.String()
}

func pythonString(value string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
