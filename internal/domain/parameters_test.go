package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterizeInjectsAfterParametersCell(t *testing.T) {
	defaults := NewCodeCell("organisation = None")
	defaults.Metadata["tags"] = []any{ParametersTag}
	nb := NewNotebook(NewMarkdownCell("# Triage"), defaults, NewCodeCell("print(organisation)"))

	out, err := Parameterize(nb, Observable{Organisation: "acme", User: "bob", DataType: "ip", Data: "1.2.3.4"}.Parameters())
	require.NoError(t, err)

	require.Len(t, out.Cells, 4)
	injected := out.Cells[2]
	assert.True(t, injected.HasTag(InjectedParametersTag))
	assert.Equal(t, "# Parameters\n"+
		"thehive_organisation = \"acme\"\n"+
		"thehive_user = \"bob\"\n"+
		"thehive_observable_type = \"ip\"\n"+
		"thehive_observable_value = \"1.2.3.4\"\n", injected.Source)
	assert.Equal(t, "print(organisation)", out.Cells[3].Source)

	assert.Len(t, nb.Cells, 3, "input notebook must not be modified")
}

func TestParameterizeInsertsFirstWithoutParametersCell(t *testing.T) {
	nb := NewNotebook(NewCodeCell("print(1)"))

	out, err := Parameterize(nb, []Parameter{{Name: "a", Value: "b"}})
	require.NoError(t, err)

	require.Len(t, out.Cells, 2)
	assert.True(t, out.Cells[0].HasTag(InjectedParametersTag))
}

func TestParameterizeReplacesPreviouslyInjectedCell(t *testing.T) {
	old := NewCodeCell("# Parameters\na = \"old\"\n")
	old.Metadata["tags"] = []any{InjectedParametersTag}
	nb := NewNotebook(old, NewCodeCell("print(a)"))

	out, err := Parameterize(nb, []Parameter{{Name: "a", Value: "new"}})
	require.NoError(t, err)

	require.Len(t, out.Cells, 2)
	assert.Equal(t, "# Parameters\na = \"new\"\n", out.Cells[0].Source)
}

func TestPythonStringEscapes(t *testing.T) {
	assert.Equal(t, `"say \"hi\"\n"`, pythonString("say \"hi\"\n"))
	assert.Equal(t, `"c:\\temp"`, pythonString(`c:\temp`))
}
