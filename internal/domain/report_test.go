package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotebookReportOnlyHTMLForm(t *testing.T) {
	report := NotebookReport{
		Record: ExecutionRecord{Name: "/a.ipynb", Duration: 0.25, OutputNotebook: "http://hub/user/u/tree/x", Notebook: NewNotebook()},
		HTML:   "<html></html>",
	}

	encoded, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"/a.ipynb","duration":0.25,"output_notebook":"http://hub/user/u/tree/x","html":"<html></html>"}`, string(encoded))
}

func TestNotebookReportFullFormMergesNotebook(t *testing.T) {
	report := NotebookReport{
		Record: ExecutionRecord{Name: "/a.ipynb", Duration: 1, OutputNotebook: "/out/a.ipynb", Notebook: NewNotebook(NewCodeCell("1"))},
		HTML:   "<p/>",
		Full:   true,
	}

	encoded, err := json.Marshal(report)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(encoded, &raw))
	assert.Equal(t, "/a.ipynb", raw["name"])
	assert.Equal(t, "<p/>", raw["html"])
	assert.Equal(t, float64(4), raw["nbformat"])
	assert.Len(t, raw["cells"], 1)
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	require.Len(t, empty.Taxonomies, 1)
	assert.Equal(t, Taxonomy{Level: LevelSafe, Namespace: "Jupyter", Predicate: "Results", Value: "None"}, empty.Taxonomies[0])

	cell := NewCodeCell("print('ok')")
	cell.Outputs = []Output{{OutputType: OutputStream, Name: "stdout", Text: "ok\n"}}
	records := []ExecutionRecord{
		{Name: "/a.ipynb", Notebook: NewNotebook(cell)},
		{Name: "/b.ipynb", Notebook: NewNotebook()},
	}

	summary := Summarize(records)
	require.Len(t, summary.Taxonomies, 2)
	assert.Equal(t, 2, summary.Taxonomies[0].Value)
	assert.Equal(t, "Outputs", summary.Taxonomies[1].Predicate)
	assert.Equal(t, 1, summary.Taxonomies[1].Value)
}

func TestReportEnvelopes(t *testing.T) {
	success, err := json.Marshal(NewSuccessReport(nil, Summarize(nil)))
	require.NoError(t, err)
	assert.Contains(t, string(success), `"success":true`)
	assert.Contains(t, string(success), `"notebooks":[]`)

	failure, err := json.Marshal(NewFailureReport(errors.New("boom")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"errorMessage":"boom"}`, string(failure))
}
