package summary

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/notebook-runner-cli/internal/domain"
)

func TestRenderRecords(t *testing.T) {
	cell := domain.NewCodeCell("print('ok')")
	cell.Outputs = []domain.Output{{OutputType: domain.OutputStream, Name: "stdout", Text: "ok\n"}}

	output, err := Render([]domain.ExecutionRecord{
		{Name: "/a.ipynb", Duration: 2.5, OutputNotebook: "https://hub/user/u/tree/out/a.ipynb", Notebook: domain.NewNotebook(cell)},
		{Name: "/b.ipynb", Duration: 0.125, OutputNotebook: "/srv/out/b.ipynb", Notebook: domain.NewNotebook()},
	}, RenderOptions{Trigger: "8.8.8.8", Remote: true})

	require.NoError(t, err)
	assert.Contains(t, output, "notebooks: 2  mode: remote  trigger: 8.8.8.8")
	assert.Contains(t, output, "/a.ipynb")
	assert.Contains(t, output, "2.5s")
	assert.Contains(t, output, "125ms")
	assert.Contains(t, output, "outputs: 1")
	assert.Contains(t, output, "outputs: 0")
	assert.Contains(t, output, "https://hub/user/u/tree/out/a.ipynb")
	assert.Contains(t, output, "["+strings.Repeat("=", barWidth)+"]")
}

func TestRenderRecordsEmpty(t *testing.T) {
	output, err := Render(nil, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "mode: local")
	assert.Contains(t, output, "No notebooks were executed.")
}

func TestRenderHistoryNewestFirst(t *testing.T) {
	older := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)

	output, err := RenderHistory([]domain.Run{
		{ID: "run-old", StartedAt: older, Trigger: "1.1.1.1", DataType: "ip"},
		{ID: "run-new", StartedAt: newer, Notebooks: []domain.RunEntry{{Name: "/a.ipynb", Duration: 1, OutputNotebook: "/out/a.ipynb"}}},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "runs: 2")
	assert.Less(t, strings.Index(output, "run-new"), strings.Index(output, "run-old"))
	assert.Contains(t, output, "trigger: 1.1.1.1 (ip)")
	assert.Contains(t, output, "/out/a.ipynb")
}

func TestRenderDurationBarScalesToSlowest(t *testing.T) {
	s := newStyles()
	bar := renderDurationBar(1, 4, 8, s)
	assert.Contains(t, bar, "==")
	assert.NotContains(t, bar, "===")
	assert.Equal(t, "[--------]", renderDurationBar(1, 0, 8, s))
}
