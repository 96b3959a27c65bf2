package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
	"github.com/bnema/notebook-runner-cli/internal/ports/mocks"
)

type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	current := c.now
	c.now = c.now.Add(c.step)
	return current
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), step: 250 * time.Millisecond}
}

const hubContents = "https://hub.example.com/user/analyst/cortex_job/api/contents"

func remoteConfig() domain.RunConfig {
	return domain.RunConfig{
		Input: domain.EndpointConfig{
			Name:           "input",
			Hostname:       "https://hub.example.com",
			Kind:           domain.DestinationHTTPAPI,
			Token:          "in-token",
			IsMultiUserHub: true,
			User:           "analyst",
			ServerName:     domain.DefaultServerName,
		},
		Output: domain.EndpointConfig{
			Name:       "output",
			Hostname:   "/srv/out",
			Kind:       domain.DestinationFilesystem,
			ServerName: domain.DefaultServerName,
		},
		InputPaths:      []string{"/a.ipynb", "/b.ipynb"},
		OutputFolder:    "/reports/",
		ExecuteRemotely: true,
		OnlyHTML:        true,
		Observable:      domain.Observable{Organisation: "acme", User: "bob", DataType: "ip", Data: "8.8.8.8"},
	}
}

type remoteFixture struct {
	servers  *mocks.MockServerManager
	kernels  *mocks.MockKernelClient
	session  *mocks.MockKernelSession
	input    *mocks.MockNotebookStore
	output   *mocks.MockNotebookStore
	history  *mocks.MockRunRepository
	executed []string
}

func newRemoteFixture(t *testing.T) *remoteFixture {
	t.Helper()

	f := &remoteFixture{
		servers: mocks.NewMockServerManager(t),
		kernels: mocks.NewMockKernelClient(t),
		session: mocks.NewMockKernelSession(t),
		input:   mocks.NewMockNotebookStore(t),
		output:  mocks.NewMockNotebookStore(t),
		history: mocks.NewMockRunRepository(t),
	}

	handle := domain.ServerHandle{ResolvedBaseURL: "https://hub.example.com/user/analyst/cortex_job/"}
	f.servers.EXPECT().EnsureStarted(mock.Anything, "analyst", domain.DefaultServerName).Return(handle, nil).Once()
	f.kernels.EXPECT().Open(mock.Anything, handle, map[string]string{"Authorization": "token in-token"}).Return(f.session, nil).Once()
	f.session.EXPECT().ID().Return("kernel-1").Maybe()
	f.session.EXPECT().Close().Return(nil).Once()

	return f
}

func (f *remoteFixture) runner(cfg domain.RunConfig) *Runner {
	return NewRunner(cfg, Dependencies{
		Servers: func(domain.EndpointConfig) ports.ServerManager { return f.servers },
		Kernels: f.kernels,
		Input:   f.input,
		Output:  f.output,
		History: f.history,
		Clock:   newStepClock(),
		NewRunID: func() domain.RunID {
			return "run-1"
		},
	})
}

func (f *remoteFixture) echoKernel() {
	f.session.EXPECT().Execute(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, code string) (domain.CellResult, error) {
		f.executed = append(f.executed, code)
		return domain.CellResult{
			Outputs:  []domain.Output{{OutputType: domain.OutputStream, Name: "stdout", Text: "ran " + code}},
			Terminal: true,
		}, nil
	})
}

func TestRunnerRemoteExecutesNotebooksInOrder(t *testing.T) {
	f := newRemoteFixture(t)
	f.echoKernel()

	f.input.EXPECT().Load(mock.Anything, hubContents+"/a.ipynb?token=in-token").
		Return(domain.NewNotebook(domain.NewCodeCell("a1"), domain.NewMarkdownCell("# skip"), domain.NewCodeCell("a2")), nil).Once()
	f.input.EXPECT().Load(mock.Anything, hubContents+"/b.ipynb?token=in-token").
		Return(domain.NewNotebook(domain.NewCodeCell("b1")), nil).Once()

	var written []string
	f.output.EXPECT().Write(mock.Anything, mock.Anything, mock.Anything).
		Run(func(_ context.Context, _ *domain.Notebook, location string) { written = append(written, location) }).
		Return(nil).Times(2)

	f.history.EXPECT().Save(mock.Anything, mock.MatchedBy(func(run domain.Run) bool {
		return run.ID == "run-1" && run.Trigger == "8.8.8.8" && run.Remote && len(run.Notebooks) == 2
	})).Return(nil).Once()

	records, err := f.runner(remoteConfig()).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Len(t, f.executed, 5, "the injected parameters cell runs before each notebook body")
	assert.Contains(t, f.executed[0], "thehive_observable_value = \"8.8.8.8\"")
	assert.Equal(t, []string{"a1", "a2"}, f.executed[1:3])
	assert.Equal(t, "b1", f.executed[4])

	assert.Equal(t, []string{
		"/srv/out/reports/2026-03-09-8.8.8.8-a.ipynb",
		"/srv/out/reports/2026-03-09-8.8.8.8-b.ipynb",
	}, written)

	first := records[0]
	assert.Equal(t, "/a.ipynb", first.Name)
	assert.Equal(t, 0.25, first.Duration)
	assert.Equal(t, "/srv/out/reports/2026-03-09-8.8.8.8-a.ipynb", first.OutputNotebook)
	assert.Equal(t, domain.CellTypeMarkdown, first.Notebook.Cells[2].CellType)
	assert.Empty(t, first.Notebook.Cells[2].Outputs)
	assert.Equal(t, "ran a2", first.Notebook.Cells[3].Outputs[0].Text)
}

func TestRunnerRemoteAbortsBatchOnLoadFailure(t *testing.T) {
	f := newRemoteFixture(t)
	f.echoKernel()

	f.input.EXPECT().Load(mock.Anything, hubContents+"/a.ipynb?token=in-token").Return(domain.NewNotebook(domain.NewCodeCell("a1")), nil).Once()
	f.input.EXPECT().Load(mock.Anything, hubContents+"/b.ipynb?token=in-token").Return(nil, domain.ErrNotebookNotFound).Once()
	f.output.EXPECT().Write(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	records, err := f.runner(remoteConfig()).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotebookNotFound)
	assert.Contains(t, err.Error(), "/b.ipynb")
	assert.Nil(t, records)
}

func TestRunnerRemoteSurfacesKernelErrors(t *testing.T) {
	f := newRemoteFixture(t)

	f.input.EXPECT().Load(mock.Anything, mock.Anything).Return(domain.NewNotebook(domain.NewCodeCell("1/0")), nil).Once()
	f.session.EXPECT().Execute(mock.Anything, mock.Anything).
		Return(domain.CellResult{}, &domain.KernelExecutionError{Kind: domain.KernelFailureReported, Message: json.RawMessage(`"ZeroDivisionError"`)}).Once()

	_, err := f.runner(remoteConfig()).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrKernelExecution)
}

func TestRunnerRemoteStopsWhenServerNeverStarts(t *testing.T) {
	servers := mocks.NewMockServerManager(t)
	servers.EXPECT().EnsureStarted(mock.Anything, "analyst", domain.DefaultServerName).
		Return(domain.ServerHandle{}, &domain.ServerNeverReadyError{User: "analyst", Server: domain.DefaultServerName}).Once()

	runner := NewRunner(remoteConfig(), Dependencies{
		Servers: func(domain.EndpointConfig) ports.ServerManager { return servers },
		Kernels: mocks.NewMockKernelClient(t),
		Clock:   newStepClock(),
	})

	_, err := runner.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerNeverReady)
}

func TestRunnerRemoteAgainstSingleUserServer(t *testing.T) {
	cfg := remoteConfig()
	cfg.Input.IsMultiUserHub = false
	cfg.Input.Hostname = "http://jupyter:8888/"
	cfg.InputPaths = []string{"/a.ipynb"}

	kernels := mocks.NewMockKernelClient(t)
	session := mocks.NewMockKernelSession(t)
	input := mocks.NewMockNotebookStore(t)
	output := mocks.NewMockNotebookStore(t)

	kernels.EXPECT().Open(mock.Anything, domain.ServerHandle{User: "analyst", ResolvedBaseURL: "http://jupyter:8888/"}, mock.Anything).Return(session, nil).Once()
	session.EXPECT().ID().Return("kernel-1").Maybe()
	session.EXPECT().Close().Return(nil).Once()
	session.EXPECT().Execute(mock.Anything, mock.Anything).Return(domain.CellResult{Terminal: true}, nil)
	input.EXPECT().Load(mock.Anything, "http://jupyter:8888/api/contents/a.ipynb?token=in-token").Return(domain.NewNotebook(), nil).Once()
	output.EXPECT().Write(mock.Anything, mock.Anything, "/srv/out/reports/2026-03-09-8.8.8.8-a.ipynb").Return(nil).Once()

	runner := NewRunner(cfg, Dependencies{Kernels: kernels, Input: input, Output: output, Clock: newStepClock()})

	records, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Notebook.Cells[0].Outputs, "a reply without output clears the cell outputs")
}

func localConfig() domain.RunConfig {
	return domain.RunConfig{
		Input: domain.EndpointConfig{Name: "input", Hostname: "/srv/in", Kind: domain.DestinationFilesystem},
		Output: domain.EndpointConfig{
			Name:     "output",
			Hostname: "http://jupyter:8888/",
			Kind:     domain.DestinationHTTPAPI,
			Token:    "out-token",
			User:     "analyst",
		},
		InputPaths:   []string{"/a.ipynb"},
		OutputFolder: "/reports/",
		OnlyHTML:     true,
		Observable:   domain.Observable{DataType: "domain", Data: "evil.example"},
	}
}

func TestRunnerLocalStripsTokensAndCopiesDuration(t *testing.T) {
	local := mocks.NewMockLocalExecutor(t)
	apiLocation := "http://jupyter:8888/api/contents/reports/2026-03-09-evil.example-a.ipynb?token=out-token"

	local.EXPECT().ExecuteLocally(mock.Anything, "/srv/in/a.ipynb", apiLocation, mock.Anything).
		RunAndReturn(func(_ context.Context, in, out string, params []domain.Parameter) (*domain.Notebook, error) {
			require.Len(t, params, 4)
			nb := domain.NewNotebook()
			papermill := nb.PapermillMetadata()
			papermill["input_path"] = in
			papermill["output_path"] = out
			papermill["duration"] = 1.23456
			return nb, nil
		}).Once()

	records, err := NewRunner(localConfig(), Dependencies{Local: local, Clock: newStepClock()}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, 1.235, record.Duration)
	assert.Equal(t, "http://jupyter:8888/user/analyst/tree/reports/2026-03-09-evil.example-a.ipynb", record.OutputNotebook)

	papermill := record.Notebook.PapermillMetadata()
	assert.Equal(t, "/srv/in/a.ipynb", papermill["input_path"])
	assert.Equal(t, "http://jupyter:8888/api/contents/reports/2026-03-09-evil.example-a.ipynb", papermill["output_path"])
}

func TestRunnerDirectLinkUsesOutputUser(t *testing.T) {
	tests := []struct {
		name       string
		inputUser  string
		outputUser string
		want       string
	}{
		{name: "output user wins", inputUser: "reader", outputUser: "analyst", want: "analyst"},
		{name: "falls back to input user", inputUser: "reader", outputUser: "", want: "reader"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := localConfig()
			cfg.Input.User = tt.inputUser
			cfg.Output.User = tt.outputUser

			local := mocks.NewMockLocalExecutor(t)
			local.EXPECT().ExecuteLocally(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(domain.NewNotebook(), nil).Once()

			records, err := NewRunner(cfg, Dependencies{Local: local, Clock: newStepClock()}).Run(context.Background())
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "http://jupyter:8888/user/"+tt.want+"/tree/reports/2026-03-09-evil.example-a.ipynb", records[0].OutputNotebook)
		})
	}
}

func TestRunnerLocalAbortsOnExecutorFailure(t *testing.T) {
	cfg := localConfig()
	cfg.InputPaths = []string{"/a.ipynb", "/b.ipynb"}

	local := mocks.NewMockLocalExecutor(t)
	local.EXPECT().ExecuteLocally(mock.Anything, "/srv/in/a.ipynb", mock.Anything, mock.Anything).Return(nil, errors.New("papermill execute: exit status 1")).Once()

	records, err := NewRunner(cfg, Dependencies{Local: local, Clock: newStepClock()}).Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, records)
}

func TestRunnerHistoryFailureDoesNotFailRun(t *testing.T) {
	local := mocks.NewMockLocalExecutor(t)
	local.EXPECT().ExecuteLocally(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(domain.NewNotebook(), nil).Once()

	history := mocks.NewMockRunRepository(t)
	history.EXPECT().Save(mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	records, err := NewRunner(localConfig(), Dependencies{Local: local, History: history, Clock: newStepClock()}).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRunnerReport(t *testing.T) {
	renderer := mocks.NewMockRenderer(t)
	renderer.EXPECT().ToHTML(mock.Anything).Return("<html></html>", nil).Times(2)

	cell := domain.NewCodeCell("print(1)")
	cell.Outputs = []domain.Output{{OutputType: domain.OutputStream, Name: "stdout", Text: "1\n"}}
	records := []domain.ExecutionRecord{{Name: "/a.ipynb", Duration: 0.5, OutputNotebook: "/out/a.ipynb", Notebook: domain.NewNotebook(cell)}}

	report, err := NewRunner(localConfig(), Dependencies{Renderer: renderer}).Report(context.Background(), records)
	require.NoError(t, err)
	assert.True(t, report.Success)
	require.Len(t, report.Full.Notebooks, 1)
	assert.False(t, report.Full.Notebooks[0].Full)
	assert.Equal(t, "<html></html>", report.Full.Notebooks[0].HTML)
	require.Len(t, report.Summary.Taxonomies, 2)

	cfg := localConfig()
	cfg.OnlyHTML = false
	report, err = NewRunner(cfg, Dependencies{Renderer: renderer}).Report(context.Background(), records)
	require.NoError(t, err)
	assert.True(t, report.Full.Notebooks[0].Full)
}

func TestRunnerReportPropagatesRenderError(t *testing.T) {
	renderer := mocks.NewMockRenderer(t)
	renderer.EXPECT().ToHTML(mock.Anything).Return("", errors.New("template failed")).Once()

	_, err := NewRunner(localConfig(), Dependencies{Renderer: renderer}).Report(context.Background(), []domain.ExecutionRecord{{Name: "/a.ipynb", Notebook: domain.NewNotebook()}})
	assert.ErrorContains(t, err, "render notebook /a.ipynb")
}
