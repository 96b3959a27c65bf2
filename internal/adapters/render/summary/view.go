package summary

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/notebook-runner-cli/internal/domain"
)

const barWidth = 24

type RenderOptions struct {
	Trigger string
	Remote  bool
}

func renderRecords(records []domain.ExecutionRecord, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Notebook Run"),
		s.header.Render(runHeader(len(records), opts)),
	}

	if len(records) == 0 {
		lines = append(lines, s.empty.Render("No notebooks were executed."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	slowest := 0.0
	for _, record := range records {
		slowest = math.Max(slowest, record.Duration)
	}

	for _, record := range records {
		lines = append(lines, s.section.Render(renderRecord(record, slowest, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func runHeader(count int, opts RenderOptions) string {
	mode := "local"
	if opts.Remote {
		mode = "remote"
	}
	header := fmt.Sprintf("notebooks: %d  mode: %s", count, mode)
	if opts.Trigger != "" {
		header += "  trigger: " + opts.Trigger
	}
	return header
}

func renderRecord(record domain.ExecutionRecord, slowest float64, s styles) string {
	duration := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.detail.Render("duration:"),
		" ",
		renderDurationBar(record.Duration, slowest, barWidth, s),
		" ",
		s.detail.Render(formatSeconds(record.Duration)),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.notebook.Render(record.Name),
		duration,
		s.detail.Render(fmt.Sprintf("outputs: %d", record.OutputCount())),
		s.location.Render(record.OutputNotebook),
	)
}

func renderHistory(runs []domain.Run, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Run History"),
		s.header.Render(fmt.Sprintf("runs: %d", len(runs))),
	}

	if len(runs) == 0 {
		lines = append(lines, s.empty.Render("No runs recorded."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	sorted := append([]domain.Run(nil), runs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})

	for _, run := range sorted {
		title := fmt.Sprintf("%s  %s", run.StartedAt.Format("2006-01-02 15:04"), run.ID)
		parts := []string{s.notebook.Render(title)}
		if run.Trigger != "" {
			parts = append(parts, s.detail.Render(fmt.Sprintf("trigger: %s (%s)", run.Trigger, run.DataType)))
		}
		for _, entry := range run.Notebooks {
			parts = append(parts, s.detail.Render(fmt.Sprintf("%s  %s", entry.Name, formatSeconds(entry.Duration))))
			if entry.OutputNotebook != "" {
				parts = append(parts, s.location.Render("  "+entry.OutputNotebook))
			}
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderDurationBar(seconds, slowest float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := 0
	if slowest > 0 {
		filled = int(math.Round(float64(width) * seconds / slowest))
	}
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func formatSeconds(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}
