package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/deepreview/deepreview/internal/core"
	"github.com/deepreview/deepreview/internal/output"
)

type tuiPhase int

const (
	phaseReviewing tuiPhase = iota
	phaseReport
	phaseFailed
)

type tuiModel struct {
	styles styles

	target     string
	language   string
	focusLabel string
	meta       output.Meta

	cancel context.CancelFunc
	frames chan []core.ChunkStatus
	start  tea.Cmd

	viewport viewport.Model
	spinner  spinner.Model
	progress progress.Model

	phase    tuiPhase
	statuses []core.ChunkStatus
	report   *core.CombinedReport
	err      error

	width   int
	height  int
	started time.Time
}

func newTUIModel(theme ThemeName, meta output.Meta, focusLabel string, cancel context.CancelFunc, frames chan []core.ChunkStatus, start tea.Cmd) *tuiModel {
	st := GetTheme(theme)

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = st.accent

	return &tuiModel{
		styles:     st,
		target:     meta.File,
		language:   meta.Language,
		focusLabel: focusLabel,
		meta:       meta,
		cancel:     cancel,
		frames:     frames,
		start:      start,
		spinner:    sp,
		progress:   progress.New(progress.WithDefaultGradient()),
		started:    time.Now(),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tea.Batch(m.start, m.spinner.Tick, waitForFrameCmd(m.frames))
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC, msg.Type == tea.KeyEsc, msg.String() == "q":
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-6, 64)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 7
		if m.report != nil {
			m.viewport.SetContent(m.renderReport())
		}

	case progressFrameMsg:
		m.statuses = msg
		return m, tea.Batch(spCmd, waitForFrameCmd(m.frames))

	case reviewDoneMsg:
		m.meta.Duration = time.Since(m.started)
		if msg.err != nil {
			m.phase = phaseFailed
			m.err = msg.err
			return m, nil
		}
		m.phase = phaseReport
		m.report = msg.report
		m.viewport.SetContent(m.renderReport())
		m.viewport.GotoTop()
		return m, nil
	}

	return m, tea.Batch(vpCmd, spCmd)
}

func (m *tuiModel) View() string {
	if m.width == 0 {
		return fmt.Sprintf("\n  %s starting review...\n", m.spinner.View())
	}

	switch m.phase {
	case phaseReport:
		return m.reportView()
	case phaseFailed:
		return m.failedView()
	default:
		return m.reviewingView()
	}
}

func (m *tuiModel) header() string {
	h := m.styles.title.Render("deepreview") + "  " + m.styles.file.Render(m.target)
	if m.language != "" {
		h += " " + m.styles.dim.Render("("+m.language+")")
	}
	return h
}

func (m *tuiModel) reviewingView() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	total := len(m.statuses)
	if total == 0 {
		b.WriteString(m.spinner.View() + " preparing review...\n")
		return m.styles.app.Render(b.String())
	}

	b.WriteString(fmt.Sprintf("%s reviewing %d chunks · %s\n\n", m.spinner.View(), total, m.focusLabel))
	b.WriteString(m.progress.ViewAs(m.settledFraction()))
	b.WriteString("\n\n")
	b.WriteString(m.chunkRow())
	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render(m.countsLine()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.dim.Render("q cancel"))
	return m.styles.app.Render(b.String())
}

func (m *tuiModel) reportView() string {
	var statusParts []string
	statusParts = append(statusParts, fmt.Sprintf("MODEL: %s", m.meta.Model))
	statusParts = append(statusParts, fmt.Sprintf("CHUNKS: %d/%d", m.report.ProcessedChunks, m.report.TotalChunks))
	statusParts = append(statusParts, fmt.Sprintf("ISSUES: %d", m.report.IssueCount.Total))
	statusParts = append(statusParts, m.meta.Duration.Round(time.Millisecond).String())

	status := m.styles.dim.Render(strings.Join(statusParts, " │ "))
	if m.report.PartialSuccess {
		status += "  " + m.styles.warn.Render(fmt.Sprintf("⚠ %d chunks failed", len(m.report.Errors)))
	}
	status += "  " + m.styles.dim.Render("↑/↓ scroll · q quit")

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.header(),
			m.viewport.View(),
			m.styles.footer.Render(status),
		),
	)
}

func (m *tuiModel) failedView() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(m.styles.error.Render("✗ review failed"))
	b.WriteString("\n\n")
	b.WriteString(m.err.Error())
	b.WriteString("\n\n")
	b.WriteString(m.styles.dim.Render("q quit"))
	return m.styles.app.Render(b.String())
}

// renderReport styles the Markdown report through glamour, falling back to
// the plain document when styling fails.
func (m *tuiModel) renderReport() string {
	var buf bytes.Buffer
	output.RenderMarkdown(&buf, m.report, m.meta)

	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return buf.String()
	}
	pretty, err := r.Render(buf.String())
	if err != nil {
		return buf.String()
	}
	return pretty
}

func (m *tuiModel) settledFraction() float64 {
	if len(m.statuses) == 0 {
		return 0
	}
	settled := 0
	for _, s := range m.statuses {
		if s.Terminal() {
			settled++
		}
	}
	return float64(settled) / float64(len(m.statuses))
}

func (m *tuiModel) chunkRow() string {
	glyphs := make([]string, len(m.statuses))
	for i, s := range m.statuses {
		glyphs[i] = m.chunkGlyph(s)
	}
	return strings.Join(glyphs, " ")
}

func (m *tuiModel) chunkGlyph(s core.ChunkStatus) string {
	switch s {
	case core.StatusInProgress:
		return m.styles.accent.Render("○")
	case core.StatusRetrying:
		return m.styles.warn.Render("↻")
	case core.StatusCompleted:
		return m.styles.success.Render("✓")
	case core.StatusFailed:
		return m.styles.error.Render("✗")
	default:
		return m.styles.dim.Render("·")
	}
}

func (m *tuiModel) countsLine() string {
	var completed, retrying, failed int
	for _, s := range m.statuses {
		switch s {
		case core.StatusCompleted:
			completed++
		case core.StatusRetrying:
			retrying++
		case core.StatusFailed:
			failed++
		}
	}
	line := fmt.Sprintf("%d/%d done", completed, len(m.statuses))
	if retrying > 0 {
		line += fmt.Sprintf(", %d retrying", retrying)
	}
	if failed > 0 {
		line += fmt.Sprintf(", %d failed", failed)
	}
	return line
}
