// # internal/ui/cli/viewer.go
package cli

import (
	"context"
	"fmt"
	"strings"

	"relight/internal/core/errors"
	"relight/internal/core/ports"
	"relight/internal/engine/highlight"
	"relight/internal/shared/position"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// chromeLines is the header plus footer height around the viewport.
const chromeLines = 4

type highlightMsg struct {
	seq int
	res ports.HighlightResult
	err error
}

type model struct {
	ctx      context.Context
	svc      ports.HighlightService
	path     string
	features highlight.Config

	viewport viewport.Model
	ready    bool

	src    []byte
	index  *position.Index
	cursor position.LineCol
	// wantCol survives moves through short lines.
	wantCol int

	seq     int
	result  ports.HighlightResult
	errText string
	status  string
}

func newModel(ctx context.Context, svc ports.HighlightService, req ports.HighlightRequest) model {
	m := model{
		ctx:      ctx,
		svc:      svc,
		path:     req.Path,
		features: req.Features,
		viewport: viewport.New(80, 20),
		seq:      1,
	}
	// A zero line means the cursor is still a raw offset; the first result
	// maps it.
	if req.Pos != nil {
		m.cursor = *req.Pos
		m.wantCol = m.cursor.Col
	} else {
		m.result.Offset = req.Offset
	}
	return m
}

func (m model) Init() tea.Cmd {
	return m.request()
}

// request runs the service for the current cursor, tagged with m.seq so
// answers to superseded requests are dropped.
func (m model) request() tea.Cmd {
	req := ports.HighlightRequest{Path: m.path, Features: m.features}
	if m.cursor.Line == 0 {
		req.Offset = m.result.Offset
	} else {
		pos := m.cursor
		req.Pos = &pos
	}
	seq, ctx, svc := m.seq, m.ctx, m.svc
	return func() tea.Msg {
		res, err := svc.Highlight(ctx, req)
		return highlightMsg{seq: seq, res: res, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		height := msg.Height - v - chromeLines
		if height < 3 {
			height = 3
		}
		m.viewport.Width = msg.Width - h
		m.viewport.Height = height
		m.ready = true
		m.refresh()
		return m, nil

	case highlightMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.errText = fmt.Sprintf("%s: %v", errors.CodeOf(msg.err), msg.err)
			m.refresh()
			return m, nil
		}
		m.errText = ""
		m.result = msg.res
		if m.src == nil || string(m.src) != string(msg.res.Source) {
			m.src = msg.res.Source
			m.index = position.NewIndex(m.src)
		}
		if m.cursor.Line == 0 {
			m.cursor = msg.res.Cursor
			m.wantCol = m.cursor.Col
		}
		m.refresh()
		return m, nil

	case sourceJumpResultMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Open failed: " + msg.err.Error())
		} else {
			m.status = statusStyle.Render("Returned from " + msg.target)
		}
		m.seq++
		return m, m.request()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Open):
		return m, jumpToSourceCmd(sourceTarget{file: m.path, line: m.cursor.Line, col: m.cursor.Col})
	case key.Matches(msg, keys.Features):
		m.toggleFeature(msg.String())
	case m.index == nil:
		return m, nil
	case key.Matches(msg, keys.Left):
		if !m.moveCol(-1) {
			return m, nil
		}
	case key.Matches(msg, keys.Right):
		if !m.moveCol(1) {
			return m, nil
		}
	case key.Matches(msg, keys.Up):
		if !m.moveLine(m.cursor.Line - 1) {
			return m, nil
		}
	case key.Matches(msg, keys.Down):
		if !m.moveLine(m.cursor.Line + 1) {
			return m, nil
		}
	case key.Matches(msg, keys.Top):
		m.moveLine(1)
	case key.Matches(msg, keys.Bottom):
		m.moveLine(m.index.Lines())
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	m.seq++
	m.refresh()
	return m, m.request()
}

func (m *model) toggleFeature(k string) {
	f := &m.features
	switch k {
	case "1":
		f.References = !f.References
	case "2":
		f.ExitPoints = !f.ExitPoints
	case "3":
		f.BreakPoints = !f.BreakPoints
	case "4":
		f.ClosureCaptures = !f.ClosureCaptures
	case "5":
		f.YieldPoints = !f.YieldPoints
	}
}

func (m *model) moveCol(delta int) bool {
	off, ok := m.index.Offset(m.cursor)
	if !ok {
		return false
	}
	start, end := m.index.LineBounds(m.cursor.Line)
	next := -1
	if delta > 0 {
		if off < end {
			next = off + clusterLen(m.src[off:end])
		}
	} else {
		// The last cluster boundary before off.
		for b := start; b < off; b += clusterLen(m.src[b:end]) {
			next = b
		}
	}
	if next < start {
		return false
	}
	m.cursor = m.index.LineCol(next)
	m.wantCol = m.cursor.Col
	return true
}

// clusterLen is the byte length of the grapheme cluster starting b.
func clusterLen(b []byte) int {
	n, _, err := textseg.ScanGraphemeClusters(b, true)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

func (m *model) moveLine(line int) bool {
	if line < 1 || line > m.index.Lines() || line == m.cursor.Line {
		return false
	}
	start, end := m.index.LineBounds(line)
	col := m.wantCol
	if limit := end - start + 1; col > limit {
		col = limit
	}
	m.cursor = position.LineCol{Line: line, Col: col}
	return true
}

// refresh re-renders the viewport and scrolls the cursor line into view.
func (m *model) refresh() {
	if m.src == nil {
		return
	}
	cursor := -1
	if off, ok := m.index.Offset(m.cursor); ok {
		cursor = off
	}
	ranges := m.result.Ranges
	if m.result.Offset != cursor {
		// Stale until the pending request lands.
		ranges = nil
	}
	m.viewport.SetContent(renderSource(m.src, ranges, cursor))

	row := m.cursor.Line - 1
	switch {
	case row < m.viewport.YOffset:
		m.viewport.SetYOffset(row)
	case row >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(row - m.viewport.Height + 1)
	}
}

func (m model) View() string {
	header := titleStyle.Render(m.path) + statusStyle.Render(fmt.Sprintf("  %s  %s", m.cursor, featureSummary(m.features)))

	info := statusStyle.Render(fmt.Sprintf("%s: %d range(s)", m.result.Feature, len(m.result.Ranges)))
	if m.result.Token != "" {
		info = statusStyle.Render(fmt.Sprintf("%q ", m.result.Token)) + info
	}
	if m.errText != "" {
		info = errorStyle.Render(m.errText)
	}

	body := m.viewport.View()
	if m.src == nil {
		body = statusStyle.Render("Loading...")
		if m.errText != "" {
			body = errorStyle.Render(m.errText)
		}
	}

	lines := []string{header, info, body, renderHelp()}
	if m.status != "" {
		lines = append(lines, m.status)
	}
	return docStyle.Render(strings.Join(lines, "\n"))
}

func featureSummary(f highlight.Config) string {
	flag := func(n int, name string, on bool) string {
		if on {
			return fmt.Sprintf("%d:%s", n, name)
		}
		return fmt.Sprintf("%d:-", n)
	}
	return strings.Join([]string{
		flag(1, "refs", f.References),
		flag(2, "exit", f.ExitPoints),
		flag(3, "break", f.BreakPoints),
		flag(4, "captures", f.ClosureCaptures),
		flag(5, "yield", f.YieldPoints),
	}, " ")
}
