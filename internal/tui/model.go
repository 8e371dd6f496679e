// Package tui is the terminal front-end of the word finder widget. It renders
// the coordinator state with bubbletea and turns each issued search into a
// command whose completion is applied back on the event loop.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bastiangx/wordscape/pkg/widget"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxLetters caps the letter bank input. Banks past a few dozen letters match
// most of the dictionary, so the field stops there.
const maxLetters = 32

// searchDoneMsg carries a finished search back to the event loop.
type searchDoneMsg widget.Response

// Model is the bubbletea model of the widget. Focus 0 is the letter bank,
// focus i > 0 is slot i-1.
type Model struct {
	ctx    context.Context
	coord  *widget.Coordinator
	keys   keyMap
	help   help.Model
	styles styles

	letters textinput.Model
	slots   []textinput.Model
	focus   int

	// Written by renderer, which runs inside coordinator calls made from Update.
	results    []string
	invalid    bool
	patternLen int

	inflight int
	width    int
}

// New creates the model and its coordinator. ctx bounds every search.
func New(ctx context.Context, searcher widget.Searcher, slots int, opts ...widget.Option) *Model {
	m := &Model{
		ctx:    ctx,
		keys:   defaultKeys(),
		help:   help.New(),
		styles: defaultStyles(),
		width:  80,
	}

	m.letters = textinput.New()
	m.letters.Prompt = ""
	m.letters.Placeholder = "letters"
	m.letters.CharLimit = maxLetters
	m.letters.Width = 24
	m.letters.Focus()

	opts = append([]widget.Option{widget.WithSlots(slots)}, opts...)
	opts = append(opts, widget.WithRenderer(renderer{m}))
	m.coord = widget.NewCoordinator(searcher, opts...)
	m.setSlotInputs(m.coord.Slots())
	return m
}

// Coordinator exposes the widget state, mainly for tests.
func (m *Model) Coordinator() *widget.Coordinator {
	return m.coord
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.search(m.coord.Init()))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case searchDoneMsg:
		m.inflight--
		m.coord.Complete(widget.Response(msg))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.setFocus(m.focus + 1)
		return m, m.search(m.coord.Evaluate())
	case key.Matches(msg, m.keys.Prev):
		m.setFocus(m.focus - 1)
		return m, m.search(m.coord.Evaluate())
	case key.Matches(msg, m.keys.AddSlot):
		return m, m.search(m.coord.AddSlot())
	case key.Matches(msg, m.keys.RemoveSlot):
		return m, m.search(m.coord.RemoveSlot())
	case key.Matches(msg, m.keys.Clear):
		m.coord.Clear()
		m.setFocus(0)
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	cmd := m.updateFocused(msg)

	var req *widget.Request
	if m.focus == 0 {
		req = m.coord.SetLetters(m.letters.Value())
	} else {
		i := m.focus - 1
		req = m.coord.SetSlot(i, m.slots[i].Value())
		if msg.Type == tea.KeyRunes && m.slots[i].Value() != "" && i+1 < len(m.slots) {
			m.setFocus(m.focus + 1)
		}
	}
	return m, tea.Batch(cmd, m.search(req))
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == 0 {
		m.letters, cmd = m.letters.Update(msg)
	} else {
		m.slots[m.focus-1], cmd = m.slots[m.focus-1].Update(msg)
	}
	return cmd
}

// search turns an issued request into a command; nil means nothing was issued.
func (m *Model) search(req *widget.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	r := *req
	m.inflight++
	ctx, coord := m.ctx, m.coord
	return func() tea.Msg {
		return searchDoneMsg(coord.Fetch(ctx, r))
	}
}

func (m *Model) setFocus(i int) {
	n := len(m.slots) + 1
	m.focus = ((i % n) + n) % n

	m.letters.Blur()
	for j := range m.slots {
		m.slots[j].Blur()
	}
	if m.focus == 0 {
		m.letters.Focus()
	} else {
		m.slots[m.focus-1].Focus()
	}
}

func (m *Model) setSlotInputs(values []string) {
	if len(values) != len(m.slots) {
		m.slots = make([]textinput.Model, len(values))
		for i := range m.slots {
			in := textinput.New()
			in.Prompt = ""
			in.Placeholder = string(widget.Wildcard)
			in.CharLimit = 1
			in.Width = 1
			m.slots[i] = in
		}
	}
	for i, v := range values {
		m.slots[i].SetValue(v)
	}
	m.setFocus(min(m.focus, len(m.slots)))
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("wordscape"))
	b.WriteString("\n\n")

	box := m.styles.field
	switch {
	case m.invalid:
		box = m.styles.invalid
	case m.focus == 0:
		box = m.styles.focused
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.label.Render("Letters"), box.Render(m.letters.View())))
	b.WriteString("\n")

	cells := make([]string, 0, len(m.slots)+1)
	cells = append(cells, m.styles.label.Render("Pattern"))
	for i, in := range m.slots {
		st := m.styles.slot
		if m.focus == i+1 {
			st = m.styles.slotFocused
		}
		cells = append(cells, st.Render(in.View()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, cells...))
	b.WriteString("\n")

	status := fmt.Sprintf("%d letters", m.patternLen)
	if m.invalid {
		status += " · need more letters"
	}
	if m.inflight > 0 {
		status += " · searching"
	}
	b.WriteString(m.styles.status.Render(status))
	b.WriteString("\n\n")

	b.WriteString(m.renderResults())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderResults lays the words out in columns, in result order row by row.
func (m *Model) renderResults() string {
	if len(m.results) == 0 {
		return m.styles.status.Render("no results")
	}
	cell := 0
	for _, w := range m.results {
		cell = max(cell, lipgloss.Width(w))
	}
	st := m.styles.result.Width(cell + 2)
	cols := max(1, m.width/(cell+2))

	var rows []string
	for i := 0; i < len(m.results); i += cols {
		end := min(i+cols, len(m.results))
		row := make([]string, 0, end-i)
		for _, w := range m.results[i:end] {
			row = append(row, st.Render(w))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderer is the widget.Renderer side of Model.
type renderer struct {
	m *Model
}

func (r renderer) ClearResults() { r.m.results = r.m.results[:0] }
func (r renderer) AppendResult(item string) { r.m.results = append(r.m.results, item) }
func (r renderer) SetInvalid(invalid bool) { r.m.invalid = invalid }
func (r renderer) SetPatternLength(n int) { r.m.patternLen = n }
func (r renderer) SetSlots(values []string) { r.m.setSlotInputs(values) }
func (r renderer) SetLetters(letters string) { r.m.letters.SetValue(letters) }

// Run starts the widget on the terminal and blocks until the user quits or
// ctx is done.
func Run(ctx context.Context, searcher widget.Searcher, slots int, opts ...tea.ProgramOption) error {
	m := New(ctx, searcher, slots)
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
