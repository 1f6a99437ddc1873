package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// chromeHeight is the number of lines below the transcript: input and help bar.
const chromeHeight = 2

// Model is the Bubble Tea model for the interactive command loop.
// The transcript scrolls above a single-line command input.
type Model struct {
	exec     Executor
	input    textinput.Model
	viewport viewport.Model
	help     help.Model
	keys     replKeys

	prefix  string
	divider string
	echo    bool

	transcript []string // Prefixed display lines, unstyled.
	started    bool
	done       bool
	err        error
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithPrefix sets the prefix prepended to every transcript line.
func WithPrefix(prefix string) ModelOption {
	return func(m *Model) { m.prefix = prefix }
}

// WithDivider sets the line printed after each result.
func WithDivider(divider string) ModelOption {
	return func(m *Model) { m.divider = divider }
}

// WithEcho enables echoing each command into the transcript.
func WithEcho(echo bool) ModelOption {
	return func(m *Model) { m.echo = echo }
}

// WithIntro seeds the transcript with startup messages.
func WithIntro(msgs ...string) ModelOption {
	return func(m *Model) { m.appendMessages(msgs...) }
}

// NewModel creates a Model that runs commands through exec.
func NewModel(exec Executor, opts ...ModelOption) Model {
	in := textinput.New()
	in.Prompt = "Enter command: "
	in.Focus()

	m := Model{
		exec:     exec,
		input:    in,
		viewport: viewport.New(80, 20),
		help:     help.New(),
		keys:     ReplKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.started = true
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 1)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		m.started = true
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.appendMessages(GoodbyeMessages(m.divider)...)
			m.done = true
			m.refresh()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit executes the current input line.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	if IsIgnorable(line) {
		return m, nil
	}

	if m.echo {
		m.appendMessages(EchoLine(line))
	}
	res, err := m.exec.Execute(line)
	if err != nil {
		m.err = err
		m.done = true
		m.refresh()
		return m, tea.Quit
	}
	m.appendMessages(ResultMessages(res, m.divider)...)
	m.refresh()
	if res.Exit {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) appendMessages(msgs ...string) {
	m.transcript = append(m.transcript, Lines(m.prefix, msgs...)...)
}

// refresh re-renders the transcript into the viewport, pinned to the bottom.
func (m *Model) refresh() {
	styled := make([]string, len(m.transcript))
	for i, line := range m.transcript {
		styled[i] = m.styleLine(line)
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) styleLine(line string) string {
	body := strings.TrimPrefix(line, m.prefix)
	var style lipgloss.Style
	switch {
	case m.divider != "" && body == m.divider:
		style = dividerStyle
	case strings.HasPrefix(body, "[Command entered:"):
		style = echoStyle
	case isErrorFeedback(body):
		style = errorStyle
	default:
		style = bodyStyle
	}
	return prefixStyle.Render(m.prefix) + style.Render(body)
}

// Transcript returns the unstyled lines shown so far.
func (m Model) Transcript() []string {
	return append([]string(nil), m.transcript...)
}

// Err returns the fatal error that ended the session, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the transcript, the input line, and the help bar.
func (m Model) View() string {
	if m.done {
		return m.viewport.View() + "\n"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.input.View(),
		m.help.View(m.keys),
	)
}
