package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/autoalbum/internal/wizard"
)

// ViewState is the screen the model is rendering.
type ViewState int

const (
	LoadingView ViewState = iota
	SelectView
	ConfirmView
	TextView
	DoneView
)

const (
	defaultWidth  = 80
	defaultHeight = 20
)

// Model renders a [wizard.Wizard] one question at a time.
//
// Answers are handed to the wizard from a [tea.Cmd] since they may call the Photos API.
type Model struct {
	ctx     context.Context
	wizard  *wizard.Wizard
	current wizard.Question
	view    ViewState
	err     error
	started bool
	aborted bool

	list    list.Model
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width, height int
}

// NewModel creates a [Model] driving w. ctx bounds every wizard call.
func NewModel(ctx context.Context, w *wizard.Wizard) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.warn

	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 60

	return Model{
		ctx:     ctx,
		wizard:  w,
		view:    LoadingView,
		input:   ti,
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

// Done reports whether the wizard finished.
func (m Model) Done() bool { return m.view == DoneView }

// Aborted reports whether the user quit before the wizard finished.
func (m Model) Aborted() bool { return m.aborted }

// Err returns the last error reported by the wizard.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start())
}

func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		q, err := m.wizard.Start(m.ctx)
		return questionMsg(q, err)
	}
}

func (m Model) submit(answer string) tea.Cmd {
	return func() tea.Msg {
		q, err := m.wizard.Answer(m.ctx, answer)
		return questionMsg(q, err)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.view == SelectView {
			m.list.SetSize(msg.Width, m.listHeight())
		}
		return m, nil
	case Msg:
		return m.handleMsg(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgQuestion:
		data := msg.data.(questionData)
		m.err = data.err
		if data.err != nil && !m.started {
			m.aborted = true
			return m, tea.Quit
		}
		m.started = true
		return m.ask(data.question)
	}
	return m, nil
}

// ask switches to the view for q. An unchanged question after an error is re-asked.
func (m Model) ask(q wizard.Question) (tea.Model, tea.Cmd) {
	m.current = q
	if q.State == wizard.Done {
		m.view = DoneView
		return m, tea.Quit
	}

	switch q.Kind {
	case wizard.Select:
		m.list = newChoiceList(q, m.width, m.listHeight())
		m.view = SelectView
	case wizard.Confirm:
		m.view = ConfirmView
	case wizard.Text:
		m.input.Reset()
		m.input.Placeholder = q.Default
		m.input.Focus()
		m.view = TextView
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case LoadingView, DoneView:
		if key.Matches(msg, m.keys.quit) {
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil
	case SelectView:
		return m.handleSelectKey(msg)
	case ConfirmView:
		return m.handleConfirmKey(msg)
	case TextView:
		return m.handleTextKey(msg)
	}
	return m, nil
}

func (m Model) handleSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		item, ok := m.list.SelectedItem().(choiceItem)
		if !ok {
			return m, nil
		}
		m.view = LoadingView
		return m, m.submit(item.choice.Value)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer string
	switch {
	case key.Matches(msg, m.keys.quit):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes):
		answer = wizard.Yes
	case key.Matches(msg, m.keys.no):
		answer = wizard.No
	case key.Matches(msg, m.keys.enter):
		answer = m.current.Default
	default:
		return m, nil
	}

	m.view = LoadingView
	return m, m.submit(answer)
}

func (m Model) handleTextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.abort):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		m.input.Blur()
		m.view = LoadingView
		return m, m.submit(strings.TrimSpace(m.input.Value()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) listHeight() int {
	if h := m.height - 4; h > 5 {
		return h
	}
	return 5
}

func (m Model) View() string {
	var b strings.Builder

	switch m.view {
	case LoadingView:
		fmt.Fprintf(&b, "%s Working...\n", m.spinner.View())
	case SelectView:
		b.WriteString(m.list.View())
		b.WriteString("\n")
	case ConfirmView:
		b.WriteString(styles.prompt.Render(m.current.Prompt))
		yes, no := "y", "n"
		if m.current.Default == wizard.Yes {
			yes = "Y"
		} else {
			no = "N"
		}
		fmt.Fprintf(&b, " [%s/%s]\n", yes, no)
	case TextView:
		b.WriteString(styles.prompt.Render(m.current.Prompt))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case DoneView:
		b.WriteString(styles.ok.Render("Configuration complete."))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.err.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	if m.view != DoneView {
		b.WriteString("\n")
		b.WriteString(styles.help.Render(m.help.View(m.keys)))
	}

	return b.String()
}
