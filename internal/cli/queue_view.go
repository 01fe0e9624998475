package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pkoziel/dayflow/internal/app"
	"github.com/pkoziel/dayflow/internal/cli/formatter"
	"github.com/pkoziel/dayflow/internal/service"
)

// planLoadedMsg signals that plan data has been loaded.
type planLoadedMsg struct {
	resp *app.PlanResponse
	err  error
}

// taskActedMsg signals that a complete or postpone round-tripped.
type taskActedMsg struct {
	note string
	err  error
}

type queueKeymap struct {
	Up       key.Binding
	Down     key.Binding
	Complete key.Binding
	Postpone key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func newQueueKeymap() queueKeymap {
	return queueKeymap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Complete: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
		Postpone: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "postpone")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// queueModel is the interactive ranked-queue view.
type queueModel struct {
	app     *App
	req     app.PlanRequest
	keys    queueKeymap
	resp    *app.PlanResponse
	cursor  int
	loading bool
	note    string
	err     error
	width   int
}

func newQueueModel(a *App, req app.PlanRequest) *queueModel {
	return &queueModel{
		app:     a,
		req:     req,
		keys:    newQueueKeymap(),
		loading: true,
	}
}

func (m *queueModel) Init() tea.Cmd {
	return m.loadPlan()
}

func (m *queueModel) loadPlan() tea.Cmd {
	a := m.app
	req := m.req
	return func() tea.Msg {
		resp, err := a.Planner.Plan(context.Background(), req)
		return planLoadedMsg{resp: resp, err: err}
	}
}

func (m *queueModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case planLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.resp = msg.resp
			if m.cursor >= len(m.resp.Ranked) {
				m.cursor = 0
			}
		}
		return m, nil

	case taskActedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.note = msg.note
		m.loading = true
		return m, m.loadPlan()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.resp != nil && m.cursor < len(m.resp.Ranked)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			m.note = ""
			return m, m.loadPlan()
		case key.Matches(msg, m.keys.Complete):
			return m, m.completeCurrent()
		case key.Matches(msg, m.keys.Postpone):
			return m, m.postponeCurrent()
		}
	}
	return m, nil
}

func (m *queueModel) currentTaskID() (string, string, bool) {
	if m.resp == nil || m.cursor >= len(m.resp.Ranked) {
		return "", "", false
	}
	task := m.resp.Ranked[m.cursor].Task
	return task.ID, task.Title, true
}

func (m *queueModel) completeCurrent() tea.Cmd {
	id, title, ok := m.currentTaskID()
	if !ok {
		return nil
	}
	a := m.app
	energy, focus := m.req.Energy, m.req.Focus
	return func() tea.Msg {
		err := a.Tasks.Complete(context.Background(), id, service.CompleteInput{
			Energy: energy,
			Focus:  focus,
		})
		return taskActedMsg{note: fmt.Sprintf("Completed %q", title), err: err}
	}
}

func (m *queueModel) postponeCurrent() tea.Cmd {
	id, title, ok := m.currentTaskID()
	if !ok {
		return nil
	}
	a := m.app
	return func() tea.Msg {
		_, err := a.Tasks.Postpone(context.Background(), id, "")
		return taskActedMsg{note: fmt.Sprintf("Postponed %q", title), err: err}
	}
}

func (m *queueModel) View() string {
	var b strings.Builder

	b.WriteString(formatter.Header("Today's Queue"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(formatter.Dim("Planning..."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.resp == nil || len(m.resp.Ranked) == 0:
		b.WriteString(formatter.Dim("Nothing left. Go outside."))
		b.WriteString("\n")
	default:
		for i, r := range m.resp.Ranked {
			marker := "  "
			if i == m.cursor {
				marker = formatter.StyleHeader.Render("> ")
			}
			line := fmt.Sprintf("%s%s  %s  %s",
				marker,
				formatter.StyleFg.Render(r.Task.Title),
				formatter.PriorityBadge(r.Task.Priority),
				formatter.LoadDots(r.Task.CognitiveLoad),
			)
			b.WriteString(line + "\n")
		}
	}

	if m.note != "" {
		b.WriteString("\n" + formatter.StyleGreen.Render(m.note) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m *queueModel) helpLine() string {
	bindings := []key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Complete,
		m.keys.Postpone, m.keys.Refresh, m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, fmt.Sprintf("%s %s",
			formatter.StyleFg.Render(kb.Help().Key),
			formatter.Dim(kb.Help().Desc)))
	}
	return strings.Join(parts, formatter.Dim("  ·  "))
}

func newQueueCmd(a *App) *cobra.Command {
	var energy, focus int

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Work through today's queue interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				return fmt.Errorf("queue needs a terminal; use 'dayflow plan' instead")
			}
			req := app.NewPlanRequest(energy, focus)
			program := tea.NewProgram(newQueueModel(a, req), tea.WithAltScreen())
			_, err := program.Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&energy, "energy", "e", 3, "Current energy level (1-5)")
	cmd.Flags().IntVarP(&focus, "focus", "f", 3, "Current focus level (1-5)")

	return cmd
}
