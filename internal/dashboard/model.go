// Package dashboard renders a live-updating view of a reconciliation plan
// as its steps execute: a bubbletea Model fed by messages rather than
// polling, styled with lipgloss, with a bubbles spinner marking the
// in-flight step.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/danrasband/reconcile/internal/engine"
)

// rowState is the lifecycle of one plan step's row.
type rowState int

const (
	rowPending rowState = iota
	rowRunning
	rowDone
	rowFailed
)

type row struct {
	step  engine.TransitionStep
	state rowState
	note  string
}

// Model is a bubbletea model tracking one reconciliation run. Construct it
// with NewModel before the run starts, send StepDoneMsg as each step's
// StepResult becomes known (typically from a handler subscribed to the
// Executor's step.completed and step.failed events), then send DoneMsg
// once the run finishes.
type Model struct {
	rows    []row
	cursor  int
	spinner spinner.Model
	done    bool
}

// StepDoneMsg reports that the step at Index has finished executing.
type StepDoneMsg struct {
	Index  int
	Result engine.StepResult
}

// DoneMsg reports that every step in the plan has been dispatched.
type DoneMsg struct{}

// NewModel builds a dashboard for plan. The first row starts as running;
// every other row starts pending.
func NewModel(plan engine.Plan) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	rows := make([]row, len(plan))
	for i, step := range plan {
		rows[i] = row{step: step, state: rowPending}
	}
	if len(rows) > 0 {
		rows[0].state = rowRunning
	}

	return Model{rows: rows, spinner: s}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case StepDoneMsg:
		if msg.Index >= 0 && msg.Index < len(m.rows) {
			r := &m.rows[msg.Index]
			if msg.Result.Exception != nil {
				r.state = rowFailed
				r.note = msg.Result.Exception.Error()
			} else {
				r.state = rowDone
				r.note = fmt.Sprintf("%v", msg.Result.ExecutionResult)
			}
		}
		if msg.Index+1 < len(m.rows) {
			m.rows[msg.Index+1].state = rowRunning
		}
		return m, nil
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("reconcile"))
	b.WriteString("\n")

	for _, r := range m.rows {
		var marker string
		switch r.state {
		case rowDone:
			marker = okStyle.Render("✓")
		case rowFailed:
			marker = failStyle.Render("✗")
		case rowRunning:
			marker = m.spinner.View()
		default:
			marker = mutedStyle.Render("·")
		}

		line := fmt.Sprintf("%s %s", marker, pathStyle.Render(r.step.Path.String()))
		if r.note != "" {
			line += "  " + mutedStyle.Render(r.note)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.done {
		b.WriteString(mutedStyle.Render("done"))
		b.WriteString("\n")
	}

	return b.String()
}
