// Package progress renders a live bubbletea progress bar while CI Lens
// ingests pipeline history, falling back to plain log lines when
// stdout is not a terminal.
package progress

import (
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Bold(true)
)

// StepMsg reports that one more unit of work (a fetched pipeline's
// jobs) has completed.
type StepMsg struct{}

// DoneMsg signals that ingestion has finished and the program should
// exit.
type DoneMsg struct{}

// Model is the bubbletea state for the ingestion progress bar.
type Model struct {
	bar       progress.Model
	total     int
	completed int
	done      bool
}

// NewModel builds a progress Model tracking total units of work.
func NewModel(total int) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30
	return Model{bar: bar, total: total}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case StepMsg:
		m.completed++
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.completed) / float64(m.total)
	}
	title := titleStyle.Render("cilens")
	label := labelStyle.Render(fmt.Sprintf("%d/%d pipelines", m.completed, m.total))
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Left, label, " ", m.bar.ViewAs(ratio)))
}

// Reporter receives progress updates from the ingestion coordinator.
// It is safe to call Step from multiple goroutines.
type Reporter interface {
	Step()
	Done()
}

// IsInteractive reports whether stdout is attached to a terminal, the
// condition under which a live bar is worth drawing (spec §2.5).
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// programReporter drives a running bubbletea program.
type programReporter struct {
	program *tea.Program
}

func (r *programReporter) Step() { r.program.Send(StepMsg{}) }
func (r *programReporter) Done() { r.program.Send(DoneMsg{}) }

// plainReporter logs each step instead of drawing a bar, used when
// stdout is not a terminal.
type plainReporter struct {
	mu     sync.Mutex
	onStep func(completed, total int)
	total  int
	count  int
}

func (r *plainReporter) Step() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	if r.onStep != nil {
		r.onStep(r.count, r.total)
	}
}
func (r *plainReporter) Done() {}

// Start begins reporting progress toward total units of work. When
// stdout is a terminal it launches a bubbletea program and returns a
// function that must be called once ingestion finishes to stop it;
// otherwise it calls onStep for every Step() and the stop function is
// a no-op.
func Start(total int, onStep func(completed, total int)) (reporter Reporter, stop func()) {
	if !IsInteractive() {
		return &plainReporter{onStep: onStep, total: total}, func() {}
	}

	program := tea.NewProgram(NewModel(total))
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = program.Run()
	}()

	r := &programReporter{program: program}
	return r, func() {
		r.Done()
		<-done
	}
}
