// Package ui is the terminal interface for the manuscript intake pipeline:
// an upload/watch screen with live stage progress, a request history table,
// and a report reader. Views are pushed and popped off a stack; the app
// model routes messages to the top view.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"amie/internal/config"
	"amie/internal/intake"
	"amie/internal/report"
)

// App is the root Bubble Tea model. It owns the view stack and handles
// navigation messages emitted by the views.
type App struct {
	client intake.Client
	cfg    config.WatchConfig
	writer *report.Writer

	stack ViewStack
	size  tea.WindowSizeMsg
}

var _ tea.Model = (*App)(nil)

// NewApp creates the app with the given root view.
func NewApp(root View, c intake.Client, cfg config.WatchConfig, w *report.Writer) *App {
	a := &App{client: c, cfg: cfg, writer: w}
	a.stack.Push(root)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.stack.Peek().Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.size = msg
		// Every view on the stack needs the new size, not just the top.
		var cmds []tea.Cmd
		for i, v := range a.stack.Stack {
			updated, cmd := v.Update(msg)
			a.stack.Stack[i] = updated
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case OpenReportMsg:
		return a, a.push(NewReportView(msg.Report, a.writer))

	case OpenWatchMsg:
		return a, a.push(NewWatchViewForRequest(a.client, a.cfg, msg.RequestID, msg.Filename))

	case BackMsg:
		a.stack.Pop()
		if a.stack.Len() == 0 {
			return a, tea.Quit
		}
		// Returning to the history screen should show fresh statuses.
		if _, ok := a.stack.Peek().(*HistoryView); ok {
			return a, fetchHistoryCmd(a.client)
		}
		return a, nil
	}

	top := a.stack.Peek()
	if top == nil {
		return a, tea.Quit
	}
	updated, cmd := top.Update(msg)
	a.stack.Stack[a.stack.Len()-1] = updated
	return a, cmd
}

// push adds a view and runs its Init, replaying the current window size so
// it lays itself out immediately.
func (a *App) push(v View) tea.Cmd {
	a.stack.Push(v)
	cmds := []tea.Cmd{v.Init()}
	if a.size.Width > 0 {
		updated, cmd := v.Update(a.size)
		a.stack.Stack[a.stack.Len()-1] = updated
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *App) View() string {
	top := a.stack.Peek()
	if top == nil {
		return ""
	}
	return top.View()
}

// Run starts the Bubble Tea program with the given root view and blocks
// until the user quits.
func Run(root View, c intake.Client, cfg config.WatchConfig, w *report.Writer) error {
	p := tea.NewProgram(NewApp(root, c, cfg, w), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
