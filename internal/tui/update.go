package tui

import (
	"spvbuild/internal/build"
	"spvbuild/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// MsgPlanReady indicates that the source directory and compiler were resolved.
type MsgPlanReady struct{ Plan *build.Plan }

// MsgCompiled carries the result of one compiler invocation.
type MsgCompiled model.Result

// MsgError indicates a fatal setup error.
type MsgError struct{ Err error }

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, PrepareCmd(m.Runner))
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		return m, nil

	case MsgError:
		m.Busy = false
		m.Err = msg.Err
		m.Done = true
		return m, tea.Quit

	case MsgPlanReady:
		m.Busy = false
		m.Plan = msg.Plan
		if m.Aborted {
			return m, tea.Quit
		}
		if len(m.Plan.Invocations) == 0 {
			m.Done = true
			return m, tea.Quit
		}
		m.Current = 0
		m.Busy = true
		return m, CompileCmd(m.Runner, m.Plan.Invocations[0])

	case MsgCompiled:
		m.Busy = false
		m.Results = append(m.Results, model.Result(msg))
		m.Current++
		if m.Aborted {
			return m, tea.Quit
		}
		// Strictly sequential: the next compiler starts only once the
		// previous result has arrived.
		if m.Current < len(m.Plan.Invocations) {
			m.Busy = true
			return m, CompileCmd(m.Runner, m.Plan.Invocations[m.Current])
		}
		m.Done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Aborted = true
			// A running compiler is left to finish so its output and
			// result are collected before the program exits.
			if m.Busy {
				return m, nil
			}
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Spinner, cmd = m.Spinner.Update(msg)
	return m, cmd
}

// PrepareCmd resolves the build plan in the background.
func PrepareCmd(r *build.Runner) tea.Cmd {
	return func() tea.Msg {
		plan, err := r.Prepare()
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgPlanReady{Plan: plan}
	}
}

// CompileCmd runs one invocation in the background.
func CompileCmd(r *build.Runner, inv model.CompilerInvocation) tea.Cmd {
	return func() tea.Msg {
		return MsgCompiled(r.Invoke(inv))
	}
}
