package tui

import (
	"spvbuild/internal/build"
	"spvbuild/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel holds the progress view state.
type AppModel struct {
	// Data
	Runner  *build.Runner
	Plan    *build.Plan
	Results []model.Result
	Err     error

	// UI State
	Current    int  // Index into Plan.Invocations of the running compile
	Busy       bool // A prepare or compile command is outstanding
	Done       bool
	Aborted    bool
	WindowSize tea.WindowSizeMsg

	// Components
	Spinner spinner.Model
}

// InitialModel returns the initial state.
func InitialModel(r *build.Runner) AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	// Init always starts with the prepare command.
	return AppModel{
		Runner:  r,
		Busy:    true,
		Spinner: s,
	}
}

// Report assembles a build report from the results collected so far.
func (m AppModel) Report() *model.BuildReport {
	report := &model.BuildReport{Results: m.Results}
	if m.Plan != nil {
		report.SourceDir = m.Plan.SourceDir
		report.Compiler = m.Plan.Compiler
	}
	return report
}
