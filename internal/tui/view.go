package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"spvbuild/internal/build"
	"spvbuild/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")) // Pinkish

	okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Grey

	errorStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("208")) // Orange
)

func (m AppModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("spvbuild"))
	sb.WriteString("\n\n")

	if m.Err != nil {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		sb.WriteString("\n")
		return sb.String()
	}

	if m.Plan == nil {
		sb.WriteString(m.Spinner.View() + " Resolving shader directory...\n")
		return sb.String()
	}

	sb.WriteString(dimStyle.Render(m.Plan.SourceDir))
	sb.WriteString("\n\n")

	if len(m.Plan.Invocations) == 0 {
		sb.WriteString("No .vert or .frag files found.\n")
		return sb.String()
	}

	for i, inv := range m.Plan.Invocations {
		switch {
		case i < len(m.Results):
			res := m.Results[i]
			line := model.StatusIcon(res) + " " + build.Confirmation(inv.File.Name)
			if res.OK() {
				sb.WriteString(okStyle.Render(line))
			} else {
				sb.WriteString(failStyle.Render(line + failureNote(res)))
			}
		case i == m.Current && m.Busy:
			sb.WriteString(m.Spinner.View() + " Compiling " + inv.File.Name)
		default:
			sb.WriteString(dimStyle.Render(model.IconPending + " " + inv.File.Name))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	total := len(m.Plan.Invocations)
	switch {
	case m.Aborted && m.Busy:
		sb.WriteString(dimStyle.Render("Stopping after the current shader..."))
	case m.Aborted:
		sb.WriteString(dimStyle.Render(fmt.Sprintf("Stopped after %d of %d.", len(m.Results), total)))
	case m.Done:
		sb.WriteString(dimStyle.Render(fmt.Sprintf("%d attempted, %d failed.", total, m.Report().Failed())))
	default:
		sb.WriteString(dimStyle.Render(fmt.Sprintf("%d/%d  q: quit", len(m.Results), total)))
	}
	sb.WriteString("\n")
	return sb.String()
}

func failureNote(res model.Result) string {
	if res.Error != "" {
		return " (compiler not started)"
	}
	return fmt.Sprintf(" (exit %d)", res.ExitCode)
}
