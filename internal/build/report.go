package build

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"spvbuild/internal/model"
)

// GenerateReport renders a summary table of a build pass. Styles are bound
// to w, so output written to a pipe or file carries no escape codes.
func GenerateReport(report *model.BuildReport, verbose bool, w io.Writer) string {
	r := lipgloss.NewRenderer(w)

	titleStyle := r.NewStyle().Bold(true)
	okStyle := r.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle := r.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle := r.NewStyle().Foreground(lipgloss.Color("240"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Shader build report"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("source:   %s", report.SourceDir)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("compiler: %s", report.Compiler)))
	sb.WriteString("\n\n")

	if len(report.Results) == 0 {
		sb.WriteString("No .vert or .frag files found.\n")
		return sb.String()
	}

	nameWidth := 4
	for _, res := range report.Results {
		if n := len(res.File); n > nameWidth {
			nameWidth = n
		}
	}

	for _, res := range report.Results {
		icon := model.StatusIcon(res)
		style := okStyle
		if !res.OK() {
			style = failStyle
		}

		status := "ok"
		switch {
		case res.Error != "":
			status = "not started"
		case res.ExitCode != 0:
			status = fmt.Sprintf("exit %d", res.ExitCode)
		}

		line := fmt.Sprintf("%s %-*s  %-8s  %-11s  %s",
			icon, nameWidth, res.File, res.Stage, status, filepath.Base(res.Output))
		sb.WriteString(style.Render(line))
		if verbose {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  (%s)", res.Duration.Round(time.Millisecond))))
			if res.Error != "" {
				sb.WriteString("\n    ")
				sb.WriteString(dimStyle.Render(res.Error))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	failed := report.Failed()
	summary := fmt.Sprintf("%d shader(s), %d failed", len(report.Results), failed)
	if failed > 0 {
		sb.WriteString(failStyle.Render(summary))
	} else {
		sb.WriteString(okStyle.Render(summary))
	}
	sb.WriteString("\n")
	return sb.String()
}

// WriteJSON encodes the report as indented JSON.
func WriteJSON(w io.Writer, report *model.BuildReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
