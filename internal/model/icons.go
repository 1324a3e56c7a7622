package model

// Status icons for report rows and the progress view.
// Single-width characters keep terminal columns aligned.
const (
	IconOK      = "✓"
	IconFailed  = "✗"
	IconMissing = "?" // Compiler could not be started
	IconPending = "·"
)

// StatusIcon picks the icon for a result.
func StatusIcon(r Result) string {
	switch {
	case r.Error != "":
		return IconMissing
	case r.ExitCode != 0:
		return IconFailed
	default:
		return IconOK
	}
}
