// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Message headers
	RoleUser      lipgloss.Style
	RoleAssistant lipgloss.Style
	RoleSystem    lipgloss.Style
	Rule          lipgloss.Style

	// Selected text inside a block
	Highlight lipgloss.Style

	// Reconcile stats
	Inserted   lipgloss.Style
	Removed    lipgloss.Style
	Changed    lipgloss.Style
	Divergence lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Warning      lipgloss.Style
	Error        lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		RoleUser:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		RoleAssistant: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		RoleSystem:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		Rule:          lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Highlight: lipgloss.NewStyle().Reverse(true),

		Inserted:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Removed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Changed:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Divergence: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Warning:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		RoleUser:       plain,
		RoleAssistant:  plain,
		RoleSystem:     plain,
		Rule:           plain,
		Highlight:      plain,
		Inserted:       plain,
		Removed:        plain,
		Changed:        plain,
		Divergence:     plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Warning:        plain,
		Error:          plain,
		TableHeader:    plain,
		TableSeparator: plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
