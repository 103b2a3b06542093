package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// minRuleLength is the shortest rule drawn after a message header.
const minRuleLength = 4

// FormatMessageHeader formats the line drawn above a message, e.g.
// "── assistant (3 blocks) ────────".
func (s *Styles) FormatMessageHeader(role string, blocks, width int) string {
	label := s.roleStyle(role).Render(role)
	detail := s.Dim.Render(fmt.Sprintf(" (%d %s)", blocks, plural(blocks, "block", "blocks")))

	head := s.Rule.Render("── ") + label + detail + " "
	fill := max(width-lipgloss.Width(head), minRuleLength)
	return head + s.Rule.Render(strings.Repeat("─", fill))
}

func (s *Styles) roleStyle(role string) lipgloss.Style {
	switch role {
	case "user":
		return s.RoleUser
	case "assistant":
		return s.RoleAssistant
	case "system":
		return s.RoleSystem
	default:
		return s.Bold
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
