package header

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/themikhailova/niti/domain"
	"github.com/themikhailova/niti/ui/common"
	"github.com/themikhailova/niti/util"
)

var (
	brandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_ACCENT)).
			Bold(true)

	identityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_USERNAME))

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_WHITE)).
			Bold(true)

	barStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color(common.COLOR_DIM))
)

var tabs = []struct {
	state common.SessionState
	label string
}{
	{common.FeedView, "feed"},
	{common.SearchView, "search"},
	{common.ProfileView, "profile"},
}

// Render draws the top bar: brand, tab row and the signed-in identity.
func Render(user *domain.User, active common.SessionState, width int) string {
	left := brandStyle.Render(util.Name)

	var parts []string
	for _, tab := range tabs {
		if tab.state == active {
			parts = append(parts, activeTabStyle.Render(tab.label))
		} else {
			parts = append(parts, tabStyle.Render(tab.label))
		}
	}
	middle := strings.Join(parts, "  ")

	right := ""
	if user != nil {
		right = identityStyle.Render("@" + user.Username)
	}

	line := left + "   " + middle
	gap := width - lipgloss.Width(line) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line += strings.Repeat(" ", gap) + right

	return barStyle.Width(width).Render(line)
}
