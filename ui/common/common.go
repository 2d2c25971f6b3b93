package common

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/themikhailova/niti/domain"
)

// Terminal color palette (ANSI256 indices as strings for lipgloss).
const (
	COLOR_ACCENT    = "63"
	COLOR_SECONDARY = "99"
	COLOR_USERNAME  = "75"
	COLOR_DIM       = "241"
	COLOR_WHITE     = "255"
	COLOR_SUCCESS   = "42"
	COLOR_ERROR     = "196"
)

// Layout constants shared across views.
const (
	DefaultItemsPerPage   = 10
	TextInputDefaultWidth = 40
	FooterHeight          = 2
)

// SessionState identifies the active view. Sending one as a tea.Msg asks the
// main model to switch to it.
type SessionState int

const (
	LoginView SessionState = iota
	FeedView
	ComposeView
	ProfileView
	SearchView
	SettingsView
)

// ViewProfileMsg asks the main model to open a user's profile.
type ViewProfileMsg struct {
	Username string
}

// PostCreatedMsg announces a server-confirmed new post. The feed prepends
// the canonical item carried here; nothing is inserted before confirmation.
type PostCreatedMsg struct {
	Post domain.Post
}

// LoggedInMsg publishes the authenticated identity after login.
type LoggedInMsg struct {
	User domain.User
}

// IdentityUpdatedMsg replaces the session identity after a profile edit.
type IdentityUpdatedMsg struct {
	User domain.User
}

// BackToFeedMsg returns focus to the feed view. Err, when set, is shown
// there (a profile that failed to load, for example).
type BackToFeedMsg struct {
	Err string
}

// SessionExpiredMsg is emitted when any gateway call comes back 401; the
// main model drops to the login view.
type SessionExpiredMsg struct{}

// LoggedOutMsg follows a completed logout.
type LoggedOutMsg struct{}

var (
	CaptionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_SECONDARY)).
			Bold(true)

	ListStatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_SUCCESS))

	ListErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_ERROR))

	ListBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_DIM)).
			Italic(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(COLOR_DIM))
)

// DefaultWindowWidth substitutes a sane width when the terminal reports none.
func DefaultWindowWidth(width int) int {
	if width <= 0 {
		return 100
	}
	return width
}

// DefaultWindowHeight substitutes a sane height when the terminal reports none.
func DefaultWindowHeight(height int) int {
	if height <= 0 {
		return 30
	}
	return height
}

// ContentWidth is the usable width for post content inside a panel.
func ContentWidth(width int) int {
	w := width - 4
	if w < 20 {
		return 20
	}
	return w
}
