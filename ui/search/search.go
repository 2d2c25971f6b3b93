package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/themikhailova/niti/api"
	"github.com/themikhailova/niti/domain"
	"github.com/themikhailova/niti/listsync"
	"github.com/themikhailova/niti/ui/common"
)

var (
	usernameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_USERNAME)).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_WHITE)).
			Background(lipgloss.Color(common.COLOR_ACCENT)).
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM)).
			Italic(true)
)

type Model struct {
	Api      *api.Client
	Input    textinput.Model
	List     listsync.List[domain.SearchUser]
	Popular  bool // current results are the popular set, not matches
	Selected int
	Width    int
	Height   int
}

func InitialModel(client *api.Client, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "search users"
	ti.CharLimit = 64
	ti.Width = common.TextInputDefaultWidth
	ti.Focus()

	return Model{
		Api:    client,
		Input:  ti,
		List:   listsync.New(func(u domain.SearchUser) int64 { return u.Id }),
		Width:  width,
		Height: height,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// searchResultMsg resolves one search request. The generation token ties it
// to the input value current when it was issued; results for superseded
// keystrokes are dropped.
type searchResultMsg struct {
	gen  uint64
	resp *api.SearchResponse
	err  error
}

// Open runs the search for the current input value. Called when the view
// gains focus; with an empty box this yields the popular-users list.
func (m Model) Open() (Model, tea.Cmd) {
	return m.beginSearch()
}

// beginSearch issues a fresh page-1 search for the input value. The selector
// is prefixed so that an empty query still yields a valid selector.
func (m Model) beginSearch() (Model, tea.Cmd) {
	query := strings.TrimSpace(m.Input.Value())
	gen := m.List.BeginLoad("q:" + query)
	if gen == 0 {
		return m, nil
	}
	m.Selected = 0
	return m, runSearch(m.Api, query, gen)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultMsg:
		if msg.err != nil {
			if !m.List.ApplyLoad(msg.gen, nil, false, 0, msg.err.Error()) {
				return m, nil
			}
			if api.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			return m, nil
		}
		// Exactly one of the two sets is shown, never a merge
		items := msg.resp.Users
		popular := msg.resp.Query == ""
		if popular {
			items = msg.resp.PopularUsers
		}
		if !m.List.ApplyLoad(msg.gen, items, msg.resp.HasMore, len(items), "") {
			return m, nil
		}
		m.Popular = popular
		if m.Selected >= len(m.List.Items) {
			m.Selected = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			if m.Selected > 0 {
				m.Selected--
			}
			return m, nil
		case "down":
			if len(m.List.Items) > 0 && m.Selected < len(m.List.Items)-1 {
				m.Selected++
			}
			return m, nil
		case "enter":
			if len(m.List.Items) > 0 && m.Selected < len(m.List.Items) {
				username := m.List.Items[m.Selected].Username
				return m, func() tea.Msg {
					return common.ViewProfileMsg{Username: username}
				}
			}
			return m, nil
		case "esc":
			return m, func() tea.Msg { return common.BackToFeedMsg{} }
		}

		// Any other key edits the query; a changed value restarts the
		// search and the generation bump orphans the in-flight one
		before := m.Input.Value()
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		if m.Input.Value() != before {
			var searchCmd tea.Cmd
			m, searchCmd = m.beginSearch()
			return m, tea.Batch(cmd, searchCmd)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render("search"))
	s.WriteString("\n\n")
	s.WriteString(m.Input.View())
	s.WriteString("\n\n")

	switch {
	case m.List.Loading:
		s.WriteString(emptyStyle.Render("Searching..."))
	case m.List.Err != "":
		s.WriteString(common.ListErrorStyle.Render("Error: " + m.List.Err))
	case len(m.List.Items) == 0:
		s.WriteString(emptyStyle.Render("No users found."))
	default:
		if m.Popular {
			s.WriteString(common.ListBadgeStyle.Render("popular right now"))
			s.WriteString("\n")
		}
		for i, u := range m.List.Items {
			s.WriteString(m.renderUser(u, i == m.Selected))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(common.FooterStyle.Render("enter: open profile · esc: back"))
	return s.String()
}

func (m Model) renderUser(u domain.SearchUser, selected bool) string {
	detail := fmt.Sprintf("%d followers · %d posts", u.FollowersCount, u.PostsCount)
	if len(u.Interests) > 0 {
		detail += " · " + strings.Join(u.Interests, ", ")
	}
	if selected {
		return selectedStyle.Render("@"+u.Username) + "  " + detailStyle.Render(detail)
	}
	return usernameStyle.Render("@"+u.Username) + "  " + detailStyle.Render(detail)
}

func runSearch(client *api.Client, query string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Search(context.Background(), query, 1)
		return searchResultMsg{gen: gen, resp: resp, err: err}
	}
}

func expireSession() tea.Msg {
	return common.SessionExpiredMsg{}
}
