package feed

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/themikhailova/niti/api"
	"github.com/themikhailova/niti/domain"
	"github.com/themikhailova/niti/listsync"
	"github.com/themikhailova/niti/ui/common"
	"github.com/themikhailova/niti/util"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	authorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_USERNAME)).
			Bold(true)

	ownAuthorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_SECONDARY)).
			Bold(true)

	contentStyle = lipgloss.NewStyle()

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM)).
			Italic(true)

	selectedTimeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_WHITE))

	selectedAuthorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_WHITE)).
				Bold(true)

	selectedContentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_WHITE))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	activeModeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_ACCENT)).
			Bold(true)
)

type Model struct {
	Api      *api.Client
	List     listsync.List[domain.Post]
	Mode     domain.FeedMode
	Selected int
	Width    int
	Height   int
	Status   string
	Error    string // one-shot mutation error, separate from List.Err

	confirmDelete int64 // post id armed for deletion, 0 = none
}

func InitialModel(client *api.Client, width, height int) Model {
	return Model{
		Api:      client,
		List:     listsync.New(func(p domain.Post) int64 { return p.Id }),
		Mode:     domain.ModeBalanced,
		Selected: 0,
		Width:    width,
		Height:   height,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// feedLoadedMsg resolves a page-1 load. gen ties it to the request that
// issued it; the list discards it when a newer request superseded that one.
type feedLoadedMsg struct {
	gen     uint64
	posts   []domain.Post
	hasMore bool
	total   int
	err     error
}

// feedMoreMsg resolves an append load.
type feedMoreMsg struct {
	gen     uint64
	page    int
	posts   []domain.Post
	hasMore bool
	err     error
}

// postDeletedMsg resolves a delete call.
type postDeletedMsg struct {
	id  int64
	err error
}

// Load starts (or retries) the page-1 fetch for the current mode.
func (m Model) Load() (Model, tea.Cmd) {
	gen := m.List.BeginLoad(string(m.Mode))
	if gen == 0 {
		return m, nil
	}
	m.Error = ""
	return m, loadFeed(m.Api, m.Mode, gen)
}

// switchMode resets pagination and loads page 1 under the new mode. The
// generation bump inside BeginLoad guarantees that a still-running fetch
// for the old mode can no longer touch the list.
func (m Model) switchMode(mode domain.FeedMode) (Model, tea.Cmd) {
	if mode == m.Mode && !m.List.Busy() && m.List.Err == "" && len(m.List.Items) > 0 {
		return m, nil
	}
	m.Mode = mode
	m.Selected = 0
	m.confirmDelete = 0
	return m.Load()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feedLoadedMsg:
		if !m.List.ApplyLoad(msg.gen, msg.posts, msg.hasMore, msg.total, errText(msg.err)) {
			return m, nil
		}
		if m.Selected >= len(m.List.Items) {
			m.Selected = max(0, len(m.List.Items)-1)
		}
		if api.IsUnauthorized(msg.err) {
			return m, expireSession
		}
		return m, nil

	case feedMoreMsg:
		if !m.List.ApplyLoadMore(msg.gen, msg.page, msg.posts, msg.hasMore, errText(msg.err)) {
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			return m, expireSession
		}
		return m, nil

	case common.PostCreatedMsg:
		// The item arrives here only after the server confirmed it, so
		// prepending needs no rollback path.
		m.List.Prepend(msg.Post)
		m.Selected = 0
		m.Status = "Posted"
		return m, nil

	case postDeletedMsg:
		if msg.err != nil {
			m.Error = msg.err.Error()
			if api.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			return m, nil
		}
		m.List.Remove(msg.id)
		if m.Selected >= len(m.List.Items) {
			m.Selected = max(0, len(m.List.Items)-1)
		}
		m.Status = "Deleted"
		return m, nil

	case tea.KeyMsg:
		m.Status = ""
		switch msg.String() {
		case "up", "k":
			if m.Selected > 0 {
				m.Selected--
			}
			m.confirmDelete = 0
		case "down", "j":
			if len(m.List.Items) > 0 && m.Selected < len(m.List.Items)-1 {
				m.Selected++
			}
			m.confirmDelete = 0
		case "1", "2", "3", "4":
			idx := int(msg.String()[0] - '1')
			return m.switchMode(domain.FeedModes[idx])
		case "r":
			// Manual retry; also the only way a failed load is re-attempted
			return m.Load()
		case "m":
			page, gen, ok := m.List.BeginLoadMore()
			if !ok {
				return m, nil
			}
			return m, loadMoreFeed(m.Api, m.Mode, page, gen)
		case "enter":
			if len(m.List.Items) > 0 && m.Selected < len(m.List.Items) {
				username := m.List.Items[m.Selected].Author.Username
				return m, func() tea.Msg {
					return common.ViewProfileMsg{Username: username}
				}
			}
		case "d":
			if len(m.List.Items) > 0 && m.Selected < len(m.List.Items) {
				post := m.List.Items[m.Selected]
				if post.IsOwn {
					m.confirmDelete = post.Id
				}
			}
		case "y":
			if m.confirmDelete != 0 {
				id := m.confirmDelete
				m.confirmDelete = 0
				m.Error = ""
				return m, deletePost(m.Api, id)
			}
		case "esc":
			m.confirmDelete = 0
		}
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render(fmt.Sprintf("feed (%d posts)", len(m.List.Items))))
	s.WriteString("\n")
	s.WriteString(m.modeBar())
	s.WriteString("\n\n")

	contentWidth := common.ContentWidth(m.Width)

	switch {
	case m.List.Loading:
		s.WriteString(emptyStyle.Render("Loading feed..."))
	case m.List.Err != "" && len(m.List.Items) == 0:
		s.WriteString(common.ListErrorStyle.Render("Error: " + m.List.Err))
		s.WriteString("\n")
		s.WriteString(emptyStyle.Render("Press 'r' to retry."))
	case len(m.List.Items) == 0:
		s.WriteString(emptyStyle.Render("Nothing here yet. Follow some authors to fill your feed."))
	default:
		start, end := window(m.Selected, len(m.List.Items), common.DefaultItemsPerPage)
		for i := start; i < end; i++ {
			s.WriteString(m.renderPost(m.List.Items[i], i == m.Selected, contentWidth))
			s.WriteString("\n\n")
		}
		if m.List.Err != "" {
			s.WriteString(common.ListErrorStyle.Render("Error: " + m.List.Err))
			s.WriteString("\n")
		}
		s.WriteString(m.footer())
	}

	if m.Error != "" {
		s.WriteString("\n")
		s.WriteString(common.ListErrorStyle.Render("Error: " + m.Error))
	}
	if m.Status != "" {
		s.WriteString("\n")
		s.WriteString(common.ListStatusStyle.Render(m.Status))
	}

	return s.String()
}

func (m Model) modeBar() string {
	var parts []string
	for i, mode := range domain.FeedModes {
		label := fmt.Sprintf("%d:%s", i+1, mode.Label())
		if mode == m.Mode {
			parts = append(parts, activeModeStyle.Render(label))
		} else {
			parts = append(parts, modeStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderPost(post domain.Post, selected bool, contentWidth int) string {
	timeStr := util.FormatRelativeTime(post.CreatedAt.Time)
	author := "@" + post.Author.Username
	content := util.TruncateContent(post.Content, contentWidth*3)

	if selected {
		selectedBg := lipgloss.NewStyle().
			Background(lipgloss.Color(common.COLOR_ACCENT)).
			Width(contentWidth)

		header := timeStr
		if m.confirmDelete == post.Id {
			header = timeStr + " · delete? press y"
		}

		var b strings.Builder
		b.WriteString(selectedBg.Render(selectedTimeStyle.Render(header)))
		b.WriteString("\n")
		b.WriteString(selectedBg.Render(selectedAuthorStyle.Render(author)))
		b.WriteString("\n")
		b.WriteString(selectedBg.Render(selectedContentStyle.Render(content)))
		return b.String()
	}

	plain := lipgloss.NewStyle().Width(contentWidth)

	aStyle := authorStyle
	if post.IsOwn {
		aStyle = ownAuthorStyle
	}

	var b strings.Builder
	b.WriteString(plain.Render(timeStyle.Render(timeStr)))
	b.WriteString("\n")
	b.WriteString(plain.Render(aStyle.Render(author)))
	b.WriteString("\n")
	b.WriteString(plain.Render(contentStyle.Render(content)))
	return b.String()
}

func (m Model) footer() string {
	var hints []string
	if m.List.LoadingMore {
		hints = append(hints, "loading more...")
	} else if m.List.HasMore {
		hints = append(hints, "m: load more")
	}
	hints = append(hints, "c: compose", "enter: profile", "d: delete own")
	return common.FooterStyle.Render(strings.Join(hints, " · "))
}

// window returns the visible slice bounds keeping the selection in view.
func window(selected, total, perPage int) (int, int) {
	start := 0
	if selected >= perPage {
		start = selected - perPage + 1
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return start, end
}

func loadFeed(client *api.Client, mode domain.FeedMode, gen uint64) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Feed(context.Background(), mode, 1)
		if err != nil {
			return feedLoadedMsg{gen: gen, err: err}
		}
		return feedLoadedMsg{gen: gen, posts: resp.Posts, hasMore: resp.HasMore, total: resp.Total}
	}
}

func loadMoreFeed(client *api.Client, mode domain.FeedMode, page int, gen uint64) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Feed(context.Background(), mode, page)
		if err != nil {
			return feedMoreMsg{gen: gen, page: page, err: err}
		}
		return feedMoreMsg{gen: gen, page: page, posts: resp.Posts, hasMore: resp.HasMore}
	}
}

func deletePost(client *api.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		err := client.DeletePost(context.Background(), id)
		return postDeletedMsg{id: id, err: err}
	}
}

func expireSession() tea.Msg {
	return common.SessionExpiredMsg{}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
