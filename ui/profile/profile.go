package profile

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

const (
	avatarCols = 16
	avatarRows = 8
)

var (
	usernameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_USERNAME)).
			Bold(true)

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	statValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_WHITE)).
			Bold(true)

	interestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_SECONDARY))

	followingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_SUCCESS))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM)).
			Italic(true)

	selectedPostStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_WHITE)).
				Background(lipgloss.Color(common.COLOR_ACCENT))
)

type Model struct {
	Api      *api.Client
	Username string
	User     *domain.User
	List     listsync.List[domain.ProfilePost]
	Selected int
	Width    int
	Height   int
	Status   string
	Error    string

	avatar        string // rendered avatar block, or placeholder
	followPending bool
	confirmDelete int64
}

func InitialModel(client *api.Client, width, height int) Model {
	return Model{
		Api:    client,
		List:   listsync.New(func(p domain.ProfilePost) int64 { return p.Id }),
		Width:  width,
		Height: height,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// profileLoadedMsg resolves the combined profile + first page fetch.
type profileLoadedMsg struct {
	gen     uint64
	user    *domain.User
	posts   []domain.ProfilePost
	hasMore bool
	err     error
}

// profileMoreMsg resolves an append load of older posts.
type profileMoreMsg struct {
	gen     uint64
	page    int
	posts   []domain.ProfilePost
	hasMore bool
	err     error
}

// followToggledMsg resolves a follow or unfollow call. count is the server's
// follower total and always overwrites the local one.
type followToggledMsg struct {
	username  string
	following bool
	count     int
	err       error
}

// avatarMsg carries fetched avatar bytes.
type avatarMsg struct {
	username string
	data     []byte
	err      error
}

type postDeletedMsg struct {
	id  int64
	err error
}

// Open starts loading a profile. Any previous profile's state is dropped
// immediately so a stale response cannot land on the new page.
func (m Model) Open(username string) (Model, tea.Cmd) {
	m.Username = username
	m.User = nil
	m.Selected = 0
	m.Status = ""
	m.Error = ""
	m.avatar = ""
	m.followPending = false
	m.confirmDelete = 0
	m.List.Reset()

	gen := m.List.BeginLoad(username)
	if gen == 0 {
		return m, nil
	}
	return m, loadProfile(m.Api, username, gen)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if !m.List.ApplyLoad(msg.gen, msg.posts, msg.hasMore, 0, errText(msg.err)) {
			return m, nil
		}
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			// Without a profile there is nothing to render; fall back to
			// the feed and let it show what went wrong.
			errStr := msg.err.Error()
			if api.IsNotFound(msg.err) {
				errStr = fmt.Sprintf("user '%s' not found", m.Username)
			}
			return m, func() tea.Msg { return common.BackToFeedMsg{Err: errStr} }
		}
		m.User = msg.user
		m.List.Total = msg.user.PostsCount
		if msg.user.HasAvatar() {
			m.avatar = util.AvatarPlaceholder(msg.user.Username, avatarCols, avatarRows)
			return m, fetchAvatar(m.Api, msg.user.Username, msg.user.Avatar)
		}
		m.avatar = util.AvatarPlaceholder(msg.user.Username, avatarCols, avatarRows)
		return m, nil

	case profileMoreMsg:
		if !m.List.ApplyLoadMore(msg.gen, msg.page, msg.posts, msg.hasMore, errText(msg.err)) {
			return m, nil
		}
		if api.IsUnauthorized(msg.err) {
			return m, expireSession
		}
		return m, nil

	case avatarMsg:
		// The profile may have changed while the image downloaded
		if m.User == nil || msg.username != m.User.Username || msg.err != nil {
			return m, nil
		}
		if img := util.DecodeAvatar(msg.data); img != nil {
			m.avatar = util.RenderAvatar(img, avatarCols, avatarRows)
		}
		return m, nil

	case followToggledMsg:
		m.followPending = false
		if m.User == nil || msg.username != m.User.Username {
			return m, nil
		}
		if msg.err != nil {
			m.Error = msg.err.Error()
			if api.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			return m, nil
		}
		m.User.IsFollowing = msg.following
		m.User.FollowersCount = msg.count
		if msg.following {
			m.Status = "Following @" + msg.username
		} else {
			m.Status = "Unfollowed @" + msg.username
		}
		return m, nil

	case postDeletedMsg:
		if msg.err != nil {
			m.Error = msg.err.Error()
			if api.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			return m, nil
		}
		if m.List.Remove(msg.id) && m.User != nil && m.User.PostsCount > 0 {
			m.User.PostsCount--
		}
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
		case "m":
			if m.User == nil {
				return m, nil
			}
			page, gen, ok := m.List.BeginLoadMore()
			if !ok {
				return m, nil
			}
			return m, loadMoreProfile(m.Api, m.Username, page, gen)
		case "f":
			if m.User == nil || m.User.IsOwn || m.followPending {
				return m, nil
			}
			m.followPending = true
			m.Error = ""
			return m, toggleFollow(m.Api, m.User.Username, !m.User.IsFollowing)
		case "e":
			if m.User != nil && m.User.IsOwn {
				return m, func() tea.Msg { return common.SettingsView }
			}
		case "d":
			if m.User != nil && m.User.IsOwn && len(m.List.Items) > 0 && m.Selected < len(m.List.Items) {
				m.confirmDelete = m.List.Items[m.Selected].Id
			}
		case "y":
			if m.confirmDelete != 0 {
				id := m.confirmDelete
				m.confirmDelete = 0
				m.Error = ""
				return m, deletePost(m.Api, id)
			}
		case "esc":
			if m.confirmDelete != 0 {
				m.confirmDelete = 0
				return m, nil
			}
			return m, func() tea.Msg { return common.BackToFeedMsg{} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	if m.List.Loading && m.User == nil {
		s.WriteString(common.CaptionStyle.Render("profile"))
		s.WriteString("\n\n")
		s.WriteString(emptyStyle.Render("Loading @" + m.Username + "..."))
		return s.String()
	}
	if m.User == nil {
		s.WriteString(common.CaptionStyle.Render("profile"))
		s.WriteString("\n\n")
		s.WriteString(emptyStyle.Render("No profile loaded."))
		return s.String()
	}

	s.WriteString(m.renderHeader())
	s.WriteString("\n\n")

	contentWidth := common.ContentWidth(m.Width)
	if len(m.List.Items) == 0 {
		s.WriteString(emptyStyle.Render("No posts yet."))
	} else {
		start, end := window(m.Selected, len(m.List.Items), common.DefaultItemsPerPage)
		for i := start; i < end; i++ {
			s.WriteString(m.renderPost(m.List.Items[i], i == m.Selected, contentWidth))
			s.WriteString("\n\n")
		}
		s.WriteString(m.footer())
	}

	if m.List.Err != "" {
		s.WriteString("\n")
		s.WriteString(common.ListErrorStyle.Render("Error: " + m.List.Err))
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

func (m Model) renderHeader() string {
	u := m.User

	var info strings.Builder
	info.WriteString(usernameStyle.Render("@" + u.Username))
	if u.IsOwn {
		info.WriteString(statStyle.Render("  (you)"))
	} else if u.IsFollowing {
		info.WriteString(followingStyle.Render("  following"))
	}
	info.WriteString("\n")
	info.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s",
		statValueStyle.Render(fmt.Sprintf("%d", u.PostsCount)), statStyle.Render("posts"),
		statValueStyle.Render(fmt.Sprintf("%d", u.FollowersCount)), statStyle.Render("followers"),
		statValueStyle.Render(fmt.Sprintf("%d", u.FollowingCount)), statStyle.Render("following")))
	info.WriteString("\n")
	if len(u.Interests) > 0 {
		info.WriteString(interestStyle.Render(strings.Join(u.Interests, " · ")))
		info.WriteString("\n")
	}
	if !u.CreatedAt.IsZero() {
		info.WriteString(statStyle.Render("joined " + u.CreatedAt.Format("January 2006")))
		info.WriteString("\n")
	}
	if u.IsOwn {
		info.WriteString(common.FooterStyle.Render("e: edit profile"))
	} else if m.followPending {
		info.WriteString(common.ListBadgeStyle.Render("updating..."))
	} else if u.IsFollowing {
		info.WriteString(common.FooterStyle.Render("f: unfollow"))
	} else {
		info.WriteString(common.FooterStyle.Render("f: follow"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, m.avatar, "  ", info.String())
}

func (m Model) renderPost(post domain.ProfilePost, selected bool, contentWidth int) string {
	timeStr := util.FormatRelativeTime(post.CreatedAt.Time)
	content := util.TruncateContent(post.Content, contentWidth*3)

	if selected {
		header := timeStr
		if m.confirmDelete == post.Id {
			header = timeStr + " · delete? press y"
		}
		bg := lipgloss.NewStyle().
			Background(lipgloss.Color(common.COLOR_ACCENT)).
			Width(contentWidth)
		return bg.Render(selectedPostStyle.Render(header)) + "\n" +
			bg.Render(selectedPostStyle.Render(content))
	}

	plain := lipgloss.NewStyle().Width(contentWidth)
	return plain.Render(timeStyle.Render(timeStr)) + "\n" + plain.Render(content)
}

func (m Model) footer() string {
	var hints []string
	if m.List.LoadingMore {
		hints = append(hints, "loading more...")
	} else if m.List.HasMore {
		hints = append(hints, "m: load more")
	}
	if m.User != nil && m.User.IsOwn {
		hints = append(hints, "d: delete")
	}
	hints = append(hints, "esc: back")
	return common.FooterStyle.Render(strings.Join(hints, " · "))
}

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

func loadProfile(client *api.Client, username string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Profile(context.Background(), username, 1)
		if err != nil {
			return profileLoadedMsg{gen: gen, err: err}
		}
		return profileLoadedMsg{gen: gen, user: &resp.User, posts: resp.Posts, hasMore: resp.HasMore}
	}
}

func loadMoreProfile(client *api.Client, username string, page int, gen uint64) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Profile(context.Background(), username, page)
		if err != nil {
			return profileMoreMsg{gen: gen, page: page, err: err}
		}
		return profileMoreMsg{gen: gen, page: page, posts: resp.Posts, hasMore: resp.HasMore}
	}
}

func toggleFollow(client *api.Client, username string, follow bool) tea.Cmd {
	return func() tea.Msg {
		var resp *api.FollowResponse
		var err error
		if follow {
			resp, err = client.Follow(context.Background(), username)
		} else {
			resp, err = client.Unfollow(context.Background(), username)
		}
		if err != nil {
			return followToggledMsg{username: username, err: err}
		}
		return followToggledMsg{username: username, following: follow, count: resp.FollowersCount}
	}
}

func fetchAvatar(client *api.Client, username, filename string) tea.Cmd {
	return func() tea.Msg {
		data, err := client.Avatar(context.Background(), filename)
		return avatarMsg{username: username, data: data, err: err}
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
