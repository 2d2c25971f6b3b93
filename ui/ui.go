package ui

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/themikhailova/niti/api"
	"github.com/themikhailova/niti/domain"
	"github.com/themikhailova/niti/ui/common"
	"github.com/themikhailova/niti/ui/compose"
	"github.com/themikhailova/niti/ui/feed"
	"github.com/themikhailova/niti/ui/header"
	"github.com/themikhailova/niti/ui/login"
	"github.com/themikhailova/niti/ui/profile"
	"github.com/themikhailova/niti/ui/search"
	"github.com/themikhailova/niti/ui/settings"
	"github.com/themikhailova/niti/util"
)

var contentStyle = lipgloss.NewStyle().Margin(1)

type MainModel struct {
	width  int
	height int
	config *util.AppConfig
	client *api.Client
	user   *domain.User
	state  common.SessionState

	loginModel    login.Model
	feedModel     feed.Model
	composeModel  compose.Model
	profileModel  profile.Model
	searchModel   search.Model
	settingsModel settings.Model
}

// sessionProbeMsg resolves the startup check for an existing session.
type sessionProbeMsg struct {
	user *domain.User
	err  error
}

// logoutDoneMsg resolves the logout call.
type logoutDoneMsg struct {
	err error
}

func NewModel(client *api.Client, config *util.AppConfig, width, height int) MainModel {
	width = common.DefaultWindowWidth(width)
	height = common.DefaultWindowHeight(height)

	maxChars := domain.MaxPostChars
	if config != nil && config.Conf.MaxChars > 0 {
		maxChars = config.Conf.MaxChars
	}

	return MainModel{
		width:         width,
		height:        height,
		config:        config,
		client:        client,
		state:         common.LoginView,
		loginModel:    login.InitialModel(client, width, height),
		feedModel:     feed.InitialModel(client, width, height),
		composeModel:  compose.InitialModel(client, maxChars, width, height),
		profileModel:  profile.InitialModel(client, width, height),
		searchModel:   search.InitialModel(client, width, height),
		settingsModel: settings.InitialModel(client, width, height),
	}
}

func (m MainModel) Init() tea.Cmd {
	// A persisted session may still be valid; probe before asking for
	// credentials
	return tea.Batch(probeSession(m.client), m.loginModel.Init())
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case sessionProbeMsg:
		if msg.err != nil || msg.user == nil {
			m.state = common.LoginView
			return m, nil
		}
		return m.enterSession(*msg.user)

	case common.LoggedInMsg:
		return m.enterSession(msg.User)

	case common.SessionExpiredMsg:
		log.Printf("Session expired, returning to login")
		m.user = nil
		m.state = common.LoginView
		m.loginModel = login.InitialModel(m.client, m.width, m.height)
		m.client.DropSession()
		return m, m.loginModel.Init()

	case logoutDoneMsg:
		if msg.err != nil {
			log.Printf("Logout failed: %v", msg.err)
		}
		return m, func() tea.Msg { return common.LoggedOutMsg{} }

	case common.LoggedOutMsg:
		m.user = nil
		m.state = common.LoginView
		m.loginModel = login.InitialModel(m.client, m.width, m.height)
		m.feedModel = feed.InitialModel(m.client, m.width, m.height)
		return m, m.loginModel.Init()

	case common.IdentityUpdatedMsg:
		user := msg.User
		m.user = &user
		return m, nil

	case common.ViewProfileMsg:
		m.state = common.ProfileView
		m.profileModel, cmd = m.profileModel.Open(msg.Username)
		return m, cmd

	case common.BackToFeedMsg:
		m.state = common.FeedView
		if msg.Err != "" {
			m.feedModel.Error = msg.Err
		}
		return m, nil

	case common.PostCreatedMsg:
		// Confirmed post goes into the feed; show it there
		m.state = common.FeedView
		m.feedModel, cmd = m.feedModel.Update(msg)
		return m, cmd

	case common.SessionState:
		return m.switchView(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.feedModel.Width = msg.Width
		m.feedModel.Height = msg.Height
		m.profileModel.Width = msg.Width
		m.profileModel.Height = msg.Height
		m.searchModel.Width = msg.Width
		m.searchModel.Height = msg.Height
		m.composeModel.Width = msg.Width
		m.composeModel.Height = msg.Height
		m.loginModel.Width = msg.Width
		m.loginModel.Height = msg.Height
		m.settingsModel.Width = msg.Width
		m.settingsModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}

		// Single-letter shortcuts only apply in browse views; everywhere
		// else those keys are text input
		if m.state == common.FeedView || m.state == common.ProfileView {
			switch msg.String() {
			case "c":
				return m.switchView(common.ComposeView)
			case "/", "s":
				return m.switchView(common.SearchView)
			case "p":
				if m.user != nil {
					m.state = common.ProfileView
					m.profileModel, cmd = m.profileModel.Open(m.user.Username)
					return m, cmd
				}
			case "tab":
				return m.switchView(m.nextView())
			case "ctrl+l":
				return m, doLogout(m.client)
			}
		} else if m.state == common.SearchView && msg.String() == "tab" {
			return m.switchView(m.nextView())
		}

		// Keys go to the active view only
		return m.routeToActive(msg)
	}

	// Async results are routed broadly; each view ignores messages that
	// are not its own
	m.loginModel, cmd = m.loginModel.Update(msg)
	cmds = append(cmds, cmd)
	m.feedModel, cmd = m.feedModel.Update(msg)
	cmds = append(cmds, cmd)
	m.composeModel, cmd = m.composeModel.Update(msg)
	cmds = append(cmds, cmd)
	m.profileModel, cmd = m.profileModel.Update(msg)
	cmds = append(cmds, cmd)
	m.searchModel, cmd = m.searchModel.Update(msg)
	cmds = append(cmds, cmd)
	m.settingsModel, cmd = m.settingsModel.Update(msg)
	cmds = append(cmds, cmd)

	return m, batchNonNil(cmds)
}

// enterSession installs the authenticated identity and loads the feed.
func (m MainModel) enterSession(user domain.User) (tea.Model, tea.Cmd) {
	m.user = &user
	m.state = common.FeedView
	var cmd tea.Cmd
	m.feedModel, cmd = m.feedModel.Load()
	return m, cmd
}

func (m MainModel) switchView(state common.SessionState) (tea.Model, tea.Cmd) {
	if m.user == nil {
		m.state = common.LoginView
		return m, nil
	}
	m.state = state
	switch state {
	case common.SearchView:
		var cmd tea.Cmd
		m.searchModel, cmd = m.searchModel.Open()
		return m, cmd
	case common.SettingsView:
		m.settingsModel = m.settingsModel.Open(m.user)
		return m, m.settingsModel.Init()
	case common.ComposeView:
		return m, m.composeModel.Init()
	}
	return m, nil
}

// nextView alternates between the feed and search; profiles are reached
// through posts, results or the 'p' shortcut.
func (m MainModel) nextView() common.SessionState {
	if m.state == common.FeedView {
		return common.SearchView
	}
	return common.FeedView
}

func (m MainModel) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case common.LoginView:
		m.loginModel, cmd = m.loginModel.Update(msg)
	case common.FeedView:
		m.feedModel, cmd = m.feedModel.Update(msg)
	case common.ComposeView:
		m.composeModel, cmd = m.composeModel.Update(msg)
	case common.ProfileView:
		m.profileModel, cmd = m.profileModel.Update(msg)
	case common.SearchView:
		m.searchModel, cmd = m.searchModel.Update(msg)
	case common.SettingsView:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
	}
	return m, cmd
}

func (m MainModel) View() string {
	if m.state == common.LoginView {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.loginModel.View())
	}

	var body string
	switch m.state {
	case common.FeedView:
		body = m.feedModel.View()
	case common.ComposeView:
		body = m.composeModel.View()
	case common.ProfileView:
		body = m.profileModel.View()
	case common.SearchView:
		body = m.searchModel.View()
	case common.SettingsView:
		body = m.settingsModel.View()
	}

	s := header.Render(m.user, m.state, m.width)
	s += "\n" + contentStyle.Render(body)
	s += "\n" + common.FooterStyle.Render(fmt.Sprintf("%s · tab: switch · ctrl+c: quit", util.GetNameAndVersion()))
	return s
}

func probeSession(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		user, err := client.Me(context.Background())
		return sessionProbeMsg{user: user, err: err}
	}
}

func doLogout(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		err := client.Logout(context.Background())
		return logoutDoneMsg{err: err}
	}
}

func batchNonNil(cmds []tea.Cmd) tea.Cmd {
	var nonNil []tea.Cmd
	for _, cmd := range cmds {
		if cmd != nil {
			nonNil = append(nonNil, cmd)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return tea.Batch(nonNil...)
	}
}
