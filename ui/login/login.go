package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/themikhailova/niti/api"
	"github.com/themikhailova/niti/domain"
	"github.com/themikhailova/niti/ui/common"
	"github.com/themikhailova/niti/util"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_ACCENT)).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	activeLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_WHITE)).
				Bold(true)
)

const (
	fieldUsername = iota
	fieldPassword
)

type Model struct {
	Api        *api.Client
	Username   textinput.Model
	Password   textinput.Model
	Focused    int
	Register   bool // register mode instead of login
	Submitting bool
	Error      string
	Status     string
	Width      int
	Height     int
}

func InitialModel(client *api.Client, width, height int) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 32
	username.Width = common.TextInputDefaultWidth
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.Width = common.TextInputDefaultWidth
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return Model{
		Api:      client,
		Username: username,
		Password: password,
		Width:    width,
		Height:   height,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// loginResultMsg resolves a login call. user is the authenticated identity.
type loginResultMsg struct {
	user *domain.User
	err  error
}

// registerResultMsg resolves a register call. Registration does not create a
// session; the user still logs in afterwards.
type registerResultMsg struct {
	err error
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.Submitting = false
		if msg.err != nil {
			m.Error = msg.err.Error()
			return m, nil
		}
		m.Password.Reset()
		m.Error = ""
		user := *msg.user
		return m, func() tea.Msg { return common.LoggedInMsg{User: user} }

	case registerResultMsg:
		m.Submitting = false
		if msg.err != nil {
			m.Error = msg.err.Error()
			return m, nil
		}
		m.Register = false
		m.Error = ""
		m.Status = "Account created. Log in to continue."
		return m, nil

	case tea.KeyMsg:
		if m.Submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m = m.toggleFocus()
			return m, nil
		case "ctrl+r":
			m.Register = !m.Register
			m.Error = ""
			m.Status = ""
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.Focused == fieldUsername {
		m.Username, cmd = m.Username.Update(msg)
	} else {
		m.Password, cmd = m.Password.Update(msg)
	}
	return m, cmd
}

func (m Model) toggleFocus() Model {
	if m.Focused == fieldUsername {
		m.Focused = fieldPassword
		m.Username.Blur()
		m.Password.Focus()
	} else {
		m.Focused = fieldUsername
		m.Password.Blur()
		m.Username.Focus()
	}
	return m
}

func (m Model) submit() (Model, tea.Cmd) {
	username := util.NormalizeInput(m.Username.Value())
	password := m.Password.Value()
	if username == "" || password == "" {
		m.Error = "username and password are required"
		return m, nil
	}
	m.Submitting = true
	m.Error = ""
	m.Status = ""
	if m.Register {
		return m, doRegister(m.Api, username, password)
	}
	return m, doLogin(m.Api, username, password)
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(util.GetNameAndVersion()))
	s.WriteString("\n\n")
	if m.Register {
		s.WriteString(common.CaptionStyle.Render("create account"))
	} else {
		s.WriteString(common.CaptionStyle.Render("log in"))
	}
	s.WriteString("\n\n")

	s.WriteString(m.fieldLabel("username", fieldUsername))
	s.WriteString("\n")
	s.WriteString(m.Username.View())
	s.WriteString("\n\n")
	s.WriteString(m.fieldLabel("password", fieldPassword))
	s.WriteString("\n")
	s.WriteString(m.Password.View())
	s.WriteString("\n\n")

	if m.Submitting {
		s.WriteString(common.ListBadgeStyle.Render("working..."))
		s.WriteString("\n")
	}
	if m.Error != "" {
		s.WriteString(common.ListErrorStyle.Render("Error: " + m.Error))
		s.WriteString("\n")
	}
	if m.Status != "" {
		s.WriteString(common.ListStatusStyle.Render(m.Status))
		s.WriteString("\n")
	}

	if m.Register {
		s.WriteString(common.FooterStyle.Render("enter: register · ctrl+r: back to login"))
	} else {
		s.WriteString(common.FooterStyle.Render("enter: log in · ctrl+r: create account"))
	}
	return s.String()
}

func (m Model) fieldLabel(name string, field int) string {
	if m.Focused == field {
		return activeLabelStyle.Render(name)
	}
	return labelStyle.Render(name)
}

func doLogin(client *api.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := client.Login(context.Background(), username, password)
		return loginResultMsg{user: user, err: err}
	}
}

func doRegister(client *api.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		err := client.Register(context.Background(), username, password)
		return registerResultMsg{err: err}
	}
}
