package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/themikhailova/niti/api"
	"github.com/themikhailova/niti/domain"
	"github.com/themikhailova/niti/ui/common"
)

var (
	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	counterOverStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_ERROR)).
				Bold(true)
)

type Model struct {
	Api        *api.Client
	Text       textarea.Model
	MaxChars   int
	Submitting bool
	Error      string
	Width      int
	Height     int
}

func InitialModel(client *api.Client, maxChars, width, height int) Model {
	if maxChars <= 0 || maxChars > domain.MaxPostChars {
		maxChars = domain.MaxPostChars
	}

	ta := textarea.New()
	ta.Placeholder = "What's on your mind?"
	ta.ShowLineNumbers = false
	ta.SetWidth(common.ContentWidth(width))
	ta.SetHeight(6)
	ta.Focus()

	return Model{
		Api:      client,
		Text:     ta,
		MaxChars: maxChars,
		Width:    width,
		Height:   height,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// postResultMsg resolves the create call. The post carried on success is the
// server's canonical item, with its id and timestamp assigned.
type postResultMsg struct {
	post *domain.Post
	err  error
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postResultMsg:
		m.Submitting = false
		if msg.err != nil {
			// The draft stays in the box so nothing typed is lost
			m.Error = msg.err.Error()
			if api.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			return m, nil
		}
		m.Text.Reset()
		m.Error = ""
		post := *msg.post
		return m, func() tea.Msg { return common.PostCreatedMsg{Post: post} }

	case tea.KeyMsg:
		if m.Submitting {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			// Back without posting; the draft survives for next time
			return m, func() tea.Msg { return common.BackToFeedMsg{} }
		case "ctrl+s":
			content := strings.TrimSpace(m.Text.Value())
			if content == "" {
				m.Error = "post is empty"
				return m, nil
			}
			if len([]rune(content)) > m.MaxChars {
				m.Error = fmt.Sprintf("post is over the %d character limit", m.MaxChars)
				return m, nil
			}
			m.Submitting = true
			m.Error = ""
			return m, submitPost(m.Api, content)
		}
	}

	var cmd tea.Cmd
	m.Text, cmd = m.Text.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render("new post"))
	s.WriteString("\n\n")
	s.WriteString(m.Text.View())
	s.WriteString("\n")

	count := len([]rune(strings.TrimSpace(m.Text.Value())))
	counter := fmt.Sprintf("%d/%d", count, m.MaxChars)
	if count > m.MaxChars {
		s.WriteString(counterOverStyle.Render(counter))
	} else {
		s.WriteString(counterStyle.Render(counter))
	}
	s.WriteString("\n")

	if m.Submitting {
		s.WriteString(common.ListBadgeStyle.Render("posting..."))
		s.WriteString("\n")
	}
	if m.Error != "" {
		s.WriteString(common.ListErrorStyle.Render("Error: " + m.Error))
		s.WriteString("\n")
	}

	s.WriteString(common.FooterStyle.Render("ctrl+s: post · esc: cancel"))
	return s.String()
}

func submitPost(client *api.Client, content string) tea.Cmd {
	return func() tea.Msg {
		post, err := client.CreatePost(context.Background(), content)
		return postResultMsg{post: post, err: err}
	}
}

func expireSession() tea.Msg {
	return common.SessionExpiredMsg{}
}
