package settings

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"github.com/themikhailova/niti/api"
	"github.com/themikhailova/niti/domain"
	"github.com/themikhailova/niti/ui/common"
	"github.com/themikhailova/niti/util"
)

// Uploaded avatars are downscaled client-side so a phone photo doesn't get
// shipped at full resolution.
const maxAvatarEdge = 512

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_DIM))

	activeLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(common.COLOR_WHITE)).
				Bold(true)
)

const (
	fieldInterests = iota
	fieldAvatar
)

type Model struct {
	Api       *api.Client
	Interests textinput.Model
	Avatar    textinput.Model
	Focused   int
	Saving    bool
	Error     string
	Status    string
	Width     int
	Height    int
}

func InitialModel(client *api.Client, width, height int) Model {
	interests := textinput.New()
	interests.Placeholder = "comma-separated interests"
	interests.CharLimit = 256
	interests.Width = common.TextInputDefaultWidth
	interests.Focus()

	avatar := textinput.New()
	avatar.Placeholder = "path to avatar image (optional)"
	avatar.CharLimit = 256
	avatar.Width = common.TextInputDefaultWidth

	return Model{
		Api:       client,
		Interests: interests,
		Avatar:    avatar,
		Width:     width,
		Height:    height,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Open prefills the form from the current identity.
func (m Model) Open(user *domain.User) Model {
	if user != nil {
		m.Interests.SetValue(strings.Join(user.Interests, ", "))
	}
	m.Avatar.Reset()
	m.Error = ""
	m.Status = ""
	return m
}

// savedMsg resolves the profile update. user is the server's updated
// identity and replaces the session one.
type savedMsg struct {
	user *domain.User
	err  error
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		m.Saving = false
		if msg.err != nil {
			m.Error = msg.err.Error()
			if api.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			return m, nil
		}
		m.Status = "Profile saved"
		m.Avatar.Reset()
		user := *msg.user
		return m, func() tea.Msg { return common.IdentityUpdatedMsg{User: user} }

	case tea.KeyMsg:
		if m.Saving {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m = m.toggleFocus()
			return m, nil
		case "esc":
			return m, func() tea.Msg { return common.BackToFeedMsg{} }
		case "ctrl+s":
			return m.save()
		}
	}

	var cmd tea.Cmd
	if m.Focused == fieldInterests {
		m.Interests, cmd = m.Interests.Update(msg)
	} else {
		m.Avatar, cmd = m.Avatar.Update(msg)
	}
	return m, cmd
}

func (m Model) toggleFocus() Model {
	if m.Focused == fieldInterests {
		m.Focused = fieldAvatar
		m.Interests.Blur()
		m.Avatar.Focus()
	} else {
		m.Focused = fieldInterests
		m.Avatar.Blur()
		m.Interests.Focus()
	}
	return m
}

func (m Model) save() (Model, tea.Cmd) {
	interests := parseInterests(m.Interests.Value())
	if len(interests) > domain.MaxInterests {
		m.Error = fmt.Sprintf("at most %d interests", domain.MaxInterests)
		return m, nil
	}
	avatarPath := strings.TrimSpace(m.Avatar.Value())

	m.Saving = true
	m.Error = ""
	m.Status = ""
	return m, saveProfile(m.Api, interests, avatarPath)
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render("edit profile"))
	s.WriteString("\n\n")

	s.WriteString(m.fieldLabel("interests", fieldInterests))
	s.WriteString("\n")
	s.WriteString(m.Interests.View())
	s.WriteString("\n\n")
	s.WriteString(m.fieldLabel("avatar file", fieldAvatar))
	s.WriteString("\n")
	s.WriteString(m.Avatar.View())
	s.WriteString("\n\n")

	if m.Saving {
		s.WriteString(common.ListBadgeStyle.Render("saving..."))
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

	s.WriteString(common.FooterStyle.Render("ctrl+s: save · tab: next field · esc: back"))
	return s.String()
}

func (m Model) fieldLabel(name string, field int) string {
	if m.Focused == field {
		return activeLabelStyle.Render(name)
	}
	return labelStyle.Render(name)
}

// parseInterests splits a comma-separated list, trimming each entry and
// dropping empties and duplicates while keeping first-seen order.
func parseInterests(value string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range strings.Split(value, ",") {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// loadAvatar reads and downscales an avatar image, re-encoded as PNG.
func loadAvatar(path string) (string, []byte, error) {
	img, err := imaging.Open(util.ResolveFilePath(path))
	if err != nil {
		return "", nil, fmt.Errorf("avatar: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > maxAvatarEdge || bounds.Dy() > maxAvatarEdge {
		img = imaging.Fit(img, maxAvatarEdge, maxAvatarEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", nil, fmt.Errorf("avatar: %w", err)
	}
	return "avatar.png", buf.Bytes(), nil
}

func saveProfile(client *api.Client, interests []string, avatarPath string) tea.Cmd {
	return func() tea.Msg {
		var name string
		var data []byte
		if avatarPath != "" {
			var err error
			name, data, err = loadAvatar(avatarPath)
			if err != nil {
				return savedMsg{err: err}
			}
		}
		user, err := client.EditProfile(context.Background(), interests, name, data)
		return savedMsg{user: user, err: err}
	}
}

func expireSession() tea.Msg {
	return common.SessionExpiredMsg{}
}
