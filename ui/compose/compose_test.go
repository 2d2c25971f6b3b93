package compose

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/themikhailova/niti/domain"
	"github.com/themikhailova/niti/ui/common"
)

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestCompose_EmptyPostRefused(t *testing.T) {
	m := InitialModel(nil, 5000, 100, 30)
	m = typeText(m, "   ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("Expected no submit command for whitespace-only content")
	}
	if m.Error == "" {
		t.Error("Expected validation error")
	}
	if m.Submitting {
		t.Error("Expected no submit state")
	}
}

func TestCompose_OverLimitRefused(t *testing.T) {
	m := InitialModel(nil, 10, 100, 30)
	m = typeText(m, "this is well past ten characters")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("Expected no submit command over the limit")
	}
	if !strings.Contains(m.Error, "10") {
		t.Errorf("Expected limit named in error, got '%s'", m.Error)
	}
}

func TestCompose_SubmitWaitsForServerConfirmation(t *testing.T) {
	m := InitialModel(nil, 5000, 100, 30)
	m = typeText(m, "hello")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("Expected submit command")
	}
	if !m.Submitting {
		t.Error("Expected submitting state while the call runs")
	}

	// Nothing is announced to the feed until the server answers
	m, cmd = m.Update(postResultMsg{post: &domain.Post{Id: 7, Content: "hello", IsOwn: true}})
	if cmd == nil {
		t.Fatal("Expected confirmation command")
	}
	msg, ok := cmd().(common.PostCreatedMsg)
	if !ok {
		t.Fatalf("Expected PostCreatedMsg, got %T", cmd())
	}
	if msg.Post.Id != 7 {
		t.Errorf("Expected the server's canonical post, got %+v", msg.Post)
	}
	if m.Text.Value() != "" {
		t.Error("Expected input cleared after confirmed post")
	}
	if m.Submitting {
		t.Error("Expected submitting cleared")
	}
}

func TestCompose_FailureKeepsDraft(t *testing.T) {
	m := InitialModel(nil, 5000, 100, 30)
	m = typeText(m, "my careful words")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m, cmd := m.Update(postResultMsg{err: errors.New("server unavailable")})

	if cmd != nil {
		t.Error("Expected no feed announcement on failure")
	}
	if m.Text.Value() != "my careful words" {
		t.Errorf("Expected draft preserved, got '%s'", m.Text.Value())
	}
	if m.Error == "" {
		t.Error("Expected visible error")
	}
}

func TestCompose_KeysIgnoredWhileSubmitting(t *testing.T) {
	m := InitialModel(nil, 5000, 100, 30)
	m = typeText(m, "hello")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	// A second ctrl+s while in flight must not double-post
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("Expected no command while submitting")
	}
}

func TestCompose_EscGoesBackKeepingDraft(t *testing.T) {
	m := InitialModel(nil, 5000, 100, 30)
	m = typeText(m, "draft")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("Expected back command")
	}
	if _, ok := cmd().(common.BackToFeedMsg); !ok {
		t.Fatalf("Expected BackToFeedMsg, got %T", cmd())
	}
	if m.Text.Value() != "draft" {
		t.Error("Expected draft kept on cancel")
	}
}

func TestCompose_CounterTracksLength(t *testing.T) {
	m := InitialModel(nil, 5000, 100, 30)
	m = typeText(m, "abcde")

	if !strings.Contains(m.View(), "5/5000") {
		t.Error("Expected character counter in view")
	}
}
