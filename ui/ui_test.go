package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/themikhailova/niti/domain"
	"github.com/themikhailova/niti/ui/common"
)

func loggedInModel(t *testing.T) MainModel {
	t.Helper()
	m := NewModel(nil, nil, 120, 40)
	next, _ := m.Update(common.LoggedInMsg{User: domain.User{Id: 1, Username: "alice"}})
	return next.(MainModel)
}

func TestMain_StartsAtLoginWithoutSession(t *testing.T) {
	m := NewModel(nil, nil, 120, 40)
	if m.state != common.LoginView {
		t.Errorf("Expected login view before the probe, got %v", m.state)
	}

	next, _ := m.Update(sessionProbeMsg{err: errors.New("not authorized")})
	m = next.(MainModel)
	if m.state != common.LoginView {
		t.Errorf("Expected login view after failed probe, got %v", m.state)
	}
}

func TestMain_ProbeWithSessionGoesToFeed(t *testing.T) {
	m := NewModel(nil, nil, 120, 40)

	next, cmd := m.Update(sessionProbeMsg{user: &domain.User{Id: 1, Username: "alice"}})
	m = next.(MainModel)
	if m.state != common.FeedView {
		t.Errorf("Expected feed view after successful probe, got %v", m.state)
	}
	if m.user == nil || m.user.Username != "alice" {
		t.Errorf("Expected identity installed, got %+v", m.user)
	}
	if cmd == nil {
		t.Error("Expected feed load command")
	}
}

func TestMain_LoginGoesToFeed(t *testing.T) {
	m := loggedInModel(t)
	if m.state != common.FeedView {
		t.Errorf("Expected feed view after login, got %v", m.state)
	}
}

func TestMain_ViewProfileSwitchesView(t *testing.T) {
	m := loggedInModel(t)

	next, cmd := m.Update(common.ViewProfileMsg{Username: "bob"})
	m = next.(MainModel)
	if m.state != common.ProfileView {
		t.Errorf("Expected profile view, got %v", m.state)
	}
	if m.profileModel.Username != "bob" {
		t.Errorf("Expected bob's profile opening, got '%s'", m.profileModel.Username)
	}
	if cmd == nil {
		t.Error("Expected profile load command")
	}
}

func TestMain_BackToFeedCarriesError(t *testing.T) {
	m := loggedInModel(t)
	next, _ := m.Update(common.ViewProfileMsg{Username: "ghost"})
	m = next.(MainModel)

	next, _ = m.Update(common.BackToFeedMsg{Err: "user 'ghost' not found"})
	m = next.(MainModel)
	if m.state != common.FeedView {
		t.Errorf("Expected feed view, got %v", m.state)
	}
	if !strings.Contains(m.feedModel.Error, "ghost") {
		t.Errorf("Expected carried error, got '%s'", m.feedModel.Error)
	}
}

func TestMain_PostCreatedReturnsToFeed(t *testing.T) {
	m := loggedInModel(t)
	next, _ := m.Update(common.SessionState(common.ComposeView))
	m = next.(MainModel)
	if m.state != common.ComposeView {
		t.Fatalf("Expected compose view, got %v", m.state)
	}

	next, _ = m.Update(common.PostCreatedMsg{Post: domain.Post{Id: 7, Content: "hi", IsOwn: true}})
	m = next.(MainModel)
	if m.state != common.FeedView {
		t.Errorf("Expected feed view after confirmed post, got %v", m.state)
	}
	if len(m.feedModel.List.Items) != 1 || m.feedModel.List.Items[0].Id != 7 {
		t.Errorf("Expected post prepended to feed, got %+v", m.feedModel.List.Items)
	}
}

func TestMain_IdentityUpdateReplacesUser(t *testing.T) {
	m := loggedInModel(t)

	next, _ := m.Update(common.IdentityUpdatedMsg{User: domain.User{Id: 1, Username: "alice", Interests: []string{"go"}}})
	m = next.(MainModel)
	if len(m.user.Interests) != 1 {
		t.Errorf("Expected updated identity, got %+v", m.user)
	}
}

func TestMain_TabCyclesFeedAndSearch(t *testing.T) {
	m := loggedInModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(MainModel)
	if m.state != common.SearchView {
		t.Errorf("Expected search view after tab, got %v", m.state)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(MainModel)
	if m.state != common.FeedView {
		t.Errorf("Expected feed view after second tab, got %v", m.state)
	}
}

func TestMain_ComposeShortcutOnlyInBrowseViews(t *testing.T) {
	m := loggedInModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(MainModel)
	if m.state != common.ComposeView {
		t.Fatalf("Expected compose view from feed, got %v", m.state)
	}

	// In compose, 'c' is just a letter
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(MainModel)
	if m.state != common.ComposeView {
		t.Errorf("Expected to stay in compose, got %v", m.state)
	}
	if m.composeModel.Text.Value() != "c" {
		t.Errorf("Expected 'c' typed into the draft, got '%s'", m.composeModel.Text.Value())
	}
}

func TestMain_ViewRendersHeaderAndBody(t *testing.T) {
	m := loggedInModel(t)

	view := m.View()
	if !strings.Contains(view, "@alice") {
		t.Error("Expected identity in header")
	}
	if !strings.Contains(view, "feed") {
		t.Error("Expected feed tab in header")
	}
}
