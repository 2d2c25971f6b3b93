package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/themikhailova/niti/domain"
)

// handleSearch finds users by name; an empty query lists popular users
func (h *Handler) handleSearch(args []string) error {
	query := strings.Join(args, " ")

	resp, err := h.gateway.Search(context.Background(), query, 1)
	if err != nil {
		h.output.Error(err)
		return err
	}

	users := resp.Users
	popular := resp.Query == ""
	if popular {
		users = resp.PopularUsers
	}

	if h.output.IsJSON() {
		items := make([]SearchItem, 0, len(users))
		for _, u := range users {
			items = append(items, SearchItem{
				ID:             u.Id,
				Username:       u.Username,
				FollowersCount: u.FollowersCount,
				PostsCount:     u.PostsCount,
				Interests:      u.Interests,
			})
		}
		h.output.JSON(SearchOutput{
			Users:   items,
			Count:   len(items),
			Query:   resp.Query,
			Popular: popular,
		})
		return nil
	}

	if len(users) == 0 {
		h.output.Println("No users found.")
		return nil
	}
	if popular {
		h.output.Println("Popular users:")
	}
	for _, u := range users {
		h.output.Print("@%s (%d followers, %d posts)\n", u.Username, u.FollowersCount, u.PostsCount)
	}
	return nil
}

// handleProfile shows a user's profile with their recent posts
func (h *Handler) handleProfile(args []string) error {
	if len(args) != 1 {
		err := fmt.Errorf("usage: profile <username>")
		h.output.Error(err)
		return err
	}

	resp, err := h.gateway.Profile(context.Background(), args[0], 1)
	if err != nil {
		h.output.Error(err)
		return err
	}

	if h.output.IsJSON() {
		posts := make([]FeedPost, 0, len(resp.Posts))
		for _, p := range resp.Posts {
			posts = append(posts, FeedPost{
				ID:        p.Id,
				Author:    resp.User.Username,
				Content:   p.Content,
				CreatedAt: p.CreatedAt.Time,
			})
		}
		h.output.JSON(ProfileOutput{
			Username:       resp.User.Username,
			FollowersCount: resp.User.FollowersCount,
			FollowingCount: resp.User.FollowingCount,
			PostsCount:     resp.User.PostsCount,
			Interests:      resp.User.Interests,
			IsFollowing:    resp.User.IsFollowing,
			Posts:          posts,
		})
		return nil
	}

	u := resp.User
	h.output.Print("@%s - %d posts, %d followers, %d following\n",
		u.Username, u.PostsCount, u.FollowersCount, u.FollowingCount)
	if len(u.Interests) > 0 {
		h.output.Print("interests: %s\n", strings.Join(u.Interests, ", "))
	}
	h.output.Println("")
	for _, p := range resp.Posts {
		h.output.Print("(%s)\n%s\n\n", FormatTimeAgo(p.CreatedAt.Time), p.Content)
	}
	return nil
}

// handleWhoami shows the signed-in identity
func (h *Handler) handleWhoami(args []string) error {
	user, err := h.gateway.Me(context.Background())
	if err != nil {
		h.output.Error(err)
		return err
	}

	if h.output.IsJSON() {
		h.output.JSON(WhoamiResponse{
			ID:        user.Id,
			Username:  user.Username,
			Interests: user.Interests,
		})
	} else {
		h.output.Print("@%s\n", user.Username)
	}
	return nil
}

// handleLogin signs in, reading the password from stdin so it never shows
// up in shell history
func (h *Handler) handleLogin(args []string) error {
	if len(args) != 1 {
		err := fmt.Errorf("usage: login <username> (password read from stdin)")
		h.output.Error(err)
		return err
	}

	reader := bufio.NewReader(h.stdin)
	password, err := reader.ReadString('\n')
	if err != nil && password == "" {
		h.output.Error(fmt.Errorf("failed to read password: %w", err))
		return err
	}
	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		err := fmt.Errorf("password is empty")
		h.output.Error(err)
		return err
	}

	var user *domain.User
	user, err = h.gateway.Login(context.Background(), args[0], password)
	if err != nil {
		h.output.Error(err)
		return err
	}

	if h.output.IsJSON() {
		h.output.JSON(WhoamiResponse{ID: user.Id, Username: user.Username, Interests: user.Interests})
	} else {
		h.output.Success("Signed in as @%s\n", user.Username)
	}
	return nil
}

// handleLogout ends the session
func (h *Handler) handleLogout(args []string) error {
	if err := h.gateway.Logout(context.Background()); err != nil {
		h.output.Error(err)
		return err
	}
	if h.output.IsJSON() {
		h.output.JSON(map[string]any{"status": "logged out"})
	} else {
		h.output.Println("Logged out.")
	}
	return nil
}
