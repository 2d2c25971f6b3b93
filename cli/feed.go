package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/themikhailova/niti/domain"
)

const defaultFeedLimit = 20

// handleFeed shows the personalized feed
func (h *Handler) handleFeed(args []string) error {
	limit := defaultFeedLimit
	if h.conf != nil && h.conf.Conf.PageSize > 0 {
		limit = h.conf.Conf.PageSize
	}
	mode := domain.ModeBalanced

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n":
			if i+1 >= len(args) {
				err := fmt.Errorf("-n needs a value")
				h.output.Error(err)
				return err
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				err = fmt.Errorf("invalid value for -n: %s", args[i+1])
				h.output.Error(err)
				return err
			}
			if n < 1 {
				err = fmt.Errorf("-n must be at least 1")
				h.output.Error(err)
				return err
			}
			limit = n
			i++
		case "-m":
			if i+1 >= len(args) {
				err := fmt.Errorf("-m needs a value")
				h.output.Error(err)
				return err
			}
			mode = domain.FeedMode(args[i+1])
			if !validMode(mode) {
				err := fmt.Errorf("unknown mode: %s", args[i+1])
				h.output.Error(err)
				return err
			}
			i++
		}
	}

	// Page through until the limit is reached or the feed runs out
	var posts []domain.Post
	total := 0
	for page := 1; len(posts) < limit; page++ {
		resp, err := h.gateway.Feed(context.Background(), mode, page)
		if err != nil {
			h.output.Error(err)
			return err
		}
		posts = append(posts, resp.Posts...)
		total = resp.Total
		if !resp.HasMore || len(resp.Posts) == 0 {
			break
		}
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}

	if len(posts) == 0 {
		if h.output.IsJSON() {
			h.output.JSON(FeedResponse{Posts: []FeedPost{}, Mode: string(mode)})
		} else {
			h.output.Println("No posts in feed.")
		}
		return nil
	}

	if h.output.IsJSON() {
		feedPosts := make([]FeedPost, 0, len(posts))
		for _, post := range posts {
			feedPosts = append(feedPosts, FeedPost{
				ID:        post.Id,
				Author:    post.Author.Username,
				Content:   post.Content,
				CreatedAt: post.CreatedAt.Time,
				IsOwn:     post.IsOwn,
			})
		}
		h.output.JSON(FeedResponse{
			Posts: feedPosts,
			Count: len(feedPosts),
			Mode:  string(mode),
			Total: total,
		})
	} else {
		for _, post := range posts {
			h.output.Print("@%s (%s)\n", post.Author.Username, FormatTimeAgo(post.CreatedAt.Time))
			h.output.Print("%s\n\n", post.Content)
		}
	}

	return nil
}

func validMode(mode domain.FeedMode) bool {
	for _, m := range domain.FeedModes {
		if m == mode {
			return true
		}
	}
	return false
}
