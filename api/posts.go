package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/themikhailova/niti/domain"
)

// FeedResponse is one page of the ranked feed.
type FeedResponse struct {
	Posts   []domain.Post `json:"posts"`
	Page    int           `json:"page"`
	HasMore bool          `json:"has_more"`
	Total   int           `json:"total"`
}

// Feed fetches one feed page under the given ranking mode. Pages are 1-based.
func (c *Client) Feed(ctx context.Context, mode domain.FeedMode, page int) (*FeedResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("mode", string(mode))

	var resp FeedResponse
	if err := c.do(ctx, http.MethodGet, "/posts?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreatePost submits new post content and returns the canonical item the
// server created, with its assigned id, timestamp and author block.
func (c *Client) CreatePost(ctx context.Context, content string) (*domain.Post, error) {
	var post domain.Post
	body := struct {
		Content string `json:"content"`
	}{Content: content}

	if err := c.do(ctx, http.MethodPost, "/posts", body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post by id.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	var msg messageResponse
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, &msg)
}
