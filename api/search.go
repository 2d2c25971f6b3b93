package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/themikhailova/niti/domain"
)

// SearchResponse always carries both sets: matches for a non-empty query,
// the popular list for an empty one. The client shows exactly one of them
// and never merges.
type SearchResponse struct {
	Users        []domain.SearchUser `json:"users"`
	PopularUsers []domain.SearchUser `json:"popular_users"`
	Query        string              `json:"query"`
	Page         int                 `json:"page"`
	HasMore      bool                `json:"has_more"`
}

// Search looks up users by name prefix. An empty query is valid and returns
// the popular-users set instead of matches.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))

	var resp SearchResponse
	if err := c.do(ctx, http.MethodGet, "/search?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
