package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/themikhailova/niti/domain"
)

// ProfileResponse is the combined profile + page-of-posts fetch. Profile and
// posts always come from one response, never two requests.
type ProfileResponse struct {
	User    domain.User          `json:"user"`
	Posts   []domain.ProfilePost `json:"posts"`
	Page    int                  `json:"page"`
	HasMore bool                 `json:"has_more"`
}

// FollowResponse carries the server's authoritative follower count after a
// follow or unfollow.
type FollowResponse struct {
	Success        bool `json:"success"`
	FollowersCount int  `json:"followers_count"`
}

// Profile fetches a user's profile summary together with one page of their
// posts.
func (c *Client) Profile(ctx context.Context, username string, page int) (*ProfileResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var resp ProfileResponse
	path := "/users/" + url.PathEscape(username) + "?" + q.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Follow subscribes the session user to username. Direction is chosen by
// the caller; the server does not infer it.
func (c *Client) Follow(ctx context.Context, username string) (*FollowResponse, error) {
	var resp FollowResponse
	path := "/users/" + url.PathEscape(username) + "/follow"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Unfollow removes the subscription to username.
func (c *Client) Unfollow(ctx context.Context, username string) (*FollowResponse, error) {
	var resp FollowResponse
	path := "/users/" + url.PathEscape(username) + "/unfollow"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EditProfile updates interests and optionally the avatar as one multipart
// request, returning the server's updated identity. avatarName/avatarData
// may be empty to leave the avatar untouched.
func (c *Client) EditProfile(ctx context.Context, interests []string, avatarName string, avatarData []byte) (*domain.User, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	if err := form.WriteField("interests", strings.Join(interests, ",")); err != nil {
		return nil, err
	}
	if avatarName != "" && len(avatarData) > 0 {
		part, err := form.CreateFormFile("avatar", avatarName)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(avatarData); err != nil {
			return nil, err
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/api/users/me/profile", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var env userEnvelope
	if err := decodeJSON(resp.Body, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

// Avatar downloads a user's avatar image bytes.
func (c *Client) Avatar(ctx context.Context, filename string) ([]byte, error) {
	return c.fetchRaw(ctx, "/static/uploads/avatars/"+url.PathEscape(filename))
}

func decodeJSON(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}
