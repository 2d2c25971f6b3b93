// Package api is the typed gateway to the niti backend. All calls go over
// one cookie-scoped HTTP session; failures surface as *Error carrying the
// server's human-readable message and the HTTP status classifier.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/themikhailova/niti/util"
	"golang.org/x/time/rate"
)

// Error is a failed gateway call. Message comes from the server's {error}
// body when present, the HTTP status text otherwise.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a gateway 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a gateway 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	store   *CookieStore
}

// New builds a gateway client from config. Session cookies persisted by a
// previous run are loaded into the jar so the session survives restarts.
func New(conf *util.AppConfig) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(conf.Conf.BaseURL, "/")

	c := &Client{
		baseURL: base,
		http: &http.Client{
			Jar:     jar,
			Timeout: time.Duration(conf.Conf.RequestTimeoutSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(conf.Conf.RequestsPerSecond), conf.Conf.RequestsPerSecond),
	}

	if path, err := DefaultCookieStorePath(); err == nil {
		c.store = NewCookieStore(path)
		if cookies, err := c.store.Load(); err == nil {
			if u, err := url.Parse(base); err == nil {
				jar.SetCookies(u, cookies)
			}
		}
	} else {
		log.Printf("Cookie persistence disabled: %v", err)
	}

	return c, nil
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PersistSession writes the current session cookies to disk. Called after
// login; a failure only costs the next run a fresh login.
func (c *Client) PersistSession() {
	if c.store == nil {
		return
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return
	}
	if err := c.store.Save(c.http.Jar.Cookies(u)); err != nil {
		log.Printf("Failed to persist session cookies: %v", err)
	}
}

// DropSession removes persisted cookies. Called on logout.
func (c *Client) DropSession() {
	if c.store == nil {
		return
	}
	if err := c.store.Clear(); err != nil {
		log.Printf("Failed to clear session cookies: %v", err)
	}
}

// do performs one JSON request against /api and decodes the response into
// out (when non-nil). Every request waits on the client-side limiter and
// carries a fresh X-Request-ID for server-side correlation.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into *Error, preferring the server's
// {error} message over the bare status text.
func decodeError(resp *http.Response) error {
	apiErr := &Error{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

// fetchRaw downloads a non-API resource (avatars) as raw bytes.
func (c *Client) fetchRaw(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return io.ReadAll(resp.Body)
}
