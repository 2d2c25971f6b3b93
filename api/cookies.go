package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/themikhailova/niti/util"
)

// CookieStore persists the session cookies between runs so the user is not
// forced to log in every time.
type CookieStore struct {
	path string
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path"`
	Expires time.Time `json:"expires"`
}

type storedCookies struct {
	Cookies    []storedCookie `json:"cookies"`
	CapturedAt time.Time      `json:"captured_at"`
}

// NewCookieStore creates a cookie store at the given path.
func NewCookieStore(path string) *CookieStore {
	return &CookieStore{path: path}
}

// DefaultCookieStorePath returns the default path for cookie storage.
func DefaultCookieStorePath() (string, error) {
	configDir, err := util.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "cookies.json"), nil
}

// Save persists cookies to disk.
func (cs *CookieStore) Save(cookies []*http.Cookie) error {
	dir := filepath.Dir(cs.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	stored := storedCookies{CapturedAt: time.Now()}
	for _, c := range cookies {
		stored.Cookies = append(stored.Cookies, storedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(cs.path, data, 0600)
}

// Load retrieves cookies from disk, skipping expired ones.
func (cs *CookieStore) Load() ([]*http.Cookie, error) {
	data, err := os.ReadFile(cs.path)
	if err != nil {
		return nil, err
	}

	var stored storedCookies
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	var cookies []*http.Cookie
	for _, c := range stored.Cookies {
		if !c.Expires.IsZero() && time.Now().After(c.Expires) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		})
	}
	return cookies, nil
}

// Clear removes stored cookies.
func (cs *CookieStore) Clear() error {
	err := os.Remove(cs.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
