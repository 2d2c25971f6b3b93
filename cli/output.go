package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting responses in text or JSON format
type Output struct {
	writer   io.Writer
	jsonMode bool
}

// NewOutput creates a new output handler
func NewOutput(w io.Writer, jsonMode bool) *Output {
	return &Output{
		writer:   w,
		jsonMode: jsonMode,
	}
}

// IsJSON returns true if output is in JSON mode
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// Error outputs an error message
func (o *Output) Error(err error) {
	if o.jsonMode {
		o.writeJSON(map[string]any{
			"error": err.Error(),
		})
	} else {
		fmt.Fprintf(o.writer, "Error: %v\n", err)
	}
}

// Success outputs a success message (text mode only, JSON uses specific methods)
func (o *Output) Success(format string, args ...any) {
	if !o.jsonMode {
		fmt.Fprintf(o.writer, format, args...)
	}
}

// Print outputs a line (text mode only)
func (o *Output) Print(format string, args ...any) {
	if !o.jsonMode {
		fmt.Fprintf(o.writer, format, args...)
	}
}

// Println outputs a line with newline (text mode only)
func (o *Output) Println(text string) {
	if !o.jsonMode {
		fmt.Fprintln(o.writer, text)
	}
}

// JSON outputs any value as JSON
func (o *Output) JSON(v any) {
	if o.jsonMode {
		o.writeJSON(v)
	}
}

// writeJSON marshals and writes JSON to the output
func (o *Output) writeJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(o.writer, `{"error":"failed to marshal JSON: %s"}`+"\n", err.Error())
		return
	}
	fmt.Fprintln(o.writer, string(data))
}

// PostResponse represents a post creation response
type PostResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedPost represents a post in feed output
type FeedPost struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IsOwn     bool      `json:"is_own,omitempty"`
}

// FeedResponse represents the feed output
type FeedResponse struct {
	Posts []FeedPost `json:"posts"`
	Count int        `json:"count"`
	Mode  string     `json:"mode"`
	Total int        `json:"total"`
}

// SearchItem represents one user in search output
type SearchItem struct {
	ID             int64    `json:"id"`
	Username       string   `json:"username"`
	FollowersCount int      `json:"followers_count"`
	PostsCount     int      `json:"posts_count"`
	Interests      []string `json:"interests,omitempty"`
}

// SearchOutput represents the search output
type SearchOutput struct {
	Users   []SearchItem `json:"users"`
	Count   int          `json:"count"`
	Query   string       `json:"query"`
	Popular bool         `json:"popular"`
}

// ProfileOutput represents the profile output
type ProfileOutput struct {
	Username       string     `json:"username"`
	FollowersCount int        `json:"followers_count"`
	FollowingCount int        `json:"following_count"`
	PostsCount     int        `json:"posts_count"`
	Interests      []string   `json:"interests,omitempty"`
	IsFollowing    bool       `json:"is_following"`
	Posts          []FeedPost `json:"posts"`
}

// WhoamiResponse represents the whoami output
type WhoamiResponse struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Interests []string `json:"interests,omitempty"`
}

// HelpCommand represents a command in help output
type HelpCommand struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Usage       string   `json:"usage"`
	Flags       []string `json:"flags,omitempty"`
}

// HelpResponse represents the help output
type HelpResponse struct {
	Version     string        `json:"version"`
	Commands    []HelpCommand `json:"commands"`
	GlobalFlags []string      `json:"global_flags"`
}

// FormatTimeAgo returns a human-readable time difference
func FormatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	} else {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
