package domain

import "fmt"

// Author is the post author summary embedded in feed posts.
type Author struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Post is a feed post as returned by the server. Immutable once created;
// the only lifecycle event after creation is deletion.
type Post struct {
	Id        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt Time   `json:"created_at"`
	Author    Author `json:"author"`
	IsOwn     bool   `json:"is_own"`
}

// ProfilePost is a post as it appears on a profile page. The server omits
// the author block since the profile owner is the author.
type ProfilePost struct {
	Id        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt Time   `json:"created_at"`
	IsOwn     bool   `json:"is_own"`
}

func (p *Post) ToString() string {
	return fmt.Sprintf("\n\tId: %d \n\tAuthor: %s \n\tContent: %s \n\tCreatedAt: %s)", p.Id, p.Author.Username, p.Content, p.CreatedAt)
}

// MaxPostChars is the advisory client-side content limit. The server is the
// authority; this only gates the compose UI.
const MaxPostChars = 5000

// FeedMode selects the server-side ranking behind the feed. The client treats
// it as an opaque selector string.
type FeedMode string

const (
	ModeBalanced    FeedMode = "balanced"
	ModeInterests   FeedMode = "interests"
	ModeContent     FeedMode = "content"
	ModeSerendipity FeedMode = "serendipity"
)

// FeedModes lists the selectable modes in display order.
var FeedModes = []FeedMode{ModeBalanced, ModeInterests, ModeContent, ModeSerendipity}

// Label returns the human-readable name for a feed mode.
func (m FeedMode) Label() string {
	switch m {
	case ModeBalanced:
		return "for you"
	case ModeInterests:
		return "interests"
	case ModeContent:
		return "similar"
	case ModeSerendipity:
		return "random"
	}
	return string(m)
}
