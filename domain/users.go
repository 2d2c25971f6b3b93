package domain

import "fmt"

// User is a full profile summary. Counts are server-maintained and
// eventually consistent with the post list; IsFollowing and IsOwn are
// relative to the session identity and mutually exclusive.
type User struct {
	Id             int64    `json:"id"`
	Username       string   `json:"username"`
	Avatar         string   `json:"avatar"`
	Interests      []string `json:"interests"`
	FollowersCount int      `json:"followers_count"`
	FollowingCount int      `json:"following_count"`
	PostsCount     int      `json:"posts_count"`
	CreatedAt      Time     `json:"created_at"`
	IsFollowing    bool     `json:"is_following"`
	IsOwn          bool     `json:"is_own"`
}

// SearchUser is the trimmed user shape returned by search.
type SearchUser struct {
	Id             int64    `json:"id"`
	Username       string   `json:"username"`
	Avatar         string   `json:"avatar"`
	Interests      []string `json:"interests"`
	FollowersCount int      `json:"followers_count"`
	PostsCount     int      `json:"posts_count"`
}

func (u *User) ToString() string {
	return fmt.Sprintf("\n\tId: %d \n\tUsername: %s \n\tFollowers: %d \n\tPosts: %d)", u.Id, u.Username, u.FollowersCount, u.PostsCount)
}

// MaxInterests caps the interest tags kept on a profile.
const MaxInterests = 20

// DefaultAvatar is the server's placeholder filename; treated the same as no
// avatar when rendering.
const DefaultAvatar = "default_avatar.png"

// HasAvatar reports whether the user has uploaded a real avatar image.
func (u *User) HasAvatar() bool {
	return u.Avatar != "" && u.Avatar != DefaultAvatar
}
