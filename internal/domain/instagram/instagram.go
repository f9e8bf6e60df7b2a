package instagram

import (
	"strings"

	"github.com/cassiomorais/checkout/internal/domain/errors"
)

// Media types reported by the provider for a post.
const (
	MediaImage    = 1
	MediaVideo    = 2
	MediaCarousel = 8
)

// Profile is the public statistics of an account
type Profile struct {
	Username       string `json:"username"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	MediaCount     int64  `json:"media_count"`
	FullName       string `json:"full_name"`
	Biography      string `json:"biography"`
}

// Post is one recent post of an account
type Post struct {
	LikeCount    int64   `json:"like_count"`
	CommentCount int64   `json:"comment_count"`
	Caption      string  `json:"caption"`
	ImageURL     *string `json:"image_url"`
	VideoURL     *string `json:"video_url"`
	MediaType    int     `json:"media_type"`
}

// IsVideo reports whether the post is a video.
func (p Post) IsVideo() bool {
	return p.MediaType == MediaVideo
}

// Overview is a profile together with its recent posts
type Overview struct {
	Profile *Profile `json:"profile"`
	Posts   []Post   `json:"posts"`
}

// NormalizeUsername strips surrounding whitespace and a leading "@".
func NormalizeUsername(raw string) (string, error) {
	u := strings.TrimPrefix(strings.TrimSpace(raw), "@")
	u = strings.TrimSpace(u)
	if u == "" {
		return "", errors.NewValidationError("username", "cannot be empty")
	}
	if strings.ContainsAny(u, " /?#") {
		return "", errors.NewValidationError("username", "contains invalid characters")
	}
	return u, nil
}
