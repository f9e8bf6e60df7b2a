// Package rapidapi reads Instagram profiles and posts through a RapidAPI
// scraper.
package rapidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/instagram"
	"github.com/cassiomorais/checkout/internal/infrastructure/config"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"github.com/cassiomorais/checkout/internal/provider"
	"github.com/go-playground/validator/v10"
)

const Name = "rapidapi"

type Client struct {
	scheme     string
	host       string
	key        string
	httpClient *http.Client
	metrics    *observability.Metrics
	validate   *validator.Validate
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(cfg config.RapidAPIConfig, opts ...Option) *Client {
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}
	c := &Client{
		scheme:     scheme,
		host:       cfg.Host,
		key:        cfg.Key,
		httpClient: provider.NewHTTPClient(cfg.Timeout),
		validate:   validator.New(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Configured() bool {
	return c.key != "" && c.host != ""
}

type usernameRequest struct {
	Username string `json:"username"`
}

type counter struct {
	Count int64 `json:"count" validate:"gte=0"`
}

type profileResponse struct {
	Result *struct {
		EdgeFollowedBy           *counter `json:"edge_followed_by" validate:"required"`
		EdgeFollow               *counter `json:"edge_follow" validate:"required"`
		EdgeOwnerToTimelineMedia *counter `json:"edge_owner_to_timeline_media" validate:"required"`
		FullName                 *string  `json:"full_name" validate:"required"`
		Biography                *string  `json:"biography" validate:"required"`
	} `json:"result" validate:"required"`
}

type postNode struct {
	LikeCount    *int64 `json:"like_count" validate:"required"`
	CommentCount *int64 `json:"comment_count" validate:"required"`
	Caption      *struct {
		Text string `json:"text"`
	} `json:"caption"`
	MediaType      *int `json:"media_type" validate:"required"`
	ImageVersions2 *struct {
		Candidates []struct {
			URL string `json:"url"`
		} `json:"candidates"`
	} `json:"image_versions2"`
	VideoVersions []struct {
		URL string `json:"url"`
	} `json:"video_versions"`
}

type postsResponse struct {
	Result *struct {
		Edges []struct {
			Node *postNode `json:"node" validate:"required"`
		} `json:"edges" validate:"required,dive"`
	} `json:"result" validate:"required"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Profile returns follower, following and media counts plus bio fields.
func (c *Client) Profile(ctx context.Context, username string) (*instagram.Profile, error) {
	var out profileResponse
	if err := c.post(ctx, "profile", "/api/instagram/profile", username, &out); err != nil {
		return nil, err
	}

	r := out.Result
	return &instagram.Profile{
		Username:       username,
		FollowerCount:  r.EdgeFollowedBy.Count,
		FollowingCount: r.EdgeFollow.Count,
		MediaCount:     r.EdgeOwnerToTimelineMedia.Count,
		FullName:       *r.FullName,
		Biography:      *r.Biography,
	}, nil
}

// Posts returns the most recent posts in feed order.
func (c *Client) Posts(ctx context.Context, username string) ([]instagram.Post, error) {
	var out postsResponse
	if err := c.post(ctx, "posts", "/api/instagram/posts", username, &out); err != nil {
		return nil, err
	}

	posts := make([]instagram.Post, 0, len(out.Result.Edges))
	for _, edge := range out.Result.Edges {
		n := edge.Node
		p := instagram.Post{
			LikeCount:    *n.LikeCount,
			CommentCount: *n.CommentCount,
			MediaType:    *n.MediaType,
		}
		if n.Caption != nil {
			p.Caption = n.Caption.Text
		}
		if n.ImageVersions2 != nil && len(n.ImageVersions2.Candidates) > 0 {
			u := n.ImageVersions2.Candidates[0].URL
			p.ImageURL = &u
		}
		if len(n.VideoVersions) > 0 {
			u := n.VideoVersions[0].URL
			p.VideoURL = &u
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (c *Client) post(ctx context.Context, operation, path, username string, out any) error {
	if !c.Configured() {
		return domainErrors.ErrMissingAPIKey
	}

	b, err := json.Marshal(usernameRequest{Username: username})
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", operation, err)
	}

	url := c.scheme + "://" + c.host + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.key)
	req.Header.Set("X-RapidAPI-Host", c.host)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		provider.Observe(c.metrics, Name, operation, 0, start)
		return fmt.Errorf("%s: %w: %v", operation, domainErrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	provider.Observe(c.metrics, Name, operation, resp.StatusCode, start)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", operation, domainErrors.ErrProviderUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("upstream returned status %d", resp.StatusCode)
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			msg = e.Message
		}
		return domainErrors.NewProviderError(Name, resp.StatusCode, msg)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w: %v", operation, domainErrors.ErrUnexpectedResponse, err)
	}
	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("%s: %w: %v", operation, domainErrors.ErrUnexpectedResponse, err)
	}
	return nil
}
