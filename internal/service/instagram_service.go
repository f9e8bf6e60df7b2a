package service

import (
	"context"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/instagram"
	"golang.org/x/sync/errgroup"
)

type InstagramService struct {
	provider SocialProvider
}

func NewInstagramService(provider SocialProvider) *InstagramService {
	return &InstagramService{provider: provider}
}

func (s *InstagramService) Profile(ctx context.Context, username string) (*instagram.Profile, error) {
	u, err := s.prepare(username)
	if err != nil {
		return nil, err
	}
	return s.provider.Profile(ctx, u)
}

func (s *InstagramService) Posts(ctx context.Context, username string) ([]instagram.Post, error) {
	u, err := s.prepare(username)
	if err != nil {
		return nil, err
	}
	return s.provider.Posts(ctx, u)
}

// Overview fetches profile and posts concurrently; the first failure
// cancels the other call.
func (s *InstagramService) Overview(ctx context.Context, username string) (*instagram.Overview, error) {
	u, err := s.prepare(username)
	if err != nil {
		return nil, err
	}

	var out instagram.Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.provider.Profile(gctx, u)
		out.Profile = p
		return err
	})
	g.Go(func() error {
		posts, err := s.provider.Posts(gctx, u)
		out.Posts = posts
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *InstagramService) prepare(username string) (string, error) {
	u, err := instagram.NormalizeUsername(username)
	if err != nil {
		return "", err
	}
	if !s.provider.Configured() {
		return "", domainErrors.ErrMissingAPIKey
	}
	return u, nil
}
