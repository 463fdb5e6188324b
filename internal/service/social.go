package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"socialfolio/internal/models"
)

const (
	maxPostLength    = 2000
	defaultFeedLimit = 50
	maxFeedLimit     = 100
)

type SocialService struct {
	store Store
	log   *logrus.Logger
}

func NewSocialService(store Store, log *logrus.Logger) *SocialService {
	return &SocialService{store: store, log: log}
}

type PostInput struct {
	Body        string  `json:"body"`
	Ticker      *string `json:"ticker"`
	PortfolioID *string `json:"portfolio_id"`
}

// CreatePost publishes a post. A post may reference one ticker or one
// portfolio the author can see, not both.
func (s *SocialService) CreatePost(ctx context.Context, authorID string, in PostInput) (models.Post, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" || utf8.RuneCountInString(body) > maxPostLength {
		return models.Post{}, fmt.Errorf("%w: body must be 1-%d characters", ErrInvalidInput, maxPostLength)
	}
	post := models.Post{AuthorID: authorID, Body: body}

	if in.Ticker != nil && strings.TrimSpace(*in.Ticker) != "" {
		t := models.NormalizeTicker(*in.Ticker)
		post.Ticker = &t
	}
	if in.PortfolioID != nil && *in.PortfolioID != "" {
		if post.Ticker != nil {
			return models.Post{}, fmt.Errorf("%w: reference a ticker or a portfolio, not both", ErrInvalidInput)
		}
		p, err := s.store.GetPortfolio(ctx, *in.PortfolioID)
		if err != nil {
			return models.Post{}, err
		}
		if !p.IsPublic && p.OwnerID != authorID {
			return models.Post{}, ErrForbidden
		}
		post.PortfolioID = &p.ID
	}

	if err := s.store.EnsureUserExists(ctx, authorID, ""); err != nil {
		return models.Post{}, fmt.Errorf("ensure user: %w", err)
	}
	return s.store.CreatePost(ctx, post)
}

func (s *SocialService) FollowUser(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return fmt.Errorf("%w: cannot follow yourself", ErrInvalidInput)
	}
	if err := s.store.EnsureUserExists(ctx, followerID, ""); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return s.store.FollowUser(ctx, followerID, followeeID)
}

func (s *SocialService) UnfollowUser(ctx context.Context, followerID, followeeID string) error {
	return s.store.UnfollowUser(ctx, followerID, followeeID)
}

// FollowPortfolio only accepts public portfolios of other users.
func (s *SocialService) FollowPortfolio(ctx context.Context, userID, portfolioID string) error {
	p, err := s.store.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return err
	}
	if p.OwnerID == userID {
		return fmt.Errorf("%w: cannot follow your own portfolio", ErrInvalidInput)
	}
	if !p.IsPublic {
		return ErrForbidden
	}
	if err := s.store.EnsureUserExists(ctx, userID, ""); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return s.store.FollowPortfolio(ctx, userID, p.ID)
}

func (s *SocialService) UnfollowPortfolio(ctx context.Context, userID, portfolioID string) error {
	return s.store.UnfollowPortfolio(ctx, userID, portfolioID)
}

func (s *SocialService) Feed(ctx context.Context, userID string, limit int) ([]models.Post, error) {
	switch {
	case limit <= 0:
		limit = defaultFeedLimit
	case limit > maxFeedLimit:
		limit = maxFeedLimit
	}
	return s.store.Feed(ctx, userID, limit)
}
