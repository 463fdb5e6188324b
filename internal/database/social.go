package database

import (
	"context"

	"github.com/google/uuid"

	"socialfolio/internal/models"
)

func (r *Repo) FollowUser(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_follows (follower_id, followee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, followerID, followeeID)
	return notFound(err)
}

func (r *Repo) UnfollowUser(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followeeID)
	return notFound(err)
}

func (r *Repo) FollowPortfolio(ctx context.Context, userID, portfolioID string) error {
	if _, err := uuid.Parse(portfolioID); err != nil {
		return ErrNotFound
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO portfolio_follows (user_id, portfolio_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, portfolioID)
	return notFound(err)
}

func (r *Repo) UnfollowPortfolio(ctx context.Context, userID, portfolioID string) error {
	if _, err := uuid.Parse(portfolioID); err != nil {
		return ErrNotFound
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM portfolio_follows WHERE user_id = $1 AND portfolio_id = $2`, userID, portfolioID)
	return notFound(err)
}

func (r *Repo) CreatePost(ctx context.Context, p models.Post) (models.Post, error) {
	p.ID = uuid.NewString()
	q := `INSERT INTO posts (id, author_id, body, ticker, portfolio_id, created_at) VALUES ($1, $2, $3, $4, $5, now()) RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, q, p.ID, p.AuthorID, p.Body, p.Ticker, p.PortfolioID).Scan(&p.CreatedAt); err != nil {
		return models.Post{}, notFound(err)
	}
	return p, nil
}

// Feed returns the user's own posts, posts by users they follow and posts
// about portfolios they follow, newest first.
func (r *Repo) Feed(ctx context.Context, userID string, limit int) ([]models.Post, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT p.id, p.author_id, p.body, p.ticker, p.portfolio_id, p.created_at
		FROM posts p
		WHERE p.author_id = $1
		   OR p.author_id IN (SELECT followee_id FROM user_follows WHERE follower_id = $1)
		   OR p.portfolio_id IN (SELECT portfolio_id FROM portfolio_follows WHERE user_id = $1)
		ORDER BY p.created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, notFound(err)
	}
	defer rows.Close()
	res := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.StructScan(&p); err != nil {
			r.log.Warnf("scan post failed: %v", err)
			continue
		}
		res = append(res, p)
	}
	return res, rows.Err()
}
