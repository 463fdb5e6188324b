package database

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"socialfolio/internal/models"
)

func TestFeed(t *testing.T) {
	db := setupDB(t)
	r := New(db, logrus.New())
	ctx := context.Background()

	alice, bob, carol := "feed-alice", "feed-bob", "feed-carol"
	for _, u := range []string{alice, bob, carol} {
		_, _ = db.ExecContext(ctx, "DELETE FROM posts WHERE author_id = $1", u)
		_, _ = db.ExecContext(ctx, "DELETE FROM user_follows WHERE follower_id = $1", u)
		_, _ = db.ExecContext(ctx, "DELETE FROM portfolio_follows WHERE user_id = $1", u)
	}
	carolPortfolio := newPortfolio(t, r, carol)
	require.NoError(t, r.EnsureUserExists(ctx, alice, "Alice"))
	require.NoError(t, r.EnsureUserExists(ctx, bob, "Bob"))

	require.NoError(t, r.FollowUser(ctx, alice, bob))
	require.NoError(t, r.FollowUser(ctx, alice, bob))
	require.NoError(t, r.FollowPortfolio(ctx, alice, carolPortfolio.ID))

	ticker := "AAPL"
	_, err := r.CreatePost(ctx, models.Post{AuthorID: bob, Body: "bought more", Ticker: &ticker})
	require.NoError(t, err)
	_, err = r.CreatePost(ctx, models.Post{AuthorID: carol, Body: "rebalanced", PortfolioID: &carolPortfolio.ID})
	require.NoError(t, err)
	_, err = r.CreatePost(ctx, models.Post{AuthorID: carol, Body: "unrelated"})
	require.NoError(t, err)

	feed, err := r.Feed(ctx, alice, 50)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	require.Equal(t, "rebalanced", feed[0].Body)
	require.Equal(t, "AAPL", *feed[1].Ticker)

	require.NoError(t, r.UnfollowUser(ctx, alice, bob))
	feed, err = r.Feed(ctx, alice, 50)
	require.NoError(t, err)
	require.Len(t, feed, 1)

	require.ErrorIs(t, r.FollowUser(ctx, alice, "feed-nobody"), ErrNotFound)
}

func TestPortfolioFollow_MalformedID(t *testing.T) {
	db := setupDB(t)
	r := New(db, logrus.New())
	ctx := context.Background()
	require.NoError(t, r.EnsureUserExists(ctx, "follow-malformed", ""))

	require.ErrorIs(t, r.FollowPortfolio(ctx, "follow-malformed", "not-a-uuid"), ErrNotFound)
	require.ErrorIs(t, r.UnfollowPortfolio(ctx, "follow-malformed", "not-a-uuid"), ErrNotFound)
}
