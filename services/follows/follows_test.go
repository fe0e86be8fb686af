package follows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonboard/core"
	"anonboard/db/memory"
	"anonboard/testutils"
)

func newTestService(store *memory.Store) *FollowsService {
	return NewFollowsService(store.Users(), store.Social())
}

func TestFollow(t *testing.T) {
	ctx := context.Background()

	t.Run("follow and unfollow round-trip", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		follower := testutils.CreateTestUser(t, store.Users())
		followed := testutils.CreateTestUser(t, store.Users())

		require.NoError(t, service.Follow(ctx, follower.ID, followed.ID))

		following, err := service.IsFollowing(ctx, follower.ID, followed.ID)
		require.NoError(t, err)
		assert.True(t, following)

		count, err := service.CountFollowers(ctx, followed.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		require.NoError(t, service.Unfollow(ctx, follower.ID, followed.ID))
		following, err = service.IsFollowing(ctx, follower.ID, followed.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("following twice stays a single pair", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		follower := testutils.CreateTestUser(t, store.Users())
		followed := testutils.CreateTestUser(t, store.Users())

		require.NoError(t, service.Follow(ctx, follower.ID, followed.ID))
		require.NoError(t, service.Follow(ctx, follower.ID, followed.ID))

		count, err := service.CountFollowers(ctx, followed.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("follows are one-directional", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		a := testutils.CreateTestUser(t, store.Users())
		b := testutils.CreateTestUser(t, store.Users())

		require.NoError(t, service.Follow(ctx, a.ID, b.ID))

		reverse, err := service.IsFollowing(ctx, b.ID, a.ID)
		require.NoError(t, err)
		assert.False(t, reverse)
	})

	t.Run("rejects self-follow and unknown targets", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		user := testutils.CreateTestUser(t, store.Users())

		require.ErrorIs(t, service.Follow(ctx, user.ID, user.ID), core.ErrInvalidInput)
		require.ErrorIs(t, service.Follow(ctx, user.ID, "u-missing"), core.ErrUserNotFound)
	})
}

func TestBlock(t *testing.T) {
	ctx := context.Background()

	store := memory.NewStore()
	service := newTestService(store)
	blocker := testutils.CreateTestUser(t, store.Users())
	blocked := testutils.CreateTestUser(t, store.Users())

	require.NoError(t, service.Block(ctx, blocker.ID, blocked.ID))

	isBlocked, err := service.IsBlocked(ctx, blocker.ID, blocked.ID)
	require.NoError(t, err)
	assert.True(t, isBlocked)

	// the other direction is unaffected
	isBlocked, err = service.IsBlocked(ctx, blocked.ID, blocker.ID)
	require.NoError(t, err)
	assert.False(t, isBlocked)
}
