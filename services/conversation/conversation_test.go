package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonboard/core"
	"anonboard/db/memory"
	"anonboard/models"
	"anonboard/testutils"
)

func newTestService(store *memory.Store) *ConversationService {
	return NewConversationService(store.Users(), store.Posts(), store.Comments())
}

func TestBeginTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("begin comment stores post and parent", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		user := testutils.CreateTestUser(t, store.Users())
		post := testutils.CreateApprovedPost(t, store.Posts(), user.ID, user.ID)
		parent := testutils.CreateTestComment(t, store.Comments(), post.ID, nil, user.ID)

		require.NoError(t, service.BeginComment(ctx, user.ID, post.ID, &parent.ID))

		reloaded, err := store.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		pending := reloaded.MustGet().Pending
		require.Equal(t, models.PendingComment, pending.Kind)
		assert.Equal(t, post.ID, pending.Comment.PostID)
		require.NotNil(t, pending.Comment.ParentCommentID)
		assert.Equal(t, parent.ID, *pending.Comment.ParentCommentID)
	})

	t.Run("begin comment rejects unknown post", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		user := testutils.CreateTestUser(t, store.Users())

		err := service.BeginComment(ctx, user.ID, "p_missing", nil)
		require.ErrorIs(t, err, core.ErrPostNotFound)
	})

	t.Run("begin comment rejects parent from another post", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		user := testutils.CreateTestUser(t, store.Users())
		postA := testutils.CreateApprovedPost(t, store.Posts(), user.ID, user.ID)
		postB := testutils.CreateApprovedPost(t, store.Posts(), user.ID, user.ID)
		foreign := testutils.CreateTestComment(t, store.Comments(), postA.ID, nil, user.ID)

		err := service.BeginComment(ctx, user.ID, postB.ID, &foreign.ID)
		require.ErrorIs(t, err, core.ErrInvalidParent)
	})

	t.Run("begin post rejects unknown category", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		user := testutils.CreateTestUser(t, store.Users())

		err := service.BeginPost(ctx, user.ID, "NotACategory")
		require.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("last action wins over an earlier pending action", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		user := testutils.CreateTestUser(t, store.Users())
		post := testutils.CreateApprovedPost(t, store.Posts(), user.ID, user.ID)

		require.NoError(t, service.BeginComment(ctx, user.ID, post.ID, nil))
		require.NoError(t, service.BeginNameChange(ctx, user.ID))

		reloaded, err := store.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PendingName, reloaded.MustGet().Pending.Kind)
	})

	t.Run("begin private message requires an existing target", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		user := testutils.CreateTestUser(t, store.Users())

		err := service.BeginPrivateMessage(ctx, user.ID, "u-missing")
		require.ErrorIs(t, err, core.ErrUserNotFound)
	})
}

func TestConsume(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the pending action and resets the slot", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		user := testutils.CreateTestUser(t, store.Users())
		post := testutils.CreateApprovedPost(t, store.Posts(), user.ID, user.ID)

		require.NoError(t, service.BeginComment(ctx, user.ID, post.ID, nil))

		pending, consumed, err := service.Consume(ctx, user.ID)
		require.NoError(t, err)
		require.True(t, consumed)
		assert.Equal(t, models.PendingComment, pending.Kind)
		assert.Equal(t, post.ID, pending.Comment.PostID)

		reloaded, err := store.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PendingNone, reloaded.MustGet().Pending.Kind)
	})

	t.Run("second consume comes back empty", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		user := testutils.CreateTestUser(t, store.Users())

		require.NoError(t, service.BeginNameChange(ctx, user.ID))

		_, consumed, err := service.Consume(ctx, user.ID)
		require.NoError(t, err)
		require.True(t, consumed)

		_, consumed, err = service.Consume(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, consumed, "slot is None after the first consume")
	})

	t.Run("consume with no pending action reports false", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)
		user := testutils.CreateTestUser(t, store.Users())

		pending, consumed, err := service.Consume(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, consumed)
		assert.Equal(t, models.PendingNone, pending.Kind)
	})

	t.Run("consume of an unknown user fails", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)

		_, _, err := service.Consume(ctx, "u-missing")
		require.ErrorIs(t, err, core.ErrUserNotFound)
	})
}

func TestDrafts(t *testing.T) {
	t.Run("take returns the stored draft exactly once", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)

		draft := &models.PostDraft{AuthorID: "u-1", Content: "hello", Category: "Other"}
		service.PutDraft("u-1", draft)

		taken, err := service.TakeDraft("u-1")
		require.NoError(t, err)
		assert.Equal(t, "hello", taken.Content)

		_, err = service.TakeDraft("u-1")
		require.ErrorIs(t, err, core.ErrDraftExpired)
	})

	t.Run("stale draft is reported expired", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)

		service.PutDraft("u-1", &models.PostDraft{
			AuthorID:  "u-1",
			Content:   "old news",
			Category:  "Other",
			CreatedAt: time.Now().Add(-models.DraftTTL - time.Minute),
		})

		_, err := service.TakeDraft("u-1")
		require.ErrorIs(t, err, core.ErrDraftExpired)
	})

	t.Run("a new draft replaces the previous one", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)

		service.PutDraft("u-1", &models.PostDraft{AuthorID: "u-1", Content: "first"})
		service.PutDraft("u-1", &models.PostDraft{AuthorID: "u-1", Content: "second"})

		taken, err := service.TakeDraft("u-1")
		require.NoError(t, err)
		assert.Equal(t, "second", taken.Content)
	})

	t.Run("cancel reports whether a draft existed", func(t *testing.T) {
		store := memory.NewStore()
		service := newTestService(store)

		service.PutDraft("u-1", &models.PostDraft{AuthorID: "u-1", Content: "doomed"})
		assert.True(t, service.CancelDraft("u-1"))
		assert.False(t, service.CancelDraft("u-1"))
	})
}
