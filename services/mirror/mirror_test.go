package mirror

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"anonboard/clients"
	"anonboard/core"
	"anonboard/db/memory"
	"anonboard/services/threads"
	"anonboard/services/txmanager"
	"anonboard/testutils"
)

const testDeepLink = "https://example.com/bot"

func newTestMirror(store *memory.Store, messenger clients.Messenger) *MirrorService {
	threadsService := threads.NewThreadsService(
		store.Posts(),
		store.Comments(),
		store.Reactions(),
		txmanager.NewPassthroughTransactionManager(),
	)
	return NewMirrorService(store.Posts(), threadsService, messenger, testDeepLink)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("pushes the recomputed count to the mirror control", func(t *testing.T) {
		store := memory.NewStore()
		messenger := &clients.MockMessenger{}
		service := newTestMirror(store, messenger)
		user := testutils.CreateTestUser(t, store.Users())
		post := testutils.CreateApprovedPost(t, store.Posts(), user.ID, user.ID)
		testutils.CreateTestComment(t, store.Comments(), post.ID, nil, user.ID)
		c := testutils.CreateTestComment(t, store.Comments(), post.ID, nil, user.ID)
		testutils.CreateTestComment(t, store.Comments(), post.ID, &c.ID, user.ID)

		handle := clients.MessageHandle{Channel: post.Mirror.Channel, Ref: post.Mirror.Ref}
		expected := []clients.Control{CommentControl(testDeepLink, post.ID, 3)}
		messenger.On("UpdateControls", ctx, handle, expected).Return(clients.ControlUpdated, nil)

		require.NoError(t, service.Refresh(ctx, post.ID))
		messenger.AssertExpectations(t)

		// the denormalized column is overwritten with the recomputed figure
		reloaded, err := store.Posts().GetPostByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, reloaded.MustGet().CommentCount)
	})

	t.Run("twice in a row treats the unchanged response as success", func(t *testing.T) {
		store := memory.NewStore()
		messenger := &clients.MockMessenger{}
		service := newTestMirror(store, messenger)
		user := testutils.CreateTestUser(t, store.Users())
		post := testutils.CreateApprovedPost(t, store.Posts(), user.ID, user.ID)
		testutils.CreateTestComment(t, store.Comments(), post.ID, nil, user.ID)

		messenger.On("UpdateControls", ctx, mock.Anything, mock.Anything).
			Return(clients.ControlUpdated, nil).Once()
		messenger.On("UpdateControls", ctx, mock.Anything, mock.Anything).
			Return(clients.ControlUnchanged, nil).Once()

		require.NoError(t, service.Refresh(ctx, post.ID))
		require.NoError(t, service.Refresh(ctx, post.ID))
		messenger.AssertExpectations(t)
	})

	t.Run("no-op without a mirror handle", func(t *testing.T) {
		store := memory.NewStore()
		messenger := &clients.MockMessenger{}
		service := newTestMirror(store, messenger)
		user := testutils.CreateTestUser(t, store.Users())
		post := testutils.CreateTestPost(t, store.Posts(), user.ID)

		require.NoError(t, service.Refresh(ctx, post.ID))
		messenger.AssertNotCalled(t, "UpdateControls", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("messenger failure surfaces as mirror-unavailable", func(t *testing.T) {
		store := memory.NewStore()
		messenger := &clients.MockMessenger{}
		service := newTestMirror(store, messenger)
		user := testutils.CreateTestUser(t, store.Users())
		post := testutils.CreateApprovedPost(t, store.Posts(), user.ID, user.ID)

		messenger.On("UpdateControls", ctx, mock.Anything, mock.Anything).
			Return(clients.ControlUpdateResult(""), errors.New("rate limited"))

		err := service.Refresh(ctx, post.ID)
		require.ErrorIs(t, err, core.ErrMirrorUnavailable)

		// the count write landed before the push failed
		reloaded, err2 := store.Posts().GetPostByID(ctx, post.ID)
		require.NoError(t, err2)
		assert.Equal(t, 0, reloaded.MustGet().CommentCount)
	})

	t.Run("unknown post fails with PostNotFound", func(t *testing.T) {
		store := memory.NewStore()
		messenger := &clients.MockMessenger{}
		service := newTestMirror(store, messenger)

		err := service.Refresh(ctx, "p_missing")
		require.ErrorIs(t, err, core.ErrPostNotFound)
	})
}

func TestCommentControl(t *testing.T) {
	control := CommentControl("https://example.com/bot", "p_1", 7)
	assert.Equal(t, "💬 Comments (7)", control.Label)
	assert.Equal(t, "https://example.com/bot?start=post_p_1", control.URL)
}
