package notifications

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"anonboard/clients"
	"anonboard/db/memory"
	"anonboard/models"
	"anonboard/testutils"
)

type testEnv struct {
	store     *memory.Store
	messenger *clients.MockMessenger
	service   *NotificationsService
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	messenger := &clients.MockMessenger{}
	service := NewNotificationsService(store.Users(), store.Social(), messenger)
	return &testEnv{store: store, messenger: messenger, service: service}
}

func TestShouldNotify(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies a willing stranger", func(t *testing.T) {
		env := newTestEnv()
		target := testutils.CreateTestUser(t, env.store.Users())
		actor := testutils.CreateTestUser(t, env.store.Users())

		notify, err := env.service.ShouldNotify(ctx, target.ID, actor.ID)
		require.NoError(t, err)
		assert.True(t, notify)
	})

	t.Run("never notifies the actor about themselves", func(t *testing.T) {
		env := newTestEnv()
		user := testutils.CreateTestUser(t, env.store.Users())

		notify, err := env.service.ShouldNotify(ctx, user.ID, user.ID)
		require.NoError(t, err)
		assert.False(t, notify)
	})

	t.Run("honors the notification preference", func(t *testing.T) {
		env := newTestEnv()
		target := testutils.CreateTestUser(t, env.store.Users())
		actor := testutils.CreateTestUser(t, env.store.Users())
		require.NoError(t, env.store.Users().UpdateNotificationsEnabled(ctx, target.ID, false))

		notify, err := env.service.ShouldNotify(ctx, target.ID, actor.ID)
		require.NoError(t, err)
		assert.False(t, notify)
	})

	t.Run("a block silences the blocked actor", func(t *testing.T) {
		env := newTestEnv()
		target := testutils.CreateTestUser(t, env.store.Users())
		actor := testutils.CreateTestUser(t, env.store.Users())
		require.NoError(t, env.store.Social().CreateBlock(ctx, target.ID, actor.ID))

		notify, err := env.service.ShouldNotify(ctx, target.ID, actor.ID)
		require.NoError(t, err)
		assert.False(t, notify)
	})

	t.Run("unknown target is silently skipped", func(t *testing.T) {
		env := newTestEnv()
		actor := testutils.CreateTestUser(t, env.store.Users())

		notify, err := env.service.ShouldNotify(ctx, "u-missing", actor.ID)
		require.NoError(t, err)
		assert.False(t, notify)
	})
}

func TestNotifyReply(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers a preview to the parent author", func(t *testing.T) {
		env := newTestEnv()
		parentAuthor := testutils.CreateTestUser(t, env.store.Users())
		replier := testutils.CreateTestUser(t, env.store.Users())

		parent := &models.Comment{ID: "c_1", PostID: "p_1", AuthorID: parentAuthor.ID, Content: "original"}
		reply := &models.Comment{ID: "c_2", PostID: "p_1", AuthorID: replier.ID, Content: "answer"}

		env.messenger.On("SendDirectMessage", ctx, parentAuthor.ID, mock.MatchedBy(func(text string) bool {
			return strings.Contains(text, "answer")
		})).Return(nil)

		require.NoError(t, env.service.NotifyReply(ctx, parent, reply))
		env.messenger.AssertExpectations(t)
	})

	t.Run("self-replies are silent", func(t *testing.T) {
		env := newTestEnv()
		author := testutils.CreateTestUser(t, env.store.Users())

		parent := &models.Comment{ID: "c_1", PostID: "p_1", AuthorID: author.ID, Content: "talking"}
		reply := &models.Comment{ID: "c_2", PostID: "p_1", AuthorID: author.ID, Content: "to myself"}

		require.NoError(t, env.service.NotifyReply(ctx, parent, reply))
		env.messenger.AssertNotCalled(t, "SendDirectMessage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotifyNewPendingPost(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers a review alert to the moderation account", func(t *testing.T) {
		env := newTestEnv()
		author := testutils.CreateTestUser(t, env.store.Users())

		post := &models.Post{ID: "p_1", AuthorID: author.ID, Category: "Other", Content: "please review"}
		env.messenger.On("SendDirectMessage", ctx, "u-moderator", mock.MatchedBy(func(text string) bool {
			return strings.Contains(text, "please review")
		})).Return(nil)

		require.NoError(t, env.service.NotifyNewPendingPost(ctx, post, "u-moderator"))
		env.messenger.AssertExpectations(t)
	})

	t.Run("requires a moderation account", func(t *testing.T) {
		env := newTestEnv()

		post := &models.Post{ID: "p_1", AuthorID: "u-1", Content: "orphaned"}
		err := env.service.NotifyNewPendingPost(ctx, post, "")
		require.Error(t, err)
		env.messenger.AssertNotCalled(t, "SendDirectMessage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotifyPostRejected(t *testing.T) {
	ctx := context.Background()

	// moderation outcomes ignore the notification preference
	env := newTestEnv()
	author := testutils.CreateTestUser(t, env.store.Users())
	require.NoError(t, env.store.Users().UpdateNotificationsEnabled(ctx, author.ID, false))

	post := &models.Post{ID: "p_1", AuthorID: author.ID, Content: "turned down"}
	env.messenger.On("SendDirectMessage", ctx, author.ID, mock.Anything).Return(nil)

	require.NoError(t, env.service.NotifyPostRejected(ctx, post))
	env.messenger.AssertExpectations(t)
}
