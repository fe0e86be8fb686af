package privatemsgs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"anonboard/core"
	"anonboard/db/memory"
	"anonboard/services"
	"anonboard/testutils"
)

type testEnv struct {
	store         *memory.Store
	notifications *services.MockNotificationsService
	service       *PrivateMessagesService
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	notifications := &services.MockNotificationsService{}
	service := NewPrivateMessagesService(
		store.Users(),
		store.Social(),
		store.PrivateMessages(),
		notifications,
	)
	return &testEnv{store: store, notifications: notifications, service: service}
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the message and notifies the receiver", func(t *testing.T) {
		env := newTestEnv()
		sender := testutils.CreateTestUser(t, env.store.Users())
		receiver := testutils.CreateTestUser(t, env.store.Users())

		env.notifications.On("NotifyPrivateMessage", ctx, mock.Anything).Return(nil)

		message, err := env.service.SendMessage(ctx, sender.ID, receiver.ID, "hey there")
		require.NoError(t, err)
		assert.Equal(t, sender.ID, message.SenderID)
		assert.Equal(t, receiver.ID, message.ReceiverID)
		assert.False(t, message.IsRead)
		env.notifications.AssertExpectations(t)

		unread, err := env.service.CountUnread(ctx, receiver.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, unread)
	})

	t.Run("a block by the receiver suppresses delivery", func(t *testing.T) {
		env := newTestEnv()
		sender := testutils.CreateTestUser(t, env.store.Users())
		receiver := testutils.CreateTestUser(t, env.store.Users())
		require.NoError(t, env.store.Social().CreateBlock(ctx, receiver.ID, sender.ID))

		_, err := env.service.SendMessage(ctx, sender.ID, receiver.ID, "let me in")
		require.ErrorIs(t, err, core.ErrBlocked)

		count, err := env.store.PrivateMessages().CountInbox(ctx, receiver.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, count, "blocked mail is never stored")
		env.notifications.AssertNotCalled(t, "NotifyPrivateMessage", mock.Anything, mock.Anything)
	})

	t.Run("a failed notification does not undo delivery", func(t *testing.T) {
		env := newTestEnv()
		sender := testutils.CreateTestUser(t, env.store.Users())
		receiver := testutils.CreateTestUser(t, env.store.Users())

		env.notifications.On("NotifyPrivateMessage", ctx, mock.Anything).Return(assert.AnError)

		_, err := env.service.SendMessage(ctx, sender.ID, receiver.ID, "still arrives")
		require.NoError(t, err)

		count, err := env.store.PrivateMessages().CountInbox(ctx, receiver.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("validates sender, receiver and content", func(t *testing.T) {
		env := newTestEnv()
		sender := testutils.CreateTestUser(t, env.store.Users())

		_, err := env.service.SendMessage(ctx, sender.ID, sender.ID, "note to self")
		require.ErrorIs(t, err, core.ErrInvalidInput)

		_, err = env.service.SendMessage(ctx, sender.ID, "u-missing", "hello?")
		require.ErrorIs(t, err, core.ErrUserNotFound)

		receiver := testutils.CreateTestUser(t, env.store.Users())
		_, err = env.service.SendMessage(ctx, sender.ID, receiver.ID, "   ")
		require.ErrorIs(t, err, core.ErrInvalidInput)
	})
}

func TestListInbox(t *testing.T) {
	ctx := context.Background()

	t.Run("returns newest first and marks the inbox read", func(t *testing.T) {
		env := newTestEnv()
		sender := testutils.CreateTestUser(t, env.store.Users())
		receiver := testutils.CreateTestUser(t, env.store.Users())

		env.notifications.On("NotifyPrivateMessage", ctx, mock.Anything).Return(nil)

		first, err := env.service.SendMessage(ctx, sender.ID, receiver.ID, "first")
		require.NoError(t, err)
		second, err := env.service.SendMessage(ctx, sender.ID, receiver.ID, "second")
		require.NoError(t, err)

		inbox, err := env.service.ListInbox(ctx, receiver.ID, 1, 10)
		require.NoError(t, err)
		require.Len(t, inbox, 2)
		assert.Equal(t, second.ID, inbox[0].ID)
		assert.Equal(t, first.ID, inbox[1].ID)

		unread, err := env.service.CountUnread(ctx, receiver.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, unread)
	})

	t.Run("pages the inbox", func(t *testing.T) {
		env := newTestEnv()
		sender := testutils.CreateTestUser(t, env.store.Users())
		receiver := testutils.CreateTestUser(t, env.store.Users())

		env.notifications.On("NotifyPrivateMessage", ctx, mock.Anything).Return(nil)
		for i := 0; i < 5; i++ {
			_, err := env.service.SendMessage(ctx, sender.ID, receiver.ID, "ping")
			require.NoError(t, err)
		}

		pageTwo, err := env.service.ListInbox(ctx, receiver.ID, 2, 2)
		require.NoError(t, err)
		assert.Len(t, pageTwo, 2)

		pageThree, err := env.service.ListInbox(ctx, receiver.ID, 3, 2)
		require.NoError(t, err)
		assert.Len(t, pageThree, 1)
	})
}
