package users

import (
	"context"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonboard/core"
	"anonboard/db/memory"
	"anonboard/models"
)

// staleLookupRepo misses the first GetUserByID, like a request whose lookup
// ran before a concurrent first contact committed.
type staleLookupRepo struct {
	*memory.UsersRepository
	misses int
}

func (r *staleLookupRepo) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	if r.misses > 0 {
		r.misses--
		return mo.None[*models.User](), nil
	}
	return r.UsersRepository.GetUserByID(ctx, id)
}

func TestGetOrCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with a generated anonymous name on first contact", func(t *testing.T) {
		store := memory.NewStore()
		service := NewUsersService(store.Users())

		user, err := service.GetOrCreateUser(ctx, "ext-1")
		require.NoError(t, err)
		assert.Equal(t, "ext-1", user.ID)
		assert.Equal(t, "Anonymous1", user.DisplayName)
		assert.Equal(t, models.DefaultSexTag, user.Sex)
		assert.True(t, user.NotificationsEnabled)
		assert.Equal(t, models.PendingNone, user.Pending.Kind)
	})

	t.Run("returns the existing user on repeat contact", func(t *testing.T) {
		store := memory.NewStore()
		service := NewUsersService(store.Users())

		created, err := service.GetOrCreateUser(ctx, "ext-1")
		require.NoError(t, err)
		again, err := service.GetOrCreateUser(ctx, "ext-1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, again.ID)
		assert.Equal(t, created.DisplayName, again.DisplayName)
	})

	t.Run("a concurrent first contact returns the winner instead of failing", func(t *testing.T) {
		store := memory.NewStore()
		winner, err := NewUsersService(store.Users()).GetOrCreateUser(ctx, "ext-1")
		require.NoError(t, err)

		service := NewUsersService(&staleLookupRepo{UsersRepository: store.Users(), misses: 1})

		user, err := service.GetOrCreateUser(ctx, "ext-1")
		require.NoError(t, err)
		assert.Equal(t, winner.ID, user.ID)
		assert.Equal(t, winner.DisplayName, user.DisplayName)

		count, err := store.Users().CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("numbers anonymous names by population size", func(t *testing.T) {
		store := memory.NewStore()
		service := NewUsersService(store.Users())

		_, err := service.GetOrCreateUser(ctx, "ext-1")
		require.NoError(t, err)
		second, err := service.GetOrCreateUser(ctx, "ext-2")
		require.NoError(t, err)
		assert.Equal(t, "Anonymous2", second.DisplayName)
	})
}

func TestUpdateDisplayName(t *testing.T) {
	ctx := context.Background()

	t.Run("renames within the length bound", func(t *testing.T) {
		store := memory.NewStore()
		service := NewUsersService(store.Users())
		user, err := service.GetOrCreateUser(ctx, "ext-1")
		require.NoError(t, err)

		require.NoError(t, service.UpdateDisplayName(ctx, user.ID, "  Night Owl  "))

		reloaded, err := store.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Night Owl", reloaded.MustGet().DisplayName)
	})

	t.Run("rejects empty and oversized names", func(t *testing.T) {
		store := memory.NewStore()
		service := NewUsersService(store.Users())
		user, err := service.GetOrCreateUser(ctx, "ext-1")
		require.NoError(t, err)

		err = service.UpdateDisplayName(ctx, user.ID, "   ")
		require.ErrorIs(t, err, core.ErrInvalidInput)

		err = service.UpdateDisplayName(ctx, user.ID, strings.Repeat("x", models.MaxDisplayNameLength+1))
		require.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		store := memory.NewStore()
		service := NewUsersService(store.Users())

		err := service.UpdateDisplayName(ctx, "u-missing", "Ghost")
		require.ErrorIs(t, err, core.ErrUserNotFound)
	})
}

func TestPreferenceToggles(t *testing.T) {
	ctx := context.Background()

	store := memory.NewStore()
	service := NewUsersService(store.Users())
	user, err := service.GetOrCreateUser(ctx, "ext-1")
	require.NoError(t, err)

	require.NoError(t, service.SetNotificationsEnabled(ctx, user.ID, false))
	require.NoError(t, service.SetPrivacyPublic(ctx, user.ID, false))
	require.NoError(t, service.UpdateSex(ctx, user.ID, "🧔"))

	reloaded, err := store.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	updated := reloaded.MustGet()
	assert.False(t, updated.NotificationsEnabled)
	assert.False(t, updated.PrivacyPublic)
	assert.Equal(t, "🧔", updated.Sex)
}
