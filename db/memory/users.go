package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/mo"

	"anonboard/core"
	"anonboard/models"
)

type UsersRepository struct {
	store *Store
}

func cloneUser(user *models.User) *models.User {
	clone := *user
	return &clone
}

func (r *UsersRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.users[user.ID]; exists {
		return fmt.Errorf("user %s already exists: %w", user.ID, core.ErrConflict)
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = cloneUser(user)
	r.store.nextSeq(user.ID)
	return nil
}

func (r *UsersRepository) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return mo.None[*models.User](), nil
	}
	return mo.Some(cloneUser(user)), nil
}

func (r *UsersRepository) GetUserByDisplayName(
	ctx context.Context,
	displayName string,
) (mo.Option[*models.User], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if user.DisplayName == displayName {
			return mo.Some(cloneUser(user)), nil
		}
	}
	return mo.None[*models.User](), nil
}

func (r *UsersRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*models.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UsersRepository) CountUsers(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.users), nil
}

func (r *UsersRepository) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	return r.mutate(userID, func(user *models.User) {
		user.DisplayName = displayName
	})
}

func (r *UsersRepository) UpdateSex(ctx context.Context, userID, sex string) error {
	return r.mutate(userID, func(user *models.User) {
		user.Sex = sex
	})
}

func (r *UsersRepository) UpdateNotificationsEnabled(ctx context.Context, userID string, enabled bool) error {
	return r.mutate(userID, func(user *models.User) {
		user.NotificationsEnabled = enabled
	})
}

func (r *UsersRepository) UpdatePrivacyPublic(ctx context.Context, userID string, public bool) error {
	return r.mutate(userID, func(user *models.User) {
		user.PrivacyPublic = public
	})
}

func (r *UsersRepository) SetPendingAction(
	ctx context.Context,
	userID string,
	action models.PendingAction,
) error {
	return r.mutate(userID, func(user *models.User) {
		user.Pending = action
	})
}

func (r *UsersRepository) CompareAndSwapPendingAction(
	ctx context.Context,
	userID string,
	expected models.PendingKind,
	next models.PendingAction,
) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok {
		return false, fmt.Errorf("user not found: %s", userID)
	}
	if user.Pending.Kind != expected {
		return false, nil
	}
	user.Pending = next
	user.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *UsersRepository) mutate(userID string, fn func(*models.User)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	fn(user)
	user.UpdatedAt = time.Now().UTC()
	return nil
}
