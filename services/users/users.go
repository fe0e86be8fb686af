package users

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/samber/mo"

	"anonboard/core"
	"anonboard/db"
	"anonboard/models"
)

// UsersService owns user records and profile edits. User identifiers are
// opaque strings supplied by the transport; the service creates a record
// with a generated anonymous name on first contact.
type UsersService struct {
	usersRepo db.UsersRepository
}

func NewUsersService(repo db.UsersRepository) *UsersService {
	return &UsersService{usersRepo: repo}
}

func (s *UsersService) GetOrCreateUser(ctx context.Context, userID string) (*models.User, error) {
	log.Printf("📋 Starting to get or create user: %s", userID)

	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty: %w", core.ErrInvalidInput)
	}

	maybeUser, err := s.usersRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user, ok := maybeUser.Get(); ok {
		return user, nil
	}

	count, err := s.usersRepo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	user := &models.User{
		ID:                   userID,
		DisplayName:          fmt.Sprintf("Anonymous%d", count+1),
		Sex:                  models.DefaultSexTag,
		NotificationsEnabled: true,
		PrivacyPublic:        true,
		Pending:              models.NoPendingAction(),
	}
	if err := s.usersRepo.CreateUser(ctx, user); err != nil {
		// Two first contacts can race past the lookup; the unique constraint
		// picks the winner and the loser re-reads it.
		if core.IsConflictError(err) {
			maybeWinner, readErr := s.usersRepo.GetUserByID(ctx, userID)
			if readErr != nil {
				return nil, fmt.Errorf("failed to get user after concurrent create: %w", readErr)
			}
			if winner, ok := maybeWinner.Get(); ok {
				return winner, nil
			}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("✅ Created user %s with display name %s", user.ID, user.DisplayName)
	return user, nil
}

func (s *UsersService) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	if id == "" {
		return mo.None[*models.User](), fmt.Errorf("user_id cannot be empty: %w", core.ErrInvalidInput)
	}
	return s.usersRepo.GetUserByID(ctx, id)
}

func (s *UsersService) GetUserByDisplayName(
	ctx context.Context,
	displayName string,
) (mo.Option[*models.User], error) {
	if displayName == "" {
		return mo.None[*models.User](), fmt.Errorf("display_name cannot be empty: %w", core.ErrInvalidInput)
	}
	return s.usersRepo.GetUserByDisplayName(ctx, displayName)
}

func (s *UsersService) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	log.Printf("📋 Updating display name for user: %s", userID)

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("display name cannot be empty: %w", core.ErrInvalidInput)
	}
	if len([]rune(displayName)) > models.MaxDisplayNameLength {
		return fmt.Errorf(
			"display name exceeds %d characters: %w",
			models.MaxDisplayNameLength,
			core.ErrInvalidInput,
		)
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	if err := s.usersRepo.UpdateDisplayName(ctx, userID, displayName); err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}

	log.Printf("✅ Updated display name for user %s", userID)
	return nil
}

func (s *UsersService) UpdateSex(ctx context.Context, userID, sex string) error {
	if strings.TrimSpace(sex) == "" {
		return fmt.Errorf("sex tag cannot be empty: %w", core.ErrInvalidInput)
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	if err := s.usersRepo.UpdateSex(ctx, userID, sex); err != nil {
		return fmt.Errorf("failed to update sex tag: %w", err)
	}
	return nil
}

func (s *UsersService) SetNotificationsEnabled(ctx context.Context, userID string, enabled bool) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	if err := s.usersRepo.UpdateNotificationsEnabled(ctx, userID, enabled); err != nil {
		return fmt.Errorf("failed to update notification preference: %w", err)
	}
	return nil
}

func (s *UsersService) SetPrivacyPublic(ctx context.Context, userID string, public bool) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	if err := s.usersRepo.UpdatePrivacyPublic(ctx, userID, public); err != nil {
		return fmt.Errorf("failed to update privacy preference: %w", err)
	}
	return nil
}

func (s *UsersService) requireUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user_id cannot be empty: %w", core.ErrInvalidInput)
	}
	maybeUser, err := s.usersRepo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if maybeUser.IsAbsent() {
		return fmt.Errorf("user %s: %w", userID, core.ErrUserNotFound)
	}
	return nil
}
