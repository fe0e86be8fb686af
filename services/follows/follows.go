package follows

import (
	"context"
	"fmt"
	"log"

	"anonboard/core"
	"anonboard/db"
)

// FollowsService owns follow and block pairs. Following is one-directional;
// A following B says nothing about B following A. A block is permanent in
// scope - there is no unblock surface.
type FollowsService struct {
	usersRepo  db.UsersRepository
	socialRepo db.SocialRepository
}

func NewFollowsService(usersRepo db.UsersRepository, socialRepo db.SocialRepository) *FollowsService {
	return &FollowsService{usersRepo: usersRepo, socialRepo: socialRepo}
}

func (s *FollowsService) Follow(ctx context.Context, followerID, followedID string) error {
	log.Printf("📋 User %s follows user %s", followerID, followedID)

	if err := s.requirePair(ctx, followerID, followedID); err != nil {
		return err
	}
	if err := s.socialRepo.CreateFollow(ctx, followerID, followedID); err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

func (s *FollowsService) Unfollow(ctx context.Context, followerID, followedID string) error {
	log.Printf("📋 User %s unfollows user %s", followerID, followedID)

	if followerID == "" || followedID == "" {
		return fmt.Errorf("follower and followed ids cannot be empty: %w", core.ErrInvalidInput)
	}
	if _, err := s.socialRepo.DeleteFollow(ctx, followerID, followedID); err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

func (s *FollowsService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	return s.socialRepo.IsFollowing(ctx, followerID, followedID)
}

func (s *FollowsService) CountFollowers(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("user_id cannot be empty: %w", core.ErrInvalidInput)
	}
	return s.socialRepo.CountFollowers(ctx, userID)
}

func (s *FollowsService) Block(ctx context.Context, blockerID, blockedID string) error {
	log.Printf("📋 User %s blocks user %s", blockerID, blockedID)

	if err := s.requirePair(ctx, blockerID, blockedID); err != nil {
		return err
	}
	if err := s.socialRepo.CreateBlock(ctx, blockerID, blockedID); err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}
	return nil
}

func (s *FollowsService) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	return s.socialRepo.IsBlocked(ctx, blockerID, blockedID)
}

func (s *FollowsService) requirePair(ctx context.Context, actorID, targetID string) error {
	if actorID == "" || targetID == "" {
		return fmt.Errorf("actor and target ids cannot be empty: %w", core.ErrInvalidInput)
	}
	if actorID == targetID {
		return fmt.Errorf("actor and target must differ: %w", core.ErrInvalidInput)
	}
	maybeTarget, err := s.usersRepo.GetUserByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to get target user: %w", err)
	}
	if maybeTarget.IsAbsent() {
		return fmt.Errorf("user %s: %w", targetID, core.ErrUserNotFound)
	}
	return nil
}
