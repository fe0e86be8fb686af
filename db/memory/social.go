package memory

import (
	"context"

	"anonboard/models"
)

type SocialRepository struct {
	store *Store
}

func (r *SocialRepository) CreateFollow(ctx context.Context, followerID, followedID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.follows[pairKey(followerID, followedID)] = models.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
	}
	return nil
}

func (r *SocialRepository) DeleteFollow(ctx context.Context, followerID, followedID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := pairKey(followerID, followedID)
	if _, ok := r.store.follows[key]; !ok {
		return false, nil
	}
	delete(r.store.follows, key)
	return true, nil
}

func (r *SocialRepository) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.follows[pairKey(followerID, followedID)]
	return ok, nil
}

func (r *SocialRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, follow := range r.store.follows {
		if follow.FollowedID == userID {
			count++
		}
	}
	return count, nil
}

func (r *SocialRepository) CreateBlock(ctx context.Context, blockerID, blockedID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.blocks[pairKey(blockerID, blockedID)] = models.Block{
		BlockerID: blockerID,
		BlockedID: blockedID,
	}
	return nil
}

func (r *SocialRepository) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.blocks[pairKey(blockerID, blockedID)]
	return ok, nil
}
