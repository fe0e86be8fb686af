package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/mo"

	"anonboard/core"
	"anonboard/models"
)

type ReactionsRepository struct {
	store *Store
}

func (r *ReactionsRepository) GetReaction(
	ctx context.Context,
	commentID, userID string,
) (mo.Option[*models.Reaction], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reaction, ok := r.store.reactions[pairKey(commentID, userID)]
	if !ok {
		return mo.None[*models.Reaction](), nil
	}
	clone := *reaction
	return mo.Some(&clone), nil
}

func (r *ReactionsRepository) DeleteReaction(ctx context.Context, commentID, userID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := pairKey(commentID, userID)
	if _, ok := r.store.reactions[key]; !ok {
		return false, nil
	}
	delete(r.store.reactions, key)
	return true, nil
}

func (r *ReactionsRepository) InsertReaction(ctx context.Context, reaction *models.Reaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := pairKey(reaction.CommentID, reaction.UserID)
	if _, ok := r.store.reactions[key]; ok {
		return fmt.Errorf("reaction already exists for comment %s by user %s: %w",
			reaction.CommentID, reaction.UserID, core.ErrConflict)
	}

	reaction.CreatedAt = time.Now().UTC()
	clone := *reaction
	r.store.reactions[key] = &clone
	return nil
}

func (r *ReactionsRepository) GetReactionCounts(
	ctx context.Context,
	commentID string,
) (*models.ReactionCounts, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := &models.ReactionCounts{}
	for _, reaction := range r.store.reactions {
		if reaction.CommentID != commentID {
			continue
		}
		switch reaction.Type {
		case models.ReactionLike:
			counts.Likes++
		case models.ReactionDislike:
			counts.Dislikes++
		}
	}
	return counts, nil
}
