package rating

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/samber/mo"

	"anonboard/core"
	"anonboard/db"
	"anonboard/models"
)

// RatingService computes contribution scores and leaderboard ranks. Scores
// are pure functions of repository state, recomputed on demand - nothing is
// cached durably, so they cannot drift.
type RatingService struct {
	usersRepo    db.UsersRepository
	postsRepo    db.PostsRepository
	commentsRepo db.CommentsRepository
}

func NewRatingService(
	usersRepo db.UsersRepository,
	postsRepo db.PostsRepository,
	commentsRepo db.CommentsRepository,
) *RatingService {
	return &RatingService{
		usersRepo:    usersRepo,
		postsRepo:    postsRepo,
		commentsRepo: commentsRepo,
	}
}

// Score is the number of approved posts authored plus the number of comments
// authored. Replies count the same as top-level comments.
func (s *RatingService) Score(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("user_id cannot be empty: %w", core.ErrInvalidInput)
	}

	posts, err := s.postsRepo.CountApprovedByAuthor(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count approved posts: %w", err)
	}
	comments, err := s.commentsRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return posts + comments, nil
}

// Rank is the user's 1-based position over the full population, ordered by
// score descending with ties broken by user ID ascending. The tie-break
// makes the ordering total, so the same repository state always yields the
// same rank.
func (s *RatingService) Rank(ctx context.Context, userID string) (mo.Option[int], error) {
	if userID == "" {
		return mo.None[int](), fmt.Errorf("user_id cannot be empty: %w", core.ErrInvalidInput)
	}

	entries, err := s.rankedEntries(ctx)
	if err != nil {
		return mo.None[int](), err
	}

	for i, entry := range entries {
		if entry.User.ID == userID {
			return mo.Some(i + 1), nil
		}
	}
	return mo.None[int](), nil
}

func (s *RatingService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	log.Printf("📋 Building leaderboard with limit %d", limit)

	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive: %w", core.ErrInvalidInput)
	}

	entries, err := s.rankedEntries(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *RatingService) rankedEntries(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	users, err := s.usersRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(users))
	for _, user := range users {
		score, err := s.Score(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &models.LeaderboardEntry{User: user, Score: score})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].User.ID < entries[j].User.ID
	})
	return entries, nil
}
