package threads

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/samber/mo"

	"anonboard/core"
	"anonboard/db"
	"anonboard/models"
	"anonboard/services"
)

// ThreadsService owns all mutations and derived views over a post's
// discussion: comment/reply creation, reaction toggling and recursive
// descendant counting. Comments are immutable once written.
type ThreadsService struct {
	postsRepo     db.PostsRepository
	commentsRepo  db.CommentsRepository
	reactionsRepo db.ReactionsRepository
	txManager     services.TransactionManager
}

func NewThreadsService(
	postsRepo db.PostsRepository,
	commentsRepo db.CommentsRepository,
	reactionsRepo db.ReactionsRepository,
	txManager services.TransactionManager,
) *ThreadsService {
	return &ThreadsService{
		postsRepo:     postsRepo,
		commentsRepo:  commentsRepo,
		reactionsRepo: reactionsRepo,
		txManager:     txManager,
	}
}

func (s *ThreadsService) AddComment(
	ctx context.Context,
	postID string,
	parentCommentID *string,
	authorID string,
	content models.CommentContent,
) (*models.Comment, error) {
	log.Printf("📋 Adding comment to post %s by user %s", postID, authorID)

	if postID == "" || authorID == "" {
		return nil, fmt.Errorf("post_id and author_id cannot be empty: %w", core.ErrInvalidInput)
	}
	if content.MediaType == models.MediaTypeText && strings.TrimSpace(content.Text) == "" {
		return nil, fmt.Errorf("comment text cannot be empty: %w", core.ErrInvalidInput)
	}
	if content.MediaType != models.MediaTypeText && content.MediaRef == nil {
		return nil, fmt.Errorf("media comment without media reference: %w", core.ErrInvalidInput)
	}

	comment := &models.Comment{
		ID:              core.NewID("c"),
		PostID:          postID,
		ParentCommentID: parentCommentID,
		AuthorID:        authorID,
		Content:         content.Text,
		MediaType:       content.MediaType,
		MediaRef:        content.MediaRef,
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		maybePost, err := s.postsRepo.GetPostByID(ctx, postID)
		if err != nil {
			return fmt.Errorf("failed to get post: %w", err)
		}
		if maybePost.IsAbsent() {
			return fmt.Errorf("post %s: %w", postID, core.ErrPostNotFound)
		}

		if parentCommentID != nil {
			maybeParent, err := s.commentsRepo.GetCommentByID(ctx, *parentCommentID)
			if err != nil {
				return fmt.Errorf("failed to get parent comment: %w", err)
			}
			parent, ok := maybeParent.Get()
			if !ok || parent.PostID != postID {
				return fmt.Errorf("parent %s under post %s: %w", *parentCommentID, postID, core.ErrInvalidParent)
			}
		}

		return s.commentsRepo.CreateComment(ctx, comment)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Added comment %s to post %s", comment.ID, postID)
	return comment, nil
}

// ToggleReaction deletes any existing reaction by this user on this comment,
// then inserts the new one unless it is an exact repeat of the type just
// removed. A concurrent duplicate insert trips the unique constraint; the
// whole toggle is then re-read and reapplied once before giving up.
func (s *ThreadsService) ToggleReaction(
	ctx context.Context,
	commentID, userID string,
	reactionType models.ReactionType,
) (*models.ReactionCounts, error) {
	log.Printf("📋 Toggling %s by user %s on comment %s", reactionType, userID, commentID)

	if commentID == "" || userID == "" {
		return nil, fmt.Errorf("comment_id and user_id cannot be empty: %w", core.ErrInvalidInput)
	}
	if reactionType != models.ReactionLike && reactionType != models.ReactionDislike {
		return nil, fmt.Errorf("unknown reaction type %q: %w", reactionType, core.ErrInvalidInput)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		lastErr = s.applyToggle(ctx, commentID, userID, reactionType)
		if lastErr == nil {
			break
		}
		if !core.IsConflictError(lastErr) {
			return nil, lastErr
		}
		log.Printf("⚠️ Reaction toggle conflicted on comment %s, retrying", commentID)
	}
	if lastErr != nil {
		// Still conflicting after the retry - report it as input the caller
		// cannot make succeed right now.
		return nil, fmt.Errorf("reaction toggle kept conflicting: %w", core.ErrInvalidInput)
	}

	counts, err := s.reactionsRepo.GetReactionCounts(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction counts: %w", err)
	}

	log.Printf("✅ Comment %s now has %d likes, %d dislikes", commentID, counts.Likes, counts.Dislikes)
	return counts, nil
}

func (s *ThreadsService) applyToggle(
	ctx context.Context,
	commentID, userID string,
	reactionType models.ReactionType,
) error {
	return s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		maybeComment, err := s.commentsRepo.GetCommentByID(ctx, commentID)
		if err != nil {
			return fmt.Errorf("failed to get comment: %w", err)
		}
		if maybeComment.IsAbsent() {
			return fmt.Errorf("comment %s: %w", commentID, core.ErrCommentNotFound)
		}

		maybeExisting, err := s.reactionsRepo.GetReaction(ctx, commentID, userID)
		if err != nil {
			return fmt.Errorf("failed to get existing reaction: %w", err)
		}

		if _, err := s.reactionsRepo.DeleteReaction(ctx, commentID, userID); err != nil {
			return fmt.Errorf("failed to delete existing reaction: %w", err)
		}

		// Repeating the existing type is a pure toggle-off.
		if existing, ok := maybeExisting.Get(); ok && existing.Type == reactionType {
			return nil
		}

		return s.reactionsRepo.InsertReaction(ctx, &models.Reaction{
			CommentID: commentID,
			UserID:    userID,
			Type:      reactionType,
		})
	})
}

func (s *ThreadsService) GetComment(ctx context.Context, commentID string) (mo.Option[*models.Comment], error) {
	if commentID == "" {
		return mo.None[*models.Comment](), fmt.Errorf("comment_id cannot be empty: %w", core.ErrInvalidInput)
	}
	return s.commentsRepo.GetCommentByID(ctx, commentID)
}

// CountComments is the canonical total shown on the mirror control. It walks
// the tree from the post root on every call; the denormalized column on the
// post row is only ever written from this figure, never trusted.
func (s *ThreadsService) CountComments(ctx context.Context, postID string) (int, error) {
	if postID == "" {
		return 0, fmt.Errorf("post_id cannot be empty: %w", core.ErrInvalidInput)
	}
	maybePost, err := s.postsRepo.GetPostByID(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to get post: %w", err)
	}
	if maybePost.IsAbsent() {
		return 0, fmt.Errorf("post %s: %w", postID, core.ErrPostNotFound)
	}
	return s.countSubtree(ctx, postID, nil)
}

func (s *ThreadsService) CountDescendants(ctx context.Context, postID, commentID string) (int, error) {
	if postID == "" || commentID == "" {
		return 0, fmt.Errorf("post_id and comment_id cannot be empty: %w", core.ErrInvalidInput)
	}
	maybeComment, err := s.commentsRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return 0, fmt.Errorf("failed to get comment: %w", err)
	}
	comment, ok := maybeComment.Get()
	if !ok || comment.PostID != postID {
		return 0, fmt.Errorf("comment %s under post %s: %w", commentID, postID, core.ErrCommentNotFound)
	}
	return s.countSubtree(ctx, postID, &commentID)
}

func (s *ThreadsService) countSubtree(ctx context.Context, postID string, parentID *string) (int, error) {
	childIDs, err := s.commentsRepo.ListChildIDs(ctx, postID, parentID)
	if err != nil {
		return 0, fmt.Errorf("failed to list child comments: %w", err)
	}

	total := 0
	for _, childID := range childIDs {
		child := childID
		below, err := s.countSubtree(ctx, postID, &child)
		if err != nil {
			return 0, err
		}
		total += 1 + below
	}
	return total, nil
}

// ListTopLevel pages through a post's top-level comments newest first.
func (s *ThreadsService) ListTopLevel(
	ctx context.Context,
	postID string,
	page, pageSize int,
) ([]*models.Comment, error) {
	limit, offset, err := pageBounds(page, pageSize)
	if err != nil {
		return nil, err
	}
	return s.commentsRepo.ListTopLevelPage(ctx, postID, limit, offset)
}

// ListReplies pages through a comment's direct replies oldest first,
// preserving conversational order within the thread.
func (s *ThreadsService) ListReplies(
	ctx context.Context,
	parentCommentID string,
	page, pageSize int,
) ([]*models.Comment, error) {
	limit, offset, err := pageBounds(page, pageSize)
	if err != nil {
		return nil, err
	}
	return s.commentsRepo.ListRepliesPage(ctx, parentCommentID, limit, offset)
}

func pageBounds(page, pageSize int) (limit, offset int, err error) {
	if page < 1 || pageSize < 1 {
		return 0, 0, fmt.Errorf("page and page size must be positive: %w", core.ErrInvalidInput)
	}
	return pageSize, (page - 1) * pageSize, nil
}
