package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/mo"

	"anonboard/models"
)

type CommentsRepository struct {
	store *Store
}

func cloneComment(comment *models.Comment) *models.Comment {
	clone := *comment
	if comment.ParentCommentID != nil {
		parent := *comment.ParentCommentID
		clone.ParentCommentID = &parent
	}
	if comment.MediaRef != nil {
		ref := *comment.MediaRef
		clone.MediaRef = &ref
	}
	return &clone
}

func (r *CommentsRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.comments[comment.ID]; exists {
		return fmt.Errorf("comment already exists: %s", comment.ID)
	}

	comment.CreatedAt = time.Now().UTC()
	r.store.comments[comment.ID] = cloneComment(comment)
	r.store.nextSeq(comment.ID)
	return nil
}

func (r *CommentsRepository) GetCommentByID(ctx context.Context, id string) (mo.Option[*models.Comment], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	comment, ok := r.store.comments[id]
	if !ok {
		return mo.None[*models.Comment](), nil
	}
	return mo.Some(cloneComment(comment)), nil
}

func (r *CommentsRepository) ListChildIDs(
	ctx context.Context,
	postID string,
	parentID *string,
) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var ids []string
	for _, comment := range r.store.comments {
		if comment.PostID != postID {
			continue
		}
		if sameParent(comment.ParentCommentID, parentID) {
			ids = append(ids, comment.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return r.store.seqByID[ids[i]] < r.store.seqByID[ids[j]]
	})
	return ids, nil
}

func (r *CommentsRepository) ListTopLevelPage(
	ctx context.Context,
	postID string,
	limit, offset int,
) ([]*models.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var topLevel []*models.Comment
	for _, comment := range r.store.comments {
		if comment.PostID == postID && comment.ParentCommentID == nil {
			topLevel = append(topLevel, cloneComment(comment))
		}
	}
	// newest first
	sort.Slice(topLevel, func(i, j int) bool {
		return r.store.seqByID[topLevel[i].ID] > r.store.seqByID[topLevel[j].ID]
	})
	return page(topLevel, limit, offset), nil
}

func (r *CommentsRepository) ListRepliesPage(
	ctx context.Context,
	parentID string,
	limit, offset int,
) ([]*models.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var replies []*models.Comment
	for _, comment := range r.store.comments {
		if comment.ParentCommentID != nil && *comment.ParentCommentID == parentID {
			replies = append(replies, cloneComment(comment))
		}
	}
	// oldest first
	sort.Slice(replies, func(i, j int) bool {
		return r.store.seqByID[replies[i].ID] < r.store.seqByID[replies[j].ID]
	})
	return page(replies, limit, offset), nil
}

func (r *CommentsRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, comment := range r.store.comments {
		if comment.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (r *CommentsRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, comment := range r.store.comments {
		if comment.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *CommentsRepository) CountAll(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.comments), nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func page(comments []*models.Comment, limit, offset int) []*models.Comment {
	if offset >= len(comments) {
		return nil
	}
	comments = comments[offset:]
	if limit > 0 && len(comments) > limit {
		comments = comments[:limit]
	}
	return comments
}
