package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/mo"

	"anonboard/models"
)

type PostsRepository struct {
	store *Store
}

func clonePost(post *models.Post) *models.Post {
	clone := *post
	if post.Mirror != nil {
		mirror := *post.Mirror
		clone.Mirror = &mirror
	}
	return &clone
}

func (r *PostsRepository) CreatePost(ctx context.Context, post *models.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.posts[post.ID]; exists {
		return fmt.Errorf("post already exists: %s", post.ID)
	}

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Approved = false
	post.ApprovedBy = nil
	post.Mirror = nil
	post.CommentCount = 0
	r.store.posts[post.ID] = clonePost(post)
	r.store.nextSeq(post.ID)
	return nil
}

func (r *PostsRepository) GetPostByID(ctx context.Context, id string) (mo.Option[*models.Post], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	post, ok := r.store.posts[id]
	if !ok {
		return mo.None[*models.Post](), nil
	}
	return mo.Some(clonePost(post)), nil
}

func (r *PostsRepository) ListPendingPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var pending []*models.Post
	for _, post := range r.store.posts {
		if !post.Approved {
			pending = append(pending, clonePost(post))
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return r.store.seqByID[pending[i].ID] < r.store.seqByID[pending[j].ID]
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *PostsRepository) ApprovePost(ctx context.Context, postID, approverID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	post, ok := r.store.posts[postID]
	if !ok || post.Approved {
		return false, nil
	}
	post.Approved = true
	approver := approverID
	post.ApprovedBy = &approver
	post.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *PostsRepository) DeletePost(ctx context.Context, postID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.posts[postID]; !ok {
		return false, nil
	}
	delete(r.store.posts, postID)
	return true, nil
}

func (r *PostsRepository) SetMirrorHandle(
	ctx context.Context,
	postID string,
	handle models.MirrorHandle,
) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	post, ok := r.store.posts[postID]
	if !ok || post.Mirror != nil {
		return false, nil
	}
	mirror := handle
	post.Mirror = &mirror
	post.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *PostsRepository) UpdateCommentCount(ctx context.Context, postID string, count int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	post, ok := r.store.posts[postID]
	if !ok {
		return nil
	}
	post.CommentCount = count
	post.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *PostsRepository) CountApprovedByAuthor(ctx context.Context, authorID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, post := range r.store.posts {
		if post.AuthorID == authorID && post.Approved {
			count++
		}
	}
	return count, nil
}

func (r *PostsRepository) CountApproved(ctx context.Context) (int, error) {
	return r.countWhere(func(post *models.Post) bool { return post.Approved })
}

func (r *PostsRepository) CountPending(ctx context.Context) (int, error) {
	return r.countWhere(func(post *models.Post) bool { return !post.Approved })
}

func (r *PostsRepository) countWhere(match func(*models.Post) bool) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, post := range r.store.posts {
		if match(post) {
			count++
		}
	}
	return count, nil
}
