package mirror

import (
	"context"
	"fmt"
	"log"

	"anonboard/clients"
	"anonboard/core"
	"anonboard/db"
	"anonboard/services"
)

// MirrorService keeps the comment-count control on the published channel
// message consistent with the live thread. Refresh is idempotent: it always
// pushes the current recomputed total, so concurrent refreshes for the same
// post are safe regardless of ordering - the last writer's value is correct.
type MirrorService struct {
	postsRepo   db.PostsRepository
	threads     services.ThreadsService
	messenger   clients.Messenger
	deepLinkURL string
}

func NewMirrorService(
	postsRepo db.PostsRepository,
	threads services.ThreadsService,
	messenger clients.Messenger,
	deepLinkURL string,
) *MirrorService {
	return &MirrorService{
		postsRepo:   postsRepo,
		threads:     threads,
		messenger:   messenger,
		deepLinkURL: deepLinkURL,
	}
}

// CommentControl builds the control shown under a published post. The label
// carries the count; the URL deep-links into the post's thread.
func CommentControl(deepLinkURL, postID string, count int) clients.Control {
	return clients.Control{
		Label: fmt.Sprintf("💬 Comments (%d)", count),
		URL:   fmt.Sprintf("%s?start=post_%s", deepLinkURL, postID),
	}
}

// Refresh recomputes the post's total comment count, persists it to the
// denormalized column and pushes it to the mirror control. An "unchanged"
// response from the messenger is success: two rapid mutations can
// legitimately produce the same count. Any other messenger failure is
// wrapped in core.ErrMirrorUnavailable; the thread data is already durably
// committed, so callers log it and move on instead of rolling back.
func (s *MirrorService) Refresh(ctx context.Context, postID string) error {
	log.Printf("📋 Refreshing mirror for post %s", postID)

	maybePost, err := s.postsRepo.GetPostByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	post, ok := maybePost.Get()
	if !ok {
		return fmt.Errorf("post %s: %w", postID, core.ErrPostNotFound)
	}

	if post.Mirror == nil {
		log.Printf("📋 Post %s has no mirror handle yet, nothing to refresh", postID)
		return nil
	}

	count, err := s.threads.CountComments(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to count comments: %w", err)
	}

	// Overwrite with the recomputed figure. Never incremented in place, so
	// the column cannot drift from the tree.
	if err := s.postsRepo.UpdateCommentCount(ctx, postID, count); err != nil {
		return fmt.Errorf("failed to update comment count: %w", err)
	}

	handle := clients.MessageHandle{Channel: post.Mirror.Channel, Ref: post.Mirror.Ref}
	controls := []clients.Control{CommentControl(s.deepLinkURL, postID, count)}

	result, err := s.messenger.UpdateControls(ctx, handle, controls)
	if err != nil {
		return fmt.Errorf("failed to push mirror control for post %s: %w: %v",
			postID, core.ErrMirrorUnavailable, err)
	}
	if result == clients.ControlUnchanged {
		log.Printf("📋 Mirror for post %s already showed %d comments", postID, count)
		return nil
	}

	log.Printf("✅ Mirror for post %s updated to %d comments", postID, count)
	return nil
}
