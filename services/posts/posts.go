package posts

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/samber/mo"

	"anonboard/clients"
	"anonboard/core"
	"anonboard/db"
	"anonboard/models"
	"anonboard/services"
	"anonboard/services/mirror"
)

// PostsService owns the post lifecycle: submit (pending approval), approve
// (publish to the channel and pin the mirror handle) or reject (terminal
// delete). Posts are never deleted outside moderation rejection.
type PostsService struct {
	postsRepo        db.PostsRepository
	usersRepo        db.UsersRepository
	commentsRepo     db.CommentsRepository
	privateMsgsRepo  db.PrivateMessagesRepository
	messenger        clients.Messenger
	notifications    services.NotificationsService
	txManager        services.TransactionManager
	publishChannelID string
	deepLinkURL      string
	adminUserID      string
}

func NewPostsService(
	postsRepo db.PostsRepository,
	usersRepo db.UsersRepository,
	commentsRepo db.CommentsRepository,
	privateMsgsRepo db.PrivateMessagesRepository,
	messenger clients.Messenger,
	notifications services.NotificationsService,
	txManager services.TransactionManager,
	publishChannelID string,
	deepLinkURL string,
	adminUserID string,
) *PostsService {
	return &PostsService{
		postsRepo:        postsRepo,
		usersRepo:        usersRepo,
		commentsRepo:     commentsRepo,
		privateMsgsRepo:  privateMsgsRepo,
		messenger:        messenger,
		notifications:    notifications,
		txManager:        txManager,
		publishChannelID: publishChannelID,
		deepLinkURL:      deepLinkURL,
		adminUserID:      adminUserID,
	}
}

// SubmitPost turns a confirmed draft into a stored post awaiting moderation.
func (s *PostsService) SubmitPost(ctx context.Context, draft *models.PostDraft) (*models.Post, error) {
	log.Printf("📋 Submitting post by user %s in category %s", draft.AuthorID, draft.Category)

	if draft.AuthorID == "" {
		return nil, fmt.Errorf("author_id cannot be empty: %w", core.ErrInvalidInput)
	}
	if draft.MediaType == models.MediaTypeText && strings.TrimSpace(draft.Content) == "" {
		return nil, fmt.Errorf("post content cannot be empty: %w", core.ErrInvalidInput)
	}
	if !models.IsValidCategory(draft.Category) {
		return nil, fmt.Errorf("unknown category %q: %w", draft.Category, core.ErrInvalidInput)
	}

	maybeAuthor, err := s.usersRepo.GetUserByID(ctx, draft.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	if maybeAuthor.IsAbsent() {
		return nil, fmt.Errorf("user %s: %w", draft.AuthorID, core.ErrUserNotFound)
	}

	post := &models.Post{
		ID:        core.NewID("p"),
		AuthorID:  draft.AuthorID,
		Content:   draft.Content,
		Category:  draft.Category,
		MediaType: draft.MediaType,
		MediaRef:  draft.MediaRef,
	}
	if err := s.postsRepo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if s.adminUserID == "" {
		log.Printf("⚠️ No moderation account configured, skipping pending-post alert for %s", post.ID)
	} else if err := s.notifications.NotifyNewPendingPost(ctx, post, s.adminUserID); err != nil {
		log.Printf("⚠️ Failed to alert moderator of pending post %s: %v", post.ID, err)
	}

	log.Printf("✅ Submitted post %s, awaiting approval", post.ID)
	return post, nil
}

func (s *PostsService) GetPostByID(ctx context.Context, id string) (mo.Option[*models.Post], error) {
	if id == "" {
		return mo.None[*models.Post](), fmt.Errorf("post_id cannot be empty: %w", core.ErrInvalidInput)
	}
	return s.postsRepo.GetPostByID(ctx, id)
}

func (s *PostsService) ListPendingPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.postsRepo.ListPendingPosts(ctx, limit)
}

// ApprovePost marks the post approved and publishes it to the shared
// channel. The returned message handle becomes the post's mirror handle,
// written exactly once; it is immutable afterwards.
func (s *PostsService) ApprovePost(ctx context.Context, postID, approverID string) (*models.Post, error) {
	log.Printf("📋 Approving post %s by moderator %s", postID, approverID)

	moderator, err := s.requireAdmin(ctx, approverID)
	if err != nil {
		return nil, err
	}

	var post *models.Post
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		maybePost, err := s.postsRepo.GetPostByID(ctx, postID)
		if err != nil {
			return fmt.Errorf("failed to get post: %w", err)
		}
		found, ok := maybePost.Get()
		if !ok {
			return fmt.Errorf("post %s: %w", postID, core.ErrPostNotFound)
		}
		if found.Approved {
			return fmt.Errorf("post %s is already approved: %w", postID, core.ErrInvalidInput)
		}

		approved, err := s.postsRepo.ApprovePost(ctx, postID, moderator.ID)
		if err != nil {
			return fmt.Errorf("failed to approve post: %w", err)
		}
		if !approved {
			return fmt.Errorf("post %s was approved concurrently: %w", postID, core.ErrConflict)
		}
		post = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Publish outside the transaction; the approval is durable either way
	// and a delivery failure leaves the post approved but unmirrored.
	content := clients.MessageContent{
		Text:      post.Content,
		MediaType: post.MediaType,
		MediaRef:  post.MediaRef,
	}
	controls := []clients.Control{mirror.CommentControl(s.deepLinkURL, post.ID, 0)}

	handle, err := s.messenger.SendChannelMessage(ctx, s.publishChannelID, content, controls)
	if err != nil {
		log.Printf("⚠️ Failed to publish post %s to channel: %v", post.ID, err)
		return nil, fmt.Errorf("failed to publish post: %w", err)
	}

	set, err := s.postsRepo.SetMirrorHandle(ctx, post.ID, models.MirrorHandle{
		Channel: handle.Channel,
		Ref:     handle.Ref,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store mirror handle: %w", err)
	}
	if !set {
		log.Printf("⚠️ Post %s already carries a mirror handle, keeping the existing one", post.ID)
	}

	maybePost, err := s.postsRepo.GetPostByID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload post: %w", err)
	}
	published, ok := maybePost.Get()
	if !ok {
		return nil, fmt.Errorf("post %s: %w", post.ID, core.ErrPostNotFound)
	}

	log.Printf("✅ Approved and published post %s", post.ID)
	return published, nil
}

// RejectPost deletes the post. Rejection is terminal; the author is notified
// on a best-effort basis.
func (s *PostsService) RejectPost(ctx context.Context, postID, moderatorID string) error {
	log.Printf("📋 Rejecting post %s by moderator %s", postID, moderatorID)

	if _, err := s.requireAdmin(ctx, moderatorID); err != nil {
		return err
	}

	maybePost, err := s.postsRepo.GetPostByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	post, ok := maybePost.Get()
	if !ok {
		return fmt.Errorf("post %s: %w", postID, core.ErrPostNotFound)
	}

	deleted, err := s.postsRepo.DeletePost(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if !deleted {
		return fmt.Errorf("post %s: %w", postID, core.ErrPostNotFound)
	}

	if err := s.notifications.NotifyPostRejected(ctx, post); err != nil {
		log.Printf("⚠️ Failed to notify author of rejected post %s: %v", postID, err)
	}

	log.Printf("✅ Rejected post %s", postID)
	return nil
}

func (s *PostsService) GetBoardStats(ctx context.Context) (*models.BoardStats, error) {
	users, err := s.usersRepo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	approved, err := s.postsRepo.CountApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count approved posts: %w", err)
	}
	pending, err := s.postsRepo.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending posts: %w", err)
	}
	comments, err := s.commentsRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	messages, err := s.privateMsgsRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count private messages: %w", err)
	}

	return &models.BoardStats{
		TotalUsers:           users,
		ApprovedPosts:        approved,
		PendingPosts:         pending,
		TotalComments:        comments,
		TotalPrivateMessages: messages,
	}, nil
}

func (s *PostsService) requireAdmin(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("moderator id cannot be empty: %w", core.ErrInvalidInput)
	}
	maybeUser, err := s.usersRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get moderator: %w", err)
	}
	user, ok := maybeUser.Get()
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, core.ErrUserNotFound)
	}
	if !user.IsAdmin {
		return nil, fmt.Errorf("user %s is not a moderator: %w", userID, core.ErrNotAuthorized)
	}
	return user, nil
}
