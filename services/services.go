package services

import (
	"context"

	"github.com/samber/mo"

	"anonboard/models"
)

// UsersService defines the interface for user and profile operations
type UsersService interface {
	GetOrCreateUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error)
	GetUserByDisplayName(ctx context.Context, displayName string) (mo.Option[*models.User], error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) error
	UpdateSex(ctx context.Context, userID, sex string) error
	SetNotificationsEnabled(ctx context.Context, userID string, enabled bool) error
	SetPrivacyPublic(ctx context.Context, userID string, public bool) error
}

// ConversationService defines the interface for the per-user pending-action
// state machine and the transient post-draft cache
type ConversationService interface {
	BeginNameChange(ctx context.Context, userID string) error
	BeginPost(ctx context.Context, userID, category string) error
	BeginComment(ctx context.Context, userID, postID string, parentCommentID *string) error
	BeginPrivateMessage(ctx context.Context, userID, targetUserID string) error

	// Consume atomically takes the user's pending action and resets the slot
	// to None. The bool is false when the slot was already None or another
	// event consumed it first.
	Consume(ctx context.Context, userID string) (models.PendingAction, bool, error)

	PutDraft(userID string, draft *models.PostDraft)
	// TakeDraft removes and returns the user's post draft. Returns
	// core.ErrDraftExpired when the draft outlived its confirmation window.
	TakeDraft(userID string) (*models.PostDraft, error)
	CancelDraft(userID string) bool
}

// ThreadsService defines the interface for comment-tree mutations and views
type ThreadsService interface {
	AddComment(
		ctx context.Context,
		postID string,
		parentCommentID *string,
		authorID string,
		content models.CommentContent,
	) (*models.Comment, error)
	ToggleReaction(
		ctx context.Context,
		commentID, userID string,
		reactionType models.ReactionType,
	) (*models.ReactionCounts, error)
	GetComment(ctx context.Context, commentID string) (mo.Option[*models.Comment], error)

	// CountComments is the recursive total for a whole post, always computed
	// from storage.
	CountComments(ctx context.Context, postID string) (int, error)
	CountDescendants(ctx context.Context, postID, commentID string) (int, error)

	ListTopLevel(ctx context.Context, postID string, page, pageSize int) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentCommentID string, page, pageSize int) ([]*models.Comment, error)
}

// MirrorService defines the interface for keeping the published channel
// message's comment counter in sync with the thread
type MirrorService interface {
	// Refresh recomputes the post's comment total and pushes it to the
	// mirror control. No-op when the post has no mirror handle yet.
	Refresh(ctx context.Context, postID string) error
}

// RatingService defines the interface for contribution scores and ranks
type RatingService interface {
	Score(ctx context.Context, userID string) (int, error)
	// Rank is 1-based over all users ordered by score descending, ties
	// broken by user ID ascending. None when the user does not exist.
	Rank(ctx context.Context, userID string) (mo.Option[int], error)
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// PostsService defines the interface for the post lifecycle
type PostsService interface {
	SubmitPost(ctx context.Context, draft *models.PostDraft) (*models.Post, error)
	GetPostByID(ctx context.Context, id string) (mo.Option[*models.Post], error)
	ListPendingPosts(ctx context.Context, limit int) ([]*models.Post, error)
	ApprovePost(ctx context.Context, postID, approverID string) (*models.Post, error)
	RejectPost(ctx context.Context, postID, moderatorID string) error
	GetBoardStats(ctx context.Context) (*models.BoardStats, error)
}

// FollowsService defines the interface for follow and block pairs
type FollowsService interface {
	Follow(ctx context.Context, followerID, followedID string) error
	Unfollow(ctx context.Context, followerID, followedID string) error
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	Block(ctx context.Context, blockerID, blockedID string) error
	IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
}

// PrivateMessagesService defines the interface for direct user-to-user mail
type PrivateMessagesService interface {
	SendMessage(ctx context.Context, senderID, receiverID, content string) (*models.PrivateMessage, error)
	// ListInbox returns the receiver's messages newest first and marks the
	// inbox read.
	ListInbox(ctx context.Context, receiverID string, page, pageSize int) ([]*models.PrivateMessage, error)
	CountUnread(ctx context.Context, receiverID string) (int, error)
}

// NotificationsService decides whether a user should be notified about an
// event and delivers the notification when the answer is yes
type NotificationsService interface {
	ShouldNotify(ctx context.Context, targetUserID, actorUserID string) (bool, error)
	NotifyReply(ctx context.Context, parent *models.Comment, reply *models.Comment) error
	NotifyPrivateMessage(ctx context.Context, message *models.PrivateMessage) error
	NotifyPostRejected(ctx context.Context, post *models.Post) error
	NotifyNewPendingPost(ctx context.Context, post *models.Post, adminUserID string) error
}

// TransactionManager handles database transactions via context
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
