package db

import (
	"context"

	"github.com/samber/mo"

	"anonboard/models"
)

// Repository contracts consumed by the service layer. The Postgres adapters
// in this package and the map-backed adapters in db/memory both satisfy
// them; the entity shapes in models/ are the persistence contract.

type UsersRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error)
	GetUserByDisplayName(ctx context.Context, displayName string) (mo.Option[*models.User], error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) error
	UpdateSex(ctx context.Context, userID, sex string) error
	UpdateNotificationsEnabled(ctx context.Context, userID string, enabled bool) error
	UpdatePrivacyPublic(ctx context.Context, userID string, public bool) error

	// SetPendingAction unconditionally overwrites the user's pending slot
	// (last action wins).
	SetPendingAction(ctx context.Context, userID string, action models.PendingAction) error

	// CompareAndSwapPendingAction replaces the pending slot only when its
	// current kind matches expected. Returns false when another event got
	// there first.
	CompareAndSwapPendingAction(
		ctx context.Context,
		userID string,
		expected models.PendingKind,
		next models.PendingAction,
	) (bool, error)
}

type PostsRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (mo.Option[*models.Post], error)
	ListPendingPosts(ctx context.Context, limit int) ([]*models.Post, error)
	ApprovePost(ctx context.Context, postID, approverID string) (bool, error)
	DeletePost(ctx context.Context, postID string) (bool, error)

	// SetMirrorHandle stores the published channel message reference. It
	// only succeeds while the handle is still unset - the handle is
	// immutable once written.
	SetMirrorHandle(ctx context.Context, postID string, handle models.MirrorHandle) (bool, error)

	// UpdateCommentCount overwrites the denormalized total with a freshly
	// recomputed value. Never incremented in place.
	UpdateCommentCount(ctx context.Context, postID string, count int) error

	CountApprovedByAuthor(ctx context.Context, authorID string) (int, error)
	CountApproved(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
}

type CommentsRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (mo.Option[*models.Comment], error)

	// ListChildIDs returns the IDs of the direct children of parentID
	// within a post; nil parentID means the post's top-level comments.
	ListChildIDs(ctx context.Context, postID string, parentID *string) ([]string, error)

	// ListTopLevelPage returns top-level comments newest first.
	ListTopLevelPage(ctx context.Context, postID string, limit, offset int) ([]*models.Comment, error)

	// ListRepliesPage returns the direct replies of a comment oldest first,
	// preserving conversational order within a thread.
	ListRepliesPage(ctx context.Context, parentID string, limit, offset int) ([]*models.Comment, error)

	CountByAuthor(ctx context.Context, authorID string) (int, error)
	CountByPost(ctx context.Context, postID string) (int, error)
	CountAll(ctx context.Context) (int, error)
}

type ReactionsRepository interface {
	GetReaction(ctx context.Context, commentID, userID string) (mo.Option[*models.Reaction], error)

	// DeleteReaction removes the user's reaction row for the comment,
	// reporting whether one existed.
	DeleteReaction(ctx context.Context, commentID, userID string) (bool, error)

	// InsertReaction adds a reaction row. A concurrent duplicate insert
	// trips the unique (comment_id, user_id) constraint and surfaces as
	// core.ErrConflict.
	InsertReaction(ctx context.Context, reaction *models.Reaction) error

	GetReactionCounts(ctx context.Context, commentID string) (*models.ReactionCounts, error)
}

type SocialRepository interface {
	CreateFollow(ctx context.Context, followerID, followedID string) error
	DeleteFollow(ctx context.Context, followerID, followedID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int, error)

	CreateBlock(ctx context.Context, blockerID, blockedID string) error
	IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
}

type PrivateMessagesRepository interface {
	CreateMessage(ctx context.Context, message *models.PrivateMessage) error
	ListInboxPage(ctx context.Context, receiverID string, limit, offset int) ([]*models.PrivateMessage, error)
	CountInbox(ctx context.Context, receiverID string) (int, error)
	CountUnread(ctx context.Context, receiverID string) (int, error)
	MarkInboxRead(ctx context.Context, receiverID string) error
	CountAll(ctx context.Context) (int, error)
}
