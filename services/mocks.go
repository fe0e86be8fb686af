package services

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"anonboard/models"
)

// MockUsersService is a mock implementation of UsersService
type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) GetOrCreateUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersService) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

func (m *MockUsersService) GetUserByDisplayName(
	ctx context.Context,
	displayName string,
) (mo.Option[*models.User], error) {
	args := m.Called(ctx, displayName)
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

func (m *MockUsersService) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	args := m.Called(ctx, userID, displayName)
	return args.Error(0)
}

func (m *MockUsersService) UpdateSex(ctx context.Context, userID, sex string) error {
	args := m.Called(ctx, userID, sex)
	return args.Error(0)
}

func (m *MockUsersService) SetNotificationsEnabled(ctx context.Context, userID string, enabled bool) error {
	args := m.Called(ctx, userID, enabled)
	return args.Error(0)
}

func (m *MockUsersService) SetPrivacyPublic(ctx context.Context, userID string, public bool) error {
	args := m.Called(ctx, userID, public)
	return args.Error(0)
}

// MockConversationService is a mock implementation of ConversationService
type MockConversationService struct {
	mock.Mock
}

func (m *MockConversationService) BeginNameChange(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockConversationService) BeginPost(ctx context.Context, userID, category string) error {
	args := m.Called(ctx, userID, category)
	return args.Error(0)
}

func (m *MockConversationService) BeginComment(
	ctx context.Context,
	userID, postID string,
	parentCommentID *string,
) error {
	args := m.Called(ctx, userID, postID, parentCommentID)
	return args.Error(0)
}

func (m *MockConversationService) BeginPrivateMessage(ctx context.Context, userID, targetUserID string) error {
	args := m.Called(ctx, userID, targetUserID)
	return args.Error(0)
}

func (m *MockConversationService) Consume(
	ctx context.Context,
	userID string,
) (models.PendingAction, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.PendingAction), args.Bool(1), args.Error(2)
}

func (m *MockConversationService) PutDraft(userID string, draft *models.PostDraft) {
	m.Called(userID, draft)
}

func (m *MockConversationService) TakeDraft(userID string) (*models.PostDraft, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostDraft), args.Error(1)
}

func (m *MockConversationService) CancelDraft(userID string) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

// MockThreadsService is a mock implementation of ThreadsService
type MockThreadsService struct {
	mock.Mock
}

func (m *MockThreadsService) AddComment(
	ctx context.Context,
	postID string,
	parentCommentID *string,
	authorID string,
	content models.CommentContent,
) (*models.Comment, error) {
	args := m.Called(ctx, postID, parentCommentID, authorID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockThreadsService) ToggleReaction(
	ctx context.Context,
	commentID, userID string,
	reactionType models.ReactionType,
) (*models.ReactionCounts, error) {
	args := m.Called(ctx, commentID, userID, reactionType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReactionCounts), args.Error(1)
}

func (m *MockThreadsService) GetComment(
	ctx context.Context,
	commentID string,
) (mo.Option[*models.Comment], error) {
	args := m.Called(ctx, commentID)
	return args.Get(0).(mo.Option[*models.Comment]), args.Error(1)
}

func (m *MockThreadsService) CountComments(ctx context.Context, postID string) (int, error) {
	args := m.Called(ctx, postID)
	return args.Int(0), args.Error(1)
}

func (m *MockThreadsService) CountDescendants(ctx context.Context, postID, commentID string) (int, error) {
	args := m.Called(ctx, postID, commentID)
	return args.Int(0), args.Error(1)
}

func (m *MockThreadsService) ListTopLevel(
	ctx context.Context,
	postID string,
	page, pageSize int,
) ([]*models.Comment, error) {
	args := m.Called(ctx, postID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockThreadsService) ListReplies(
	ctx context.Context,
	parentCommentID string,
	page, pageSize int,
) ([]*models.Comment, error) {
	args := m.Called(ctx, parentCommentID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

// MockMirrorService is a mock implementation of MirrorService
type MockMirrorService struct {
	mock.Mock
}

func (m *MockMirrorService) Refresh(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// MockRatingService is a mock implementation of RatingService
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Score(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockRatingService) Rank(ctx context.Context, userID string) (mo.Option[int], error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(mo.Option[int]), args.Error(1)
}

func (m *MockRatingService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

// MockPostsService is a mock implementation of PostsService
type MockPostsService struct {
	mock.Mock
}

func (m *MockPostsService) SubmitPost(ctx context.Context, draft *models.PostDraft) (*models.Post, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostsService) GetPostByID(ctx context.Context, id string) (mo.Option[*models.Post], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Post]), args.Error(1)
}

func (m *MockPostsService) ListPendingPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostsService) ApprovePost(ctx context.Context, postID, approverID string) (*models.Post, error) {
	args := m.Called(ctx, postID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostsService) RejectPost(ctx context.Context, postID, moderatorID string) error {
	args := m.Called(ctx, postID, moderatorID)
	return args.Error(0)
}

func (m *MockPostsService) GetBoardStats(ctx context.Context) (*models.BoardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BoardStats), args.Error(1)
}

// MockFollowsService is a mock implementation of FollowsService
type MockFollowsService struct {
	mock.Mock
}

func (m *MockFollowsService) Follow(ctx context.Context, followerID, followedID string) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *MockFollowsService) Unfollow(ctx context.Context, followerID, followedID string) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *MockFollowsService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowsService) CountFollowers(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockFollowsService) Block(ctx context.Context, blockerID, blockedID string) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

func (m *MockFollowsService) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Bool(0), args.Error(1)
}

// MockPrivateMessagesService is a mock implementation of PrivateMessagesService
type MockPrivateMessagesService struct {
	mock.Mock
}

func (m *MockPrivateMessagesService) SendMessage(
	ctx context.Context,
	senderID, receiverID, content string,
) (*models.PrivateMessage, error) {
	args := m.Called(ctx, senderID, receiverID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PrivateMessage), args.Error(1)
}

func (m *MockPrivateMessagesService) ListInbox(
	ctx context.Context,
	receiverID string,
	page, pageSize int,
) ([]*models.PrivateMessage, error) {
	args := m.Called(ctx, receiverID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PrivateMessage), args.Error(1)
}

func (m *MockPrivateMessagesService) CountUnread(ctx context.Context, receiverID string) (int, error) {
	args := m.Called(ctx, receiverID)
	return args.Int(0), args.Error(1)
}

// MockNotificationsService is a mock implementation of NotificationsService
type MockNotificationsService struct {
	mock.Mock
}

func (m *MockNotificationsService) ShouldNotify(
	ctx context.Context,
	targetUserID, actorUserID string,
) (bool, error) {
	args := m.Called(ctx, targetUserID, actorUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationsService) NotifyReply(ctx context.Context, parent, reply *models.Comment) error {
	args := m.Called(ctx, parent, reply)
	return args.Error(0)
}

func (m *MockNotificationsService) NotifyPrivateMessage(
	ctx context.Context,
	message *models.PrivateMessage,
) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockNotificationsService) NotifyPostRejected(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockNotificationsService) NotifyNewPendingPost(
	ctx context.Context,
	post *models.Post,
	adminUserID string,
) error {
	args := m.Called(ctx, post, adminUserID)
	return args.Error(0)
}
