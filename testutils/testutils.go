package testutils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"anonboard/core"
	"anonboard/db"
	"anonboard/models"
)

// CreateTestUser creates a test user with a unique ID to avoid constraint violations
func CreateTestUser(t *testing.T, usersRepo db.UsersRepository) *models.User {
	t.Helper()

	testUser := &models.User{
		ID:                   "u-" + uuid.New().String(),
		DisplayName:          "user-" + uuid.New().String()[:8],
		Sex:                  models.DefaultSexTag,
		NotificationsEnabled: true,
		PrivacyPublic:        true,
		Pending:              models.NoPendingAction(),
	}
	err := usersRepo.CreateUser(context.Background(), testUser)
	require.NoError(t, err, "Failed to create test user")
	return testUser
}

// CreateTestAdmin creates a test user carrying the moderation flag
func CreateTestAdmin(t *testing.T, usersRepo db.UsersRepository) *models.User {
	t.Helper()

	admin := &models.User{
		ID:                   "u-" + uuid.New().String(),
		DisplayName:          "admin-" + uuid.New().String()[:8],
		Sex:                  models.DefaultSexTag,
		NotificationsEnabled: true,
		PrivacyPublic:        true,
		IsAdmin:              true,
		Pending:              models.NoPendingAction(),
	}
	err := usersRepo.CreateUser(context.Background(), admin)
	require.NoError(t, err, "Failed to create test admin")
	return admin
}

// CreateTestPost creates an unapproved post by the given author
func CreateTestPost(t *testing.T, postsRepo db.PostsRepository, authorID string) *models.Post {
	t.Helper()

	post := &models.Post{
		ID:        core.NewID("p"),
		AuthorID:  authorID,
		Content:   "test post " + uuid.New().String()[:8],
		Category:  models.Categories[0].Code,
		MediaType: models.MediaTypeText,
	}
	err := postsRepo.CreatePost(context.Background(), post)
	require.NoError(t, err, "Failed to create test post")
	return post
}

// CreateApprovedPost creates a post that is already approved and mirrored,
// ready for comments
func CreateApprovedPost(
	t *testing.T,
	postsRepo db.PostsRepository,
	authorID, approverID string,
) *models.Post {
	t.Helper()
	ctx := context.Background()

	post := CreateTestPost(t, postsRepo, authorID)

	approved, err := postsRepo.ApprovePost(ctx, post.ID, approverID)
	require.NoError(t, err, "Failed to approve test post")
	require.True(t, approved)

	set, err := postsRepo.SetMirrorHandle(ctx, post.ID, models.MirrorHandle{
		Channel: "test-channel",
		Ref:     "ref-" + uuid.New().String()[:8],
	})
	require.NoError(t, err, "Failed to set test mirror handle")
	require.True(t, set)

	maybePost, err := postsRepo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	return maybePost.MustGet()
}

// CreateTestComment attaches a comment to the given post and parent
func CreateTestComment(
	t *testing.T,
	commentsRepo db.CommentsRepository,
	postID string,
	parentCommentID *string,
	authorID string,
) *models.Comment {
	t.Helper()

	comment := &models.Comment{
		ID:              core.NewID("c"),
		PostID:          postID,
		ParentCommentID: parentCommentID,
		AuthorID:        authorID,
		Content:         "test comment " + uuid.New().String()[:8],
		MediaType:       models.MediaTypeText,
	}
	err := commentsRepo.CreateComment(context.Background(), comment)
	require.NoError(t, err, "Failed to create test comment")
	return comment
}
